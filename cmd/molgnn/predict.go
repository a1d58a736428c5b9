/*
 * predict.go, part of molgnn.
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"os"

	"github.com/pkg/errors"
	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/chemjson"
	"github.com/rmera/molgnn/chemplot"
	"github.com/rmera/molgnn/histo"
	"github.com/rmera/molgnn/internal/logging"
	"github.com/rmera/molgnn/tensor"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPredictCommand(root *rootOptions) *cobra.Command {
	var (
		params    string
		input     string
		output    string
		plotDir   string
		batchSize int
		workers   int
		progress  bool
		summary   int
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the readouts of a model for a set of molecules",
		Long: "predict reads molecules in JSON, runs the model described with -c using the\n" +
			"parameters in -p, and writes one JSON prediction per molecule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, P, err := root.setup()
			if err != nil {
				return err
			}
			values, err := chemjson.LoadParameters(params)
			if err != nil {
				return err
			}
			if err := P.Model.LoadParameters(values); err != nil {
				return err
			}
			in, err := openInput(input)
			if err != nil {
				return err
			}
			tops, err := chemjson.DecodeMolecules(in)
			in.Close()
			if err != nil {
				return err
			}
			logging.L().Info("molecules read", zap.Int("molecules", len(tops)))
			mols := make([]chem.Molecule, len(tops))
			for i, t := range tops {
				mols[i] = t
			}
			var done func(int)
			if progress {
				bar := progressbar.NewOptions(len(mols),
					progressbar.OptionSetDescription("predicting"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetItsString("molecules"),
					progressbar.OptionShowIts(),
					progressbar.OptionSetTheme(progressbar.ThemeASCII))
				done = func(n int) { bar.Add(n) }
				defer bar.Finish()
			}
			preds, err := P.PredictBatches(cmd.Context(), mols, batchSize, workers, done)
			if err != nil {
				return err
			}
			out, err := createOutput(output)
			if err != nil {
				return err
			}
			for i, t := range tops {
				if err := chemjson.EncodePredictions(out, chemjson.NewPrediction(t.Name, preds[i])); err != nil {
					out.Close()
					return err
				}
			}
			if err := out.Close(); err != nil {
				return errors.Wrap(err, "can't close output")
			}
			if summary > 0 {
				if err := logSummaries(P.Model.ReadoutNames(), preds, summary); err != nil {
					return err
				}
			}
			if plotDir == "" {
				return nil
			}
			if err := os.MkdirAll(plotDir, 0o755); err != nil {
				return errors.Wrap(err, "can't create plot directory")
			}
			for i, t := range tops {
				for _, name := range P.Model.ReadoutNames() {
					kind := P.Model.Readouts[name].Pooling.Kind()
					file, err := chemplot.PlotReadout(t, name, kind, preds[i][name], plotDir)
					if err != nil {
						return err
					}
					if file != "" {
						logging.L().Debug("plot saved", zap.String("file", file))
					}
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&params, "params", "p", "", "parameter checkpoint (.json, .json.zst or .json.gz)")
	f.StringVarP(&input, "input", "i", "-", "molecules in JSON (- for stdin)")
	f.StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	f.StringVar(&plotDir, "plot", "", "if given, save a bar chart of each prediction in this directory")
	f.IntVar(&batchSize, "batch-size", 64, "molecules per batch")
	f.IntVar(&workers, "workers", 1, "batches predicted at the same time")
	f.BoolVar(&progress, "progress", false, "show a progress bar")
	f.IntVar(&summary, "summary", 0, "if larger than 0, log statistics and a histogram with this many bins for each readout")
	cmd.MarkFlagRequired("params")
	return cmd
}

// logSummaries logs the distribution of each readout column over all the molecules.
func logSummaries(readouts []string, preds []map[string]*tensor.Matrix, bins int) error {
	for _, name := range readouts {
		sums, err := histo.Summarize(name, preds, bins)
		if err != nil {
			return err
		}
		for _, s := range sums {
			fields := []zap.Field{
				zap.String("readout", s.Readout),
				zap.Int("column", s.Column),
				zap.Int("n", s.N),
			}
			if s.Histogram != nil {
				fields = append(fields,
					zap.Float64("mean", s.Mean),
					zap.Float64("std_dev", s.StdDev),
					zap.Float64("min", s.Min),
					zap.Float64("max", s.Max),
					zap.Float64s("dividers", s.Histogram.Dividers()),
					zap.Float64s("counts", s.Histogram.Counts()))
			}
			logging.L().Info("readout summary", fields...)
		}
	}
	return nil
}
