/*
 * root.go, part of molgnn.
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
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rmera/molgnn/config"
	"github.com/rmera/molgnn/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "molgnn",
		Short:         "Graph neural network predictions of atom and bond properties",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "model.yaml", "model description file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error). Overrides the model description")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format (console, json). Overrides the model description")
	cmd.AddCommand(
		newPredictCommand(opts),
		newInitParamsCommand(opts),
		newFeaturizeCommand(opts),
	)
	return cmd
}

// setup loads the model description, starts the logger and builds the pipeline.
func (o *rootOptions) setup() (*config.Config, *config.Pipeline, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	level, format := cfg.Log.Level, cfg.Log.Format
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.logFormat != "" {
		format = o.logFormat
	}
	logger, err := logging.New(level, format)
	if err != nil {
		return nil, nil, errors.Wrap(err, "can't start the logger")
	}
	logging.SetLogger(logger)
	P, err := config.Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	logging.L().Info("model ready",
		zap.String("config", o.configPath),
		zap.String("architecture", cfg.Convolution.Architecture),
		zap.Strings("readouts", P.Model.ReadoutNames()))
	return cfg, P, nil
}

// openInput opens name for reading, or returns stdin for "-" or "".
func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "can't open input")
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// createOutput creates name for writing, or returns stdout for "-" or "".
func createOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrap(err, "can't create output")
	}
	return f, nil
}
