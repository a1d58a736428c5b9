/*
 * featurize.go, part of molgnn.
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
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rmera/molgnn/chemjson"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/tensor"
	"github.com/spf13/cobra"
)

type featurized struct {
	Name         string      `json:"name,omitempty"`
	AtomFeatures [][]float64 `json:"atom_features"`
	BondFeatures [][]float64 `json:"bond_features,omitempty"`
	Forward      [][2]int    `json:"forward_edges"`
}

func rows(m *tensor.Matrix) [][]float64 {
	ret := make([][]float64, m.NVecs())
	for i := range ret {
		ret[i] = append([]float64{}, m.Vec(i)...)
	}
	return ret
}

func newFeaturizeCommand(root *rootOptions) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "featurize",
		Short: "Write the atom and bond features the model would see for each molecule",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, P, err := root.setup()
			if err != nil {
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
			out, err := createOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			enc := json.NewEncoder(out)
			for _, t := range tops {
				g, err := P.Featurize(t)
				if err != nil {
					return err
				}
				f := featurized{Name: t.Name, AtomFeatures: rows(g.AtomFeatures())}
				if bf := g.BondFeatures(); bf != nil {
					f.BondFeatures = rows(bf)
				}
				src, dst := g.Edges(molgraph.Forward)
				f.Forward = make([][2]int, len(src))
				for i := range src {
					f.Forward[i] = [2]int{src[i], dst[i]}
				}
				if err := enc.Encode(f); err != nil {
					return errors.Wrap(err, "featurize")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "molecules in JSON (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	return cmd
}
