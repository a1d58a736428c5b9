/*
 * initparams.go, part of molgnn.
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
	"github.com/rmera/molgnn/chemjson"
	"github.com/rmera/molgnn/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitParamsCommand(root *rootOptions) *cobra.Command {
	var (
		output string
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "init-params",
		Short: "Write a checkpoint with randomly initialized parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, P, err := root.setup()
			if err != nil {
				return err
			}
			P.Model.InitParameters(seed)
			params := P.Model.Parameters()
			if err := chemjson.SaveParameters(output, params); err != nil {
				return err
			}
			logging.L().Info("parameters written",
				zap.String("file", output),
				zap.String("compression", chemjson.CompressionFor(output)),
				zap.Int("parameters", len(params)),
				zap.Int64("seed", seed))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "params.json.zst", "checkpoint file to write")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}
