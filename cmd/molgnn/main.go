/*
 * main.go, part of molgnn.
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

// molgnn runs graph neural network models that predict per-atom and
// per-bond properties (partial charges, bond orders...) of molecules.
//
// Usage:
//
//	molgnn predict -c model.yaml -p params.json.zst -i mols.json [-o out.json] [--plot dir]
//	molgnn init-params -c model.yaml -o params.json.gz --seed 1
//	molgnn featurize -c model.yaml -i mols.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "molgnn:", err)
		os.Exit(1)
	}
}
