/*
 * rings.go, part of molgnn.
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

package molgraph

import (
	chem "github.com/rmera/molgnn"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Undirected returns a gonum undirected graph for the molecule. Node IDs are
// the atom indexes.
func Undirected(mol chem.Molecule) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < mol.Len(); i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < mol.NBonds(); i++ {
		a, b := mol.Bond(i).Ends()
		g.SetEdge(g.NewEdge(simple.Node(a), simple.Node(b)))
	}
	return g
}

// RingBonds returns, for each bond of mol, whether it is part of a ring.
// A bond is in a ring if its atoms are still connected once the bond is removed.
func RingBonds(mol chem.Molecule) []bool {
	g := Undirected(mol)
	ret := make([]bool, mol.NBonds())
	for i := range ret {
		a, b := mol.Bond(i).Ends()
		e := g.Edge(int64(a), int64(b))
		g.RemoveEdge(int64(a), int64(b))
		ret[i] = topo.PathExistsIn(g, simple.Node(a), simple.Node(b))
		g.SetEdge(e)
	}
	return ret
}

// RingAtoms returns, for each atom of mol, whether it is part of a ring.
func RingAtoms(mol chem.Molecule) []bool {
	ret := make([]bool, mol.Len())
	for i, inring := range RingBonds(mol) {
		if !inring {
			continue
		}
		a, b := mol.Bond(i).Ends()
		ret[a] = true
		ret[b] = true
	}
	return ret
}
