/*
 * batch.go, part of molgnn.
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
	"github.com/rmera/molgnn/tensor"
)

// Batch returns the disjoint union of the given graphs, which can themselves be batches.
// Node and edge indexes of each graph are shifted by the number of nodes and edges of
// the graphs before it, so no edge crosses from one molecule to another.
// All graphs must have atom features of the same width, and either all or none
// of them must have bond features, also of the same width.
func Batch(graphs ...*Graph) (*Graph, error) {
	const funcname = "molgraph.Batch"
	if len(graphs) == 0 {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "no graphs to batch")
	}
	_, acols := graphs[0].atomFeatures.Dims()
	withBonds := graphs[0].bondFeatures != nil
	bcols := 0
	if withBonds {
		_, bcols = graphs[0].bondFeatures.Dims()
	}
	afeats := make([]*tensor.Matrix, 0, len(graphs))
	bfeats := make([]*tensor.Matrix, 0, len(graphs))
	B := new(Graph)
	for k, g := range graphs {
		if _, c := g.atomFeatures.Dims(); c != acols {
			return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "graph %d has %d atom feature columns, expected %d", k, c, acols)
		}
		if (g.bondFeatures != nil) != withBonds {
			return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "graph %d: either all or none of the graphs must have bond features", k)
		}
		if withBonds {
			if _, c := g.bondFeatures.Dims(); c != bcols {
				return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "graph %d has %d bond feature columns, expected %d", k, c, bcols)
			}
			bfeats = append(bfeats, g.bondFeatures)
		}
		afeats = append(afeats, g.atomFeatures)
		for i := range g.src {
			B.src = append(B.src, g.src[i]+B.nAtoms)
			B.dst = append(B.dst, g.dst[i]+B.nAtoms)
		}
		for _, s := range g.spans {
			s.AtomOffset += B.nAtoms
			s.BondOffset += len(B.src) - len(g.src)
			B.spans = append(B.spans, s)
		}
		B.nAtoms += g.nAtoms
	}
	B.atomFeatures = tensor.VConcat(afeats...)
	if withBonds {
		B.bondFeatures = tensor.VConcat(bfeats...)
	}
	return B, nil
}

// SplitAtomRows returns, for each molecule in the graph, a view of the rows of
// m that belong to its atoms. m must have one row per atom of the graph.
func (G *Graph) SplitAtomRows(m *tensor.Matrix) ([]*tensor.Matrix, error) {
	if m.NVecs() != G.nAtoms {
		return nil, chem.NewError(chem.ErrShapeMismatch, "SplitAtomRows", "%d rows for %d atoms", m.NVecs(), G.nAtoms)
	}
	ret := make([]*tensor.Matrix, len(G.spans))
	for i, s := range G.spans {
		ret[i] = m.View(s.AtomOffset, s.AtomOffset+s.NAtoms)
	}
	return ret, nil
}

// SplitBondRows returns, for each molecule in the graph, a view of the rows of
// m that belong to its bonds. m must have one row per bond of the graph.
func (G *Graph) SplitBondRows(m *tensor.Matrix) ([]*tensor.Matrix, error) {
	if m.NVecs() != len(G.src) {
		return nil, chem.NewError(chem.ErrShapeMismatch, "SplitBondRows", "%d rows for %d bonds", m.NVecs(), len(G.src))
	}
	ret := make([]*tensor.Matrix, len(G.spans))
	for i, s := range G.spans {
		ret[i] = m.View(s.BondOffset, s.BondOffset+s.NBonds)
	}
	return ret, nil
}
