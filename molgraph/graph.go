/*
 * graph.go, part of molgnn.
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

// Package molgraph is the molecule graph adapter of molgnn. A Graph is a
// heterogeneous directed graph: atoms are nodes, and each bond appears twice,
// once as a "forward" edge in the direction it was recorded and once as
// its "reverse". Graphs for several molecules can be batched into one.
//
// Message passing doesn't care about the edge direction, so it runs on the
// Homograph view, which is derived on demand and never stored in the Graph.
// Graphs are not modified after construction.
package molgraph

import (
	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/tensor"
)

// EdgeType distinguishes the 2 copies of each bond in a Graph.
type EdgeType int

const (
	// Forward edges go from the first to the second atom of a bond, as recorded.
	Forward EdgeType = iota
	// Reverse edges go from the second to the first atom of a bond.
	Reverse
)

func (e EdgeType) String() string {
	switch e {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Span locates one molecule inside a (possibly batched) graph.
type Span struct {
	Name       string
	AtomOffset int
	NAtoms     int
	BondOffset int
	NBonds     int
	Charge     int //total charge of the molecule
}

// Graph is a molecule, or a batch of molecules, ready to go through a model.
type Graph struct {
	nAtoms       int
	src, dst     []int //the forward edges. Reverse edges are dst->src
	atomFeatures *tensor.Matrix
	bondFeatures *tensor.Matrix //can be nil
	spans        []Span
}

// New builds the graph for mol. atomFeatures must have one row per atom. bondFeatures
// is optional (can be nil), but if given it must have one row per bond. An error
// with Kind ErrShapeMismatch is returned otherwise.
func New(mol chem.Molecule, atomFeatures, bondFeatures *tensor.Matrix) (*Graph, error) {
	const funcname = "molgraph.New"
	if atomFeatures == nil {
		return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "no atom features given")
	}
	if r, _ := atomFeatures.Dims(); r != mol.Len() {
		return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "%d rows of atom features for %d atoms", r, mol.Len())
	}
	if bondFeatures != nil {
		if r, _ := bondFeatures.Dims(); r != mol.NBonds() {
			return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "%d rows of bond features for %d bonds", r, mol.NBonds())
		}
	}
	G := &Graph{
		nAtoms:       mol.Len(),
		src:          make([]int, mol.NBonds()),
		dst:          make([]int, mol.NBonds()),
		atomFeatures: atomFeatures,
		bondFeatures: bondFeatures,
	}
	for i := 0; i < mol.NBonds(); i++ {
		G.src[i], G.dst[i] = mol.Bond(i).Ends()
		if G.src[i] < 0 || G.dst[i] < 0 || G.src[i] >= G.nAtoms || G.dst[i] >= G.nAtoms {
			return nil, chem.NewError(chem.ErrTopology, funcname, "bond %d joins atoms %d-%d, out of range", i, G.src[i], G.dst[i])
		}
	}
	var name string
	if t, ok := mol.(*chem.Topology); ok {
		name = t.Name
	}
	G.spans = []Span{{Name: name, NAtoms: G.nAtoms, NBonds: len(G.src), Charge: mol.Charge()}}
	return G, nil
}

// NAtoms returns the number of nodes in the graph.
func (G *Graph) NAtoms() int { return G.nAtoms }

// NBonds returns the number of bonds, i.e. the number of edges of each type.
func (G *Graph) NBonds() int { return len(G.src) }

// AtomFeatures returns the initial per-atom features. They should not be modified.
func (G *Graph) AtomFeatures() *tensor.Matrix { return G.atomFeatures }

// BondFeatures returns the per-bond features, or nil if the graph has none.
func (G *Graph) BondFeatures() *tensor.Matrix { return G.bondFeatures }

// Edges returns copies of the source and destination node indexes of the
// edges of the given type. Edge i of either type corresponds to bond i.
func (G *Graph) Edges(t EdgeType) (src, dst []int) {
	src = append([]int(nil), G.src...)
	dst = append([]int(nil), G.dst...)
	if t == Reverse {
		return dst, src
	}
	return src, dst
}

// NMolecules returns the number of molecules in the graph.
func (G *Graph) NMolecules() int { return len(G.spans) }

// Partition returns a copy of the location of each molecule in the graph.
func (G *Graph) Partition() []Span {
	return append([]Span(nil), G.spans...)
}
