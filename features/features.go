/*
 * features.go, part of molgnn.
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

// Package features turns molecules into the numeric per-atom and per-bond
// feature matrices consumed by molgnn models. Most features are one-hot
// encodings over a fixed list of categories: a value not in the list gives
// an all-zero row block.
package features

import (
	"fmt"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/tensor"
)

// AtomFeature encodes one property of each atom of a molecule as Len() columns.
type AtomFeature interface {
	Name() string
	Len() int
	Encode(mol chem.Molecule) *tensor.Matrix
}

// BondFeature encodes one property of each bond of a molecule as Len() columns.
type BondFeature interface {
	Name() string
	Len() int
	Encode(mol chem.Molecule) *tensor.Matrix
}

// OneHotEncode returns a slice with a 1 in the position of item in categories,
// and zeros elsewhere.
func OneHotEncode[T comparable](item T, categories []T) []float64 {
	ret := make([]float64, len(categories))
	for i, c := range categories {
		if c == item {
			ret[i] = 1
			break
		}
	}
	return ret
}

// AtomFeatures returns the side-by-side concatenation of the given features for
// all the atoms of mol. With no features, the matrix has zero columns.
func AtomFeatures(mol chem.Molecule, feats ...AtomFeature) *tensor.Matrix {
	if len(feats) == 0 {
		return tensor.Zeros(mol.Len(), 0)
	}
	blocks := make([]*tensor.Matrix, len(feats))
	for i, f := range feats {
		blocks[i] = f.Encode(mol)
	}
	return tensor.HConcat(blocks...)
}

// BondFeatures returns the side-by-side concatenation of the given features for
// all the bonds of mol. With no features, the matrix has zero columns.
func BondFeatures(mol chem.Molecule, feats ...BondFeature) *tensor.Matrix {
	if len(feats) == 0 {
		return tensor.Zeros(mol.NBonds(), 0)
	}
	blocks := make([]*tensor.Matrix, len(feats))
	for i, f := range feats {
		blocks[i] = f.Encode(mol)
	}
	return tensor.HConcat(blocks...)
}

// AtomWidth returns the total number of columns produced by feats.
func AtomWidth(feats ...AtomFeature) int {
	w := 0
	for _, f := range feats {
		w += f.Len()
	}
	return w
}

// BondWidth returns the total number of columns produced by feats.
func BondWidth(feats ...BondFeature) int {
	w := 0
	for _, f := range feats {
		w += f.Len()
	}
	return w
}

// Featurize builds the graph of mol with the given atom features, and the
// given bond features if any.
func Featurize(mol chem.Molecule, atomFeats []AtomFeature, bondFeats []BondFeature) (*molgraph.Graph, error) {
	var bf *tensor.Matrix
	if len(bondFeats) > 0 {
		bf = BondFeatures(mol, bondFeats...)
	}
	g, err := molgraph.New(mol, AtomFeatures(mol, atomFeats...), bf)
	return g, chem.ErrDecorate(err, "Featurize")
}

func atomRows(mol chem.Molecule, cols int, f func(at *chem.Atom) []float64) *tensor.Matrix {
	ret := tensor.Zeros(mol.Len(), cols)
	for i := 0; i < mol.Len(); i++ {
		copy(ret.Vec(i), f(mol.Atom(i)))
	}
	return ret
}

func bondRows(mol chem.Molecule, cols int, f func(i int, b *chem.Bond) []float64) *tensor.Matrix {
	ret := tensor.Zeros(mol.NBonds(), cols)
	for i := 0; i < mol.NBonds(); i++ {
		copy(ret.Vec(i), f(i, mol.Bond(i)))
	}
	return ret
}

func boolCol(b bool) []float64 {
	if b {
		return []float64{1}
	}
	return []float64{0}
}

/*****Atom features******/

// AtomicElement one-hot encodes the element symbol.
type AtomicElement struct {
	Categories []string
}

// NewAtomicElement returns an element featurizer over the given symbols, or over
// chem.DefaultElements if none are given.
func NewAtomicElement(symbols ...string) *AtomicElement {
	if len(symbols) == 0 {
		symbols = chem.DefaultElements
	}
	return &AtomicElement{Categories: append([]string(nil), symbols...)}
}

func (F *AtomicElement) Name() string { return "atomic_element" }
func (F *AtomicElement) Len() int     { return len(F.Categories) }
func (F *AtomicElement) Encode(mol chem.Molecule) *tensor.Matrix {
	return atomRows(mol, F.Len(), func(at *chem.Atom) []float64 { return OneHotEncode(at.Symbol, F.Categories) })
}

// AtomConnectivity one-hot encodes the number of bonds of each atom.
type AtomConnectivity struct {
	Categories []int
}

// NewAtomConnectivity returns a connectivity featurizer over the given
// numbers of bonds, or over 1, 2, 3 and 4 if none are given.
func NewAtomConnectivity(degrees ...int) *AtomConnectivity {
	if len(degrees) == 0 {
		degrees = []int{1, 2, 3, 4}
	}
	return &AtomConnectivity{Categories: append([]int(nil), degrees...)}
}

func (F *AtomConnectivity) Name() string { return "atom_connectivity" }
func (F *AtomConnectivity) Len() int     { return len(F.Categories) }
func (F *AtomConnectivity) Encode(mol chem.Molecule) *tensor.Matrix {
	return atomRows(mol, F.Len(), func(at *chem.Atom) []float64 { return OneHotEncode(at.Degree(), F.Categories) })
}

// AtomFormalCharge one-hot encodes the formal charge of each atom.
type AtomFormalCharge struct {
	Categories []int
}

// NewAtomFormalCharge returns a formal charge featurizer over the given charges,
// or over 0, -1 and +1 if none are given.
func NewAtomFormalCharge(charges ...int) *AtomFormalCharge {
	if len(charges) == 0 {
		charges = []int{0, -1, 1}
	}
	return &AtomFormalCharge{Categories: append([]int(nil), charges...)}
}

func (F *AtomFormalCharge) Name() string { return "atom_formal_charge" }
func (F *AtomFormalCharge) Len() int     { return len(F.Categories) }
func (F *AtomFormalCharge) Encode(mol chem.Molecule) *tensor.Matrix {
	return atomRows(mol, F.Len(), func(at *chem.Atom) []float64 { return OneHotEncode(at.FormalCharge, F.Categories) })
}

// AtomIsAromatic is 1 for aromatic atoms, 0 otherwise.
type AtomIsAromatic struct{}

func (AtomIsAromatic) Name() string { return "atom_is_aromatic" }
func (AtomIsAromatic) Len() int     { return 1 }
func (AtomIsAromatic) Encode(mol chem.Molecule) *tensor.Matrix {
	return atomRows(mol, 1, func(at *chem.Atom) []float64 { return boolCol(at.Aromatic) })
}

// AtomIsInRing is 1 for atoms that belong to a ring, 0 otherwise.
type AtomIsInRing struct{}

func (AtomIsInRing) Name() string { return "atom_is_in_ring" }
func (AtomIsInRing) Len() int     { return 1 }
func (AtomIsInRing) Encode(mol chem.Molecule) *tensor.Matrix {
	rings := molgraph.RingAtoms(mol)
	return atomRows(mol, 1, func(at *chem.Atom) []float64 { return boolCol(rings[at.Index]) })
}

/*****Bond features******/

// BondIsAromatic is 1 for aromatic bonds, 0 otherwise.
type BondIsAromatic struct{}

func (BondIsAromatic) Name() string { return "bond_is_aromatic" }
func (BondIsAromatic) Len() int     { return 1 }
func (BondIsAromatic) Encode(mol chem.Molecule) *tensor.Matrix {
	return bondRows(mol, 1, func(_ int, b *chem.Bond) []float64 { return boolCol(b.Aromatic) })
}

// BondIsInRing is 1 for bonds that belong to a ring, 0 otherwise.
type BondIsInRing struct{}

func (BondIsInRing) Name() string { return "bond_is_in_ring" }
func (BondIsInRing) Len() int     { return 1 }
func (BondIsInRing) Encode(mol chem.Molecule) *tensor.Matrix {
	rings := molgraph.RingBonds(mol)
	return bondRows(mol, 1, func(i int, _ *chem.Bond) []float64 { return boolCol(rings[i]) })
}

// BondOrder one-hot encodes the integer bond order.
type BondOrder struct {
	Categories []int
}

// NewBondOrder returns a bond order featurizer over the given orders, or over 1, 2 and 3
// if none are given.
func NewBondOrder(orders ...int) *BondOrder {
	if len(orders) == 0 {
		orders = []int{1, 2, 3}
	}
	return &BondOrder{Categories: append([]int(nil), orders...)}
}

func (F *BondOrder) Name() string { return "bond_order" }
func (F *BondOrder) Len() int     { return len(F.Categories) }
func (F *BondOrder) Encode(mol chem.Molecule) *tensor.Matrix {
	return bondRows(mol, F.Len(), func(_ int, b *chem.Bond) []float64 {
		o := int(b.Order)
		if float64(o) != b.Order {
			o = -1 //non-integer orders match no category
		}
		return OneHotEncode(o, F.Categories)
	})
}

// WibergBondOrder is the fractional (e.g. Wiberg) bond order, unencoded.
type WibergBondOrder struct{}

func (WibergBondOrder) Name() string { return "wiberg_bond_order" }
func (WibergBondOrder) Len() int     { return 1 }
func (WibergBondOrder) Encode(mol chem.Molecule) *tensor.Matrix {
	return bondRows(mol, 1, func(_ int, b *chem.Bond) []float64 { return []float64{b.FractionalOrder} })
}

// String gives a short description of a feature list, for logs.
func String(feats ...AtomFeature) string {
	s := ""
	for i, f := range feats {
		if i > 0 {
			s += "+"
		}
		s += fmt.Sprintf("%s(%d)", f.Name(), f.Len())
	}
	return s
}
