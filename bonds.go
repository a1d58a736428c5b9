/*
 * bonds.go, part of molgnn.
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

package chem

import "sort"

// Bond joins 2 atoms of a topology. The order in which At1 and At2 are given
// is the direction in which the bond was recorded, and has no chemical meaning.
type Bond struct {
	Index           int
	At1             *Atom
	At2             *Atom
	Order           float64 //Order 0 means undetermined
	Aromatic        bool
	FractionalOrder float64 //Wiberg or similar. 0 means not computed.
}

// Cross returns the atom at the other end of the bond from origin.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin.Index == B.At1.Index {
		return B.At2
	}
	if origin.Index == B.At2.Index {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!") //I think this got to be a programming error, so a panic is warranted.
}

// Ends returns the indexes of the 2 atoms of the bond, in the order in which they were recorded.
func (B *Bond) Ends() (int, int) {
	return B.At1.Index, B.At2.Index
}

// AddBond bonds the atoms with indexes i and j, with the given bond order,
// and returns the new bond. It returns an error if one of the indexes is out of
// range, if i==j, or if the atoms are already bonded.
func (T *Topology) AddBond(i, j int, order float64) (*Bond, error) {
	const funcname = "AddBond"
	if i < 0 || j < 0 || i >= T.Len() || j >= T.Len() {
		return nil, NewError(ErrTopology, funcname, "bond %d-%d out of range for %d atoms", i, j, T.Len())
	}
	if i == j {
		return nil, NewError(ErrTopology, funcname, "atom %d can't be bonded to itself", i)
	}
	if T.Bonded(i, j) {
		return nil, NewError(ErrTopology, funcname, "atoms %d and %d are already bonded", i, j)
	}
	at1, at2 := T.Atoms[i], T.Atoms[j]
	b := &Bond{Index: len(T.Bonds), At1: at1, At2: at2, Order: order}
	at1.Bonds = append(at1.Bonds, b)
	at2.Bonds = append(at2.Bonds, b)
	T.Bonds = append(T.Bonds, b)
	return b, nil
}

// Bonded returns true if the atoms with indexes i and j share a bond.
func (T *Topology) Bonded(i, j int) bool {
	for _, b := range T.Atoms[i].Bonds {
		if b.Cross(T.Atoms[i]).Index == j {
			return true
		}
	}
	return false
}

// Validate checks that no atom has more bonds than its element allows, and that
// every bond joins atoms belonging to the topology. Elements with no defined
// maximum are not checked.
func (T *Topology) Validate() error {
	const funcname = "Validate"
	for k, b := range T.Bonds {
		i, j := b.Ends()
		if b.Index != k || i < 0 || j < 0 || i >= T.Len() || j >= T.Len() || T.Atoms[i] != b.At1 || T.Atoms[j] != b.At2 {
			return NewError(ErrTopology, funcname, "bond %d doesn't belong to the topology", k)
		}
	}
	for _, at := range T.Atoms {
		max := symbolMaxBonds[at.Symbol]
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		if at.Degree() > max {
			return NewError(ErrTopology, funcname, "atom %d (%s) has %d bonds, at most %d allowed", at.Index, at.Symbol, at.Degree(), max)
		}
	}
	return nil
}

// Neighbors returns the sorted indexes of the atoms bonded to the atom with index i.
func (T *Topology) Neighbors(i int) []int {
	at := T.Atom(i)
	ret := make([]int, 0, at.Degree())
	for _, b := range at.Bonds {
		ret = append(ret, b.Cross(at).Index)
	}
	sort.Ints(ret)
	return ret
}
