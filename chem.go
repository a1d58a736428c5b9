/*
 * chem.go, part of molgnn.
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

/**Note: Some functions here panic instead of returning errors. Those are the
 * "fundamental" accessors: if something goes wrong with them the program is
 * most likely wrong and should crash. These panics are related to requesting
 * atoms or bonds out of range**/

// Atom contains the information about one atom that the featurizers need.
// Coordinates are not kept, molgnn works only on the topology.
type Atom struct {
	Name         string
	Symbol       string
	Index        int //position in the topology. Set by the topology.
	FormalCharge int
	Aromatic     bool
	Bonds        []*Bond
}

// Copy returns a copy of the Atom object, without the bonds.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	return &Atom{
		Name:         A.Name,
		Symbol:       A.Symbol,
		Index:        A.Index,
		FormalCharge: A.FormalCharge,
		Aromatic:     A.Aromatic,
	}
}

// Degree returns the number of bonds of the atom.
func (A *Atom) Degree() int {
	return len(A.Bonds)
}

/*****Topology type***/

// Topology contains the atoms and bonds of one molecule, and its total charge.
type Topology struct {
	Atoms     []*Atom
	Bonds     []*Bond
	Name      string
	charge    int
	chargeSet bool
}

// NewTopology returns a topology with the given atoms, and no bonds. The Index
// of each atom is set to its position in ats. If no charge is given,
// the total charge will be the sum of the formal charges of the atoms.
func NewTopology(ats []*Atom, charge ...int) *Topology {
	top := &Topology{Atoms: ats}
	for i, at := range ats {
		at.Index = i
		at.Bonds = nil
	}
	if len(charge) > 0 {
		top.SetCharge(charge[0])
	}
	return top
}

// Charge gets the total charge of the topology. Unless set explicitly,
// it is the sum of the formal charges.
func (T *Topology) Charge() int {
	if T.chargeSet {
		return T.charge
	}
	q := 0
	for _, at := range T.Atoms {
		q += at.FormalCharge
	}
	return q
}

// SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
	T.chargeSet = true
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// NBonds returns the number of bonds in the topology.
func (T *Topology) NBonds() int {
	return len(T.Bonds)
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// Bond returns the ith bond of the topology. Panics if out of range.
func (T *Topology) Bond(i int) *Bond {
	if i < 0 || i >= T.NBonds() {
		panic("Topology: Requested Bond out of bounds")
	}
	return T.Bonds[i]
}

// Copy returns a deep copy of the topology, bonds included.
func (T *Topology) Copy() *Topology {
	ats := make([]*Atom, T.Len())
	for i, at := range T.Atoms {
		ats[i] = at.Copy()
	}
	N := NewTopology(ats)
	N.Name = T.Name
	N.charge, N.chargeSet = T.charge, T.chargeSet
	for _, b := range T.Bonds {
		nb, err := N.AddBond(b.At1.Index, b.At2.Index, b.Order)
		if err != nil {
			panic("Topology.Copy: " + err.Error()) //the original topology was valid, so this can't happen.
		}
		nb.Aromatic = b.Aromatic
		nb.FractionalOrder = b.FractionalOrder
	}
	return N
}
