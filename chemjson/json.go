/*
 * json.go, part of molgnn.
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

package chemjson

import (
	"bufio"
	"encoding/json"
	"io"
	"unicode"

	"github.com/pkg/errors"
	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/tensor"
)

// Atom is the JSON form of a chem.Atom.
type Atom struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name,omitempty"`
	FormalCharge int    `json:"formal_charge"`
	Aromatic     bool   `json:"aromatic"`
}

// Bond is the JSON form of a chem.Bond. At1 and At2 are atom indexes.
type Bond struct {
	At1             int     `json:"at1"`
	At2             int     `json:"at2"`
	Order           float64 `json:"order"`
	Aromatic        bool    `json:"aromatic"`
	FractionalOrder float64 `json:"fractional_order,omitempty"`
}

// Molecule is the JSON form of a chem.Topology. If Charge is absent, the
// total charge is the sum of the formal charges.
type Molecule struct {
	Name   string `json:"name,omitempty"`
	Charge *int   `json:"charge,omitempty"`
	Atoms  []Atom `json:"atoms"`
	Bonds  []Bond `json:"bonds"`
}

// Topology builds and validates the topology described by M.
func (M *Molecule) Topology() (*chem.Topology, error) {
	const funcname = "Molecule.Topology"
	atoms := make([]*chem.Atom, len(M.Atoms))
	for i, a := range M.Atoms {
		if _, ok := chem.AtomicNumber(a.Symbol); !ok {
			return nil, chem.NewError(chem.ErrTopology, funcname, "atom %d of %q has unknown element %q", i, M.Name, a.Symbol)
		}
		atoms[i] = &chem.Atom{Symbol: a.Symbol, Name: a.Name, FormalCharge: a.FormalCharge, Aromatic: a.Aromatic}
	}
	var T *chem.Topology
	if M.Charge != nil {
		T = chem.NewTopology(atoms, *M.Charge)
	} else {
		T = chem.NewTopology(atoms)
	}
	T.Name = M.Name
	for _, b := range M.Bonds {
		nb, err := T.AddBond(b.At1, b.At2, b.Order)
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname)
		}
		nb.Aromatic = b.Aromatic
		nb.FractionalOrder = b.FractionalOrder
	}
	if err := T.Validate(); err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	return T, nil
}

// FromTopology returns the JSON form of T. The charge is always written.
func FromTopology(T *chem.Topology) *Molecule {
	q := T.Charge()
	M := &Molecule{Name: T.Name, Charge: &q, Atoms: make([]Atom, T.Len()), Bonds: make([]Bond, T.NBonds())}
	for i := range M.Atoms {
		a := T.Atom(i)
		M.Atoms[i] = Atom{Symbol: a.Symbol, Name: a.Name, FormalCharge: a.FormalCharge, Aromatic: a.Aromatic}
	}
	for i := range M.Bonds {
		b := T.Bond(i)
		at1, at2 := b.Ends()
		M.Bonds[i] = Bond{At1: at1, At2: at2, Order: b.Order, Aromatic: b.Aromatic, FractionalOrder: b.FractionalOrder}
	}
	return M
}

// DecodeMolecules reads molecules from r. The input can be either a JSON array
// of molecules or a stream of molecule objects, one after the other.
func DecodeMolecules(r io.Reader) ([]*chem.Topology, error) {
	const funcname = "DecodeMolecules"
	br := bufio.NewReader(r)
	first, err := firstNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, funcname)
	}
	var mols []*Molecule
	dec := json.NewDecoder(br)
	if first == '[' {
		if err := dec.Decode(&mols); err != nil {
			return nil, errors.Wrap(err, funcname)
		}
	} else {
		for {
			m := new(Molecule)
			err := dec.Decode(m)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.Wrapf(err, "%s: molecule %d", funcname, len(mols))
			}
			mols = append(mols, m)
		}
	}
	ret := make([]*chem.Topology, len(mols))
	for i, m := range mols {
		if m == nil {
			return nil, chem.NewError(chem.ErrTopology, funcname, "molecule %d is null", i)
		}
		ret[i], err = m.Topology()
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname)
		}
	}
	return ret, nil
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

// EncodeMolecules writes the molecules to w, one JSON object per line.
func EncodeMolecules(w io.Writer, mols ...*chem.Topology) error {
	enc := json.NewEncoder(w)
	for _, m := range mols {
		if err := enc.Encode(FromTopology(m)); err != nil {
			return errors.Wrap(err, "EncodeMolecules")
		}
	}
	return nil
}

// Prediction holds the outputs of all the readouts of a model for one molecule.
// Each readout gives one row per atom or per bond.
type Prediction struct {
	Name     string                 `json:"name,omitempty"`
	Readouts map[string][][]float64 `json:"readouts"`
}

// NewPrediction copies the readout matrices of a molecule into a Prediction.
func NewPrediction(name string, readouts map[string]*tensor.Matrix) *Prediction {
	P := &Prediction{Name: name, Readouts: make(map[string][][]float64, len(readouts))}
	for k, m := range readouts {
		rows := make([][]float64, m.NVecs())
		for i := range rows {
			rows[i] = append(make([]float64, 0, m.Cols), m.Vec(i)...)
		}
		P.Readouts[k] = rows
	}
	return P
}

// EncodePredictions writes the predictions to w, one JSON object per line.
func EncodePredictions(w io.Writer, preds ...*Prediction) error {
	enc := json.NewEncoder(w)
	for _, p := range preds {
		if err := enc.Encode(p); err != nil {
			return errors.Wrap(err, "EncodePredictions")
		}
	}
	return nil
}

// DecodePredictions reads a stream of predictions written by EncodePredictions.
func DecodePredictions(r io.Reader) ([]*Prediction, error) {
	dec := json.NewDecoder(r)
	var ret []*Prediction
	for {
		p := new(Prediction)
		err := dec.Decode(p)
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "DecodePredictions: prediction %d", len(ret))
		}
		ret = append(ret, p)
	}
}
