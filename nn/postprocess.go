/*
 * postprocess.go, part of molgnn.
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

package nn

import (
	"sort"
	"strings"
	"sync"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/tensor"
	"gonum.org/v1/gonum/floats"
)

// PostprocessLayer adjusts the output of a readout using information from the
// graph. Forward never modifies x.
type PostprocessLayer interface {
	Name() string
	Forward(g *molgraph.Graph, x *tensor.Matrix) (*tensor.Matrix, error)
}

// ChargeEquilibration shifts the per-atom charges of each molecule by the
// same amount, so they add up to the total charge of the molecule.
// It takes one row per atom and a single column.
type ChargeEquilibration struct{}

func (ChargeEquilibration) Name() string { return "charge-equilibration" }

// Forward returns the corrected charges. Each molecule of a batch is corrected
// with its own atoms and charge only.
func (ChargeEquilibration) Forward(g *molgraph.Graph, x *tensor.Matrix) (*tensor.Matrix, error) {
	const funcname = "ChargeEquilibration.Forward"
	if x == nil {
		return nil, chem.NewError(chem.ErrMissingNodeData, funcname, "no charges given")
	}
	if x.NVecs() != g.NAtoms() || x.Cols != 1 {
		return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "got %dx%d matrix, want %dx1", x.NVecs(), x.Cols, g.NAtoms())
	}
	ret := x.Clone()
	mols, err := g.SplitAtomRows(ret)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	for i, s := range g.Partition() {
		if s.NAtoms == 0 {
			continue
		}
		q := mols[i].RawCopy()
		delta := (float64(s.Charge) - floats.Sum(q)) / float64(s.NAtoms)
		floats.AddConst(delta, q)
		for j, v := range q {
			mols[i].Set(j, 0, v)
		}
	}
	return ret, nil
}

var (
	postMu        sync.RWMutex
	postprocesses = map[string]func() PostprocessLayer{
		"charge-equilibration": func() PostprocessLayer { return ChargeEquilibration{} },
	}
)

// RegisterPostprocess makes a postprocess layer available under name.
func RegisterPostprocess(name string, ctor func() PostprocessLayer) {
	postMu.Lock()
	defer postMu.Unlock()
	postprocesses[strings.ToLower(name)] = ctor
}

// NewPostprocessLayer returns the postprocess layer called name. An empty
// name, or "none", gives a nil layer and no error.
func NewPostprocessLayer(name string) (PostprocessLayer, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "none" {
		return nil, nil
	}
	postMu.RLock()
	ctor, ok := postprocesses[n]
	postMu.RUnlock()
	if !ok {
		return nil, chem.NewError(chem.ErrUnsupportedArchitecture, "NewPostprocessLayer", "unknown postprocess %q, known: %v", name, PostprocessNames())
	}
	return ctor(), nil
}

// PostprocessNames returns the sorted names of the known postprocess layers.
func PostprocessNames() []string {
	postMu.RLock()
	defer postMu.RUnlock()
	ret := make([]string, 0, len(postprocesses))
	for k := range postprocesses {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
