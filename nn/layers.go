/*
 * layers.go, part of molgnn.
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
	"math/rand"
	"strconv"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/tensor"
)

// LayerConfig describes a stack of layers: the output width of each layer,
// and optionally an activation and a dropout probability per layer.
// Empty Activation or Dropout lists mean ReLU and no dropout for every layer.
type LayerConfig struct {
	Hidden     []int        `mapstructure:"hidden_feats" json:"hidden_feats" yaml:"hidden_feats"`
	Activation []Activation `mapstructure:"activation" json:"activation,omitempty" yaml:"activation,omitempty"`
	Dropout    []float64    `mapstructure:"dropout" json:"dropout,omitempty" yaml:"dropout,omitempty"`
}

// expand checks the configuration and returns one activation and one dropout
// probability per layer.
func (c LayerConfig) expand(caller string) ([]Activation, []float64, error) {
	n := len(c.Hidden)
	if n == 0 {
		return nil, nil, chem.NewError(chem.ErrConfiguration, caller, "no layers given")
	}
	for i, h := range c.Hidden {
		if h <= 0 {
			return nil, nil, chem.NewError(chem.ErrConfiguration, caller, "layer %d has width %d", i, h)
		}
	}
	acts := c.Activation
	if len(acts) == 0 {
		acts = make([]Activation, n)
		for i := range acts {
			acts[i] = ReLU
		}
	} else if len(acts) != n {
		return nil, nil, chem.NewError(chem.ErrConfiguration, caller, "%d activations given for %d layers", len(acts), n)
	}
	parsed := make([]Activation, n)
	for i, a := range acts {
		p, err := ParseActivation(string(a))
		if err != nil {
			return nil, nil, chem.ErrDecorate(err, caller)
		}
		parsed[i] = p
	}
	drops := c.Dropout
	if len(drops) == 0 {
		drops = make([]float64, n)
	} else if len(drops) != n {
		return nil, nil, chem.NewError(chem.ErrConfiguration, caller, "%d dropout values given for %d layers", len(drops), n)
	}
	for i, d := range drops {
		if d < 0 || d > 1 {
			return nil, nil, chem.NewError(chem.ErrConfiguration, caller, "dropout %g of layer %d is not in [0,1]", d, i)
		}
	}
	return parsed, append([]float64(nil), drops...), nil
}

// Parameter is a named learnable matrix. Value is the matrix used by the layer
// itself, so writing to it changes the model.
type Parameter struct {
	Name  string
	Value *tensor.Matrix
	Bias  bool
}

// Dropout zeroes each element with probability P while training, scaling the
// rest by 1/(1-P). In evaluation mode it does nothing.
type Dropout struct {
	P        float64
	training bool
	rng      *rand.Rand
}

// SetTraining switches dropout on, drawing from rng, or off if rng is nil.
func (D *Dropout) SetTraining(rng *rand.Rand) {
	D.rng = rng
	D.training = rng != nil
}

// Training returns whether the dropout is active.
func (D *Dropout) Training() bool { return D.training }

// Forward applies the dropout in place to x, and returns x.
func (D *Dropout) Forward(x *tensor.Matrix) *tensor.Matrix {
	if D == nil || !D.training || D.P == 0 {
		return x
	}
	keep := 1 - D.P
	for i := 0; i < x.NVecs(); i++ {
		r := x.Vec(i)
		for j := range r {
			if keep == 0 || D.rng.Float64() >= keep {
				r[j] = 0
			} else {
				r[j] /= keep
			}
		}
	}
	return x
}

// Linear is an affine map x*Weight + Bias, with Weight of size in x out and
// Bias a 1 x out matrix.
type Linear struct {
	Weight *tensor.Matrix
	Bias   *tensor.Matrix
}

// NewLinear returns a Linear map with all parameters set to zero.
func NewLinear(in, out int) *Linear {
	return &Linear{Weight: tensor.Zeros(in, out), Bias: tensor.Zeros(1, out)}
}

// InFeats returns the input width.
func (L *Linear) InFeats() int { return L.Weight.Rows }

// OutFeats returns the output width.
func (L *Linear) OutFeats() int { return L.Weight.Cols }

// Forward returns x*Weight + Bias. x must have InFeats() columns.
func (L *Linear) Forward(x *tensor.Matrix) *tensor.Matrix {
	ret := tensor.Zeros(x.NVecs(), L.OutFeats())
	ret.Mul(x, L.Weight)
	ret.AddVec(ret, L.Bias.Vec(0))
	return ret
}

// Dense is a Linear map followed by an activation and a dropout.
type Dense struct {
	*Linear
	Activation Activation
	Dropout    *Dropout
	act        func(float64) float64
}

// Forward applies the layer to x.
func (L *Dense) Forward(x *tensor.Matrix) *tensor.Matrix {
	ret := L.Linear.Forward(x)
	ret.Apply(L.act, ret)
	return L.Dropout.Forward(ret)
}

// SequentialLayers is a stack of Dense layers applied one after the other.
type SequentialLayers struct {
	Layers []*Dense
}

// NewSequentialLayers builds the stack described by cfg, taking inFeats
// input columns.
func NewSequentialLayers(inFeats int, cfg LayerConfig) (*SequentialLayers, error) {
	if inFeats <= 0 {
		return nil, chem.NewError(chem.ErrConfiguration, "NewSequentialLayers", "input width %d", inFeats)
	}
	acts, drops, err := cfg.expand("NewSequentialLayers")
	if err != nil {
		return nil, err
	}
	S := &SequentialLayers{Layers: make([]*Dense, len(cfg.Hidden))}
	in := inFeats
	for i, out := range cfg.Hidden {
		S.Layers[i] = &Dense{
			Linear:     NewLinear(in, out),
			Activation: acts[i],
			Dropout:    &Dropout{P: drops[i]},
			act:        acts[i].Func(),
		}
		in = out
	}
	return S, nil
}

// InFeats returns the number of columns the stack takes.
func (S *SequentialLayers) InFeats() int { return S.Layers[0].InFeats() }

// OutFeats returns the number of columns the stack produces.
func (S *SequentialLayers) OutFeats() int { return S.Layers[len(S.Layers)-1].OutFeats() }

// Forward applies all the layers to x. x is not modified.
func (S *SequentialLayers) Forward(x *tensor.Matrix) (*tensor.Matrix, error) {
	if x == nil {
		return nil, chem.NewError(chem.ErrMissingNodeData, "SequentialLayers.Forward", "nil input")
	}
	if x.Cols != S.InFeats() {
		return nil, chem.NewError(chem.ErrShapeMismatch, "SequentialLayers.Forward", "input has %d columns, layers take %d", x.Cols, S.InFeats())
	}
	for _, l := range S.Layers {
		x = l.Forward(x)
	}
	return x, nil
}

// Parameters returns the parameters of the stack, named prefix+"layers.<i>.weight"
// and prefix+"layers.<i>.bias".
func (S *SequentialLayers) Parameters(prefix string) []Parameter {
	ret := make([]Parameter, 0, 2*len(S.Layers))
	for i, l := range S.Layers {
		p := prefix + "layers." + strconv.Itoa(i) + "."
		ret = append(ret,
			Parameter{Name: p + "weight", Value: l.Weight},
			Parameter{Name: p + "bias", Value: l.Bias, Bias: true})
	}
	return ret
}

// Dropouts returns the dropout of each layer.
func (S *SequentialLayers) Dropouts() []*Dropout {
	ret := make([]*Dropout, len(S.Layers))
	for i, l := range S.Layers {
		ret[i] = l.Dropout
	}
	return ret
}
