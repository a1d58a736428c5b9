/*
 * modules.go, part of molgnn.
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
	"math"
	"math/rand"
	"sort"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/internal/logging"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/tensor"
	"go.uber.org/zap"
)

// ReadoutModule turns atom embeddings into one prediction: a pooling layer,
// a stack of dense layers and, optionally, a postprocess layer.
type ReadoutModule struct {
	Pooling     PoolingLayer
	Readout     *SequentialLayers
	Postprocess PostprocessLayer //can be nil
}

// NewReadoutModule assembles a readout for embeddings of width embeddingWidth.
// The readout layers must take as many columns as the pooling layer gives.
func NewReadoutModule(embeddingWidth int, pooling PoolingLayer, readout *SequentialLayers, postprocess PostprocessLayer) (*ReadoutModule, error) {
	const funcname = "NewReadoutModule"
	if pooling == nil || readout == nil {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "a readout needs both pooling and readout layers")
	}
	w, err := pooling.OutFeats(embeddingWidth)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	if w != readout.InFeats() {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "pooling gives %d columns, readout takes %d", w, readout.InFeats())
	}
	return &ReadoutModule{Pooling: pooling, Readout: readout, Postprocess: postprocess}, nil
}

// OutFeats returns the number of columns of the prediction.
func (R *ReadoutModule) OutFeats() int { return R.Readout.OutFeats() }

// Forward computes the prediction from the embeddings h of the atoms of g.
func (R *ReadoutModule) Forward(g *molgraph.Graph, h *tensor.Matrix) (*tensor.Matrix, error) {
	const funcname = "ReadoutModule.Forward"
	x, err := R.Pooling.Forward(g, h)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	x, err = R.Readout.Forward(x)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	if R.Postprocess == nil {
		return x, nil
	}
	x, err = R.Postprocess.Forward(g, x)
	return x, chem.ErrDecorate(err, funcname)
}

// Parameters returns prefix+"pooling." and prefix+"readout." parameters.
func (R *ReadoutModule) Parameters(prefix string) []Parameter {
	return append(R.Pooling.Parameters(prefix+"pooling."), R.Readout.Parameters(prefix+"readout.")...)
}

func (R *ReadoutModule) dropouts() []*Dropout {
	return append(R.Pooling.Dropouts(), R.Readout.Dropouts()...)
}

// Model is a convolution module shared by one or more named readouts.
// In evaluation mode, Forward can be called from several goroutines at once,
// as long as the parameters are not changed meanwhile.
type Model struct {
	Convolution *ConvolutionModule
	Readouts    map[string]*ReadoutModule
	training    bool
}

// NewModel checks that each readout takes the embeddings the convolution gives,
// and returns the model. Readouts are not copied.
func NewModel(conv *ConvolutionModule, readouts map[string]*ReadoutModule) (*Model, error) {
	const funcname = "NewModel"
	if conv == nil {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "no convolution module")
	}
	if len(readouts) == 0 {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "no readouts")
	}
	for name, r := range readouts {
		if r == nil {
			return nil, chem.NewError(chem.ErrConfiguration, funcname, "readout %q is nil", name)
		}
		w, err := r.Pooling.OutFeats(conv.OutFeats())
		if err != nil {
			return nil, chem.NewError(chem.ErrConfiguration, funcname, "readout %q can't take embeddings of width %d", name, conv.OutFeats())
		}
		if w != r.Readout.InFeats() {
			return nil, chem.NewError(chem.ErrConfiguration, funcname, "readout %q takes %d columns, its pooling gives %d", name, r.Readout.InFeats(), w)
		}
	}
	M := &Model{Convolution: conv, Readouts: readouts}
	logging.L().Debug("model built",
		zap.String("architecture", conv.Architecture),
		zap.Int("in_feats", conv.InFeats()),
		zap.Int("embedding_width", conv.OutFeats()),
		zap.Strings("readouts", M.ReadoutNames()),
		zap.Int("parameters", len(M.Parameters())))
	return M, nil
}

// ReadoutNames returns the sorted names of the readouts of the model.
func (M *Model) ReadoutNames() []string {
	ret := make([]string, 0, len(M.Readouts))
	for k := range M.Readouts {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Forward runs the model on g and returns one prediction per readout.
// Atom readouts have one row per atom of g, bond readouts one per bond.
func (M *Model) Forward(g *molgraph.Graph) (map[string]*tensor.Matrix, error) {
	const funcname = "Model.Forward"
	h, err := M.Convolution.Forward(g)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	ret := make(map[string]*tensor.Matrix, len(M.Readouts))
	for _, name := range M.ReadoutNames() {
		p, err := M.Readouts[name].Forward(g, h)
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname+"("+name+")")
		}
		ret[name] = p
	}
	return ret, nil
}

// Parameters returns all the learnable parameters of the model. Convolution
// parameters are prefixed by "convolution.", readout ones by "readout.<name>.".
// The order is stable.
func (M *Model) Parameters() []Parameter {
	ret := M.Convolution.Parameters("convolution.")
	for _, name := range M.ReadoutNames() {
		ret = append(ret, M.Readouts[name].Parameters("readout."+name+".")...)
	}
	return ret
}

// LoadParameters copies the given values into the model parameters. Every
// parameter of the model must be present with the right dimensions, and no
// unknown names are accepted. The model is unchanged if an error is returned.
func (M *Model) LoadParameters(values map[string]*tensor.Matrix) error {
	const funcname = "Model.LoadParameters"
	params := M.Parameters()
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
		v, ok := values[p.Name]
		if !ok || v == nil {
			return chem.NewError(chem.ErrConfiguration, funcname, "parameter %q missing", p.Name)
		}
		if v.Rows != p.Value.Rows || v.Cols != p.Value.Cols {
			return chem.NewError(chem.ErrShapeMismatch, funcname, "parameter %q is %dx%d, want %dx%d", p.Name, v.Rows, v.Cols, p.Value.Rows, p.Value.Cols)
		}
	}
	for name := range values {
		if !known[name] {
			return chem.NewError(chem.ErrConfiguration, funcname, "unknown parameter %q", name)
		}
	}
	for _, p := range params {
		p.Value.Copy(values[p.Name])
	}
	logging.L().Debug("parameters loaded", zap.Int("parameters", len(params)))
	return nil
}

// InitParameters sets the weights to random values from a Glorot uniform
// distribution, and the biases to zero. The same seed always gives the same
// parameters.
func (M *Model) InitParameters(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for _, p := range M.Parameters() {
		if p.Bias {
			p.Value.Scale(0, p.Value)
			continue
		}
		lim := math.Sqrt(6 / float64(p.Value.Rows+p.Value.Cols))
		p.Value.Apply(func(float64) float64 { return lim * (2*rng.Float64() - 1) }, p.Value)
	}
}

// Train turns dropout on, with random numbers drawn from a source
// seeded with seed.
func (M *Model) Train(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for _, d := range M.dropouts() {
		d.SetTraining(rng)
	}
	M.training = true
}

// Eval turns dropout off. Models are in evaluation mode when built.
func (M *Model) Eval() {
	for _, d := range M.dropouts() {
		d.SetTraining(nil)
	}
	M.training = false
}

// Training returns whether the model is in training mode.
func (M *Model) Training() bool { return M.training }

func (M *Model) dropouts() []*Dropout {
	ret := M.Convolution.GCN.Dropouts()
	for _, name := range M.ReadoutNames() {
		ret = append(ret, M.Readouts[name].dropouts()...)
	}
	return ret
}
