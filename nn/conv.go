/*
 * conv.go, part of molgnn.
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
	"strconv"
	"sync"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/internal/logging"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/tensor"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// GCNStack is a stack of graph convolution layers. Forward takes a node
// feature matrix with one row per node of hg and returns the node embeddings.
type GCNStack interface {
	Forward(hg *molgraph.Homograph, x *tensor.Matrix) *tensor.Matrix
	InFeats() int
	OutFeats() int
	Parameters(prefix string) []Parameter
	Dropouts() []*Dropout
}

// GCNConstructor builds a GCNStack taking inFeats input columns.
type GCNConstructor func(inFeats int, cfg LayerConfig) (GCNStack, error)

var (
	archMu        sync.RWMutex
	architectures = map[string]GCNConstructor{
		"SAGEConv": func(inFeats int, cfg LayerConfig) (GCNStack, error) {
			s, err := NewSAGEConvStack(inFeats, cfg)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
)

// RegisterConvolution makes a convolution architecture available under name,
// replacing any previous one with the same name.
func RegisterConvolution(name string, ctor GCNConstructor) {
	archMu.Lock()
	defer archMu.Unlock()
	architectures[name] = ctor
}

// Architectures returns the sorted names of the registered convolution architectures.
func Architectures() []string {
	archMu.RLock()
	defer archMu.RUnlock()
	ret := make([]string, 0, len(architectures))
	for k := range architectures {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// SAGEConv is a GraphSAGE layer with the mean aggregator:
// out_i = act(x_i*WSelf + mean_{j->i}(x_j)*WNeigh + Bias), followed by dropout.
// Nodes without neighbours get a zero neighbour term.
type SAGEConv struct {
	WSelf      *tensor.Matrix
	WNeigh     *tensor.Matrix
	Bias       *tensor.Matrix
	Activation Activation
	Dropout    *Dropout
	act        func(float64) float64
}

func (L *SAGEConv) InFeats() int  { return L.WSelf.Rows }
func (L *SAGEConv) OutFeats() int { return L.WSelf.Cols }

// Forward applies the layer. x is not modified.
func (L *SAGEConv) Forward(hg *molgraph.Homograph, x *tensor.Matrix) *tensor.Matrix {
	n := x.NVecs()
	neigh := tensor.Zeros(n, x.Cols)
	for i := 0; i < n; i++ {
		nb := hg.InNeighbors(i)
		if len(nb) == 0 {
			continue
		}
		acc := neigh.Vec(i)
		for _, j := range nb {
			floats.Add(acc, x.Vec(j))
		}
		floats.Scale(1/float64(len(nb)), acc)
	}
	ret := tensor.Zeros(n, L.OutFeats())
	ret.Mul(x, L.WSelf)
	tmp := tensor.Zeros(n, L.OutFeats())
	tmp.Mul(neigh, L.WNeigh)
	ret.Add(ret, tmp)
	ret.AddVec(ret, L.Bias.Vec(0))
	ret.Apply(L.act, ret)
	return L.Dropout.Forward(ret)
}

// SAGEConvStack is a GCNStack of SAGEConv layers.
type SAGEConvStack struct {
	Layers []*SAGEConv
}

// NewSAGEConvStack builds a stack of SAGEConv layers as described by cfg.
func NewSAGEConvStack(inFeats int, cfg LayerConfig) (*SAGEConvStack, error) {
	if inFeats <= 0 {
		return nil, chem.NewError(chem.ErrConfiguration, "NewSAGEConvStack", "input width %d", inFeats)
	}
	acts, drops, err := cfg.expand("NewSAGEConvStack")
	if err != nil {
		return nil, err
	}
	S := &SAGEConvStack{Layers: make([]*SAGEConv, len(cfg.Hidden))}
	in := inFeats
	for i, out := range cfg.Hidden {
		S.Layers[i] = &SAGEConv{
			WSelf:      tensor.Zeros(in, out),
			WNeigh:     tensor.Zeros(in, out),
			Bias:       tensor.Zeros(1, out),
			Activation: acts[i],
			Dropout:    &Dropout{P: drops[i]},
			act:        acts[i].Func(),
		}
		in = out
	}
	return S, nil
}

func (S *SAGEConvStack) InFeats() int  { return S.Layers[0].InFeats() }
func (S *SAGEConvStack) OutFeats() int { return S.Layers[len(S.Layers)-1].OutFeats() }

// Forward applies all the layers in order.
func (S *SAGEConvStack) Forward(hg *molgraph.Homograph, x *tensor.Matrix) *tensor.Matrix {
	for _, l := range S.Layers {
		x = l.Forward(hg, x)
	}
	return x
}

// Parameters returns prefix+"layers.<i>.weight_self", "weight_neigh" and "bias" for each layer.
func (S *SAGEConvStack) Parameters(prefix string) []Parameter {
	ret := make([]Parameter, 0, 3*len(S.Layers))
	for i, l := range S.Layers {
		p := prefix + "layers." + strconv.Itoa(i) + "."
		ret = append(ret,
			Parameter{Name: p + "weight_self", Value: l.WSelf},
			Parameter{Name: p + "weight_neigh", Value: l.WNeigh},
			Parameter{Name: p + "bias", Value: l.Bias, Bias: true})
	}
	return ret
}

func (S *SAGEConvStack) Dropouts() []*Dropout {
	ret := make([]*Dropout, len(S.Layers))
	for i, l := range S.Layers {
		ret[i] = l.Dropout
	}
	return ret
}

// ConvolutionModule turns the atom features of a molecule graph into
// per-atom embeddings.
type ConvolutionModule struct {
	Architecture string
	GCN          GCNStack
}

// NewConvolutionModule builds the convolution stack registered as architecture.
func NewConvolutionModule(architecture string, inFeats int, cfg LayerConfig) (*ConvolutionModule, error) {
	archMu.RLock()
	ctor, ok := architectures[architecture]
	archMu.RUnlock()
	if !ok {
		return nil, chem.NewError(chem.ErrUnsupportedArchitecture, "NewConvolutionModule", "unknown convolution %q, known: %v", architecture, Architectures())
	}
	gcn, err := ctor(inFeats, cfg)
	if err != nil {
		return nil, chem.ErrDecorate(err, "NewConvolutionModule")
	}
	logging.L().Debug("convolution module built",
		zap.String("architecture", architecture),
		zap.Int("in_feats", inFeats),
		zap.Ints("hidden_feats", cfg.Hidden))
	return &ConvolutionModule{Architecture: architecture, GCN: gcn}, nil
}

// InFeats returns the number of atom feature columns the module takes.
func (C *ConvolutionModule) InFeats() int { return C.GCN.InFeats() }

// OutFeats returns the width of the embeddings.
func (C *ConvolutionModule) OutFeats() int { return C.GCN.OutFeats() }

// Forward returns the atom embeddings for g, one row per atom.
func (C *ConvolutionModule) Forward(g *molgraph.Graph) (*tensor.Matrix, error) {
	x := g.AtomFeatures()
	if x == nil {
		return nil, chem.NewError(chem.ErrMissingNodeData, "ConvolutionModule.Forward", "graph has no atom features")
	}
	if x.Cols != C.InFeats() {
		return nil, chem.NewError(chem.ErrShapeMismatch, "ConvolutionModule.Forward", "atom features have %d columns, module takes %d", x.Cols, C.InFeats())
	}
	return C.GCN.Forward(g.Homograph(), x), nil
}

// Parameters returns the parameters of the stack, with the given prefix.
func (C *ConvolutionModule) Parameters(prefix string) []Parameter {
	return C.GCN.Parameters(prefix)
}
