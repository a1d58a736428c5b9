/*
 * pooling.go, part of molgnn.
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

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/tensor"
)

// PoolingKind tells whether a pooling layer produces one row per atom or one per bond.
type PoolingKind string

const (
	AtomPoolingKind PoolingKind = "atom"
	BondPoolingKind PoolingKind = "bond"
)

// PoolingLayer turns the atom embeddings of a graph into the representation
// a readout acts upon. Forward never modifies h.
type PoolingLayer interface {
	Kind() PoolingKind
	// NFeatureColumns is the number of embedding blocks concatenated per output row.
	NFeatureColumns() int
	// OutFeats returns the output width for embeddings of the given width, or
	// an error if the layer can't take them.
	OutFeats(embeddingWidth int) (int, error)
	Forward(g *molgraph.Graph, h *tensor.Matrix) (*tensor.Matrix, error)
	Parameters(prefix string) []Parameter
	Dropouts() []*Dropout
}

func checkEmbeddings(caller string, g *molgraph.Graph, h *tensor.Matrix) error {
	if h == nil {
		return chem.NewError(chem.ErrMissingNodeData, caller, "no atom embeddings given")
	}
	if h.NVecs() != g.NAtoms() {
		return chem.NewError(chem.ErrShapeMismatch, caller, "%d embedding rows for %d atoms", h.NVecs(), g.NAtoms())
	}
	return nil
}

// AtomPooling returns the atom embeddings unchanged.
type AtomPooling struct{}

func (AtomPooling) Kind() PoolingKind                    { return AtomPoolingKind }
func (AtomPooling) NFeatureColumns() int                 { return 1 }
func (AtomPooling) OutFeats(w int) (int, error)          { return w, nil }
func (AtomPooling) Parameters(prefix string) []Parameter { return nil }
func (AtomPooling) Dropouts() []*Dropout                 { return nil }

// Forward returns a copy of h.
func (AtomPooling) Forward(g *molgraph.Graph, h *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkEmbeddings("AtomPooling.Forward", g, h); err != nil {
		return nil, err
	}
	return h.Clone(), nil
}

// BondPooling gives one row per bond, Layers(h_a|h_b) + Layers(h_b|h_a) for a
// bond between atoms a and b. The result doesn't depend on the direction in
// which each bond is stored.
type BondPooling struct {
	Layers *SequentialLayers
}

// NewBondPooling returns a BondPooling for embeddings of width embeddingWidth,
// with the layers described by cfg.
func NewBondPooling(embeddingWidth int, cfg LayerConfig) (*BondPooling, error) {
	l, err := NewSequentialLayers(2*embeddingWidth, cfg)
	if err != nil {
		return nil, chem.ErrDecorate(err, "NewBondPooling")
	}
	return &BondPooling{Layers: l}, nil
}

func (P *BondPooling) Kind() PoolingKind    { return BondPoolingKind }
func (P *BondPooling) NFeatureColumns() int { return 2 }

func (P *BondPooling) OutFeats(w int) (int, error) {
	if P.Layers.InFeats() != P.NFeatureColumns()*w {
		return 0, chem.NewError(chem.ErrConfiguration, "BondPooling.OutFeats", "layers take %d columns, embeddings of width %d give %d", P.Layers.InFeats(), w, P.NFeatureColumns()*w)
	}
	return P.Layers.OutFeats(), nil
}

func (P *BondPooling) Parameters(prefix string) []Parameter { return P.Layers.Parameters(prefix) }
func (P *BondPooling) Dropouts() []*Dropout                 { return P.Layers.Dropouts() }

// Forward returns the bond representations. A graph without bonds gives
// a matrix with zero rows.
func (P *BondPooling) Forward(g *molgraph.Graph, h *tensor.Matrix) (*tensor.Matrix, error) {
	const funcname = "BondPooling.Forward"
	if err := checkEmbeddings(funcname, g, h); err != nil {
		return nil, err
	}
	if _, err := P.OutFeats(h.Cols); err != nil {
		return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "embeddings of width %d for layers taking %d columns", h.Cols, P.Layers.InFeats())
	}
	src, dst := g.Edges(molgraph.Forward)
	hsrc := tensor.Zeros(len(src), h.Cols)
	hsrc.SomeVecs(h, src)
	hdst := tensor.Zeros(len(dst), h.Cols)
	hdst.SomeVecs(h, dst)
	fwd, err := P.Layers.Forward(tensor.HConcat(hsrc, hdst))
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	rev, err := P.Layers.Forward(tensor.HConcat(hdst, hsrc))
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	fwd.Add(fwd, rev)
	return fwd, nil
}

// PoolingConstructor builds a pooling layer for embeddings of width
// embeddingWidth. cfg is nil when no pooling layers were configured.
// Atom pooling rejects a non-nil cfg, bond pooling requires one.
type PoolingConstructor func(embeddingWidth int, cfg *LayerConfig) (PoolingLayer, error)

var poolings = map[PoolingKind]PoolingConstructor{
	AtomPoolingKind: func(_ int, cfg *LayerConfig) (PoolingLayer, error) {
		if cfg != nil {
			return nil, chem.NewError(chem.ErrConfiguration, "NewPoolingLayer", "atom pooling takes no layers, got %v", cfg.Hidden)
		}
		return AtomPooling{}, nil
	},
	BondPoolingKind: func(w int, cfg *LayerConfig) (PoolingLayer, error) {
		if cfg == nil {
			return nil, chem.NewError(chem.ErrConfiguration, "NewPoolingLayer", "bond pooling needs layers")
		}
		p, err := NewBondPooling(w, *cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	},
}

// NewPoolingLayer builds the pooling layer of the given kind ("atom" or "bond",
// case-insensitive).
func NewPoolingLayer(kind string, embeddingWidth int, cfg *LayerConfig) (PoolingLayer, error) {
	ctor, ok := poolings[PoolingKind(strings.ToLower(kind))]
	if !ok {
		return nil, chem.NewError(chem.ErrUnsupportedArchitecture, "NewPoolingLayer", "unknown pooling %q, known: %v", kind, PoolingKinds())
	}
	p, err := ctor(embeddingWidth, cfg)
	if err != nil {
		return nil, chem.ErrDecorate(err, "NewPoolingLayer")
	}
	return p, nil
}

// PoolingKinds returns the sorted names of the known pooling layers.
func PoolingKinds() []string {
	ret := make([]string, 0, len(poolings))
	for k := range poolings {
		ret = append(ret, string(k))
	}
	sort.Strings(ret)
	return ret
}
