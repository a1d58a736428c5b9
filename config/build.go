/*
 * build.go, part of molgnn.
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

package config

import (
	"context"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/features"
	"github.com/rmera/molgnn/internal/logging"
	"github.com/rmera/molgnn/molgraph"
	"github.com/rmera/molgnn/nn"
	"github.com/rmera/molgnn/tensor"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pipeline joins a model with the featurizers that produce its input.
type Pipeline struct {
	AtomFeatures []features.AtomFeature
	BondFeatures []features.BondFeature
	Model        *nn.Model
}

// Build creates the featurizers and the model described by cfg. The model
// parameters are all zero; set them with Model.LoadParameters or
// Model.InitParameters.
func Build(cfg *Config) (*Pipeline, error) {
	const funcname = "config.Build"
	atomFeats, err := features.NewAtomFeatures(cfg.AtomFeatures...)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	bondFeats, err := features.NewBondFeatures(cfg.BondFeatures...)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	width := features.AtomWidth(atomFeats...)
	inFeats := cfg.Convolution.InFeats
	if inFeats == 0 {
		inFeats = width
	} else if inFeats != width {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "convolution.in_feats is %d but the atom features give %d columns", inFeats, width)
	}
	conv, err := nn.NewConvolutionModule(cfg.Convolution.Architecture, inFeats, cfg.Convolution.LayerConfig)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	readouts := make(map[string]*nn.ReadoutModule, len(cfg.Readouts))
	for name, rc := range cfg.Readouts {
		r, err := buildReadout(conv.OutFeats(), rc)
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname+"("+name+")")
		}
		readouts[name] = r
	}
	model, err := nn.NewModel(conv, readouts)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	logging.L().Debug("pipeline built",
		zap.String("atom_features", features.String(atomFeats...)),
		zap.Int("bond_features", len(bondFeats)))
	return &Pipeline{AtomFeatures: atomFeats, BondFeatures: bondFeats, Model: model}, nil
}

func buildReadout(embeddingWidth int, rc ReadoutConfig) (*nn.ReadoutModule, error) {
	const funcname = "buildReadout"
	pool, err := nn.NewPoolingLayer(rc.Pooling, embeddingWidth, rc.PoolingLayers)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	w, err := pool.OutFeats(embeddingWidth)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	layers, err := nn.NewSequentialLayers(w, rc.Layers)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	post, err := nn.NewPostprocessLayer(rc.Postprocess)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	if _, ok := post.(nn.ChargeEquilibration); ok {
		if pool.Kind() != nn.AtomPoolingKind || layers.OutFeats() != 1 {
			return nil, chem.NewError(chem.ErrConfiguration, funcname, "%s needs atom pooling and one output column", post.Name())
		}
	}
	r, err := nn.NewReadoutModule(embeddingWidth, pool, layers, post)
	return r, chem.ErrDecorate(err, funcname)
}

// Featurize builds the graph of mol with the featurizers of the pipeline.
func (P *Pipeline) Featurize(mol chem.Molecule) (*molgraph.Graph, error) {
	g, err := features.Featurize(mol, P.AtomFeatures, P.BondFeatures)
	return g, chem.ErrDecorate(err, "Pipeline.Featurize")
}

// Predict runs the model over all the molecules at once, as a batch, and
// returns the predictions of each molecule, in the order given.
func (P *Pipeline) Predict(mols ...chem.Molecule) ([]map[string]*tensor.Matrix, error) {
	const funcname = "Pipeline.Predict"
	if len(mols) == 0 {
		return nil, nil
	}
	graphs := make([]*molgraph.Graph, len(mols))
	for i, m := range mols {
		g, err := P.Featurize(m)
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname)
		}
		graphs[i] = g
	}
	batch, err := molgraph.Batch(graphs...)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	out, err := P.Model.Forward(batch)
	if err != nil {
		return nil, chem.ErrDecorate(err, funcname)
	}
	ret := make([]map[string]*tensor.Matrix, len(mols))
	for i := range ret {
		ret[i] = make(map[string]*tensor.Matrix, len(out))
	}
	for name, m := range out {
		var parts []*tensor.Matrix
		if P.Model.Readouts[name].Pooling.Kind() == nn.BondPoolingKind {
			parts, err = batch.SplitBondRows(m)
		} else {
			parts, err = batch.SplitAtomRows(m)
		}
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname)
		}
		for i, p := range parts {
			ret[i][name] = p.Clone()
		}
	}
	logging.L().Debug("batch predicted", zap.Int("molecules", len(mols)), zap.Int("atoms", batch.NAtoms()), zap.Int("bonds", batch.NBonds()))
	return ret, nil
}

// PredictBatches splits mols into batches of at most batchSize molecules and
// predicts them with up to workers batches running at once. The model must be
// in evaluation mode. done, if not nil, is called with the size of each
// finished batch, possibly from several goroutines. The first error cancels
// the batches not yet started.
func (P *Pipeline) PredictBatches(ctx context.Context, mols []chem.Molecule, batchSize, workers int, done func(n int)) ([]map[string]*tensor.Matrix, error) {
	const funcname = "Pipeline.PredictBatches"
	if P.Model.Training() {
		return nil, chem.NewError(chem.ErrConfiguration, funcname, "concurrent prediction needs a model in evaluation mode")
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	ret := make([]map[string]*tensor.Matrix, len(mols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for from := 0; from < len(mols); from += batchSize {
		from, to := from, from+batchSize
		if to > len(mols) {
			to = len(mols)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			preds, err := P.Predict(mols[from:to]...)
			if err != nil {
				return chem.ErrDecorate(err, funcname)
			}
			copy(ret[from:to], preds)
			if done != nil {
				done(to - from)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
