package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/features"
	"github.com/rmera/molgnn/nn"
	"github.com/rmera/molgnn/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "testdata/model.yaml"

func molecule(Te *testing.T, name string, symbols []string, bonds ...[2]int) *chem.Topology {
	ats := make([]*chem.Atom, len(symbols))
	for i, s := range symbols {
		ats[i] = &chem.Atom{Symbol: s}
	}
	T := chem.NewTopology(ats)
	T.Name = name
	for _, b := range bonds {
		_, err := T.AddBond(b[0], b[1], 1)
		require.NoError(Te, err)
	}
	return T
}

func testMolecules(Te *testing.T) []chem.Molecule {
	return []chem.Molecule{
		molecule(Te, "methane", []string{"C", "H", "H", "H", "H"}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4}),
		molecule(Te, "water", []string{"O", "H", "H"}, [2]int{0, 1}, [2]int{0, 2}),
		molecule(Te, "ammonia", []string{"N", "H", "H", "H"}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}),
		molecule(Te, "methanol", []string{"C", "O", "H", "H", "H", "H"}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4}, [2]int{1, 5}),
	}
}

func TestLoad(Te *testing.T) {
	cfg, err := Load(testModel)
	require.NoError(Te, err)
	require.Len(Te, cfg.AtomFeatures, 2)
	assert.Equal(Te, features.Spec{Name: "atomic_element", Categories: []string{"C", "H", "N", "O"}}, cfg.AtomFeatures[0])
	assert.Equal(Te, "SAGEConv", cfg.Convolution.Architecture)
	assert.Equal(Te, []int{8, 8}, cfg.Convolution.Hidden)
	assert.Equal(Te, []nn.Activation{"relu", "relu"}, cfg.Convolution.Activation)
	assert.Equal(Te, 0, cfg.Convolution.InFeats)
	require.Len(Te, cfg.Readouts, 2)
	charges := cfg.Readouts["am1bcc-charges"]
	assert.Equal(Te, "atom", charges.Pooling)
	assert.Nil(Te, charges.PoolingLayers)
	assert.Equal(Te, "charge-equilibration", charges.Postprocess)
	wbo := cfg.Readouts["wbo"]
	require.NotNil(Te, wbo.PoolingLayers)
	assert.Equal(Te, []int{8}, wbo.PoolingLayers.Hidden)
	assert.Equal(Te, "console", cfg.Log.Format)

	_, err = Load(filepath.Join(Te.TempDir(), "missing.yaml"))
	assert.Error(Te, err)
}

func TestEnvOverride(Te *testing.T) {
	Te.Setenv("MOLGNN_LOG_LEVEL", "debug")
	Te.Setenv("MOLGNN_CONVOLUTION_ARCHITECTURE", "GATConv")
	cfg, err := Load(testModel)
	require.NoError(Te, err)
	assert.Equal(Te, "debug", cfg.Log.Level)
	_, err = Build(cfg)
	assert.True(Te, errors.Is(err, chem.ErrUnsupportedArchitecture), "%v", err)
}

func TestDefaults(Te *testing.T) {
	cfg, err := Parse(`
convolution: {hidden_feats: [4]}
readouts:
  Charges: {layers: {hidden_feats: [1]}}
`)
	require.NoError(Te, err)
	assert.Equal(Te, DefaultArchitecture, cfg.Convolution.Architecture)
	assert.Equal(Te, DefaultLogLevel, cfg.Log.Level)
	assert.Len(Te, cfg.AtomFeatures, 2)
	//viper lowercases keys.
	require.Contains(Te, cfg.Readouts, "charges")
	assert.Equal(Te, DefaultPooling, cfg.Readouts["charges"].Pooling)
	P, err := Build(cfg)
	require.NoError(Te, err)
	assert.Equal(Te, len(chem.DefaultElements)+4, P.Model.Convolution.InFeats())
	ApplyDefaults(nil)
}

func TestValidate(Te *testing.T) {
	bad := map[string]string{
		"no convolution":      `readouts: {q: {layers: {hidden_feats: [1]}}}`,
		"no readouts":         `convolution: {hidden_feats: [4]}`,
		"no readout layers":   "convolution: {hidden_feats: [4]}\nreadouts: {q: {pooling: atom}}",
		"bond without layers": "convolution: {hidden_feats: [4]}\nreadouts: {q: {pooling: bond, layers: {hidden_feats: [1]}}}",
		"negative in_feats":   "convolution: {hidden_feats: [4], in_feats: -2}\nreadouts: {q: {layers: {hidden_feats: [1]}}}",
		"unknown log format":  "convolution: {hidden_feats: [4]}\nreadouts: {q: {layers: {hidden_feats: [1]}}}\nlog: {format: xml}",
	}
	for name, yaml := range bad {
		_, err := Parse(yaml)
		assert.True(Te, errors.Is(err, chem.ErrConfiguration), "%s: %v", name, err)
	}
	_, err := Parse("convolution: [")
	assert.Error(Te, err)
}

func TestBuild(Te *testing.T) {
	cfg, err := Load(testModel)
	require.NoError(Te, err)
	P, err := Build(cfg)
	require.NoError(Te, err)
	assert.Equal(Te, 8, P.Model.Convolution.InFeats())
	assert.Equal(Te, []string{"am1bcc-charges", "wbo"}, P.Model.ReadoutNames())
	assert.Len(Te, P.BondFeatures, 1)
	assert.Equal(Te, nn.BondPoolingKind, P.Model.Readouts["wbo"].Pooling.Kind())
	for _, p := range P.Model.Parameters() {
		assert.Equal(Te, make([]float64, p.Value.Rows*p.Value.Cols), p.Value.RawCopy(), "%s must start at zero", p.Name)
	}

	mismatch := *cfg
	mismatch.Convolution.InFeats = 5
	_, err = Build(&mismatch)
	assert.True(Te, errors.Is(err, chem.ErrConfiguration), "%v", err)
	mismatch.Convolution.InFeats = 8
	_, err = Build(&mismatch)
	assert.NoError(Te, err)
}

func TestBuildErrors(Te *testing.T) {
	base := "atom_features: [{name: atomic_element, categories: [C, H]}]\nconvolution: {hidden_feats: [4]}\n"
	cases := map[string]struct {
		yaml string
		kind chem.Kind
	}{
		"equilibration on bonds": {"readouts: {q: {pooling: bond, pooling_layers: {hidden_feats: [4]}, layers: {hidden_feats: [1]}, postprocess: charge-equilibration}}", chem.ErrConfiguration},
		"equilibration, 2 cols":  {"readouts: {q: {layers: {hidden_feats: [2]}, postprocess: charge-equilibration}}", chem.ErrConfiguration},
		"unknown postprocess":    {"readouts: {q: {layers: {hidden_feats: [1]}, postprocess: softmax}}", chem.ErrUnsupportedArchitecture},
		"unknown pooling":        {"readouts: {q: {pooling: ring, layers: {hidden_feats: [1]}}}", chem.ErrUnsupportedArchitecture},
		"unknown feature":        {"readouts: {q: {layers: {hidden_feats: [1]}}}\nbond_features: [{name: bond_length}]", chem.ErrUnsupportedArchitecture},
		"atom with layers":       {"readouts: {q: {pooling: atom, pooling_layers: {hidden_feats: [4]}, layers: {hidden_feats: [1]}}}", chem.ErrConfiguration},
		"bad activation":         {"readouts: {q: {layers: {hidden_feats: [1], activation: [swish]}}}", chem.ErrConfiguration},
	}
	for name, c := range cases {
		cfg, err := Parse(base + c.yaml)
		require.NoError(Te, err, name)
		_, err = Build(cfg)
		assert.True(Te, errors.Is(err, c.kind), "%s: %v", name, err)
	}
}

func testPipeline(Te *testing.T) *Pipeline {
	cfg, err := Load(testModel)
	require.NoError(Te, err)
	P, err := Build(cfg)
	require.NoError(Te, err)
	P.Model.InitParameters(3)
	return P
}

func TestPredict(Te *testing.T) {
	P := testPipeline(Te)
	mols := testMolecules(Te)
	preds, err := P.Predict(mols...)
	require.NoError(Te, err)
	require.Len(Te, preds, len(mols))
	for i, m := range mols {
		assert.Equal(Te, m.Len(), preds[i]["am1bcc-charges"].NVecs())
		assert.Equal(Te, m.NBonds(), preds[i]["wbo"].NVecs())
		assert.InDelta(Te, 0.0, sum(preds[i]["am1bcc-charges"]), 1e-9)
	}
	none, err := P.Predict()
	require.NoError(Te, err)
	assert.Nil(Te, none)

	g, err := P.Featurize(mols[1])
	require.NoError(Te, err)
	assert.Equal(Te, 8, g.AtomFeatures().Cols)
	assert.Equal(Te, 3, g.BondFeatures().Cols)
}

func sum(m *tensor.Matrix) float64 {
	s := 0.0
	for _, v := range m.RawCopy() {
		s += v
	}
	return s
}

func TestPredictBatches(Te *testing.T) {
	P := testPipeline(Te)
	mols := testMolecules(Te)
	want, err := P.Predict(mols...)
	require.NoError(Te, err)
	var finished atomic.Int64
	got, err := P.PredictBatches(context.Background(), mols, 1, 3, func(n int) { finished.Add(int64(n)) })
	require.NoError(Te, err)
	assert.Equal(Te, int64(len(mols)), finished.Load())
	require.Len(Te, got, len(mols))
	for i := range mols {
		for name, m := range want[i] {
			assert.True(Te, tensor.Equal(m, got[i][name]), "%s of molecule %d depends on the batch", name, i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = P.PredictBatches(ctx, mols, 2, 1, nil)
	assert.True(Te, errors.Is(err, context.Canceled), "%v", err)

	P.Model.Train(1)
	_, err = P.PredictBatches(context.Background(), mols, 2, 2, nil)
	assert.True(Te, errors.Is(err, chem.ErrConfiguration))
	P.Model.Eval()

	withIon := append(mols, molecule(Te, "chloride", []string{"Cl"}))
	_, err = P.PredictBatches(context.Background(), withIon, 2, 2, nil)
	assert.NoError(Te, err, "unknown elements give all-zero element features, not errors")
}

func TestLoadFromFile(Te *testing.T) {
	raw, err := os.ReadFile(testModel)
	require.NoError(Te, err)
	path := filepath.Join(Te.TempDir(), "copy.yaml")
	require.NoError(Te, os.WriteFile(path, []byte(strings.ReplaceAll(string(raw), "format: console", "format: json")), 0o644))
	cfg, err := Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, "json", cfg.Log.Format)
}
