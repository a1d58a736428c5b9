package features

import (
	"errors"
	"testing"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bond struct {
	i, j     int
	order    float64
	aromatic bool
}

func topology(Te *testing.T, symbols []string, aromatic []bool, bonds ...bond) *chem.Topology {
	ats := make([]*chem.Atom, len(symbols))
	for i, s := range symbols {
		ats[i] = &chem.Atom{Symbol: s}
		if aromatic != nil {
			ats[i].Aromatic = aromatic[i]
		}
	}
	T := chem.NewTopology(ats)
	for _, b := range bonds {
		nb, err := T.AddBond(b.i, b.j, b.order)
		require.NoError(Te, err)
		nb.Aromatic = b.aromatic
	}
	return T
}

func methane(Te *testing.T) *chem.Topology {
	return topology(Te, []string{"C", "H", "H", "H", "H"}, nil,
		bond{0, 1, 1, false}, bond{0, 2, 1, false}, bond{0, 3, 1, false}, bond{0, 4, 1, false})
}

// benzene has the 6 carbons first, and the 6 ring bonds before the C-H ones.
func benzene(Te *testing.T) *chem.Topology {
	symbols := []string{"C", "C", "C", "C", "C", "C", "H", "H", "H", "H", "H", "H"}
	aromatic := make([]bool, 12)
	var bonds []bond
	for i := 0; i < 6; i++ {
		aromatic[i] = true
		bonds = append(bonds, bond{i, (i + 1) % 6, float64(1 + i%2), true})
	}
	for i := 0; i < 6; i++ {
		bonds = append(bonds, bond{i, i + 6, 1, false})
	}
	return topology(Te, symbols, aromatic, bonds...)
}

func column(m *tensor.Matrix, j int) []float64 {
	ret := make([]float64, m.NVecs())
	for i := range ret {
		ret[i] = m.At(i, j)
	}
	return ret
}

func TestOneHotEncode(Te *testing.T) {
	assert.Equal(Te, []float64{0, 1, 0}, OneHotEncode("b", []string{"a", "b", "c"}))
	assert.Equal(Te, []float64{0, 0}, OneHotEncode(3, []int{1, 2}))
}

func TestAtomicElement(Te *testing.T) {
	f := NewAtomicElement("H", "C")
	assert.Equal(Te, 2, f.Len())
	enc := f.Encode(methane(Te))
	r, c := enc.Dims()
	assert.Equal(Te, 5, r)
	assert.Equal(Te, 2, c)
	assert.Equal(Te, []float64{0, 1}, enc.Vec(0))
	for i := 1; i < 5; i++ {
		assert.Equal(Te, []float64{1, 0}, enc.Vec(i))
	}
	assert.Equal(Te, len(chem.DefaultElements), NewAtomicElement().Len())
}

func TestAtomConnectivity(Te *testing.T) {
	f := NewAtomConnectivity()
	assert.Equal(Te, 4, f.Len())
	enc := f.Encode(methane(Te))
	assert.Equal(Te, []float64{0, 0, 0, 1}, enc.Vec(0))
	assert.Equal(Te, []float64{1, 1, 1, 1}, column(enc, 0)[1:])
}

func TestAtomFormalCharge(Te *testing.T) {
	T := topology(Te, []string{"Cl"}, nil)
	T.Atom(0).FormalCharge = -1
	f := NewAtomFormalCharge(0, -1)
	assert.Equal(Te, 2, f.Len())
	enc := f.Encode(T)
	assert.Equal(Te, 1, enc.NVecs())
	assert.Equal(Te, []float64{0, 1}, enc.Vec(0))
}

func TestIsAromatic(Te *testing.T) {
	B := benzene(Te)
	want := []float64{1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0}
	for _, enc := range []*tensor.Matrix{AtomIsAromatic{}.Encode(B), BondIsAromatic{}.Encode(B)} {
		r, c := enc.Dims()
		assert.Equal(Te, 12, r)
		assert.Equal(Te, 1, c)
		assert.Equal(Te, want, column(enc, 0))
	}
}

func TestIsInRing(Te *testing.T) {
	B := benzene(Te)
	want := []float64{1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0}
	assert.Equal(Te, want, column(AtomIsInRing{}.Encode(B), 0))
	assert.Equal(Te, want, column(BondIsInRing{}.Encode(B), 0))
}

func TestBondOrder(Te *testing.T) {
	formaldehyde := topology(Te, []string{"C", "O", "H", "H"}, nil,
		bond{0, 1, 2, false}, bond{0, 2, 1, false}, bond{0, 3, 1, false})
	f := NewBondOrder(2, 1)
	assert.Equal(Te, 2, f.Len())
	enc := f.Encode(formaldehyde)
	want := tensor.FromRows(2, []float64{1, 0}, []float64{0, 1}, []float64{0, 1})
	assert.True(Te, tensor.Equal(want, enc), enc.String())

	formaldehyde.Bond(1).Order = 1.5
	assert.Equal(Te, []float64{0, 0}, f.Encode(formaldehyde).Vec(1))
}

func TestWibergBondOrder(Te *testing.T) {
	M := methane(Te)
	for i := 0; i < M.NBonds(); i++ {
		M.Bond(i).FractionalOrder = float64(i)
	}
	enc := WibergBondOrder{}.Encode(M)
	r, c := enc.Dims()
	assert.Equal(Te, 4, r)
	assert.Equal(Te, 1, c)
	assert.Equal(Te, []float64{0, 1, 2, 3}, column(enc, 0))
}

func TestFeaturize(Te *testing.T) {
	atomFeats := []AtomFeature{NewAtomicElement("H", "C"), NewAtomConnectivity()}
	assert.Equal(Te, 6, AtomWidth(atomFeats...))
	assert.Equal(Te, "atomic_element(2)+atom_connectivity(4)", String(atomFeats...))
	g, err := Featurize(methane(Te), atomFeats, nil)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0, 1, 0, 0, 0, 1}, g.AtomFeatures().Vec(0))
	assert.Nil(Te, g.BondFeatures())

	bondFeats := []BondFeature{BondIsAromatic{}, NewBondOrder()}
	assert.Equal(Te, 4, BondWidth(bondFeats...))
	g, err = Featurize(benzene(Te), atomFeats, bondFeats)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 0, 1, 0}, g.BondFeatures().Vec(1))

	//a lone ion has an empty bond feature matrix.
	ion := topology(Te, []string{"Cl"}, nil)
	g, err = Featurize(ion, atomFeats, bondFeats)
	require.NoError(Te, err)
	assert.Equal(Te, 0, g.BondFeatures().NVecs())
	assert.Equal(Te, 4, g.BondFeatures().Cols)

	empty := AtomFeatures(ion)
	assert.Equal(Te, 1, empty.NVecs())
	assert.Equal(Te, 0, empty.Cols)
}

func TestRegistry(Te *testing.T) {
	feats, err := NewAtomFeatures(Spec{Name: "atomic_element", Categories: []string{"C", "H"}},
		Spec{Name: "atom_formal_charge", Categories: []string{"0", "-1", "1"}},
		Spec{Name: "atom_is_in_ring"})
	require.NoError(Te, err)
	require.Len(Te, feats, 3)
	assert.Equal(Te, 6, AtomWidth(feats...))
	assert.Equal(Te, []int{0, -1, 1}, feats[1].(*AtomFormalCharge).Categories)

	_, err = NewAtomFeatures(Spec{Name: "atom_hybridization"})
	assert.True(Te, errors.Is(err, chem.ErrUnsupportedArchitecture))
	_, err = NewAtomFeatures(Spec{Name: "atom_connectivity", Categories: []string{"one"}})
	assert.True(Te, errors.Is(err, chem.ErrConfiguration))

	bfeats, err := NewBondFeatures(Spec{Name: "bond_order"}, Spec{Name: "wiberg_bond_order"})
	require.NoError(Te, err)
	assert.Equal(Te, 4, BondWidth(bfeats...))
	_, err = NewBondFeatures(Spec{Name: "bond_length"})
	assert.True(Te, errors.Is(err, chem.ErrUnsupportedArchitecture))

	assert.Contains(Te, AtomFeatureNames(), "atomic_element")
	assert.Contains(Te, BondFeatureNames(), "bond_is_in_ring")
}
