package molgraph

import (
	"errors"
	"testing"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// topology builds a molecule with the given elements and single bonds.
func topology(Te *testing.T, symbols []string, bonds ...[2]int) *chem.Topology {
	ats := make([]*chem.Atom, len(symbols))
	for i, s := range symbols {
		ats[i] = &chem.Atom{Symbol: s}
	}
	T := chem.NewTopology(ats)
	for _, b := range bonds {
		_, err := T.AddBond(b[0], b[1], 1)
		require.NoError(Te, err)
	}
	return T
}

// indexFeatures gives each atom a single feature, its index plus offset.
func indexFeatures(n int, offset float64) *tensor.Matrix {
	m := tensor.Zeros(n, 1)
	for i := 0; i < n; i++ {
		m.Set(i, 0, float64(i)+offset)
	}
	return m
}

func water(Te *testing.T) *chem.Topology {
	return topology(Te, []string{"O", "H", "H"}, [2]int{0, 1}, [2]int{2, 0})
}

func TestNew(Te *testing.T) {
	T := water(Te)
	T.Name = "water"
	g, err := New(T, indexFeatures(3, 0), nil)
	require.NoError(Te, err)
	assert.Equal(Te, 3, g.NAtoms())
	assert.Equal(Te, 2, g.NBonds())
	assert.Nil(Te, g.BondFeatures())
	src, dst := g.Edges(Forward)
	assert.Equal(Te, []int{0, 2}, src)
	assert.Equal(Te, []int{1, 0}, dst)
	rsrc, rdst := g.Edges(Reverse)
	assert.Equal(Te, dst, rsrc)
	assert.Equal(Te, src, rdst)
	src[0] = 99
	s2, _ := g.Edges(Forward)
	assert.Equal(Te, 0, s2[0], "Edges must return copies")
	require.Equal(Te, 1, g.NMolecules())
	p := g.Partition()[0]
	assert.Equal(Te, Span{Name: "water", NAtoms: 3, NBonds: 2}, p)
	assert.Equal(Te, "forward", Forward.String())
	assert.Equal(Te, "reverse", Reverse.String())
}

func TestNewShapeMismatch(Te *testing.T) {
	T := water(Te)
	_, err := New(T, indexFeatures(2, 0), nil)
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))
	_, err = New(T, nil, nil)
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))
	_, err = New(T, indexFeatures(3, 0), tensor.Zeros(3, 1))
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))
	g, err := New(T, indexFeatures(3, 0), tensor.Zeros(2, 4))
	require.NoError(Te, err)
	assert.Equal(Te, 4, g.BondFeatures().Cols)
}

func TestNoBonds(Te *testing.T) {
	T := topology(Te, []string{"Cl"})
	T.Atom(0).FormalCharge = -1
	g, err := New(T, indexFeatures(1, 0), tensor.Zeros(0, 2))
	require.NoError(Te, err)
	assert.Equal(Te, 0, g.NBonds())
	assert.Equal(Te, -1, g.Partition()[0].Charge)
	hg := g.Homograph()
	assert.Equal(Te, 1, hg.NNodes())
	assert.Equal(Te, 0, hg.NEdges())
	assert.Empty(Te, hg.InNeighbors(0))
}

func TestHomograph(Te *testing.T) {
	//the same propane recorded with different bond directions and order.
	A := topology(Te, []string{"C", "C", "C"}, [2]int{0, 1}, [2]int{1, 2})
	B := topology(Te, []string{"C", "C", "C"}, [2]int{2, 1}, [2]int{1, 0})
	ga, err := New(A, indexFeatures(3, 0), nil)
	require.NoError(Te, err)
	gb, err := New(B, indexFeatures(3, 0), nil)
	require.NoError(Te, err)
	ha, hb := ga.Homograph(), gb.Homograph()
	assert.Equal(Te, 4, ha.NEdges())
	for i := 0; i < 3; i++ {
		assert.Equal(Te, ha.InNeighbors(i), hb.InNeighbors(i))
	}
	assert.Equal(Te, []int{0, 2}, ha.InNeighbors(1))
	assert.Equal(Te, 2, ha.InDegree(1))
	assert.Equal(Te, 1, ha.InDegree(0))
}

func TestBatch(Te *testing.T) {
	W := water(Te)
	W.Name = "water"
	M := topology(Te, []string{"C", "H", "H", "H", "H"}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4})
	M.Name = "methane"
	Cl := topology(Te, []string{"Cl"})
	Cl.SetCharge(-1)
	gw, err := New(W, indexFeatures(3, 0), nil)
	require.NoError(Te, err)
	gm, err := New(M, indexFeatures(5, 10), nil)
	require.NoError(Te, err)
	gc, err := New(Cl, indexFeatures(1, 20), nil)
	require.NoError(Te, err)

	b, err := Batch(gw, gc, gm)
	require.NoError(Te, err)
	assert.Equal(Te, 9, b.NAtoms())
	assert.Equal(Te, 6, b.NBonds())
	assert.Equal(Te, 3, b.NMolecules())
	src, dst := b.Edges(Forward)
	assert.Equal(Te, []int{0, 2, 4, 4, 4, 4}, src)
	assert.Equal(Te, []int{1, 0, 5, 6, 7, 8}, dst)
	parts := b.Partition()
	assert.Equal(Te, Span{Name: "water", AtomOffset: 0, NAtoms: 3, BondOffset: 0, NBonds: 2}, parts[0])
	assert.Equal(Te, Span{AtomOffset: 3, NAtoms: 1, BondOffset: 2, NBonds: 0, Charge: -1}, parts[1])
	assert.Equal(Te, Span{Name: "methane", AtomOffset: 4, NAtoms: 5, BondOffset: 2, NBonds: 4}, parts[2])
	assert.Equal(Te, 20.0, b.AtomFeatures().At(3, 0))
	assert.Equal(Te, 12.0, b.AtomFeatures().At(6, 0))
	hg := b.Homograph()
	assert.Equal(Te, []int{5, 6, 7, 8}, hg.InNeighbors(4))
	assert.Empty(Te, hg.InNeighbors(3))

	split, err := b.SplitAtomRows(b.AtomFeatures())
	require.NoError(Te, err)
	require.Len(Te, split, 3)
	assert.True(Te, tensor.Equal(split[0], gw.AtomFeatures()))
	assert.True(Te, tensor.Equal(split[1], gc.AtomFeatures()))
	assert.True(Te, tensor.Equal(split[2], gm.AtomFeatures()))
	bsplit, err := b.SplitBondRows(tensor.Zeros(6, 1))
	require.NoError(Te, err)
	assert.Equal(Te, 0, bsplit[1].NVecs())
	assert.Equal(Te, 4, bsplit[2].NVecs())
	_, err = b.SplitAtomRows(tensor.Zeros(8, 1))
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))
	_, err = b.SplitBondRows(tensor.Zeros(5, 1))
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))

	//batches of batches keep all the molecules.
	bb, err := Batch(b, gw)
	require.NoError(Te, err)
	assert.Equal(Te, 4, bb.NMolecules())
	assert.Equal(Te, 9, bb.Partition()[3].AtomOffset)
	assert.Equal(Te, 6, bb.Partition()[3].BondOffset)
}

func TestBatchErrors(Te *testing.T) {
	_, err := Batch()
	assert.True(Te, errors.Is(err, chem.ErrConfiguration))
	W := water(Te)
	g1, err := New(W, indexFeatures(3, 0), nil)
	require.NoError(Te, err)
	g2, err := New(W, tensor.Zeros(3, 2), nil)
	require.NoError(Te, err)
	_, err = Batch(g1, g2)
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))
	g3, err := New(W, indexFeatures(3, 0), tensor.Zeros(2, 1))
	require.NoError(Te, err)
	_, err = Batch(g1, g3)
	assert.True(Te, errors.Is(err, chem.ErrShapeMismatch))
}

func TestRings(Te *testing.T) {
	//cyclopropane with a methyl: 3 ring atoms, 1 chain carbon.
	T := topology(Te, []string{"C", "C", "C", "C"}, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}, [2]int{2, 3})
	assert.Equal(Te, []bool{true, true, true, false}, RingBonds(T))
	assert.Equal(Te, []bool{true, true, true, false}, RingAtoms(T))
	//RingBonds must leave the molecule graph as it was.
	g := Undirected(T)
	assert.Equal(Te, 4, g.Edges().Len())
	W := water(Te)
	assert.Equal(Te, []bool{false, false}, RingBonds(W))
	assert.Equal(Te, []bool{false, false, false}, RingAtoms(W))
}
