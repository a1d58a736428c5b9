package chem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atoms(symbols ...string) []*Atom {
	ret := make([]*Atom, len(symbols))
	for i, s := range symbols {
		ret[i] = &Atom{Symbol: s}
	}
	return ret
}

func methane(Te *testing.T) *Topology {
	T := NewTopology(atoms("C", "H", "H", "H", "H"))
	for i := 1; i < 5; i++ {
		_, err := T.AddBond(0, i, 1)
		require.NoError(Te, err)
	}
	return T
}

func TestTopology(Te *testing.T) {
	T := methane(Te)
	assert.Equal(Te, 5, T.Len())
	assert.Equal(Te, 4, T.NBonds())
	assert.Equal(Te, 4, T.Atom(0).Degree())
	assert.Equal(Te, []int{1, 2, 3, 4}, T.Neighbors(0))
	assert.Equal(Te, []int{0}, T.Neighbors(3))
	assert.True(Te, T.Bonded(2, 0))
	assert.False(Te, T.Bonded(1, 2))
	assert.Equal(Te, 3, T.Atom(3).Index)
	assert.Panics(Te, func() { T.Atom(5) })
	assert.Panics(Te, func() { T.Bond(-1) })
	require.NoError(Te, T.Validate())
	i, j := T.Bond(2).Ends()
	assert.Equal(Te, 0, i)
	assert.Equal(Te, 3, j)
	assert.Same(Te, T.Atom(3), T.Bond(2).Cross(T.Atom(0)))
}

func TestAddBondErrors(Te *testing.T) {
	T := NewTopology(atoms("O", "H", "H"))
	_, err := T.AddBond(0, 3, 1)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrTopology))
	_, err = T.AddBond(1, 1, 1)
	assert.True(Te, errors.Is(err, ErrTopology))
	_, err = T.AddBond(0, 1, 1)
	require.NoError(Te, err)
	_, err = T.AddBond(1, 0, 1)
	assert.True(Te, errors.Is(err, ErrTopology), "duplicate bonds, even reversed, must be rejected")
	assert.Equal(Te, 1, T.NBonds())
}

func TestValidate(Te *testing.T) {
	T := NewTopology(atoms("H", "H", "H"))
	_, err := T.AddBond(0, 1, 1)
	require.NoError(Te, err)
	require.NoError(Te, T.Validate())
	_, err = T.AddBond(1, 2, 1)
	require.NoError(Te, err)
	err = T.Validate()
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrTopology))

	//nitrogen has no defined maximum.
	N := NewTopology(atoms("N", "H", "H", "H", "H"), 1)
	for i := 1; i < 5; i++ {
		_, err := N.AddBond(0, i, 1)
		require.NoError(Te, err)
	}
	require.NoError(Te, N.Validate())
}

func TestCharge(Te *testing.T) {
	T := NewTopology(atoms("Cl"))
	T.Atom(0).FormalCharge = -1
	assert.Equal(Te, -1, T.Charge())
	T.SetCharge(0)
	assert.Equal(Te, 0, T.Charge())
	U := NewTopology(atoms("N", "H"), 2)
	assert.Equal(Te, 2, U.Charge())
}

func TestCopy(Te *testing.T) {
	T := methane(Te)
	T.Name = "methane"
	C := T.Copy()
	assert.Equal(Te, T.Len(), C.Len())
	assert.Equal(Te, T.NBonds(), C.NBonds())
	assert.Equal(Te, "methane", C.Name)
	assert.NotSame(Te, T.Atom(0), C.Atom(0))
	C.Atom(1).Symbol = "D"
	assert.Equal(Te, "H", T.Atom(1).Symbol)
	assert.Same(Te, C.Atom(0), C.Bond(0).At1)
	require.NoError(Te, C.Validate())
}

func TestErrors(Te *testing.T) {
	err := NewError(ErrShapeMismatch, "inner", "%d rows", 3)
	assert.Equal(Te, ErrShapeMismatch, err.Kind())
	wrapped := ErrDecorate(err, "outer")
	assert.True(Te, errors.Is(wrapped, ErrShapeMismatch))
	assert.False(Te, errors.Is(wrapped, ErrConfiguration))
	assert.Contains(Te, wrapped.Error(), "inner<-outer")
	assert.Contains(Te, wrapped.Error(), "3 rows")
	assert.Nil(Te, ErrDecorate(nil, "outer"))
	plain := errors.New("plain")
	assert.Equal(Te, plain, ErrDecorate(plain, "outer"))
	z, ok := AtomicNumber("Cl")
	assert.True(Te, ok)
	assert.Equal(Te, 17, z)
	_, ok = AtomicNumber("Xx")
	assert.False(Te, ok)
}
