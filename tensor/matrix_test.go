package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix(2, 3, []float64{1, 2, 3})
	require.Error(Te, err)
	_, err = NewMatrix(-1, 3, nil)
	require.Error(Te, err)
	A, err := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	r, c := A.Dims()
	assert.Equal(Te, 2, r)
	assert.Equal(Te, 3, c)
	assert.Equal(Te, 6.0, A.At(1, 2))
	assert.Equal(Te, []float64{4, 5, 6}, A.Vec(1))
	assert.Panics(Te, func() { A.At(2, 0) })
}

func TestZeroRows(Te *testing.T) {
	A := Zeros(0, 4)
	assert.Equal(Te, 0, A.NVecs())
	assert.Nil(Te, A.Dense())
	assert.Empty(Te, A.RawCopy())
	B := Zeros(4, 2)
	C := Zeros(0, 2)
	C.Mul(A, B)
	assert.Equal(Te, 0, C.NVecs())
	C.AddVec(C, []float64{1, 2})
	C.Apply(func(float64) float64 { return 1 }, C)
	assert.Equal(Te, "[](0x2)", C.String())
	D := VConcat(Zeros(0, 2), FromRows(2, []float64{1, 2}))
	assert.True(Te, Equal(D, FromRows(2, []float64{1, 2})))
	E := HConcat(Zeros(0, 1), Zeros(0, 3))
	r, c := E.Dims()
	assert.Equal(Te, 0, r)
	assert.Equal(Te, 4, c)
}

func TestMul(Te *testing.T) {
	A := FromRows(0, []float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	B := FromRows(0, []float64{1, 0, 2}, []float64{0, 1, 1})
	C := Zeros(3, 3)
	C.Mul(A, B)
	var want mat.Dense
	want.Mul(A.Dense(), B.Dense())
	assert.True(Te, mat.Equal(&want, C.Dense()))
	assert.Panics(Te, func() { Zeros(2, 2).Mul(A, B) })

	//zero inner dimension gives zeros.
	Z := FromRows(0, []float64{7, 7})
	Z.Mul(Zeros(1, 0), Zeros(0, 2))
	assert.Equal(Te, []float64{0, 0}, Z.Vec(0))
}

func TestMulRowIndependence(Te *testing.T) {
	W := FromRows(0, []float64{0.1, -0.3}, []float64{0.7, 0.2}, []float64{-1.1, 0.05})
	row := []float64{0.3, 1.7, -2.2}
	single := Zeros(1, 2)
	single.Mul(FromRows(0, row), W)
	many := FromRows(0, []float64{5, 6, 7}, row, []float64{-1, 0.5, 9})
	out := Zeros(3, 2)
	out.Mul(many, W)
	assert.Equal(Te, single.Vec(0), out.Vec(1))
}

func TestArithmetic(Te *testing.T) {
	A := FromRows(0, []float64{1, 2}, []float64{3, 4})
	B := A.Clone()
	B.Scale(2, B)
	assert.Equal(Te, []float64{1, 2}, A.Vec(0), "Clone must not share memory")
	C := Zeros(2, 2)
	C.Add(A, B)
	assert.Equal(Te, []float64{9, 12}, C.Vec(1))
	C.AddVec(C, []float64{1, -1})
	assert.Equal(Te, []float64{4, 5}, C.Vec(0))
	S := Zeros(2, 2)
	S.SomeVecs(A, []int{1, 0})
	assert.Equal(Te, []float64{3, 4}, S.Vec(0))
	assert.Panics(Te, func() { C.AddVec(C, []float64{1}) })
	assert.True(Te, EqualApprox(A, FromRows(0, []float64{1, 2}, []float64{3, 4 + 1e-12}), 1e-9))
	assert.False(Te, Equal(A, FromRows(0, []float64{1, 2}, []float64{3, 4 + 1e-12})))
}

func TestView(Te *testing.T) {
	A := FromRows(0, []float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	V := A.View(1, 3)
	assert.Equal(Te, 2, V.NVecs())
	V.Set(0, 0, 30)
	assert.Equal(Te, 30.0, A.At(1, 0))
	E := A.View(3, 3)
	assert.Equal(Te, 0, E.NVecs())
	assert.Panics(Te, func() { A.View(2, 1) })
	assert.True(Te, Equal(VConcat(A.View(0, 1), A.View(1, 3)), A))
}

func TestHConcat(Te *testing.T) {
	A := FromRows(0, []float64{1}, []float64{2})
	B := FromRows(0, []float64{3, 4}, []float64{5, 6})
	C := HConcat(A, B)
	assert.Equal(Te, []float64{2, 5, 6}, C.Vec(1))
	assert.Panics(Te, func() { HConcat(A, Zeros(3, 1)) })
	assert.Panics(Te, func() { HConcat() })
}

func TestDense(Te *testing.T) {
	D := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	M := Dense2Matrix(D)
	assert.Equal(Te, 3.0, M.At(1, 0))
	assert.True(Te, mat.Equal(D, M.Dense()))
}
