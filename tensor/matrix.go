/*
 * matrix.go, part of molgnn.
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

package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is the main container. It is a row-major dense matrix
// which, unlike mat.Dense, can have zero rows.
type Matrix struct {
	blas64.General
}

// NewMatrix generates and returns a Matrix with the given rows and columns, using data as its
// backing slice. It returns an error if the length of data doesn't match.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, Error{fmt.Sprintf("Negative dimensions %dx%d", rows, cols), "NewMatrix"}
	}
	if len(data) != rows*cols {
		return nil, Error{fmt.Sprintf("Input slice length %d doesn't match %dx%d", len(data), rows, cols), "NewMatrix"}
	}
	return &Matrix{blas64.General{Rows: rows, Cols: cols, Stride: stride(cols), Data: data}}, nil
}

// Zeros returns a zero-filled Matrix with the given dimensions.
func Zeros(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(ErrShape)
	}
	return &Matrix{blas64.General{Rows: rows, Cols: cols, Stride: stride(cols), Data: make([]float64, rows*cols)}}
}

// FromRows builds a Matrix copying the given rows, which must all have the same length.
// cols is used only when rows is empty.
func FromRows(cols int, rows ...[]float64) *Matrix {
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	M := Zeros(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			panic(ErrShape)
		}
		copy(M.Vec(i), r)
	}
	return M
}

// Dense2Matrix copies a gonum Dense into a new Matrix.
func Dense2Matrix(A *mat.Dense) *Matrix {
	r, c := A.Dims()
	M := Zeros(r, c)
	for i := 0; i < r; i++ {
		mat.Row(M.Vec(i), i, A)
	}
	return M
}

// Dense returns a gonum copy of the matrix, or nil if the matrix is empty,
// since gonum doesn't allow zero-sized Dense matrices.
func (F *Matrix) Dense() *mat.Dense {
	if F.Rows == 0 || F.Cols == 0 {
		return nil
	}
	return mat.NewDense(F.Rows, F.Cols, F.RawCopy())
}

func stride(cols int) int {
	if cols < 1 {
		return 1
	}
	return cols
}

// Dims returns the number of rows and columns of the matrix.
func (F *Matrix) Dims() (int, int) {
	return F.Rows, F.Cols
}

// NVecs returns the number of rows (vectors) in the matrix.
func (F *Matrix) NVecs() int {
	return F.Rows
}

// At returns the element at row i, column j.
func (F *Matrix) At(i, j int) float64 {
	F.checkIndex(i, j)
	return F.Data[i*F.Stride+j]
}

// Set sets the element at row i, column j to v.
func (F *Matrix) Set(i, j int, v float64) {
	F.checkIndex(i, j)
	F.Data[i*F.Stride+j] = v
}

func (F *Matrix) checkIndex(i, j int) {
	if i < 0 || i >= F.Rows || j < 0 || j >= F.Cols {
		panic(ErrIndexOutOfRange)
	}
}

// Vec returns the ith row of the matrix. The slice shares memory with
// the matrix, so changes are reflected in it, and vice-versa.
func (F *Matrix) Vec(i int) []float64 {
	if i < 0 || i >= F.Rows {
		panic(ErrIndexOutOfRange)
	}
	if F.Cols == 0 {
		return nil
	}
	return F.Data[i*F.Stride : i*F.Stride+F.Cols]
}

// View returns a view of the rows from, from+1, ..., to-1 of F.
// Changes in the view are reflected in F and vice-versa. from==to gives
// a view with zero rows.
func (F *Matrix) View(from, to int) *Matrix {
	if from < 0 || to > F.Rows || from > to {
		panic(ErrIndexOutOfRange)
	}
	var data []float64
	if to > from && F.Cols > 0 {
		data = F.Data[from*F.Stride : (to-1)*F.Stride+F.Cols]
	}
	return &Matrix{blas64.General{Rows: to - from, Cols: F.Cols, Stride: F.Stride, Data: data}}
}

// RawCopy returns a new, contiguous, slice with the elements of the matrix in row-major order.
func (F *Matrix) RawCopy() []float64 {
	ret := make([]float64, 0, F.Rows*F.Cols)
	for i := 0; i < F.Rows; i++ {
		ret = append(ret, F.Vec(i)...)
	}
	return ret
}

// Clone returns a deep copy of F, which doesn't share memory with it.
func (F *Matrix) Clone() *Matrix {
	ret, _ := NewMatrix(F.Rows, F.Cols, F.RawCopy()) //the dimensions can't be wrong
	return ret
}

// Copy puts a copy of A in the receiver. Both must have the same dimensions.
func (F *Matrix) Copy(A *Matrix) {
	F.sameShape(A)
	for i := 0; i < A.Rows; i++ {
		copy(F.Vec(i), A.Vec(i))
	}
}

func (F *Matrix) sameShape(A *Matrix) {
	if F.Rows != A.Rows || F.Cols != A.Cols {
		panic(ErrShape)
	}
}

// Mul puts the matrix product of A and B in the receiver, which must have
// A's rows and B's columns, and must not share memory with A or B.
// Each element is accumulated in order of increasing inner index, so a row of
// the result depends only on the corresponding row of A.
func (F *Matrix) Mul(A, B *Matrix) {
	if A.Cols != B.Rows || F.Rows != A.Rows || F.Cols != B.Cols {
		panic(ErrShape)
	}
	if F.Rows == 0 || F.Cols == 0 {
		return
	}
	if A.Cols == 0 {
		for i := 0; i < F.Rows; i++ {
			floats.ScaleTo(F.Vec(i), 0, F.Vec(i))
		}
		return
	}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, A.General, B.General, 0, F.General)
}

// Add puts the element-wise sum of A and B in the receiver. All three must have
// the same dimensions. The receiver can be A or B.
func (F *Matrix) Add(A, B *Matrix) {
	F.sameShape(A)
	F.sameShape(B)
	for i := 0; i < F.Rows; i++ {
		floats.AddTo(F.Vec(i), A.Vec(i), B.Vec(i))
	}
}

// AddVec adds the row vector vec to each row of A, and puts the result in
// the receiver. The receiver can be A.
func (F *Matrix) AddVec(A *Matrix, vec []float64) {
	F.sameShape(A)
	if len(vec) != F.Cols {
		panic(ErrShape)
	}
	for i := 0; i < F.Rows; i++ {
		floats.AddTo(F.Vec(i), A.Vec(i), vec)
	}
}

// Scale multiplies each element of A by s and puts the result in the receiver.
func (F *Matrix) Scale(s float64, A *Matrix) {
	F.sameShape(A)
	for i := 0; i < F.Rows; i++ {
		floats.ScaleTo(F.Vec(i), s, A.Vec(i))
	}
}

// Apply puts f(a) in the receiver, for each element a of A.
func (F *Matrix) Apply(f func(float64) float64, A *Matrix) {
	F.sameShape(A)
	for i := 0; i < F.Rows; i++ {
		r := F.Vec(i)
		for j, v := range A.Vec(i) {
			r[j] = f(v)
		}
	}
}

// SomeVecs puts in the receiver the rows of A with the indexes in clist, in that order.
// The receiver must have len(clist) rows and A's columns.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.Rows != len(clist) || F.Cols != A.Cols {
		panic(ErrShape)
	}
	for i, j := range clist {
		copy(F.Vec(i), A.Vec(j))
	}
}

// HConcat returns a new matrix with the columns of all the given matrices, which must
// have the same number of rows, side by side.
func HConcat(mats ...*Matrix) *Matrix {
	if len(mats) == 0 {
		panic(ErrNotEnoughElements)
	}
	rows := mats[0].Rows
	cols := 0
	for _, m := range mats {
		if m.Rows != rows {
			panic(ErrShape)
		}
		cols += m.Cols
	}
	ret := Zeros(rows, cols)
	for i := 0; i < rows; i++ {
		r := ret.Vec(i)
		c := 0
		for _, m := range mats {
			copy(r[c:c+m.Cols], m.Vec(i))
			c += m.Cols
		}
	}
	return ret
}

// VConcat returns a new matrix with the rows of all the given matrices, which must
// have the same number of columns, one after the other.
func VConcat(mats ...*Matrix) *Matrix {
	if len(mats) == 0 {
		panic(ErrNotEnoughElements)
	}
	cols := mats[0].Cols
	rows := 0
	for _, m := range mats {
		if m.Cols != cols {
			panic(ErrShape)
		}
		rows += m.Rows
	}
	ret := Zeros(rows, cols)
	r := 0
	for _, m := range mats {
		ret.View(r, r+m.Rows).Copy(m)
		r += m.Rows
	}
	return ret
}

// Equal returns true if A and B have the same dimensions and exactly the same elements.
func Equal(A, B *Matrix) bool {
	if A.Rows != B.Rows || A.Cols != B.Cols {
		return false
	}
	for i := 0; i < A.Rows; i++ {
		if !floats.Equal(A.Vec(i), B.Vec(i)) {
			return false
		}
	}
	return true
}

// EqualApprox returns true if A and B have the same dimensions and all their
// elements are within tol of each other.
func EqualApprox(A, B *Matrix, tol float64) bool {
	if A.Rows != B.Rows || A.Cols != B.Cols {
		return false
	}
	for i := 0; i < A.Rows; i++ {
		if !floats.EqualApprox(A.Vec(i), B.Vec(i), tol) {
			return false
		}
	}
	return true
}

// String returns a formatted representation of the matrix.
func (F *Matrix) String() string {
	D := F.Dense()
	if D == nil {
		return fmt.Sprintf("[](%dx%d)", F.Rows, F.Cols)
	}
	return fmt.Sprintf("%v", mat.Formatted(D, mat.Squeeze()))
}

//Errors

// Error is the error type of the package. It records the function that produced it.
type Error struct {
	message  string
	function string
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return fmt.Sprintf("molgnn/tensor.%s: %s", err.function, err.message)
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotEnoughElements = PanicMsg("molgnn/tensor: not enough elements")
	ErrShape             = PanicMsg("molgnn/tensor: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("molgnn/tensor: index out of range")
)
