/*
 * checkpoint.go, part of molgnn.
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

package chemjson

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/nn"
	"github.com/rmera/molgnn/tensor"
)

// Matrix is the JSON form of a tensor.Matrix, with the data in row-major order.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Checkpoint holds a named set of model parameters.
type Checkpoint struct {
	Parameters map[string]Matrix `json:"parameters"`
}

// NewCheckpoint copies the given parameters into a Checkpoint.
func NewCheckpoint(params []nn.Parameter) *Checkpoint {
	C := &Checkpoint{Parameters: make(map[string]Matrix, len(params))}
	for _, p := range params {
		C.Parameters[p.Name] = Matrix{Rows: p.Value.Rows, Cols: p.Value.Cols, Data: p.Value.RawCopy()}
	}
	return C
}

// Names returns the sorted parameter names.
func (C *Checkpoint) Names() []string {
	ret := make([]string, 0, len(C.Parameters))
	for k := range C.Parameters {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Matrices returns the parameters as matrices, ready for nn.Model.LoadParameters.
func (C *Checkpoint) Matrices() (map[string]*tensor.Matrix, error) {
	ret := make(map[string]*tensor.Matrix, len(C.Parameters))
	for _, k := range C.Names() {
		p := C.Parameters[k]
		m, err := tensor.NewMatrix(p.Rows, p.Cols, append([]float64(nil), p.Data...))
		if err != nil {
			return nil, chem.NewError(chem.ErrShapeMismatch, "Checkpoint.Matrices", "parameter %q: %s", k, err.Error())
		}
		ret[k] = m
	}
	return ret, nil
}

// WriteCheckpoint writes C as JSON to w.
func WriteCheckpoint(w io.Writer, C *Checkpoint) error {
	return errors.Wrap(json.NewEncoder(w).Encode(C), "WriteCheckpoint")
}

// ReadCheckpoint reads a JSON checkpoint from r.
func ReadCheckpoint(r io.Reader) (*Checkpoint, error) {
	C := new(Checkpoint)
	if err := json.NewDecoder(r).Decode(C); err != nil {
		return nil, errors.Wrap(err, "ReadCheckpoint")
	}
	return C, nil
}

// Compression methods for checkpoint files, chosen from the file name.
const (
	Plain = "plain"
	Zstd  = "zstd"
	Gzip  = "gzip"
)

// CompressionFor returns the compression used for a file called name:
// zstd for names ending in .zst or .zstd, gzip for .gz, and none otherwise.
func CompressionFor(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.HasSuffix(n, ".zst"), strings.HasSuffix(n, ".zstd"):
		return Zstd
	case strings.HasSuffix(n, ".gz"):
		return Gzip
	default:
		return Plain
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func newWriter(method string, w io.Writer) (io.WriteCloser, error) {
	switch method {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	default:
		return nopWriteCloser{w}, nil
	}
}

func newReader(method string, r io.Reader) (io.ReadCloser, error) {
	switch method {
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case Gzip:
		return gzip.NewReader(r)
	default:
		return io.NopCloser(r), nil
	}
}

// SaveParameters writes the parameters to the file name, compressed according
// to its extension.
func SaveParameters(name string, params []nn.Parameter) error {
	const funcname = "SaveParameters"
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, funcname)
	}
	defer f.Close()
	w, err := newWriter(CompressionFor(name), f)
	if err != nil {
		return errors.Wrap(err, funcname)
	}
	if err := WriteCheckpoint(w, NewCheckpoint(params)); err != nil {
		w.Close()
		return errors.Wrap(err, funcname)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, funcname)
	}
	return errors.Wrap(f.Close(), funcname)
}

// LoadParameters reads the parameters in the file name, decompressing it
// according to its extension.
func LoadParameters(name string) (map[string]*tensor.Matrix, error) {
	const funcname = "LoadParameters"
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, funcname)
	}
	defer f.Close()
	r, err := newReader(CompressionFor(name), f)
	if err != nil {
		return nil, errors.Wrap(err, funcname)
	}
	defer r.Close()
	C, err := ReadCheckpoint(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", funcname, name)
	}
	m, err := C.Matrices()
	return m, chem.ErrDecorate(err, funcname)
}
