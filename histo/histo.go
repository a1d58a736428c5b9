/*
 * histo.go, part of molgnn.
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

// Package histo summarizes the values predicted by molgnn readouts over a set
// of molecules: basic statistics and a histogram per output column.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a histogram. Bin i counts the values v with
// dividers[i] <= v < dividers[i+1]. Values out of that range are counted
// apart, as outliers.
type Data struct {
	dividers []float64
	histo    []float64
	total    int
	outside  int
}

// NewData returns a histogram with the given dividers, which must be at least
// two and sorted in increasing order, filled with rawdata.
func NewData(dividers []float64, rawdata ...float64) (*Data, error) {
	if len(dividers) < 2 || !sort.Float64sAreSorted(dividers) {
		return nil, chem.NewError(chem.ErrConfiguration, "histo.NewData", "need at least 2 increasing dividers, got %v", dividers)
	}
	D := &Data{dividers: append([]float64(nil), dividers...), histo: make([]float64, len(dividers)-1)}
	D.AddData(rawdata...)
	return D, nil
}

// Uniform returns the dividers of bins equal bins spanning [min, max].
// The last divider is nudged up so max itself falls in the last bin.
func Uniform(min, max float64, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	if max <= min {
		return []float64{min, math.Nextafter(min, math.Inf(1))}
	}
	d := floats.Span(make([]float64, bins+1), min, max)
	d[bins] = math.Nextafter(max, math.Inf(1))
	return d
}

// AddData adds the given values to the histogram.
func (D *Data) AddData(rawdata ...float64) {
	if len(rawdata) == 0 {
		return
	}
	data := append([]float64(nil), rawdata...)
	sort.Float64s(data)
	//stat.Histogram panics with values out of range, so they are removed first.
	mini := sort.SearchFloat64s(data, D.dividers[0])
	maxi := sort.SearchFloat64s(data, D.dividers[len(D.dividers)-1])
	inside := data[mini:maxi]
	D.outside += len(data) - len(inside)
	D.total += len(data)
	if len(inside) == 0 {
		return
	}
	floats.Add(D.histo, stat.Histogram(nil, D.dividers, inside, nil))
}

// Total returns the number of values added, including outliers.
func (D *Data) Total() int { return D.total }

// Outside returns the number of values that fell out of the histogram range.
func (D *Data) Outside() int { return D.outside }

// Dividers returns a copy of the dividers.
func (D *Data) Dividers() []float64 { return append([]float64(nil), D.dividers...) }

// Counts returns a copy of the bin counts.
func (D *Data) Counts() []float64 { return append([]float64(nil), D.histo...) }

// Normalized returns the fraction of the values that fell in each bin. It is
// all zeros for an empty histogram.
func (D *Data) Normalized() []float64 {
	ret := D.Counts()
	if D.total > 0 {
		floats.Scale(1/float64(D.total), ret)
	}
	return ret
}

// String prints the histogram in two lines: the bin ranges and the counts.
func (D *Data) String() string {
	d := make([]string, len(D.histo))
	h := make([]string, len(D.histo))
	for i, v := range D.histo {
		d[i] = fmt.Sprintf("%6.3f-%6.3f", D.dividers[i], D.dividers[i+1])
		h[i] = fmt.Sprintf("%13.0f", v)
	}
	return strings.Join(d, " ") + "\n" + strings.Join(h, " ")
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dividers []float64 `json:"dividers"`
		Counts   []float64 `json:"counts"`
		Total    int       `json:"total"`
		Outside  int       `json:"outside"`
	}{D.dividers, D.histo, D.total, D.outside})
}

// Summary describes the values of one column of a readout over many molecules.
// StdDev is zero for fewer than two values.
type Summary struct {
	Readout   string  `json:"readout"`
	Column    int     `json:"column"`
	N         int     `json:"n"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Histogram *Data   `json:"histogram,omitempty"`
}

// Summarize returns one Summary per column of the readout called name, from the
// per-molecule predictions preds. Histograms have bins uniform bins between the
// smallest and the largest value. Columns with no values (e.g. bond readouts
// over lone ions only) get N = 0 and no histogram.
func Summarize(name string, preds []map[string]*tensor.Matrix, bins int) ([]*Summary, error) {
	const funcname = "histo.Summarize"
	cols := -1
	for i, p := range preds {
		m, ok := p[name]
		if !ok || m == nil {
			return nil, chem.NewError(chem.ErrMissingNodeData, funcname, "molecule %d has no readout %q", i, name)
		}
		if cols < 0 {
			cols = m.Cols
		} else if m.Cols != cols {
			return nil, chem.NewError(chem.ErrShapeMismatch, funcname, "readout %q has %d columns in molecule %d, %d before", name, m.Cols, i, cols)
		}
	}
	if cols < 0 {
		return nil, nil
	}
	ret := make([]*Summary, cols)
	for j := range ret {
		var vals []float64
		for _, p := range preds {
			m := p[name]
			for i := 0; i < m.NVecs(); i++ {
				vals = append(vals, m.At(i, j))
			}
		}
		S := &Summary{Readout: name, Column: j, N: len(vals)}
		ret[j] = S
		if S.N == 0 {
			continue
		}
		S.Min, S.Max = floats.Min(vals), floats.Max(vals)
		if S.N > 1 {
			S.Mean, S.StdDev = stat.MeanStdDev(vals, nil)
		} else {
			S.Mean = vals[0]
		}
		h, err := NewData(Uniform(S.Min, S.Max, bins), vals...)
		if err != nil {
			return nil, chem.ErrDecorate(err, funcname)
		}
		S.Histogram = h
	}
	return ret, nil
}
