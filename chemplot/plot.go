/*
 * plot.go, part of molgnn.
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

package chemplot

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/nn"
	"github.com/rmera/molgnn/tensor"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicBarPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// BarPlot produces a bar chart of data, where data[k] is a series with one
// value per entity, and saves it as plotname. The format is given by the
// extension of plotname (png, svg, pdf...). labels, if not nil, must have one
// name per entity. Each series gets its own color.
func BarPlot(data [][]float64, labels []string, title, ylabel, plotname string) error {
	const funcname = "BarPlot"
	if len(data) == 0 || len(data[0]) == 0 {
		return errors.Errorf("%s: no data to plot", funcname)
	}
	n := len(data[0])
	for k, d := range data {
		if len(d) != n {
			return errors.Errorf("%s: series %d has %d values, series 0 has %d", funcname, k, len(d), n)
		}
	}
	if labels != nil && len(labels) != n {
		return errors.Errorf("%s: %d labels for %d values", funcname, len(labels), n)
	}
	p := basicBarPlot(title, ylabel)
	width := vg.Points(20 / float64(len(data)))
	for key, val := range data {
		bars, err := plotter.NewBarChart(plotter.Values(val), width)
		if err != nil {
			return errors.Wrap(err, funcname)
		}
		r, g, b := colors(key, len(data))
		bars.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(key)-float64(len(data)-1)/2) * width
		p.Add(bars)
		if len(data) > 1 {
			p.Legend.Add(strconv.Itoa(key), bars)
		}
	}
	if labels != nil {
		p.NominalX(labels...)
	}
	w := vg.Length(n)*vg.Points(24) + vg.Inch
	if w < 4*vg.Inch {
		w = 4 * vg.Inch
	}
	if err := p.Save(w, 4*vg.Inch, plotname); err != nil {
		return errors.Wrap(err, funcname)
	}
	return nil
}

// EntityLabels returns a label for each atom (kind nn.AtomPoolingKind) or each
// bond (nn.BondPoolingKind) of mol. Atoms are labeled with their name or, if
// they have none, their symbol and index. Bonds are labeled with the labels of
// their atoms.
func EntityLabels(mol chem.Molecule, kind nn.PoolingKind) []string {
	atom := func(i int) string {
		at := mol.Atom(i)
		if at.Name != "" {
			return at.Name
		}
		return fmt.Sprintf("%s%d", at.Symbol, i+1)
	}
	if kind == nn.BondPoolingKind {
		ret := make([]string, mol.NBonds())
		for i := range ret {
			a, b := mol.Bond(i).Ends()
			ret[i] = atom(a) + "-" + atom(b)
		}
		return ret
	}
	ret := make([]string, mol.Len())
	for i := range ret {
		ret[i] = atom(i)
	}
	return ret
}

// fileSafe replaces path separators and leading dots in s, so it can only
// name a file in the current directory.
func fileSafe(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, s)
	s = strings.TrimLeft(s, ".")
	if s == "" {
		s = "_"
	}
	return s
}

// PlotReadout saves a bar chart of the prediction pred of the readout called
// name for mol, in dir, as <molecule name>_<readout name>.png, with path separators
// replaced by underscores. It returns the
// file name. Empty predictions, such as bond readouts of a lone ion, are not
// plotted, and give an empty file name.
func PlotReadout(mol *chem.Topology, name string, kind nn.PoolingKind, pred *tensor.Matrix, dir string) (string, error) {
	labels := EntityLabels(mol, kind)
	if len(labels) != pred.NVecs() {
		return "", chem.NewError(chem.ErrShapeMismatch, "PlotReadout", "%d rows of %q for %d entities", pred.NVecs(), name, len(labels))
	}
	if pred.NVecs() == 0 || pred.Cols == 0 {
		return "", nil
	}
	data := make([][]float64, pred.Cols)
	for k := range data {
		data[k] = make([]float64, pred.NVecs())
		for i := range data[k] {
			data[k][i] = pred.At(i, k)
		}
	}
	molname := mol.Name
	if molname == "" {
		molname = "molecule"
	}
	plotname := filepath.Join(dir, fmt.Sprintf("%s_%s.png", fileSafe(molname), fileSafe(name)))
	return plotname, BarPlot(data, labels, molname+" "+name, name, plotname)
}
