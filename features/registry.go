/*
 * registry.go, part of molgnn.
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

package features

import (
	"sort"
	"strconv"

	chem "github.com/rmera/molgnn"
)

// Spec names a feature and, optionally, its categories, as given in a
// model description file. Integer categories are written as strings.
type Spec struct {
	Name       string   `mapstructure:"name" json:"name" yaml:"name"`
	Categories []string `mapstructure:"categories" json:"categories,omitempty" yaml:"categories,omitempty"`
}

var atomFeatures = map[string]func(cats []string) (AtomFeature, error){
	"atomic_element": func(cats []string) (AtomFeature, error) { return NewAtomicElement(cats...), nil },
	"atom_connectivity": func(cats []string) (AtomFeature, error) {
		ints, err := atoi(cats)
		return NewAtomConnectivity(ints...), err
	},
	"atom_formal_charge": func(cats []string) (AtomFeature, error) {
		ints, err := atoi(cats)
		return NewAtomFormalCharge(ints...), err
	},
	"atom_is_aromatic": func([]string) (AtomFeature, error) { return AtomIsAromatic{}, nil },
	"atom_is_in_ring":  func([]string) (AtomFeature, error) { return AtomIsInRing{}, nil },
}

var bondFeatures = map[string]func(cats []string) (BondFeature, error){
	"bond_is_aromatic": func([]string) (BondFeature, error) { return BondIsAromatic{}, nil },
	"bond_is_in_ring":  func([]string) (BondFeature, error) { return BondIsInRing{}, nil },
	"bond_order": func(cats []string) (BondFeature, error) {
		ints, err := atoi(cats)
		return NewBondOrder(ints...), err
	},
	"wiberg_bond_order": func([]string) (BondFeature, error) { return WibergBondOrder{}, nil },
}

func atoi(cats []string) ([]int, error) {
	ret := make([]int, len(cats))
	for i, c := range cats {
		v, err := strconv.Atoi(c)
		if err != nil {
			return nil, chem.NewError(chem.ErrConfiguration, "features.atoi", "category %q is not an integer", c)
		}
		ret[i] = v
	}
	return ret, nil
}

// NewAtomFeatures builds the atom features named in specs, in order.
func NewAtomFeatures(specs ...Spec) ([]AtomFeature, error) {
	ret := make([]AtomFeature, 0, len(specs))
	for _, s := range specs {
		ctor, ok := atomFeatures[s.Name]
		if !ok {
			return nil, chem.NewError(chem.ErrUnsupportedArchitecture, "NewAtomFeatures", "unknown atom feature %q, known: %v", s.Name, AtomFeatureNames())
		}
		f, err := ctor(s.Categories)
		if err != nil {
			return nil, chem.ErrDecorate(err, "NewAtomFeatures")
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// NewBondFeatures builds the bond features named in specs, in order.
func NewBondFeatures(specs ...Spec) ([]BondFeature, error) {
	ret := make([]BondFeature, 0, len(specs))
	for _, s := range specs {
		ctor, ok := bondFeatures[s.Name]
		if !ok {
			return nil, chem.NewError(chem.ErrUnsupportedArchitecture, "NewBondFeatures", "unknown bond feature %q, known: %v", s.Name, BondFeatureNames())
		}
		f, err := ctor(s.Categories)
		if err != nil {
			return nil, chem.ErrDecorate(err, "NewBondFeatures")
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// AtomFeatureNames returns the sorted names of the known atom features.
func AtomFeatureNames() []string { return keys(atomFeatures) }

// BondFeatureNames returns the sorted names of the known bond features.
func BondFeatureNames() []string { return keys(bondFeatures) }

func keys[V any](m map[string]V) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
