/*
 * config.go, part of molgnn.
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

// Package config reads molgnn model descriptions. A description names the
// atom and bond features, the convolution stack and the readouts of a model,
// and Build turns it into a ready-to-run Pipeline. Parameters are not part of
// the description; they are loaded separately with chemjson.
package config

import (
	"strings"

	chem "github.com/rmera/molgnn"
	"github.com/rmera/molgnn/features"
	"github.com/rmera/molgnn/nn"
)

const (
	DefaultArchitecture = "SAGEConv"
	DefaultPooling      = "atom"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// ConvolutionConfig describes the convolution module. InFeats can be left at
// zero, in which case the width of the atom features is used.
type ConvolutionConfig struct {
	nn.LayerConfig `mapstructure:",squash"`

	Architecture string `mapstructure:"architecture"`
	InFeats      int    `mapstructure:"in_feats"`
}

// ReadoutConfig describes one readout. PoolingLayers is required for bond pooling
// and rejected for atom pooling.
type ReadoutConfig struct {
	Pooling       string          `mapstructure:"pooling"`
	PoolingLayers *nn.LayerConfig `mapstructure:"pooling_layers"`
	Layers        nn.LayerConfig  `mapstructure:"layers"`
	Postprocess   string          `mapstructure:"postprocess"`
}

// LogConfig sets up the logger of the command line tools.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is a whole model description.
type Config struct {
	AtomFeatures []features.Spec          `mapstructure:"atom_features"`
	BondFeatures []features.Spec          `mapstructure:"bond_features"`
	Convolution  ConvolutionConfig        `mapstructure:"convolution"`
	Readouts     map[string]ReadoutConfig `mapstructure:"readouts"`
	Log          LogConfig                `mapstructure:"log"`
}

// ApplyDefaults fills the unset fields of cfg. Explicitly set fields are
// left alone.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if len(cfg.AtomFeatures) == 0 {
		cfg.AtomFeatures = []features.Spec{{Name: "atomic_element"}, {Name: "atom_connectivity"}}
	}
	if cfg.Convolution.Architecture == "" {
		cfg.Convolution.Architecture = DefaultArchitecture
	}
	for name, r := range cfg.Readouts {
		if r.Pooling == "" {
			r.Pooling = DefaultPooling
			cfg.Readouts[name] = r
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate checks the parts of the description that can be checked without
// building the model. Errors have Kind chem.ErrConfiguration.
func (c *Config) Validate() error {
	const funcname = "Config.Validate"
	if len(c.Convolution.Hidden) == 0 {
		return chem.NewError(chem.ErrConfiguration, funcname, "convolution.hidden_feats is required")
	}
	if c.Convolution.InFeats < 0 {
		return chem.NewError(chem.ErrConfiguration, funcname, "convolution.in_feats %d is negative", c.Convolution.InFeats)
	}
	if len(c.Readouts) == 0 {
		return chem.NewError(chem.ErrConfiguration, funcname, "at least one readout is required")
	}
	for name, r := range c.Readouts {
		if len(r.Layers.Hidden) == 0 {
			return chem.NewError(chem.ErrConfiguration, funcname, "readouts.%s.layers.hidden_feats is required", name)
		}
		if strings.EqualFold(r.Pooling, string(nn.BondPoolingKind)) && r.PoolingLayers == nil {
			return chem.NewError(chem.ErrConfiguration, funcname, "readouts.%s: bond pooling needs pooling_layers", name)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return chem.NewError(chem.ErrConfiguration, funcname, "log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}
