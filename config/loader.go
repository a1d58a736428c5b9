/*
 * loader.go, part of molgnn.
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

package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of the environment variables that override
// the model description, e.g. MOLGNN_CONVOLUTION_ARCHITECTURE.
const envPrefix = "MOLGNN"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML model description at path, applies the MOLGNN_*
// environment overrides and the defaults, and validates the result.
// Readout names are case-insensitive, and are returned in lower case.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "config: failed to read %q", path)
	}
	return unmarshalAndFinalize(v)
}

// Parse is like Load, but reads the YAML description from a string.
func Parse(yaml string) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		return nil, errors.Wrap(err, "config: failed to parse description")
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "config: failed to unmarshal description")
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config: validation failed")
	}
	return cfg, nil
}
