/*
 * activations.go, part of molgnn.
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

package nn

import (
	"math"
	"strings"

	chem "github.com/rmera/molgnn"
)

// Activation identifies an activation function.
type Activation string

const (
	Identity  Activation = "identity"
	ReLU      Activation = "relu"
	LeakyReLU Activation = "leaky_relu"
	ELU       Activation = "elu"
	Tanh      Activation = "tanh"
	Sigmoid   Activation = "sigmoid"
)

// leakyReLUSlope is the negative slope of LeakyReLU, as in torch.
const leakyReLUSlope = 0.01

var activations = map[Activation]func(float64) float64{
	Identity: func(x float64) float64 { return x },
	ReLU: func(x float64) float64 {
		if x > 0 {
			return x
		}
		return 0
	},
	LeakyReLU: func(x float64) float64 {
		if x > 0 {
			return x
		}
		return leakyReLUSlope * x
	},
	ELU: func(x float64) float64 {
		if x > 0 {
			return x
		}
		return math.Expm1(x)
	},
	Tanh:    math.Tanh,
	Sigmoid: func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
}

// ParseActivation returns the Activation for name, which is case-insensitive.
// "none", "linear" and the empty string are taken as Identity.
func ParseActivation(name string) (Activation, error) {
	a := Activation(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case "", "none", "linear":
		return Identity, nil
	case "leakyrelu":
		return LeakyReLU, nil
	}
	if _, ok := activations[a]; !ok {
		return "", chem.NewError(chem.ErrConfiguration, "ParseActivation", "unknown activation function %q", name)
	}
	return a, nil
}

// Func returns the function for the activation. It panics for unknown activations,
// which can't come out of ParseActivation.
func (a Activation) Func() func(float64) float64 {
	f, ok := activations[a]
	if !ok {
		panic("nn: unknown activation " + string(a))
	}
	return f
}
