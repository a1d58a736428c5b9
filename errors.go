/*
 * errors.go, part of molgnn.
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

package chem

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the errors produced by molgnn. Kinds are comparable
// with errors.Is, so callers can write errors.Is(err, chem.ErrShapeMismatch).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// ErrConfiguration marks mismatched or invalid per-layer configuration.
	ErrConfiguration = Kind("molgnn: configuration error")
	// ErrUnsupportedArchitecture marks an unknown convolution, pooling,
	// postprocess or feature name.
	ErrUnsupportedArchitecture = Kind("molgnn: unsupported architecture")
	// ErrShapeMismatch marks a feature tensor whose rows or columns don't
	// match the graph it goes with.
	ErrShapeMismatch = Kind("molgnn: shape mismatch")
	// ErrMissingNodeData marks a pooling call made without node embeddings.
	ErrMissingNodeData = Kind("molgnn: missing node data")
	// ErrTopology marks a malformed molecule (bad bond indexes, too many bonds...).
	ErrTopology = Kind("molgnn: invalid topology")
)

// Error is the error type returned by all molgnn packages. Besides the message
// and its Kind, it keeps the list of functions the error went through,
// which is filled by Decorate as the error travels up.
type Error struct {
	kind    Kind
	message string
	deco    []string
}

// NewError returns a new *Error of the given kind, with the message formatted
// as in fmt.Sprintf, and decorated with the name of the function where it originated.
func NewError(kind Kind, caller string, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), deco: []string{caller}}
}

// Error returns a string with the kind, the message and the decoration, if any.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%s: %s (%s)", err.kind, err.message, strings.Join(err.deco, "<-"))
}

// Kind returns the kind of the error.
func (err *Error) Kind() Kind { return err.kind }

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice. If dec is empty, the current slice is just returned.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Is reports whether target is the Kind of err.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.kind
}

// ErrDecorate adds caller to the decoration of err if err is a molgnn error,
// and returns err unchanged otherwise. A nil error gives nil.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
