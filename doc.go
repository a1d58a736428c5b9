/*
 * doc.go, part of molgnn.
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

/*
Package chem is the main package of molgnn, a library for predicting per-atom and
per-bond properties of molecules (partial charges, bond orders) with graph
neural networks, on top of the gonum numerical libraries.

The root package provides the molecule model (atoms, bonds and topologies) and
the error types shared by all molgnn packages. The rest of the work is done in
the sub-packages:

	tensor     dense float64 matrices, allowing zero rows, with products over gonum's blas64.
	features   one-hot featurization of atoms and bonds.
	molgraph   the molecule graph adapter: forward/reverse edges, batches and
	           the homogeneous view used for message passing.
	nn         graph convolutions, pooling, readout and postprocess layers, and
	           the Model that puts them together.
	chemjson   JSON input and output of molecules, predictions and parameters.
	config     YAML model descriptions.
	chemplot   bar plots of predictions.
	histo      statistics and histograms of predictions over many molecules.

A forward pass goes

	graph adapter -> convolution stack -> pooling -> readout -> postprocess

and is a pure function of the graph, its features and the learned parameters.
Batches of molecules are processed by concatenating their graphs.

Errors returned by molgnn carry a Kind (ErrConfiguration, ErrUnsupportedArchitecture,
ErrShapeMismatch, ErrMissingNodeData, ErrTopology) that can be checked with errors.Is.
*/
package chem
