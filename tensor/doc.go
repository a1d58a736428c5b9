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
Package tensor implements a Matrix type representing a row-major dense matrix of float64,
used for node embeddings, pooled features, layer weights and predictions in molgnn.

It is based on gonum's blas64.General, instead of mat.Dense, because molgnn needs
matrices with zero rows: a molecule without bonds has an empty bond feature matrix, and
that must flow through pooling and readout without errors. Conversion to and from
mat.Dense is provided for the non-empty case.

Within the package a "vector" is a row of the matrix, i.e. the features of one
atom or bond. The name of some functions in the library reflects this.
*/
package tensor
