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

// Package chemjson implements the serialization and unserialization of
// molgnn data. Molecules are read as JSON topologies, predictions are
// written as one JSON object per molecule, and model parameters are kept
// in JSON checkpoints, which can be compressed with zstd or gzip. The
// compression is chosen from the file extension.
//
// Its planned use is the communication of molgnn programs with other
// programs, possibly written in other languages, that prepare the
// molecules or collect the results, for instance via UNIX pipes.
package chemjson
