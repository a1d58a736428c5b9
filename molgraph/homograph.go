/*
 * homograph.go, part of molgnn.
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

package molgraph

import "sort"

// Homograph is the homogeneous view of a Graph: a single edge type,
// with both directions of every bond, stored as per-node lists of
// in-neighbors. The lists are sorted, so the view doesn't depend on the
// direction in which each bond was recorded.
type Homograph struct {
	offsets   []int //node i's neighbors are neighbors[offsets[i]:offsets[i+1]]
	neighbors []int
}

// Homograph derives the homogeneous view of the graph. It is computed on every call.
func (G *Graph) Homograph() *Homograph {
	deg := make([]int, G.nAtoms)
	for i := range G.src {
		deg[G.src[i]]++
		deg[G.dst[i]]++
	}
	H := &Homograph{offsets: make([]int, G.nAtoms+1), neighbors: make([]int, 2*len(G.src))}
	for i, d := range deg {
		H.offsets[i+1] = H.offsets[i] + d
	}
	next := append([]int(nil), H.offsets[:G.nAtoms]...)
	for i := range G.src {
		u, v := G.src[i], G.dst[i]
		H.neighbors[next[v]] = u //forward edge u->v
		next[v]++
		H.neighbors[next[u]] = v //reverse edge v->u
		next[u]++
	}
	for i := 0; i < G.nAtoms; i++ {
		sort.Ints(H.neighbors[H.offsets[i]:H.offsets[i+1]])
	}
	return H
}

// NNodes returns the number of nodes in the view.
func (H *Homograph) NNodes() int { return len(H.offsets) - 1 }

// NEdges returns the number of directed edges in the view, twice the number of bonds.
func (H *Homograph) NEdges() int { return len(H.neighbors) }

// InNeighbors returns the sorted indexes of the nodes with an edge into node i.
// The slice should not be modified.
func (H *Homograph) InNeighbors(i int) []int {
	return H.neighbors[H.offsets[i]:H.offsets[i+1]]
}

// InDegree returns the number of edges into node i.
func (H *Homograph) InDegree(i int) int {
	return H.offsets[i+1] - H.offsets[i]
}
