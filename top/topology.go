/*
 * topology.go, part of cgrange.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package top

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

//Molecule is a named list of sites. Helical holds the helical contacts, as pairs
//of positions in Sites.
type Molecule struct {
	Name    string
	Sites   []int
	Helical [][2]int
}

//Topology is a coarse-grained system: the type of every site, the molecules and the
//bonded topology. It fulfills cgrange.Topology.
type Topology struct {
	Types     []string
	SiteTypes []int
	Molecules []Molecule
	Bonds     [][2]int
	Angles    [][3]int
	Dihedrals [][4]int
	bonds     *simple.UndirectedGraph
}

//NewTopology builds and checks the topology described in c.
func NewTopology(c *Config) (*Topology, error) {
	T := &Topology{Types: c.Types}
	typeIndex := make(map[string]int, len(c.Types))
	for i, t := range c.Types {
		if _, ok := typeIndex[t]; ok {
			return nil, Error{fmt.Sprintf("Type %s given twice", t), "", []string{"NewTopology"}, true}
		}
		typeIndex[t] = i
	}
	T.SiteTypes = make([]int, len(c.Sites))
	for i, name := range c.Sites {
		t, ok := typeIndex[name]
		if !ok {
			return nil, Error{fmt.Sprintf("Site %d has unknown type %s", i, name), "", []string{"NewTopology"}, true}
		}
		T.SiteTypes[i] = t
	}
	var err error
	if T.Bonds, err = tuples2(c.Bonds, len(c.Sites)); err != nil {
		return nil, errDecorate(err, "NewTopology")
	}
	ang, err := tuples(c.Angles, 3, len(c.Sites))
	if err != nil {
		return nil, errDecorate(err, "NewTopology")
	}
	for _, a := range ang {
		T.Angles = append(T.Angles, [3]int{a[0], a[1], a[2]})
	}
	dih, err := tuples(c.Dihedrals, 4, len(c.Sites))
	if err != nil {
		return nil, errDecorate(err, "NewTopology")
	}
	for _, d := range dih {
		T.Dihedrals = append(T.Dihedrals, [4]int{d[0], d[1], d[2], d[3]})
	}
	for _, m := range c.Molecules {
		mol := Molecule{Name: m.Name, Sites: m.Sites}
		for _, s := range m.Sites {
			if s < 0 || s >= len(c.Sites) {
				return nil, Error{fmt.Sprintf("Molecule %s has site %d, out of range", m.Name, s), "", []string{"NewTopology"}, true}
			}
		}
		hel, err := tuples(m.Helical, 2, len(m.Sites))
		if err != nil {
			return nil, errDecorate(err, "NewTopology")
		}
		for _, h := range hel {
			mol.Helical = append(mol.Helical, [2]int{h[0], h[1]})
		}
		T.Molecules = append(T.Molecules, mol)
	}
	T.buildGraph()
	return T, nil
}

//tuples checks that every element of t has n indexes, all smaller than max.
func tuples(t [][]int, n, max int) ([][]int, error) {
	for _, v := range t {
		if len(v) != n {
			return nil, Error{fmt.Sprintf("%v should have %d elements", v, n), "", []string{"tuples"}, true}
		}
		for _, i := range v {
			if i < 0 || i >= max {
				return nil, Error{fmt.Sprintf("Index %d in %v out of range", i, v), "", []string{"tuples"}, true}
			}
		}
	}
	return t, nil
}

func tuples2(t [][]int, max int) ([][2]int, error) {
	t, err := tuples(t, 2, max)
	if err != nil {
		return nil, errDecorate(err, "tuples2")
	}
	ret := make([][2]int, 0, len(t))
	for _, v := range t {
		if v[0] == v[1] {
			return nil, Error{fmt.Sprintf("Site %d bonded to itself", v[0]), "", []string{"tuples2"}, true}
		}
		ret = append(ret, [2]int{v[0], v[1]})
	}
	return ret, nil
}

func (T *Topology) buildGraph() {
	g := simple.NewUndirectedGraph()
	for i := range T.SiteTypes {
		g.AddNode(simple.Node(i))
	}
	for _, b := range T.Bonds {
		g.SetEdge(g.NewEdge(simple.Node(b[0]), simple.Node(b[1])))
	}
	T.bonds = g
}

//Separated returns the pairs of sites i<j for which the shortest path along
//the bonds has exactly n bonds.
func (T *Topology) Separated(n int) [][2]int {
	var ret [][2]int
	for i := range T.SiteTypes {
		var bf traverse.BreadthFirst
		bf.Walk(T.bonds, simple.Node(i), func(node graph.Node, d int) bool {
			if d > n {
				return true
			}
			if j := int(node.ID()); d == n && j > i {
				ret = append(ret, [2]int{i, j})
			}
			return false
		})
	}
	sort.Slice(ret, func(a, b int) bool {
		if ret[a][0] != ret[b][0] {
			return ret[a][0] < ret[b][0]
		}
		return ret[a][1] < ret[b][1]
	})
	return ret
}

//NSites returns the number of sites.
func (T *Topology) NSites() int { return len(T.SiteTypes) }

//NTypes returns the number of site types.
func (T *Topology) NTypes() int { return len(T.Types) }

//TypeName returns the name of type t.
func (T *Topology) TypeName(t int) string { return T.Types[t] }

//SiteType returns the type of the given site.
func (T *Topology) SiteType(site int) int { return T.SiteTypes[site] }

//NMolecules returns the number of molecules.
func (T *Topology) NMolecules() int { return len(T.Molecules) }

//Molecule returns the sites of molecule mol.
func (T *Topology) Molecule(mol int) []int { return T.Molecules[mol].Sites }
