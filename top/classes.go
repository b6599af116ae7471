/*
 * classes.go, part of cgrange.
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
	"strconv"
	"strings"

	"github.com/rmera/cgrange"
)

//definer collects the defined interactions of a class, each given by
//the types of its sites.
type definer struct {
	C     *cgrange.InteractionClass
	T     *Topology
	index map[string]int
}

func newDefiner(C *cgrange.InteractionClass, T *Topology) *definer {
	return &definer{C: C, T: T, index: make(map[string]int)}
}

//canonical returns the site order for which the type sequence is the
//smallest of the two directions.
func canonical(T *Topology, sites []int) []int {
	n := len(sites)
	for k := 0; k < n/2; k++ {
		a, b := T.SiteTypes[sites[k]], T.SiteTypes[sites[n-1-k]]
		if a < b {
			return sites
		}
		if a > b {
			rev := make([]int, n)
			for i, s := range sites {
				rev[n-1-i] = s
			}
			return rev
		}
	}
	return sites
}

//add adds an occurrence of the interaction among the given sites, defining
//the interaction if its types were not seen before.
func (d *definer) add(sites ...int) {
	sites = canonical(d.T, sites)
	types := make([]int, len(sites))
	key := make([]string, len(sites))
	for i, s := range sites {
		types[i] = d.T.SiteTypes[s]
		key[i] = strconv.Itoa(types[i])
	}
	k := strings.Join(key, ",")
	i, ok := d.index[k]
	if !ok {
		i = d.define(types)
		d.index[k] = i
	}
	d.C.Instances[i] = append(d.C.Instances[i], cgrange.Chain(sites...))
}

func (d *definer) define(types []int) int {
	names := make([]string, len(types))
	for j, t := range types {
		names[j] = d.T.Types[t]
	}
	d.C.Names = append(d.C.Names, names)
	d.C.Types = append(d.C.Types, types)
	d.C.Instances = append(d.C.Instances, nil)
	return len(d.C.Names) - 1
}

//newClass returns an empty class of the given type with the settings in cc.
func newClass(t cgrange.ClassType, cc *ClassConfig) (*cgrange.InteractionClass, error) {
	dist, err := distribution(cc.OutputDistribution)
	if err != nil {
		return nil, errDecorate(err, "newClass")
	}
	C := &cgrange.InteractionClass{
		Kind:         cgrange.Kind{Type: t, Subtype: cc.Subtype},
		Cutoff:       cc.Cutoff,
		Binwidth:     cc.Binwidth,
		Distribution: dist,
	}
	if C.Binwidth <= 0 {
		C.Binwidth = DefaultBinwidth
	}
	return C, nil
}

//BuildModel builds the interaction classes given in c for the topology T.
func BuildModel(c *Config, T *Topology) (*cgrange.Model, error) {
	m := &cgrange.Model{Topology: T, Dimension: c.Dimension}
	cl := c.Classes
	builders := []struct {
		t  cgrange.ClassType
		cc *ClassConfig
		f  func(*cgrange.InteractionClass) error
	}{
		{cgrange.OneBody, cl.OneBody, T.oneBody},
		{cgrange.PairNonbonded, cl.PairNonbonded, T.pairNonbonded},
		{cgrange.PairBonded, cl.PairBonded, T.pairBonded},
		{cgrange.AngularBonded, cl.Angular, T.angular},
		{cgrange.DihedralBonded, cl.Dihedral, T.dihedral},
		{cgrange.R13Bonded, cl.R13, T.separated(2)},
		{cgrange.R14Bonded, cl.R14, T.separated(3)},
		{cgrange.R15Bonded, cl.R15, T.separated(4)},
		{cgrange.Density, cl.Density, T.density(c.Groups)},
		{cgrange.RadiusOfGyration, cl.RadiusOfGyration, T.molecular},
		{cgrange.Helical, cl.Helical, T.helical},
		{cgrange.ThreeBodyNonbonded, cl.ThreeBodyNonbonded, nil},
	}
	for _, b := range builders {
		if b.cc == nil {
			continue
		}
		C, err := newClass(b.t, b.cc)
		if err != nil {
			return nil, errDecorate(err, "BuildModel")
		}
		if b.f != nil {
			if err := b.f(C); err != nil {
				return nil, errDecorate(err, "BuildModel")
			}
		}
		m.Classes = append(m.Classes, C)
	}
	return m, nil
}

//Load reads the model file name, and returns the model, its topology and
//the configuration read.
func Load(name string) (*cgrange.Model, *Topology, *Config, error) {
	c, err := ReadConfig(name)
	if err != nil {
		return nil, nil, nil, errDecorate(err, "Load")
	}
	T, err := NewTopology(c)
	if err != nil {
		return nil, nil, nil, errDecorate(err, "Load")
	}
	m, err := BuildModel(c, T)
	if err != nil {
		return nil, nil, nil, errDecorate(err, "Load")
	}
	return m, T, c, nil
}

func (T *Topology) oneBody(C *cgrange.InteractionClass) error {
	for t, name := range T.Types {
		C.Names = append(C.Names, []string{name})
		C.Types = append(C.Types, []int{t})
		C.Instances = append(C.Instances, nil)
	}
	return nil
}

//pairNonbonded defines one interaction per unordered pair of types.
func (T *Topology) pairNonbonded(C *cgrange.InteractionClass) error {
	if C.Cutoff <= 0 {
		return Error{"The pair nonbonded class needs a positive cutoff", "", []string{"pairNonbonded"}, true}
	}
	nt := len(T.Types)
	C.PairIndex = make([]int, nt*nt)
	d := newDefiner(C, T)
	for t1 := 0; t1 < nt; t1++ {
		for t2 := t1; t2 < nt; t2++ {
			i := d.define([]int{t1, t2})
			C.PairIndex[t1*nt+t2] = i
			C.PairIndex[t2*nt+t1] = i
		}
	}
	return nil
}

func (T *Topology) pairBonded(C *cgrange.InteractionClass) error {
	d := newDefiner(C, T)
	for _, b := range T.Bonds {
		d.add(b[0], b[1])
	}
	return nil
}

func (T *Topology) angular(C *cgrange.InteractionClass) error {
	d := newDefiner(C, T)
	for _, a := range T.Angles {
		d.add(a[:]...)
	}
	return nil
}

func (T *Topology) dihedral(C *cgrange.InteractionClass) error {
	d := newDefiner(C, T)
	for _, a := range T.Dihedrals {
		d.add(a[:]...)
	}
	return nil
}

//separated returns a builder for the pairs n bonds apart.
func (T *Topology) separated(n int) func(*cgrange.InteractionClass) error {
	return func(C *cgrange.InteractionClass) error {
		d := newDefiner(C, T)
		for _, p := range T.Separated(n) {
			d.add(p[0], p[1])
		}
		return nil
	}
}

//molecular defines one interaction per molecule name, with each molecule of that
//name as an occurrence.
func (T *Topology) molecular(C *cgrange.InteractionClass) error {
	index := make(map[string]int)
	for mol, m := range T.Molecules {
		i, ok := index[m.Name]
		if !ok {
			i = len(C.Names)
			index[m.Name] = i
			C.Names = append(C.Names, []string{m.Name})
			C.Instances = append(C.Instances, nil)
		}
		C.Instances[i] = append(C.Instances[i], cgrange.Molecule(mol))
	}
	return nil
}

func (T *Topology) helical(C *cgrange.InteractionClass) error {
	if err := T.molecular(C); err != nil {
		return err
	}
	h := &cgrange.HelicalParams{Pairs: make([][][2]int, len(T.Molecules))}
	for mol, m := range T.Molecules {
		h.Pairs[mol] = m.Helical
	}
	C.Payload = h
	return nil
}

//density defines one interaction per ordered pair of density groups.
func (T *Topology) density(groups []GroupConfig) func(*cgrange.InteractionClass) error {
	return func(C *cgrange.InteractionClass) error {
		typeIndex := make(map[string]int, len(T.Types))
		for i, t := range T.Types {
			typeIndex[t] = i
		}
		p := &cgrange.DensityParams{}
		for _, g := range groups {
			in := make([]bool, len(T.Types))
			for _, t := range g.Types {
				i, ok := typeIndex[t]
				if !ok {
					return Error{fmt.Sprintf("Density group %s has unknown type %s", g.Name, t), "", []string{"density"}, true}
				}
				in[i] = true
			}
			p.GroupNames = append(p.GroupNames, g.Name)
			p.Groups = append(p.Groups, in)
		}
		if C.Kind.Subtype > 0 && C.Cutoff <= 0 {
			return Error{"The density class needs a positive cutoff", "", []string{"density"}, true}
		}
		for _, g1 := range p.GroupNames {
			for _, g2 := range p.GroupNames {
				C.Names = append(C.Names, []string{g1, g2})
			}
		}
		C.Payload = p
		return nil
	}
}
