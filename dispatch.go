/*
 * dispatch.go, part of cgrange.
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

package cgrange

import (
	"github.com/rmera/cgrange/geometry"
	"github.com/rmera/cgrange/histo"
	v3 "github.com/rmera/cgrange/v3"
)

//frame is what an evaluator gets to know about the current frame.
type frame struct {
	x     *v3.Matrix
	half  [3]float64
	types []int
	top   Topology
}

//coordinate computes the reaction coordinate of one occurrence of the i-th
//defined interaction of c's class.
type coordinate func(c *computer, f *frame, i int, in Instance) float64

//evaluator samples every defined interaction of c's class in one frame.
type evaluator func(c *computer, f *frame) error

//computer pairs a class with its evaluator and its raw-sample files.
type computer struct {
	class *InteractionClass
	eval  evaluator
	dist  *distFiles
	hists []*histo.Data
}

//sample folds v into the range of the i-th defined interaction and writes it
//to the distribution file, if there is one. Nonbonded samples beyond the cutoff
//are only folded.
func (c *computer) sample(i int, v float64) error {
	C := c.class
	C.Fold(i, v)
	if c.dist == nil {
		return nil
	}
	if C.Kind.Type == PairNonbonded && v >= C.Cutoff {
		return nil
	}
	return c.dist.write(i, v)
}

//evaluatorFor returns the evaluator for the given kind of class in a system
//of dim dimensions. Unknown subtypes, and dihedrals in systems that are not
//3-dimensional, are errors.
func evaluatorFor(k Kind, dim int) (evaluator, error) {
	if err := k.Validate(); err != nil {
		return nil, errDecorate(err, "evaluatorFor")
	}
	switch k.Type {
	case PairNonbonded:
		return nonbondedPairs, nil
	case PairBonded:
		return instances(pairDistance), nil
	case AngularBonded:
		if k.Subtype == 0 {
			return instances(threeBodyAngle), nil
		}
		return instances(endToEnd), nil
	case DihedralBonded:
		if k.Subtype == 0 {
			if dim != 3 {
				return nil, configError("evaluatorFor", DihedralNot3D)
			}
			return instances(dihedralAngle), nil
		}
		return instances(endToEnd), nil
	case R13Bonded, R14Bonded, R15Bonded:
		if k.Subtype == 1 {
			return instances(pairDistance), nil
		}
	case RadiusOfGyration:
		if k.Subtype == 1 {
			return instances(gyration), nil
		}
	case Helical:
		if k.Subtype == 1 {
			return instances(helicity), nil
		}
	case Density:
		if k.Subtype > 0 {
			return densities, nil
		}
	}
	return nothing, nil
}

func nothing(c *computer, f *frame) error {
	return nil
}

//instances returns an evaluator that applies coord to every occurrence
//of every defined interaction of the class.
func instances(coord coordinate) evaluator {
	return func(c *computer, f *frame) error {
		for i, ins := range c.class.Instances {
			for _, in := range ins {
				if err := c.sample(i, coord(c, f, i, in)); err != nil {
					return errDecorate(err, "evaluator")
				}
			}
		}
		return nil
	}
}

//nonbondedPairs samples the distance between every pair of sites whose types
//form a defined interaction.
func nonbondedPairs(c *computer, f *frame) error {
	C := c.class
	nt := f.top.NTypes()
	n := f.x.NVecs()
	for a := 0; a < n; a++ {
		row := f.types[a] * nt
		for b := a + 1; b < n; b++ {
			i := C.PairIndex[row+f.types[b]]
			if i < 0 {
				continue
			}
			if err := c.sample(i, geometry.Distance(f.x, a, b, f.half)); err != nil {
				return errDecorate(err, "nonbondedPairs")
			}
		}
	}
	return nil
}

//densities computes the local densities of the frame, and samples the
//density of group g2 at every site belonging to group g1, for each
//defined interaction (g1, g2).
func densities(c *computer, f *frame) error {
	E := c.class.Density().Engine
	E.Accumulate(f.x, f.types, f.half)
	for i := 0; i < E.NDefined(); i++ {
		g1 := i / E.NGroups
		for site, t := range f.types {
			if !E.InGroup(g1, t) {
				continue
			}
			if err := c.sample(i, E.Value(i, site)); err != nil {
				return errDecorate(err, "densities")
			}
		}
	}
	return nil
}

func pairDistance(c *computer, f *frame, i int, in Instance) float64 {
	return geometry.Distance(f.x, in.Sites[0], in.Sites[1], f.half)
}

//endToEnd is the distance between the first and last sites of an angle or dihedral.
func endToEnd(c *computer, f *frame, i int, in Instance) float64 {
	return geometry.Distance(f.x, in.Sites[0], in.Sites[in.N-1], f.half)
}

//threeBodyAngle is the angle, in degrees, at the central site.
func threeBodyAngle(c *computer, f *frame, i int, in Instance) float64 {
	return geometry.Angle(f.x, in.Sites[0], in.Sites[2], in.Sites[1], f.half)
}

//dihedralAngle takes the ends first, then the central bond.
func dihedralAngle(c *computer, f *frame, i int, in Instance) float64 {
	s := in.Sites
	return geometry.Dihedral(f.x, s[0], s[3], s[1], s[2], f.half)
}

func gyration(c *computer, f *frame, i int, in Instance) float64 {
	return geometry.RadiusOfGyration(f.x, f.top.Molecule(in.Mol), f.half)
}

func helicity(c *computer, f *frame, i int, in Instance) float64 {
	h := c.class.Helical()
	return geometry.HelicalFraction(f.x, f.top.Molecule(in.Mol), h.Pairs[in.Mol], f.half, h.R0[i], h.Sigma2[i])
}
