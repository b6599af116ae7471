/*
 * engine.go, part of cgrange.
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

package density

import (
	"fmt"
	"log"

	"github.com/rmera/cgrange/geometry"
	v3 "github.com/rmera/cgrange/v3"
)

//MaxGroups is the largest number of density groups a bitmask can describe.
const MaxGroups = 8

//BuildGroupMap returns an nTypes*nTypes slice of bitmasks. Bit g1*nGroups+g2 of
//element t1*nTypes+t2 is set when type t1 belongs to group g1 and type t2 to
//group g2, meaning that the density of group g2 is evaluated at sites of group g1.
//Both orderings are recorded independently. groups[g][t] tells whether type t
//belongs to group g.
func BuildGroupMap(groups [][]bool, nTypes int) ([]uint64, error) {
	nGroups := len(groups)
	if nGroups > MaxGroups {
		return nil, Error{fmt.Sprintf("%d density groups given, at most %d are supported", nGroups, MaxGroups), []string{"BuildGroupMap"}, true}
	}
	for g, v := range groups {
		if len(v) != nTypes {
			return nil, Error{fmt.Sprintf("density group %d describes %d types, %d expected", g, len(v), nTypes), []string{"BuildGroupMap"}, true}
		}
	}
	m := make([]uint64, nTypes*nTypes)
	for t1 := 0; t1 < nTypes; t1++ {
		for g1 := 0; g1 < nGroups; g1++ {
			if !groups[g1][t1] {
				continue
			}
			//type2 starts at type1, both orderings are set at once.
			for t2 := t1; t2 < nTypes; t2++ {
				for g2 := 0; g2 < nGroups; g2++ {
					if !groups[g2][t2] {
						continue
					}
					m[t1*nTypes+t2] |= 1 << uint(g1*nGroups+g2)
					m[t2*nTypes+t1] |= 1 << uint(g2*nGroups+g1)
				}
			}
		}
	}
	return m, nil
}

//Engine holds everything needed to compute the local densities of one frame.
//The defined density interactions are the ordered pairs of density groups,
//the i-th one being i = g1*NGroups+g2 (density of g2 at the sites of g1),
//which is also its bit in GroupMap.
type Engine struct {
	Kernel    Kernel
	Cutoff    float64
	NGroups   int
	NTypes    int
	NSites    int
	Groups    [][]bool
	Sigma     []float64
	Switching []float64
	Consts    *Constants
	GroupMap  []uint64
	//Values has NGroups*NGroups*NSites elements, Values[i*NSites+site].
	Values []float64
}

//New validates the parameters and returns an Engine ready to accumulate densities.
//sigma (and switching, for the Switching kernel) must have one element per
//ordered group pair.
func New(k Kernel, cutoff float64, groups [][]bool, nTypes, nSites int, sigma, switching []float64) (*Engine, error) {
	nGroups := len(groups)
	ndef := nGroups * nGroups
	if len(sigma) != ndef {
		return nil, Error{fmt.Sprintf("%d sigma values given for %d density interactions", len(sigma), ndef), []string{"New"}, true}
	}
	if switching == nil {
		switching = make([]float64, ndef)
	}
	consts, err := NewConstants(k, cutoff, sigma, switching)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	E := &Engine{
		Kernel:    k,
		Cutoff:    cutoff,
		NGroups:   nGroups,
		NTypes:    nTypes,
		NSites:    nSites,
		Groups:    groups,
		Sigma:     sigma,
		Switching: switching,
		Consts:    consts,
		Values:    make([]float64, ndef*nSites),
	}
	if ndef > 0 {
		E.GroupMap, err = BuildGroupMap(groups, nTypes)
		if err != nil {
			return nil, errDecorate(err, "New")
		}
	}
	log.Printf("Will calculate density using %s weight functions.", k)
	return E, nil
}

//NDefined returns the number of defined density interactions.
func (E *Engine) NDefined() int {
	return E.NGroups * E.NGroups
}

//Weight returns the contribution of a neighbor at distance r to the i-th density interaction.
func (E *Engine) Weight(i int, r float64) float64 {
	return E.Consts.Weight(E.Kernel, i, r, E.Cutoff, E.Sigma[i], E.Switching[i])
}

//Value returns the density of the i-th interaction at the given site, as
//computed by the last call to Accumulate.
func (E *Engine) Value(i, site int) float64 {
	return E.Values[i*E.NSites+site]
}

//InGroup reports whether a site of the given type belongs to density group g.
func (E *Engine) InGroup(g, siteType int) bool {
	return E.Groups[g][siteType]
}

//Accumulate computes, for every site and density interaction, the density of the
//given frame. types holds the (0-based) type of each site and half the half-box lengths.
func (E *Engine) Accumulate(x *v3.Matrix, types []int, half [3]float64) {
	for i := range E.Values {
		E.Values[i] = 0
	}
	if E.Kernel == None || E.NDefined() == 0 {
		return
	}
	nt := E.NTypes
	for a := 0; a < E.NSites; a++ {
		ta := types[a]
		for b := a + 1; b < E.NSites; b++ {
			tb := types[b]
			ab := E.GroupMap[ta*nt+tb]
			ba := E.GroupMap[tb*nt+ta]
			if ab == 0 && ba == 0 {
				continue
			}
			r := geometry.Distance(x, a, b, half)
			if r >= E.Cutoff {
				continue
			}
			E.scatter(ab, a, r)
			E.scatter(ba, b, r)
		}
	}
}

//scatter adds the weight at distance r to the density at site
//for every interaction whose bit is set in mask.
func (E *Engine) scatter(mask uint64, site int, r float64) {
	for i := 0; mask != 0; i++ {
		if mask&1 == 1 {
			E.Values[i*E.NSites+site] += E.Weight(i, r)
		}
		mask >>= 1
	}
}

//Errors

//Error is the error type of the density package. It fulfills cgrange's Error interface.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return "density: " + err.message
}

//Decorate adds dec to the decoration slice of the error and returns the slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//errDecorate is a helper function that decorates density errors with the caller's name
//before returning them.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}
