/*
 * class.go, part of cgrange.
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
	"strings"

	"github.com/rmera/cgrange/density"
)

//Instance is one occurrence of a defined interaction in the topology. For
//bonded interactions Sites holds the N participating sites in chain order
//(the center of an angle is Sites[1], the central bond of a dihedral is
//Sites[1]-Sites[2]). For whole-molecule interactions Mol is the molecule index.
type Instance struct {
	Sites [4]int
	N     int
	Mol   int
}

//Pair returns an Instance for the sites i and j.
func Pair(i, j int) Instance {
	return Instance{Sites: [4]int{i, j}, N: 2}
}

//Chain returns an Instance for the given sites, which can be 2 to 4.
func Chain(sites ...int) Instance {
	var in Instance
	in.N = copy(in.Sites[:], sites)
	return in
}

//Molecule returns an Instance for the whole molecule mol.
func Molecule(mol int) Instance {
	return Instance{Mol: mol}
}

//Payload carries the parameters only some kinds of classes have.
//It is one of *HelicalParams or *DensityParams.
type Payload interface {
	payload()
}

//HelicalParams are the parameters of the helical interactions, read from hel.prm.
type HelicalParams struct {
	R0     []float64
	Sigma2 []float64
	//Pairs[mol] holds the helical contacts of molecule mol, as pairs of positions
	//in its site list.
	Pairs [][][2]int
}

func (*HelicalParams) payload() {}

//DensityParams are the parameters of the density interactions. Sigma and Switching
//are read from den.prm, Groups[g][t] tells whether type t is in density group g.
type DensityParams struct {
	GroupNames []string
	Groups     [][]bool
	Sigma      []float64
	Switching  []float64
	Engine     *density.Engine
}

func (*DensityParams) payload() {}

//InteractionClass is one family of interactions of the model, together with the
//sampling ranges of each of its defined interactions. All the per-interaction
//slices are indexed by the index among defined interactions.
type InteractionClass struct {
	Kind Kind
	//Cutoff is the nominal cutoff of nonbonded and density interactions.
	Cutoff       float64
	Binwidth     float64
	Distribution Distribution
	//Names holds the participating type (or group) names of each defined interaction.
	Names [][]string
	//Types holds the participating type indexes, when the names are types.
	Types [][]int
	//Instances holds the topology occurrences of each defined interaction.
	//Pair nonbonded classes use PairIndex instead.
	Instances [][]Instance
	//PairIndex maps t1*NTypes+t2 to the defined pair-nonbonded interaction, or -1.
	PairIndex []int

	Lower         []float64
	Upper         []float64
	MatchedMap    []int
	ColumnIndices []int
	//ColumnIndex is the first column of the class in a matrix shared by all classes.
	ColumnIndex int

	excluded []bool

	Payload Payload
}

//FullName returns a human-readable name for the class.
func (C *InteractionClass) FullName() string {
	return C.Kind.Type.String()
}

//NDefined returns the number of defined interactions.
func (C *InteractionClass) NDefined() int {
	return len(C.Names)
}

//InteractionName returns the name of the i-th defined interaction, as used in range files.
func (C *InteractionClass) InteractionName(i int) string {
	return strings.Join(C.Names[i], " ")
}

//Basename returns the file basename of the i-th defined interaction.
func (C *InteractionClass) Basename(i int) string {
	return strings.Join(C.Names[i], "_")
}

//filePrefix separates the files of classes whose interaction names can
//coincide: type pairs (nonbonded, bonded, R13-R15), group pairs and molecule names.
var filePrefix = map[ClassType]string{
	PairBonded:         "bond_",
	R13Bonded:          "r13_",
	R14Bonded:          "r14_",
	R15Bonded:          "r15_",
	Density:            "den_",
	RadiusOfGyration:   "rg_",
	Helical:            "hel_",
	ThreeBodyNonbonded: "tb_",
}

//FileStem returns the name, without extension, of the distribution, histogram
//and table files of the i-th defined interaction. It is the basename, prefixed
//with the class family, except for pair nonbonded, angular and dihedral classes.
func (C *InteractionClass) FileStem(i int) string {
	return filePrefix[C.Kind.Type] + C.Basename(i)
}

//Helical returns the helical parameters of the class, or nil.
func (C *InteractionClass) Helical() *HelicalParams {
	p, _ := C.Payload.(*HelicalParams)
	return p
}

//Density returns the density parameters of the class, or nil.
func (C *InteractionClass) Density() *DensityParams {
	p, _ := C.Payload.(*DensityParams)
	return p
}

//dummySetup leaves the class without defined interactions.
func (C *InteractionClass) dummySetup() {
	C.Names = nil
	C.Types = nil
	C.Instances = nil
	C.PairIndex = nil
}
