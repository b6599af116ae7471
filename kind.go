/*
 * kind.go, part of cgrange.
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

import "fmt"

//ClassType is the family an interaction class belongs to.
type ClassType int

const (
	OneBody ClassType = iota
	PairNonbonded
	PairBonded
	AngularBonded
	DihedralBonded
	R13Bonded
	R14Bonded
	R15Bonded
	Density
	RadiusOfGyration
	Helical
	ThreeBodyNonbonded
)

var classNames = map[ClassType]string{
	OneBody:            "one body",
	PairNonbonded:      "pair nonbonded",
	PairBonded:         "pair bonded",
	AngularBonded:      "angular",
	DihedralBonded:     "dihedral",
	R13Bonded:          "R13 bonded",
	R14Bonded:          "R14 bonded",
	R15Bonded:          "R15 bonded",
	Density:            "density",
	RadiusOfGyration:   "radius of gyration",
	Helical:            "helical",
	ThreeBodyNonbonded: "three body nonbonded",
}

func (c ClassType) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", int(c))
}

//ParseClassType returns the ClassType with the given name, as printed by String,
//or with underscores instead of spaces.
func ParseClassType(name string) (ClassType, error) {
	for k, v := range classNames {
		if v == name || underscored(v) == name {
			return k, nil
		}
	}
	return 0, configError("ParseClassType", "Unknown interaction class %q", name)
}

func underscored(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == ' ' {
			b[i] = '_'
		}
	}
	return string(b)
}

//Kind identifies the evaluator of an interaction class: its type and the
//subtype that selects the variant (e.g. the density kernel, or whether an
//angular interaction uses an angle or a distance as its coordinate).
type Kind struct {
	Type    ClassType
	Subtype int
}

func (k Kind) String() string {
	return fmt.Sprintf("%s/%d", k.Type, k.Subtype)
}

//Validate returns a critical error if the subtype is not defined for the class type.
func (k Kind) Validate() error {
	ok := false
	switch k.Type {
	case OneBody, PairNonbonded, PairBonded, ThreeBodyNonbonded:
		ok = true
	case AngularBonded, DihedralBonded, R13Bonded, R14Bonded, R15Bonded, RadiusOfGyration, Helical:
		ok = k.Subtype == 0 || k.Subtype == 1
	case Density:
		ok = k.Subtype >= 0 && k.Subtype <= 4
	default:
		return configError("Validate", "Unknown interaction class type %d", int(k.Type))
	}
	if !ok {
		return configError("Validate", UnrecognizedSubtype, k.Type, k.Subtype)
	}
	return nil
}

//dummy reports whether the kind gets no defined interactions at all.
func (k Kind) dummy() bool {
	switch k.Type {
	case Density, RadiusOfGyration, Helical, R13Bonded, R14Bonded, R15Bonded:
		return k.Subtype == 0
	}
	return false
}

//HasDistribution reports whether the kind writes raw-sample distributions and
//histograms when they are requested.
func (k Kind) HasDistribution() bool {
	switch k.Type {
	case PairNonbonded, PairBonded, AngularBonded, DihedralBonded:
		return true
	case Density, RadiusOfGyration, Helical:
		return k.Subtype > 0
	case R13Bonded, R14Bonded, R15Bonded:
		return k.Subtype == 1
	}
	return false
}

//Distribution tells whether the raw samples of a class are written out.
type Distribution int

const (
	//DistOff writes no samples.
	DistOff Distribution = iota
	//DistTemporary writes the samples, and deletes them once histogrammed.
	DistTemporary
	//DistKeep writes the samples and keeps them.
	DistKeep
)

//On reports whether samples are written.
func (d Distribution) On() bool {
	return d == DistTemporary || d == DistKeep
}
