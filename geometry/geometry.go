/*
 * geometry.go, part of cgrange.
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

//Package geometry contains the functions that reduce the positions of a few
//coarse-grained sites, or of a whole molecule, to the single scalar coordinate
//used by an interaction: distances, angles, dihedrals, radii of gyration and
//helical fractions. All of them apply minimum-image wrapping when the
//half-box lengths given are positive. Angles and dihedrals are in degrees.
package geometry

import (
	"math"

	v3 "github.com/rmera/cgrange/v3"
	"gonum.org/v1/gonum/floats"
)

//DegreesPerRadian converts the results of the inverse trigonometric functions.
const DegreesPerRadian = 180.0 / math.Pi

const appzero float64 = 0.000000000001 //used to correct floating point errors.

//MinImage wraps the displacement d into the primary image of a box with
//the given half lengths. Dimensions with a non-positive half length are not wrapped.
func MinImage(d *[3]float64, half [3]float64) {
	for i := range d {
		if half[i] <= 0 {
			continue
		}
		if d[i] > half[i] {
			d[i] -= 2 * half[i]
		} else if d[i] < -half[i] {
			d[i] += 2 * half[i]
		}
	}
}

//Displacement returns the minimum-image vector going from site from to site to.
func Displacement(x *v3.Matrix, from, to int, half [3]float64) [3]float64 {
	var a, b, d [3]float64
	x.Vec(&a, from)
	x.Vec(&b, to)
	for i := range d {
		d[i] = b[i] - a[i]
	}
	MinImage(&d, half)
	return d
}

//Distance returns the minimum-image distance between the sites i and j.
func Distance(x *v3.Matrix, i, j int, half [3]float64) float64 {
	d := Displacement(x, i, j, half)
	return floats.Norm(d[:], 2)
}

//Angle returns the angle, in degrees, formed at the central site j by the end sites k and l.
func Angle(x *v3.Matrix, k, l, j int, half [3]float64) float64 {
	v1 := Displacement(x, j, k, half)
	v2 := Displacement(x, j, l, half)
	normproduct := floats.Norm(v1[:], 2) * floats.Norm(v2[:], 2)
	if normproduct <= appzero {
		return 0
	}
	argument := floats.Dot(v1[:], v2[:]) / normproduct
	//Take care of floating point math errors
	if argument > 1 {
		argument = 1
	} else if argument < -1 {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle * DegreesPerRadian
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

//Dihedral returns the dihedral angle, in degrees and in the (-180,180] range, of the
//chain k-i-j-l, where k and l are the end sites and i, j define the central bond.
func Dihedral(x *v3.Matrix, k, l, i, j int, half [3]float64) float64 {
	//bma=b minus a
	bma := Displacement(x, k, i, half)
	cmb := Displacement(x, i, j, half)
	dmc := Displacement(x, j, l, half)
	bmascaled := bma
	floats.Scale(floats.Norm(cmb[:], 2), bmascaled[:])
	c2 := cross(cmb, dmc)
	first := floats.Dot(bmascaled[:], c2[:])
	c1 := cross(bma, cmb)
	second := floats.Dot(c1[:], c2[:])
	return math.Atan2(first, second) * DegreesPerRadian
}

//unwrap returns the positions of the sites in ids, each one moved to the image
//closest to the previous one, so molecules split by the box boundary are whole.
func unwrap(x *v3.Matrix, ids []int, half [3]float64) [][3]float64 {
	ret := make([][3]float64, len(ids))
	if len(ids) == 0 {
		return ret
	}
	x.Vec(&ret[0], ids[0])
	for n := 1; n < len(ids); n++ {
		d := Displacement(x, ids[n-1], ids[n], half)
		for c := range d {
			ret[n][c] = ret[n-1][c] + d[c]
		}
	}
	return ret
}

//RadiusOfGyration returns the (unweighted) radius of gyration of the sites in ids.
func RadiusOfGyration(x *v3.Matrix, ids []int, half [3]float64) float64 {
	if len(ids) == 0 {
		return 0
	}
	pos := unwrap(x, ids, half)
	var center [3]float64
	for _, p := range pos {
		floats.Add(center[:], p[:])
	}
	floats.Scale(1/float64(len(pos)), center[:])
	var sum float64
	var d [3]float64
	for _, p := range pos {
		floats.SubTo(d[:], p[:], center[:])
		sum += floats.Dot(d[:], d[:])
	}
	return math.Sqrt(sum / float64(len(pos)))
}

//HelicalFraction returns the fraction of helical contacts of a molecule. ids is the site
//list of the molecule, and each element of pairs holds two positions in ids whose
//distance is compared with the reference r0. Each contact contributes a Gaussian
//exp(-(r-r0)^2/(2 sigma2)), and the result is the average over the contacts.
func HelicalFraction(x *v3.Matrix, ids []int, pairs [][2]int, half [3]float64, r0, sigma2 float64) float64 {
	if len(pairs) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pairs {
		r := Distance(x, ids[p[0]], ids[p[1]], half)
		sum += math.Exp(-(r - r0) * (r - r0) / (2 * sigma2))
	}
	return sum / float64(len(pairs))
}
