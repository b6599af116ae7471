/*
 * ranges.go, part of cgrange.
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

import "github.com/rmera/cgrange/limits"

//Sentinel thresholds, see the limits package.
const (
	VeryLarge  = limits.VeryLarge
	VerySmall  = limits.VerySmall
	VerySmallF = limits.VerySmallF
)

//InitRanges sets every bound of the class to the "never sampled" sentinel pair
//(lower VeryLarge, upper -VeryLarge), marks every defined interaction as matched
//and sizes the column indices.
func (C *InteractionClass) InitRanges() {
	n := C.NDefined()
	C.Lower = make([]float64, n)
	C.Upper = make([]float64, n)
	C.MatchedMap = make([]int, n)
	C.excluded = make([]bool, n)
	for i := 0; i < n; i++ {
		C.Lower[i] = VeryLarge
		C.Upper[i] = -VeryLarge
		C.MatchedMap[i] = i + 1
	}
	C.ColumnIndices = make([]int, n+1)
}

//Fold extends the range of the i-th defined interaction to include v.
func (C *InteractionClass) Fold(i int, v float64) {
	if C.Lower[i] > v {
		C.Lower[i] = v
	}
	if C.Upper[i] < v {
		C.Upper[i] = v
	}
}

//Sampled reports whether the i-th defined interaction was sampled at least once.
func (C *InteractionClass) Sampled(i int) bool {
	return !limits.Unset(C.Upper[i])
}

//Matched reports whether the i-th defined interaction is force matched.
func (C *InteractionClass) Matched(i int) bool {
	return C.MatchedMap[i] > 0
}

//Finalize turns the running range of the i-th defined interaction into the one
//written out. Interactions never sampled, and nonbonded ones found only beyond
//the cutoff, get the (-1,-1) range and Finalize returns false. Nonbonded ranges
//are clamped to the cutoff. Other classes are not clamped.
//Calling it again returns the same result without changing the range.
func (C *InteractionClass) Finalize(i int) bool {
	if C.excluded[i] {
		return false
	}
	if !C.Sampled(i) {
		C.exclude(i)
		return false
	}
	if C.Kind.Type == PairNonbonded {
		if C.Lower[i] > C.Cutoff {
			C.exclude(i)
			return false
		} else if C.Upper[i] > C.Cutoff {
			C.Upper[i] = C.Cutoff
		}
	}
	return true
}

//Excluded reports whether Finalize found that the i-th interaction must not be
//force matched.
func (C *InteractionClass) Excluded(i int) bool {
	return C.excluded[i]
}

func (C *InteractionClass) exclude(i int) {
	C.Lower[i], C.Upper[i] = -1.0, -1.0
	C.excluded[i] = true
}
