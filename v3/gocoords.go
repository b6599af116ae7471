/*
 * gocoords.go, part of cgrange.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Vec copies the i-th vector of F into dst, which is also returned.
//It is the allocation-free accessor used in the per-frame loops.
func (F *Matrix) Vec(dst *[3]float64, i int) *[3]float64 {
	if i >= F.NVecs() || i < 0 {
		panic(ErrIndexOutOfRange)
	}
	raw := F.RawMatrix()
	copy(dst[:], raw.Data[i*raw.Stride:i*raw.Stride+3])
	return dst
}

//SetVec sets the i-th vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	if i >= F.NVecs() || i < 0 {
		panic(ErrIndexOutOfRange)
	}
	for j := 0; j < 3; j++ {
		F.Set(i, j, v[j])
	}
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, _ := F.Dims()
	v := make([]string, 0, r)
	var row [3]float64
	for i := 0; i < r; i++ {
		F.Vec(&row, i)
		v = append(v, fmt.Sprintf("%6.2f %6.2f %6.2f", row[0], row[1], row[2]))
	}
	return "\n[" + strings.Join(v, "\n ") + " ]"
}
