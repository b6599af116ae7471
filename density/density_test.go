/*
 * density_test.go, part of cgrange.
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
	"math"
	"testing"

	v3 "github.com/rmera/cgrange/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianConstants(Te *testing.T) {
	c, err := NewConstants(Gaussian, 2.0, []float64{1.0}, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 2.0, c.Denom[0], 1e-12)
	assert.InDelta(Te, -math.Exp(-2.0), c.UCutoff[0], 1e-12)
	assert.InDelta(Te, -2.0*2.0*c.UCutoff[0]/2.0, c.FCutoff[0], 1e-12)
	//the weight vanishes at the cutoff
	assert.InDelta(Te, 0.0, c.Weight(Gaussian, 0, 2.0-1e-9, 2.0, 1.0, 0), 1e-8)
}

func TestSmallSigmaFails(Te *testing.T) {
	_, err := NewConstants(Gaussian, 2.0, []float64{0}, nil)
	require.Error(Te, err)
	_, err = NewConstants(Switching, 2.0, []float64{1e-20}, []float64{1})
	require.Error(Te, err)
	//Lucy does not use sigma
	_, err = NewConstants(Lucy, 2.0, []float64{0}, nil)
	require.NoError(Te, err)
}

func TestUnknownKernel(Te *testing.T) {
	_, err := NewConstants(Kernel(7), 2.0, []float64{1}, nil)
	require.Error(Te, err)
	e, ok := err.(Error)
	require.True(Te, ok)
	assert.True(Te, e.Critical())
}

func TestSwitchingAndPolynomials(Te *testing.T) {
	rc, rs, sigma := 3.0, 1.5, 0.5
	c, err := NewConstants(Switching, rc, []float64{sigma}, []float64{rs})
	require.NoError(Te, err)
	a := (rc - rs) / sigma
	assert.InDelta(Te, 0.5*math.Tanh(a), c.UCutoff[0], 1e-12)
	assert.InDelta(Te, 0.5/(sigma*math.Cosh(a)*math.Cosh(a)), c.FCutoff[0], 1e-12)
	assert.InDelta(Te, 1.0, c.Denom[0], 1e-12)

	l, err := NewConstants(Lucy, rc, []float64{1}, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, math.Pow(rc, 4), l.Denom[0], 1e-9)
	assert.Equal(Te, 0.0, l.UCutoff[0])
	assert.InDelta(Te, 1.0, l.Weight(Lucy, 0, 0, rc, 1, 0), 1e-12)

	re, err := NewConstants(RelativeEntropy, 2.0, []float64{1.0}, nil)
	require.NoError(Te, err)
	x := 0.25
	d := math.Pow(1-x, 3)
	assert.InDelta(Te, d, re.Denom[0], 1e-12)
	assert.InDelta(Te, (1-3*x)/d, re.C0[0], 1e-12)
	assert.InDelta(Te, 6*x/(4*d), re.C2[0], 1e-12)
	assert.InDelta(Te, 3*(1+x)/(16*d), re.C4[0], 1e-12)
	assert.InDelta(Te, 2/(64*d), re.C6[0], 1e-12)
	//continuous at sigma and zero at the cutoff
	assert.InDelta(Te, 1.0, re.Weight(RelativeEntropy, 0, 1.0+1e-9, 2.0, 1.0, 0), 1e-6)
	assert.InDelta(Te, 0.0, re.Weight(RelativeEntropy, 0, 2.0-1e-9, 2.0, 1.0, 0), 1e-6)
}

func TestGroupMap(Te *testing.T) {
	//types: 0 and 1. group 0 = {0}, group 1 = {0,1}
	groups := [][]bool{{true, false}, {true, true}}
	m, err := BuildGroupMap(groups, 2)
	require.NoError(Te, err)
	//type0-type0: any of the groups of type 0 with any of the groups of type 0.
	assert.Equal(Te, uint64(1<<0|1<<1|1<<2|1<<3), m[0])
	//type0-type1: t1 in g0 or g1, t2 in g1 only: bits 0*2+1 and 1*2+1.
	assert.Equal(Te, uint64(1<<1|1<<3), m[1])
	//type1-type0: bits 1*2+0 and 1*2+1
	assert.Equal(Te, uint64(1<<2|1<<3), m[2])
	//type1-type1: only g1/g1
	assert.Equal(Te, uint64(1<<3), m[3])

	_, err = BuildGroupMap(make([][]bool, 9), 0)
	require.Error(Te, err)
}

func TestAccumulate(Te *testing.T) {
	groups := [][]bool{{true, false}, {false, true}}
	types := []int{0, 1, 1}
	E, err := New(Lucy, 2.0, groups, 2, 3, []float64{1, 1, 1, 1}, nil)
	require.NoError(Te, err)
	x, err := v3.NewMatrix([]float64{
		0, 0, 0,
		1, 0, 0,
		5, 0, 0})
	require.NoError(Te, err)
	E.Accumulate(x, types, [3]float64{})
	w := E.Weight(1, 1.0)
	//density of group 1 at site 0 (group 0): only site 1 is within the cutoff.
	assert.InDelta(Te, w, E.Value(0*2+1, 0), 1e-12)
	//density of group 0 at site 1
	assert.InDelta(Te, w, E.Value(1*2+0, 1), 1e-12)
	assert.Equal(Te, 0.0, E.Value(1*2+0, 2))
	assert.Equal(Te, 0.0, E.Value(0*2+0, 0))
}
