/*
 * params_test.go, part of cgrange.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHelicalParams(Te *testing.T) {
	h, err := ReadHelicalParams(strings.NewReader("P1 0.52 0.01 extra\nP2 0.6 0.02\n"), 2)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0.52, 0.6}, h.R0)
	assert.Equal(Te, []float64{0.01, 0.02}, h.Sigma2)

	_, err = ReadHelicalParams(strings.NewReader("P1 0.52 0.01\n"), 2)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "More lines expected in hel.prm!")

	_, err = ReadHelicalParams(strings.NewReader("P1 0.52\n"), 1)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "at least 3 elements")
}

func TestAtof(Te *testing.T) {
	for s, want := range map[string]float64{
		"1.5":     1.5,
		"1.5abc":  1.5,
		"  -2e3x": -2000,
		"3e":      3,
		"4E+":     4,
		".25nm":   0.25,
		"+7.":     7,
		"abc":     0,
		"-":       0,
		".":       0,
		"":        0,
	} {
		assert.Equal(Te, want, atof(s), s)
	}
	h, err := ReadHelicalParams(strings.NewReader("P1 0.52nm 0.01;\n"), 1)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0.52}, h.R0)
	assert.Equal(Te, []float64{0.01}, h.Sigma2)
}

func TestReadDensityParams(Te *testing.T) {
	sigma, sw, err := ReadDensityParams(strings.NewReader("A B 0.5 1.2\nB A 0.7\n"), 2)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0.5, 0.7}, sigma)
	assert.Equal(Te, []float64{1.2, 0}, sw)
	//non-numbers read as 0
	sigma, _, err = ReadDensityParams(strings.NewReader("A B x\n"), 1)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0}, sigma)
}

func TestKinds(Te *testing.T) {
	for _, name := range []string{"pair nonbonded", "pair_nonbonded"} {
		t, err := ParseClassType(name)
		require.NoError(Te, err)
		assert.Equal(Te, PairNonbonded, t)
	}
	_, err := ParseClassType("quadrupole")
	require.Error(Te, err)
	assert.NoError(Te, Kind{Density, 4}.Validate())
	assert.Error(Te, Kind{Helical, 2}.Validate())
	assert.NoError(Te, Kind{PairBonded, 7}.Validate())
	assert.True(Te, Kind{R13Bonded, 1}.HasDistribution())
	assert.False(Te, Kind{R13Bonded, 0}.HasDistribution())
	assert.False(Te, Kind{OneBody, 1}.HasDistribution())
	assert.True(Te, Kind{R15Bonded, 0}.dummy())
	assert.False(Te, Kind{AngularBonded, 0}.dummy())
}

func TestRanges(Te *testing.T) {
	C := &InteractionClass{Kind: Kind{Type: PairBonded}, Names: [][]string{{"A", "B"}, {"B", "B"}}}
	C.InitRanges()
	assert.Equal(Te, []int{1, 2}, C.MatchedMap)
	assert.Len(Te, C.ColumnIndices, 3)
	assert.False(Te, C.Sampled(0))
	assert.Greater(Te, C.Lower[0], C.Upper[0])
	C.Fold(0, 12.0)
	C.Fold(0, 11.5)
	assert.True(Te, C.Finalize(0))
	//bonded ranges are not clamped.
	assert.Equal(Te, 12.0, C.Upper[0])
	assert.Equal(Te, 11.5, C.Lower[0])
	//a range of a single value is a legitimate range.
	C.Fold(1, 3.0)
	assert.True(Te, C.Finalize(1))
	assert.Equal(Te, "A_B", C.Basename(0))
	assert.Equal(Te, "A B", C.InteractionName(0))
}
