/*
 * top_test.go, part of cgrange.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/cgrange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chain = `
dimension = 3
types = ["A", "B"]
sites = ["A", "B", "B", "A"]
bonds = [[0, 1], [1, 2], [2, 3]]
angles = [[0, 1, 2], [1, 2, 3]]
dihedrals = [[0, 1, 2, 3]]

[[molecules]]
name = "chain"
sites = [0, 1, 2, 3]
helical = [[0, 3]]

[[density_groups]]
name = "ga"
types = ["A"]

[[density_groups]]
name = "gall"
types = ["A", "B"]

[classes.one_body]
subtype = 1

[classes.pair_nonbonded]
cutoff = 1.5
binwidth = 0.05
output_distribution = 1

[classes.pair_bonded]
output_distribution = 2

[classes.angular]

[classes.dihedral]
subtype = 1

[classes.r13]
subtype = 1

[classes.r15]
subtype = 1

[classes.density]
subtype = 1
cutoff = 1.0

[classes.helical]
subtype = 1

[classes.radius_of_gyration]
subtype = 1

[bi]
temperature = 310.0
spline_spacing = 0.1
`

func load(Te *testing.T, s string) (*cgrange.Model, *Topology, *Config) {
	c, err := Decode(strings.NewReader(s))
	require.NoError(Te, err)
	T, err := NewTopology(c)
	require.NoError(Te, err)
	m, err := BuildModel(c, T)
	require.NoError(Te, err)
	return m, T, c
}

func TestTopology(Te *testing.T) {
	_, T, c := load(Te, chain)
	assert.Equal(Te, 3, c.Dimension)
	assert.Equal(Te, []int{0, 1, 1, 0}, T.SiteTypes)
	assert.Equal(Te, 4, T.NSites())
	assert.Equal(Te, 2, T.NTypes())
	assert.Equal(Te, "B", T.TypeName(1))
	assert.Equal(Te, []int{0, 1, 2, 3}, T.Molecule(0))
	assert.Equal(Te, [][2]int{{0, 3}}, T.Molecules[0].Helical)
	assert.Equal(Te, [][2]int{{0, 1}, {1, 2}, {2, 3}}, T.Separated(1))
	assert.Equal(Te, [][2]int{{0, 2}, {1, 3}}, T.Separated(2))
	assert.Equal(Te, [][2]int{{0, 3}}, T.Separated(3))
	assert.Empty(Te, T.Separated(4))
	s := c.BI.Settings(10)
	assert.Equal(Te, 310.0, s.Temperature)
	assert.InDelta(Te, 0.1, s.Normalization, 1e-12)
}

func TestRing(Te *testing.T) {
	//in a 5-ring every pair is at most 2 bonds apart.
	_, T, _ := load(Te, `
types = ["A"]
sites = ["A", "A", "A", "A", "A"]
bonds = [[0, 1], [1, 2], [2, 3], [3, 4], [4, 0]]
`)
	assert.Len(Te, T.Separated(2), 5)
	assert.Empty(Te, T.Separated(3))
}

func TestClasses(Te *testing.T) {
	m, _, _ := load(Te, chain)
	require.Len(Te, m.Classes, 10)

	one := m.Class(cgrange.OneBody)
	assert.Equal(Te, [][]string{{"A"}, {"B"}}, one.Names)

	nb := m.Class(cgrange.PairNonbonded)
	assert.Equal(Te, [][]string{{"A", "A"}, {"A", "B"}, {"B", "B"}}, nb.Names)
	assert.Equal(Te, []int{0, 1, 1, 2}, nb.PairIndex)
	assert.Equal(Te, 0.05, nb.Binwidth)
	assert.Equal(Te, cgrange.DistTemporary, nb.Distribution)

	b := m.Class(cgrange.PairBonded)
	assert.Equal(Te, [][]string{{"A", "B"}, {"B", "B"}}, b.Names)
	assert.Equal(Te, []cgrange.Instance{cgrange.Pair(0, 1), cgrange.Pair(3, 2)}, b.Instances[0])
	assert.Equal(Te, DefaultBinwidth, b.Binwidth)
	assert.Equal(Te, cgrange.DistKeep, b.Distribution)

	a := m.Class(cgrange.AngularBonded)
	assert.Equal(Te, [][]string{{"A", "B", "B"}}, a.Names)
	assert.Equal(Te, cgrange.Chain(3, 2, 1), a.Instances[0][1])

	d := m.Class(cgrange.DihedralBonded)
	assert.Equal(Te, [][]string{{"A", "B", "B", "A"}}, d.Names)

	r13 := m.Class(cgrange.R13Bonded)
	assert.Equal(Te, [][]string{{"A", "B"}}, r13.Names)
	assert.Len(Te, r13.Instances[0], 2)
	assert.Nil(Te, m.Class(cgrange.R14Bonded))
	assert.Equal(Te, 0, m.Class(cgrange.R15Bonded).NDefined())

	den := m.Class(cgrange.Density)
	assert.Equal(Te, [][]string{{"ga", "ga"}, {"ga", "gall"}, {"gall", "ga"}, {"gall", "gall"}}, den.Names)
	assert.Equal(Te, [][]bool{{true, false}, {true, true}}, den.Density().Groups)

	h := m.Class(cgrange.Helical)
	assert.Equal(Te, [][]string{{"chain"}}, h.Names)
	assert.Equal(Te, []cgrange.Instance{cgrange.Molecule(0)}, h.Instances[0])
	assert.Equal(Te, [][2]int{{0, 3}}, h.Helical().Pairs[0])
	assert.Equal(Te, 1, m.Class(cgrange.RadiusOfGyration).NDefined())
}

func TestBadConfigs(Te *testing.T) {
	for _, s := range []string{
		"types = [\"A\"]\nsites = [\"C\"]\n",
		"types = [\"A\", \"A\"]\n",
		"types = [\"A\"]\nsites = [\"A\"]\nbonds = [[0, 0]]\n",
		"types = [\"A\"]\nsites = [\"A\"]\nangles = [[0, 0]]\n",
		"types = [\"A\"]\nsites = [\"A\"]\nbonds = [[0, 3]]\n",
	} {
		c, err := Decode(strings.NewReader(s))
		require.NoError(Te, err)
		_, err = NewTopology(c)
		assert.Error(Te, err, s)
	}
	c, err := Decode(strings.NewReader("types = [\"A\"]\n[classes.pair_nonbonded]\nbinwidth = 0.1\n"))
	require.NoError(Te, err)
	T, err := NewTopology(c)
	require.NoError(Te, err)
	_, err = BuildModel(c, T)
	assert.Error(Te, err)
	c.Classes.PairNonbonded = nil
	c.Classes.PairBonded = &ClassConfig{OutputDistribution: 3}
	_, err = BuildModel(c, T)
	assert.Error(Te, err)
	_, err = Decode(strings.NewReader("types = [\n"))
	assert.Error(Te, err)
}

func TestLoad(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "model.toml")
	require.NoError(Te, os.WriteFile(name, []byte(chain), 0644))
	m, T, c, err := Load(name)
	require.NoError(Te, err)
	assert.Equal(Te, T, m.Topology)
	assert.Equal(Te, 0.1, c.BI.SplineSpacing)
	_, _, _, err = Load(filepath.Join(Te.TempDir(), "nothing.toml"))
	require.Error(Te, err)
	e, ok := err.(Error)
	require.True(Te, ok)
	assert.Contains(Te, e.FileName(), "nothing.toml")
}
