/*
 * rangefinder_test.go, part of cgrange.
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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/rmera/cgrange/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTop struct {
	names []string
	types []int
	mols  [][]int
}

func (t *testTop) NSites() int            { return len(t.types) }
func (t *testTop) NTypes() int            { return len(t.names) }
func (t *testTop) TypeName(i int) string  { return t.names[i] }
func (t *testTop) SiteType(site int) int  { return t.types[site] }
func (t *testTop) NMolecules() int        { return len(t.mols) }
func (t *testTop) Molecule(mol int) []int { return t.mols[mol] }

type endOfTraj struct{}

func (endOfTraj) Error() string               { return "EOF" }
func (endOfTraj) Decorate(string) []string    { return nil }
func (endOfTraj) Critical() bool              { return false }
func (endOfTraj) FileName() string            { return "" }
func (endOfTraj) Format() string              { return "test" }
func (endOfTraj) NormalLastFrameTermination() {}

//sliceTraj is a trajectory held in memory.
type sliceTraj struct {
	frames []*v3.Matrix
	cur    int
}

func (s *sliceTraj) Readable() bool { return s.cur < len(s.frames) }
func (s *sliceTraj) Len() int       { return s.frames[0].NVecs() }
func (s *sliceTraj) Next(x *v3.Matrix, box ...[]float64) error {
	if s.cur >= len(s.frames) {
		return endOfTraj{}
	}
	if x != nil {
		x.Copy(s.frames[s.cur])
	}
	s.cur++
	return nil
}

//pairFrames returns 2-site frames with the sites at the given distances.
func pairFrames(Te *testing.T, d ...float64) []*v3.Matrix {
	ret := make([]*v3.Matrix, 0, len(d))
	for _, v := range d {
		x, err := v3.NewMatrix([]float64{0, 0, 0, v, 0, 0})
		require.NoError(Te, err)
		ret = append(ret, x)
	}
	return ret
}

func nonbondedModel(dist Distribution) *Model {
	top := &testTop{names: []string{"A", "B"}, types: []int{0, 1}}
	C := &InteractionClass{
		Kind:         Kind{Type: PairNonbonded},
		Cutoff:       5.0,
		Binwidth:     1.0,
		Distribution: dist,
		Names:        [][]string{{"A", "B"}},
		Types:        [][]int{{0, 1}},
		PairIndex:    []int{-1, 0, 0, -1},
	}
	return &Model{Topology: top, Classes: []*InteractionClass{C}, Dimension: 3}
}

func TestNonbondedEndToEnd(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	m := nonbondedModel(DistKeep)
	R, err := New(m, opts)
	require.NoError(Te, err)
	for _, x := range pairFrames(Te, 1.0, 2.0, 3.0, 3.0, 4.9, 6.0) {
		require.NoError(Te, R.ProcessFrame(x, nil))
	}
	C := m.Classes[0]
	assert.InDelta(Te, 1.0, C.Lower[0], 1e-9)
	assert.InDelta(Te, 6.0, C.Upper[0], 1e-9)
	require.NoError(Te, R.Finish())
	assert.Equal(Te, 6, R.Frames())

	b, err := os.ReadFile(filepath.Join(dir, NonbondedRangeFile))
	require.NoError(Te, err)
	assert.Equal(Te, "A B 1.000000 5.000000 fm\n", string(b))
	b, err = os.ReadFile(filepath.Join(dir, BondedRangeFile))
	require.NoError(Te, err)
	assert.Empty(Te, b)
	assert.NoFileExists(Te, filepath.Join(dir, DensityRangeFile))

	//the sample beyond the cutoff is not in the distribution.
	b, err = os.ReadFile(filepath.Join(dir, "A_B"+DistExt))
	require.NoError(Te, err)
	assert.Equal(Te, "1.000000\n2.000000\n3.000000\n3.000000\n4.900000\n", string(b))
	b, err = os.ReadFile(filepath.Join(dir, "A_B"+HistExt))
	require.NoError(Te, err)
	assert.Equal(Te, "#center\tcounts\n1.5\t1\n2.5\t1\n3.5\t2\n4.5\t1\n", string(b))
	h := R.Histograms(C)
	require.Len(Te, h, 1)
	assert.Equal(Te, 5.0, h[0].Sum())
}

func TestTemporaryDistRemoved(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	R, err := New(nonbondedModel(DistTemporary), opts)
	require.NoError(Te, err)
	for _, x := range pairFrames(Te, 1.5, 2.5) {
		require.NoError(Te, R.ProcessFrame(x, nil))
	}
	require.NoError(Te, R.Finish())
	assert.NoFileExists(Te, filepath.Join(dir, "A_B"+DistExt))
	assert.FileExists(Te, filepath.Join(dir, "A_B"+HistExt))
}

//bondedAndNonbonded returns a model with nonbonded and bonded classes over the same A-B pair.
func bondedAndNonbonded(dist Distribution) *Model {
	m := nonbondedModel(dist)
	m.Classes = append(m.Classes, &InteractionClass{
		Kind:         Kind{Type: PairBonded},
		Binwidth:     1.0,
		Distribution: dist,
		Names:        [][]string{{"A", "B"}},
		Types:        [][]int{{0, 1}},
		Instances:    [][]Instance{{Pair(0, 1)}},
	})
	return m
}

func TestSharedTypePairFiles(Te *testing.T) {
	for _, dist := range []Distribution{DistTemporary, DistKeep} {
		dir := Te.TempDir()
		opts := DefaultOptions()
		opts.Dir(dir)
		R, err := New(bondedAndNonbonded(dist), opts)
		require.NoError(Te, err)
		require.NoError(Te, R.Run(&sliceTraj{frames: pairFrames(Te, 1.5, 2.5, 3.5)}))
		require.NoError(Te, R.Finish())
		assert.FileExists(Te, filepath.Join(dir, "A_B"+HistExt))
		assert.FileExists(Te, filepath.Join(dir, "bond_A_B"+HistExt))
		for _, C := range R.Model().Classes {
			h := R.Histograms(C)
			require.Len(Te, h, 1)
			assert.Equal(Te, 3, h[0].Total(), C.FullName())
		}
		if dist == DistTemporary {
			assert.NoFileExists(Te, filepath.Join(dir, "A_B"+DistExt))
			assert.NoFileExists(Te, filepath.Join(dir, "bond_A_B"+DistExt))
			continue
		}
		for _, stem := range []string{"A_B", "bond_A_B"} {
			b, err := os.ReadFile(filepath.Join(dir, stem+DistExt))
			require.NoError(Te, err)
			assert.Equal(Te, "1.500000\n2.500000\n3.500000\n", string(b), stem)
		}
	}
}

func TestDuplicateFileStems(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	m := nonbondedModel(DistKeep)
	second := *m.Classes[0]
	m.Classes = append(m.Classes, &second)
	_, err := New(m, opts)
	require.Error(Te, err)
	e, ok := err.(Error)
	require.True(Te, ok)
	assert.True(Te, e.Critical())
	entries, err := os.ReadDir(dir)
	require.NoError(Te, err)
	assert.Empty(Te, entries)
}

func TestRunIdempotent(Te *testing.T) {
	var lower, upper []float64
	for k := 0; k < 2; k++ {
		opts := DefaultOptions()
		opts.Dir(Te.TempDir())
		opts.Cpus(2)
		m := nonbondedModel(DistOff)
		R, err := New(m, opts)
		require.NoError(Te, err)
		require.NoError(Te, R.Run(&sliceTraj{frames: pairFrames(Te, 2.2, 0.7, 3.1, 9.0)}))
		require.NoError(Te, R.Finish())
		C := m.Classes[0]
		if k == 0 {
			lower, upper = append(lower, C.Lower...), append(upper, C.Upper...)
			continue
		}
		assert.Equal(Te, lower, C.Lower)
		assert.Equal(Te, upper, C.Upper)
		//finalizing again changes nothing.
		assert.True(Te, C.Finalize(0))
		assert.Equal(Te, upper, C.Upper)
	}
	assert.InDelta(Te, 0.7, lower[0], 1e-9)
	assert.InDelta(Te, 5.0, upper[0], 1e-9)
}

func TestRunSkip(Te *testing.T) {
	opts := DefaultOptions()
	opts.Dir(Te.TempDir())
	opts.Skip(1)
	m := nonbondedModel(DistOff)
	R, err := New(m, opts)
	require.NoError(Te, err)
	require.NoError(Te, R.Run(&sliceTraj{frames: pairFrames(Te, 1, 2, 3, 4)}))
	assert.Equal(Te, 2, R.Frames())
	//frames 0 and 2 are processed.
	assert.InDelta(Te, 1.0, m.Classes[0].Lower[0], 1e-9)
	assert.InDelta(Te, 3.0, m.Classes[0].Upper[0], 1e-9)
	require.NoError(Te, R.Close())
}

func TestNeverSampled(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	top := &testTop{names: []string{"A", "B"}, types: []int{0, 1}}
	bonded := &InteractionClass{
		Kind:      Kind{Type: PairBonded},
		Names:     [][]string{{"A", "A"}},
		Instances: [][]Instance{nil},
	}
	far := nonbondedModel(DistOff).Classes[0]
	m := &Model{Topology: top, Classes: []*InteractionClass{far, bonded}}
	R, err := New(m, opts)
	require.NoError(Te, err)
	fr := pairFrames(Te, 7, 8)
	require.NoError(Te, R.ProcessFrame(fr[0], []float64{100, 100, 100}))
	require.NoError(Te, R.ProcessFrame(fr[1], []float64{50, 0, 0, 0, 100, 0, 0, 0, 100}))
	//the volume is averaged over the frames, not taken from the last one.
	assert.InDelta(Te, 0.75e6, R.Volume(), 1e-6)
	require.NoError(Te, R.Finish())
	b, err := os.ReadFile(filepath.Join(dir, BondedRangeFile))
	require.NoError(Te, err)
	assert.Equal(Te, "A A -1.000000 -1.000000 none\n", string(b))
	b, err = os.ReadFile(filepath.Join(dir, NonbondedRangeFile))
	require.NoError(Te, err)
	assert.Equal(Te, "A B -1.000000 -1.000000 none\n", string(b))
	assert.True(Te, bonded.Excluded(0))
}

func TestDihedralIn2D(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	top := &testTop{names: []string{"A"}, types: []int{0, 0, 0, 0}}
	C := &InteractionClass{
		Kind:         Kind{Type: DihedralBonded},
		Distribution: DistKeep,
		Binwidth:     1,
		Names:        [][]string{{"A", "A", "A", "A"}},
		Instances:    [][]Instance{{Chain(0, 1, 2, 3)}},
	}
	nb := nonbondedModel(DistKeep).Classes[0]
	_, err := New(&Model{Topology: top, Classes: []*InteractionClass{nb, C}, Dimension: 2}, opts)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), DihedralNot3D)
	e, ok := err.(Error)
	require.True(Te, ok)
	assert.True(Te, e.Critical())
	entries, err := os.ReadDir(dir)
	require.NoError(Te, err)
	assert.Empty(Te, entries)
}

func TestUnrecognizedSubtype(Te *testing.T) {
	top := &testTop{names: []string{"A"}, types: []int{0}}
	C := &InteractionClass{Kind: Kind{Type: AngularBonded, Subtype: 5}}
	_, err := New(&Model{Topology: top, Classes: []*InteractionClass{C}}, DefaultOptions())
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "Unrecognized angular class subtype 5!")
	C = &InteractionClass{Kind: Kind{Type: Density, Subtype: 9}}
	_, err = New(&Model{Topology: top, Classes: []*InteractionClass{C}}, DefaultOptions())
	require.Error(Te, err)
}

func TestBondedEvaluators(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	top := &testTop{names: []string{"A"}, types: []int{0, 0, 0, 0}}
	//a trans chain in the xy plane.
	x, err := v3.NewMatrix([]float64{
		0, 1, 0,
		0, 0, 0,
		1, 0, 0,
		1, -1, 0,
	})
	require.NoError(Te, err)
	names := [][]string{{"A", "A", "A"}}
	angle := &InteractionClass{Kind: Kind{Type: AngularBonded}, Names: names, Instances: [][]Instance{{Chain(0, 1, 2)}}}
	angleDist := &InteractionClass{Kind: Kind{Type: AngularBonded, Subtype: 1}, Names: names, Instances: [][]Instance{{Chain(0, 1, 2)}}}
	names = [][]string{{"A", "A", "A", "A"}}
	dihe := &InteractionClass{Kind: Kind{Type: DihedralBonded}, Names: names, Instances: [][]Instance{{Chain(0, 1, 2, 3)}}}
	diheDist := &InteractionClass{Kind: Kind{Type: DihedralBonded, Subtype: 1}, Names: names, Instances: [][]Instance{{Chain(0, 1, 2, 3)}}}
	r14 := &InteractionClass{Kind: Kind{Type: R14Bonded}, Names: [][]string{{"A", "A"}}, Instances: [][]Instance{{Pair(0, 3)}}}
	m := &Model{Topology: top, Classes: []*InteractionClass{angle, angleDist, dihe, diheDist, r14}}
	R, err := New(m, opts)
	require.NoError(Te, err)
	require.NoError(Te, R.ProcessFrame(x, nil))
	assert.InDelta(Te, 90.0, angle.Lower[0], 1e-6)
	assert.InDelta(Te, math.Sqrt2, angleDist.Upper[0], 1e-9)
	assert.InDelta(Te, 180.0, math.Abs(dihe.Lower[0]), 1e-6)
	assert.InDelta(Te, math.Sqrt(5), diheDist.Lower[0], 1e-9)
	//R14 with subtype 0 is not sampled, and has no defined interactions.
	assert.Equal(Te, 0, r14.NDefined())
	require.NoError(Te, R.Finish())
	assert.NoFileExists(Te, filepath.Join(dir, DistanceRangeFile))
	b, err := os.ReadFile(filepath.Join(dir, BondedRangeFile))
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(Te, lines, 4)
	assert.Equal(Te, "A A A 90.000000 90.000000 fm", lines[0])
}

func TestHelicalAndRg(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	require.NoError(Te, os.WriteFile(filepath.Join(dir, HelicalParamFile), []byte("P 1.0 0.5\n"), 0644))
	top := &testTop{names: []string{"A"}, types: []int{0, 0, 0}, mols: [][]int{{0, 1, 2}}}
	x, err := v3.NewMatrix([]float64{
		0, 0, 0,
		1, 0, 0,
		2, 0, 0,
	})
	require.NoError(Te, err)
	hel := &InteractionClass{
		Kind:      Kind{Type: Helical, Subtype: 1},
		Names:     [][]string{{"P"}},
		Instances: [][]Instance{{Molecule(0)}},
		Payload:   &HelicalParams{Pairs: [][][2]int{{{0, 1}, {1, 2}}}},
	}
	rg := &InteractionClass{
		Kind:      Kind{Type: RadiusOfGyration, Subtype: 1},
		Names:     [][]string{{"P"}},
		Instances: [][]Instance{{Molecule(0)}},
	}
	R, err := New(&Model{Topology: top, Classes: []*InteractionClass{hel, rg}}, opts)
	require.NoError(Te, err)
	require.NoError(Te, R.ProcessFrame(x, nil))
	//both contacts are at r0
	assert.InDelta(Te, 1.0, hel.Upper[0], 1e-9)
	assert.InDelta(Te, math.Sqrt(2.0/3.0), rg.Upper[0], 1e-9)
	require.NoError(Te, R.Finish())
	b, err := os.ReadFile(filepath.Join(dir, HelicalRangeFile))
	require.NoError(Te, err)
	assert.Equal(Te, "P 1.000000 1.000000 fm 1.000000 0.500000\n", string(b))
	assert.FileExists(Te, filepath.Join(dir, RgRangeFile))
}

func TestHelicalMissingParams(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	top := &testTop{names: []string{"A"}, types: []int{0}, mols: [][]int{{0}}}
	hel := &InteractionClass{
		Kind:      Kind{Type: Helical, Subtype: 1},
		Names:     [][]string{{"P"}},
		Instances: [][]Instance{{Molecule(0)}},
		Payload:   &HelicalParams{Pairs: [][][2]int{nil}},
	}
	_, err := New(&Model{Topology: top, Classes: []*InteractionClass{hel}}, opts)
	require.Error(Te, err)
	e, ok := err.(CGError)
	require.True(Te, ok)
	assert.Equal(Te, filepath.Join(dir, HelicalParamFile), e.FileName())
}

func TestDensityClass(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	require.NoError(Te, os.WriteFile(filepath.Join(dir, DensityParamFile), []byte("g g 1.0\n"), 0644))
	top := &testTop{names: []string{"A"}, types: []int{0, 0}}
	C := &InteractionClass{
		Kind:         Kind{Type: Density, Subtype: 1},
		Cutoff:       2.0,
		Binwidth:     0.1,
		Distribution: DistTemporary,
		Names:        [][]string{{"g", "g"}},
		Payload:      &DensityParams{GroupNames: []string{"g"}, Groups: [][]bool{{true}}},
	}
	R, err := New(&Model{Topology: top, Classes: []*InteractionClass{C}}, opts)
	require.NoError(Te, err)
	x := pairFrames(Te, 1.0)[0]
	require.NoError(Te, R.ProcessFrame(x, nil))
	E := C.Density().Engine
	w := E.Weight(0, 1.0)
	assert.InDelta(Te, math.Exp(-0.5), w+E.Consts.UCutoff[0]*-1-(1.0-2.0)*E.Consts.FCutoff[0], 1e-9)
	assert.InDelta(Te, w, C.Lower[0], 1e-12)
	assert.InDelta(Te, w, C.Upper[0], 1e-12)
	require.NoError(Te, R.Finish())
	b, err := os.ReadFile(filepath.Join(dir, DensityRangeFile))
	require.NoError(Te, err)
	assert.True(Te, strings.HasSuffix(string(b), " fm 1.000000\n"), string(b))
	assert.True(Te, strings.HasPrefix(string(b), "g g "), string(b))
	assert.NoFileExists(Te, filepath.Join(dir, "den_g_g"+DistExt))
}

func TestOneBodyRows(Te *testing.T) {
	dir := Te.TempDir()
	opts := DefaultOptions()
	opts.Dir(dir)
	top := &testTop{names: []string{"A", "B"}, types: []int{0, 1}}
	C := &InteractionClass{Kind: Kind{Type: OneBody, Subtype: 1}, Names: [][]string{{"A"}, {"B"}}}
	R, err := New(&Model{Topology: top, Classes: []*InteractionClass{C}}, opts)
	require.NoError(Te, err)
	require.NoError(Te, R.Finish())
	b, err := os.ReadFile(filepath.Join(dir, OneBodyRangeFile))
	require.NoError(Te, err)
	assert.Equal(Te, "A fm\nB fm\n", string(b))
}

func TestProcessFrameSize(Te *testing.T) {
	opts := DefaultOptions()
	opts.Dir(Te.TempDir())
	R, err := New(nonbondedModel(DistOff), opts)
	require.NoError(Te, err)
	require.Error(Te, R.ProcessFrame(v3.Zeros(3), nil))
	require.NoError(Te, R.Close())
	require.Error(Te, R.ProcessFrame(v3.Zeros(2), nil))
}
