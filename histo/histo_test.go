/*
 * histo_test.go, part of cgrange.
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

package histo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumBins(Te *testing.T) {
	assert.Equal(Te, 4, NumBins(1.0, 5.0, 1.0))
	assert.Equal(Te, 5, NumBins(1.0, 5.6, 1.0))
	assert.Equal(Te, 0, NumBins(-1.0, -1.0, 0.1))
	assert.Equal(Te, 0, NumBins(5.0, 1.0, 1.0))
}

func TestAddDataAndWrite(Te *testing.T) {
	D, err := NewData(1.0, 5.0, 1.0, 3)
	require.NoError(Te, err)
	require.Equal(Te, 3, D.ID())
	assert.Equal(Te, []float64{1.5, 2.5, 3.5, 4.5}, D.Centers())
	dropped := D.AddData(1.0, 2.0, 3.0, 3.0, 4.9, 0.5, 7.0)
	assert.Equal(Te, 2, dropped)
	assert.Equal(Te, []float64{1, 1, 2, 1}, D.View())
	//every sample is either binned or dropped
	assert.Equal(Te, float64(D.Total()-D.Dropped()), D.Sum())

	var b bytes.Buffer
	_, err = D.WriteTo(&b)
	require.NoError(Te, err)
	assert.Equal(Te, "#center\tcounts\n1.5\t1\n2.5\t1\n3.5\t2\n4.5\t1\n", b.String())

	T, err := ReadTable(&b, 0)
	require.NoError(Te, err)
	assert.Equal(Te, D.Centers(), T.Centers)
	assert.Equal(Te, D.View(), T.Counts)
}

func TestUpperEdgeIsDropped(Te *testing.T) {
	D, err := NewData(0, 2, 1)
	require.NoError(Te, err)
	//exactly the upper bound lands in the bin past the last one.
	assert.Equal(Te, 1, D.AddData(2.0))
	assert.Equal(Te, 0.0, D.Sum())
}

func TestBadWidth(Te *testing.T) {
	_, err := NewData(0, 1, 0)
	require.Error(Te, err)
}

func TestFromDist(Te *testing.T) {
	dir := Te.TempDir()
	dist := filepath.Join(dir, "A_B.dist")
	hist := filepath.Join(dir, "A_B.hist")
	require.NoError(Te, os.WriteFile(dist, []byte("0.05\n0.15\n0.151\n0.25\n9.0\n"), 0o644))
	D, err := FromDist(dist, hist, 0, 0.3, 0.1)
	require.NoError(Te, err)
	assert.Equal(Te, 5, D.Total())
	assert.Equal(Te, 1, D.Dropped())
	assert.Equal(Te, 4.0, D.Sum())
	T, err := ReadTableFile(hist, 2)
	require.NoError(Te, err)
	require.Equal(Te, 2, T.Len())
	assert.Equal(Te, []float64{1, 2}, T.Counts)
	assert.InDelta(Te, 0.15, D.Mean(), 0.01)
}

func TestReadSamplesStops(Te *testing.T) {
	D, err := NewData(0, 10, 1)
	require.NoError(Te, err)
	require.NoError(Te, D.ReadSamples(strings.NewReader("1\n2\nnope\n3\n")))
	assert.Equal(Te, 2, D.Total())
}

func TestReadTableErrors(Te *testing.T) {
	_, err := ReadTable(strings.NewReader("#center\tcounts\n1.0\n"), 0)
	require.Error(Te, err)
	_, err = ReadTableFile(filepath.Join(Te.TempDir(), "missing.hist"), 0)
	require.Error(Te, err)
}
