/*
 * histo.go, part of cgrange.
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

//Package histo builds fixed-width histograms of sampled interaction
//coordinates, and reads and writes them in the two-column text format
//used by the range finding: a "#center\tcounts" header followed by one
//"center<TAB>count" line per bin.
package histo

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Epsilon is added to every sample before binning, so values that fall on a
//bin edge because of rounding are not pushed to the previous bin.
const Epsilon = 0.00001

//Header is the first line of a histogram file.
const Header = "#center\tcounts"

//NumBins returns the number of bins of width width needed to span [lower,upper],
//rounded to the nearest integer. Empty or inverted ranges have no bins.
func NumBins(lower, upper, width float64) int {
	n := int((upper-lower)/width + 0.5)
	if n < 0 {
		return 0
	}
	return n
}

//Data is a fixed-width histogram.
type Data struct {
	id      int
	lower   float64
	width   float64
	centers []float64
	histo   []float64
	total   int //samples offered
	dropped int //samples outside of the bins
}

//NewData returns an empty histogram with bins of the given width spanning
//[lower, upper]. If an ID for the histogram is given, it will be set. If not,
//the ID will be set to -1.
func NewData(lower, upper, width float64, ID ...int) (*Data, error) {
	if width <= 0 || math.IsNaN(width) {
		return nil, Error{fmt.Sprintf("invalid bin width %f", width), "", []string{"NewData"}, true}
	}
	n := NumBins(lower, upper, width)
	d := &Data{
		id:      -1,
		lower:   lower,
		width:   width,
		centers: make([]float64, n),
		histo:   make([]float64, n),
	}
	if n > 0 {
		d.centers[0] = lower + 0.5*width
		for j := 1; j < n; j++ {
			d.centers[j] = d.centers[j-1] + width
		}
	}
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d, nil
}

//ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

//Bin returns the bin index of value, which may be out of range.
func (D *Data) Bin(value float64) int {
	return int(math.Floor((value - D.lower + Epsilon) / D.width))
}

//AddData adds the given data point(s) to the histogram. Points that do not
//fall in any bin are dropped and counted, and a warning is logged for those
//beyond the bin past the last one. It returns the number of dropped points.
func (D *Data) AddData(point ...float64) int {
	n := len(D.histo)
	dropped := 0
	for _, v := range point {
		b := D.Bin(v)
		if b >= 0 && b < n {
			D.histo[b]++
			continue
		}
		dropped++
		if b > n {
			log.Printf("Warning: Bin %d is out-of-bounds. Array size: %d", b, n)
		}
	}
	D.total += len(point)
	D.dropped += dropped
	return dropped
}

//NBins returns the number of bins.
func (D *Data) NBins() int {
	return len(D.histo)
}

//Width returns the bin width.
func (D *Data) Width() float64 {
	return D.width
}

//Centers returns a view of the bin centers.
func (D *Data) Centers() []float64 {
	return D.centers
}

//View returns a view of the counts.
func (D *Data) View() []float64 {
	return D.histo
}

//Total returns the number of points offered to the histogram.
func (D *Data) Total() int {
	return D.total
}

//Dropped returns the number of points that did not fall in any bin.
func (D *Data) Dropped() int {
	return D.dropped
}

//Sum returns the sum of all the counts.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//Mean returns the mean of the binned coordinate, or NaN for an empty histogram.
func (D *Data) Mean() float64 {
	if D.Sum() == 0 {
		return math.NaN()
	}
	return stat.Mean(D.centers, D.histo)
}

//String prints a -hopefully- pretty summary of the histogram.
func (D *Data) String() string {
	return fmt.Sprintf("ID: %d, bins: %d, width: %g, total: %d, binned: %.0f, dropped: %d", D.id, len(D.histo), D.width, D.total, D.Sum(), D.dropped)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

//WriteTo writes the histogram in the two-column text format.
func (D *Data) WriteTo(w io.Writer) (int64, error) {
	b := bufio.NewWriter(w)
	var written int64
	n, err := b.WriteString(Header + "\n")
	written += int64(n)
	if err != nil {
		return written, err
	}
	for j, v := range D.histo {
		n, err = fmt.Fprintf(b, "%s\t%d\n", formatFloat(D.centers[j]), int64(v))
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, b.Flush()
}

//ReadSamples adds to the histogram the whitespace-separated values read from r.
//Reading stops, without error, at the first token that is not a number.
func (D *Data) ReadSamples(r io.Reader) error {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	for s.Scan() {
		v, err := strconv.ParseFloat(s.Text(), 64)
		if err != nil {
			log.Printf("Stopped reading samples at non-numeric token %q", s.Text())
			break
		}
		D.AddData(v)
	}
	return s.Err()
}

//FromDist builds the histogram spanning [lower, upper] from the samples in
//the file distname, one per line, and writes it to histname.
func FromDist(distname, histname string, lower, upper, width float64) (*Data, error) {
	D, err := NewData(lower, upper, width)
	if err != nil {
		return nil, errDecorate(err, "FromDist")
	}
	fin, err := os.Open(distname)
	if err != nil {
		return nil, Error{err.Error(), distname, []string{"os.Open", "FromDist"}, true}
	}
	defer fin.Close()
	if err = D.ReadSamples(fin); err != nil {
		return nil, Error{err.Error(), distname, []string{"ReadSamples", "FromDist"}, true}
	}
	fout, err := os.Create(histname)
	if err != nil {
		return nil, Error{err.Error(), histname, []string{"os.Create", "FromDist"}, true}
	}
	if _, err = D.WriteTo(fout); err != nil {
		fout.Close()
		return nil, Error{err.Error(), histname, []string{"WriteTo", "FromDist"}, true}
	}
	if err = fout.Close(); err != nil {
		return nil, Error{err.Error(), histname, []string{"Close", "FromDist"}, true}
	}
	return D, nil
}

//Table is a histogram as read back from a file.
type Table struct {
	Centers []float64
	Counts  []float64
}

//Len returns the number of rows in the table.
func (T *Table) Len() int {
	return len(T.Centers)
}

//ReadTable reads a histogram file. Lines starting with '#' are skipped. If max
//is positive, at most max rows are read.
func ReadTable(r io.Reader, max int) (*Table, error) {
	T := new(Table)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		str := strings.TrimSpace(s.Text())
		if str == "" || strings.HasPrefix(str, "#") {
			continue
		}
		if max > 0 && T.Len() >= max {
			break
		}
		fields := strings.Fields(str)
		if len(fields) < 2 {
			return nil, Error{fmt.Sprintf("line %d: expected 2 fields, got %d", line, len(fields)), "", []string{"ReadTable"}, true}
		}
		c, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, Error{fmt.Sprintf("line %d: %s", line, err.Error()), "", []string{"ReadTable"}, true}
		}
		n, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, Error{fmt.Sprintf("line %d: %s", line, err.Error()), "", []string{"ReadTable"}, true}
		}
		T.Centers = append(T.Centers, c)
		T.Counts = append(T.Counts, n)
	}
	if err := s.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"ReadTable"}, true}
	}
	return T, nil
}

//ReadTableFile opens and reads the histogram file name. See ReadTable.
func ReadTableFile(name string, max int) (*Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "ReadTableFile"}, true}
	}
	defer f.Close()
	T, err := ReadTable(f, max)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			e.deco = e.Decorate("ReadTableFile")
			return nil, e
		}
		return nil, err
	}
	return T, nil
}

//Errors

//Error is the error type for the histo package.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return "histo: " + err.message
	}
	return fmt.Sprintf("histo: file %s: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the failing histogram was associated
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}
