/*
 * output.go, part of cgrange.
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
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rmera/cgrange/histo"
)

//Names of the range files.
const (
	OneBodyRangeFile   = "rmin_1.in"
	NonbondedRangeFile = "rmin.in"
	BondedRangeFile    = "rmin_b.in"
	DistanceRangeFile  = "rmin_r.in"
	HelicalRangeFile   = "rmin_hel.in"
	DensityRangeFile   = "rmin_den.in"
	RgRangeFile        = "rmin_rg.in"
)

//rangeFileFor returns the range file where the rows of class C go, or
//"" if the class is not written at all.
func rangeFileFor(C *InteractionClass) string {
	switch C.Kind.Type {
	case OneBody:
		if C.Kind.Subtype != 0 {
			return OneBodyRangeFile
		}
		return ""
	case PairNonbonded:
		return NonbondedRangeFile
	case R13Bonded, R14Bonded, R15Bonded:
		if C.Kind.Subtype != 0 {
			return DistanceRangeFile
		}
		return ""
	case Helical:
		if C.Kind.Subtype > 0 {
			return HelicalRangeFile
		}
		return ""
	case RadiusOfGyration:
		if C.Kind.Subtype > 0 {
			return RgRangeFile
		}
		return ""
	case Density:
		if C.Kind.Subtype > 0 {
			return DensityRangeFile
		}
		return ""
	case ThreeBodyNonbonded:
		return ""
	}
	return BondedRangeFile
}

//RangeRow returns the line of a range file for the i-th defined interaction of C,
//without the newline. The range is finalized in the process.
func (C *InteractionClass) RangeRow(i int) string {
	if C.Kind.Type == OneBody {
		return fmt.Sprintf("%s fm", C.InteractionName(i))
	}
	status := "none"
	if C.Finalize(i) {
		status = "fm"
	}
	row := fmt.Sprintf("%s %f %f %s", C.InteractionName(i), C.Lower[i], C.Upper[i], status)
	switch p := C.Payload.(type) {
	case *DensityParams:
		switch C.Kind.Subtype {
		case 1, 4:
			row += fmt.Sprintf(" %f", p.Sigma[i])
		case 2:
			row += fmt.Sprintf(" %f %f", p.Sigma[i], p.Switching[i])
		}
	case *HelicalParams:
		if C.Kind.Subtype > 0 {
			row += fmt.Sprintf(" %f %f", p.R0[i], p.Sigma2[i])
		}
	}
	return row
}

//Finish closes the distribution files and writes the range files, then builds
//the histogram of every distribution. Distribution files are removed
//afterwards unless they were requested to be kept.
func (R *RangeFinder) Finish() error {
	if err := R.Close(); err != nil {
		return errDecorate(err, "Finish")
	}
	if err := R.WriteRangeFiles(); err != nil {
		return errDecorate(err, "Finish")
	}
	for _, c := range R.computers {
		if c.dist == nil {
			continue
		}
		if err := R.histograms(c); err != nil {
			return errDecorate(err, "Finish")
		}
	}
	return nil
}

//WriteRangeFiles writes one row per matched interaction to the range file
//corresponding to its class. rmin.in and rmin_b.in are always written,
//the rest only if some class needs them.
func (R *RangeFinder) WriteRangeFiles() error {
	names := []string{NonbondedRangeFile, BondedRangeFile}
	for _, C := range R.model.Classes {
		name := rangeFileFor(C)
		if name != "" && !contains(names, name) {
			names = append(names, name)
		}
	}
	files := make(map[string]*os.File, len(names))
	writers := make(map[string]*bufio.Writer, len(names))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, name := range names {
		path := filepath.Join(R.opts.Dir(), name)
		f, err := os.Create(path)
		if err != nil {
			return fileError("WriteRangeFiles", path, err)
		}
		files[name] = f
		writers[name] = bufio.NewWriter(f)
	}
	for _, C := range R.model.Classes {
		name := rangeFileFor(C)
		if name == "" {
			continue
		}
		w := writers[name]
		for i := 0; i < C.NDefined(); i++ {
			if !C.Matched(i) {
				continue
			}
			if _, err := fmt.Fprintln(w, C.RangeRow(i)); err != nil {
				return fileError("WriteRangeFiles", name, err)
			}
		}
	}
	for _, name := range names {
		if err := writers[name].Flush(); err != nil {
			return fileError("WriteRangeFiles", name, err)
		}
		if err := files[name].Close(); err != nil {
			return fileError("WriteRangeFiles", name, err)
		}
		delete(files, name)
	}
	return nil
}

func contains(s []string, e string) bool {
	for _, v := range s {
		if v == e {
			return true
		}
	}
	return false
}

//histograms builds the histograms of the class handled by c from its
//distribution files, over the finalized ranges.
func (R *RangeFinder) histograms(c *computer) error {
	C := c.class
	log.Printf("Generating parameter distribution histogram for %s interactions.", C.FullName())
	c.hists = make([]*histo.Data, C.NDefined())
	for i := 0; i < C.NDefined(); i++ {
		C.Finalize(i)
		hname := filepath.Join(R.opts.Dir(), C.FileStem(i)+HistExt)
		h, err := histo.FromDist(c.dist.names[i], hname, C.Lower[i], C.Upper[i], C.Binwidth)
		if err != nil {
			return errDecorate(err, "histograms")
		}
		if h.Dropped() > 0 {
			log.Printf("%s: %d of %d samples fell outside [%f, %f]", C.InteractionName(i), h.Dropped(), h.Total(), C.Lower[i], C.Upper[i])
		}
		c.hists[i] = h
	}
	if C.Distribution == DistTemporary {
		return c.dist.remove()
	}
	return nil
}

//Histograms returns the histograms built by Finish for class C, or nil if
//it had no distribution output.
func (R *RangeFinder) Histograms(C *InteractionClass) []*histo.Data {
	for _, c := range R.computers {
		if c.class == C {
			return c.hists
		}
	}
	return nil
}
