/*
 * rangefinder.go, part of cgrange.
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
	"log"
	"path/filepath"
	"sync"

	"github.com/rmera/cgrange/density"
	v3 "github.com/rmera/cgrange/v3"
)

//RangeFinder samples the reaction coordinates of all the interactions of a model
//along a trajectory, keeping track of the range covered by each.
type RangeFinder struct {
	model     *Model
	opts      *Options
	computers []*computer
	types     []int
	frames    int
	volume    float64
	closed    bool
}

//New prepares the range finding for the model m. All the configuration is
//checked, and the parameter files read, before any output file is created, so
//a returned error means nothing was written.
func New(m *Model, opts ...*Options) (*RangeFinder, error) {
	o := DefaultOptions()
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}
	R := &RangeFinder{model: m, opts: o, types: m.siteTypes()}
	for _, C := range m.Classes {
		eval, err := evaluatorFor(C.Kind, m.dimension())
		if err != nil {
			return nil, errDecorate(err, "New")
		}
		if C.Kind.dummy() {
			C.dummySetup()
		}
		if err := R.setupPayload(C); err != nil {
			return nil, errDecorate(err, "New")
		}
		C.InitRanges()
		R.computers = append(R.computers, &computer{class: C, eval: eval})
	}
	if err := R.checkFileStems(); err != nil {
		return nil, errDecorate(err, "New")
	}
	for _, c := range R.computers {
		C := c.class
		if !C.Distribution.On() || !C.Kind.HasDistribution() {
			continue
		}
		d, err := openDistFiles(C, o.Dir())
		if err != nil {
			R.Close()
			return nil, errDecorate(err, "New")
		}
		c.dist = d
	}
	return R, nil
}

//checkFileStems returns an error if two interactions with distribution output
//would write to the same files.
func (R *RangeFinder) checkFileStems() error {
	seen := make(map[string]*InteractionClass)
	for _, c := range R.computers {
		C := c.class
		if !C.Distribution.On() || !C.Kind.HasDistribution() {
			continue
		}
		for i := 0; i < C.NDefined(); i++ {
			stem := C.FileStem(i)
			if prev, ok := seen[stem]; ok {
				return configError("checkFileStems", "The %s and %s classes both write the %s files", prev.FullName(), C.FullName(), stem)
			}
			seen[stem] = C
		}
	}
	return nil
}

//setupPayload reads the parameter files of helical and density classes,
//and builds the density engine.
func (R *RangeFinder) setupPayload(C *InteractionClass) error {
	switch {
	case C.Kind.Type == Helical && C.Kind.Subtype == 1:
		h := C.Helical()
		if h == nil {
			return configError("setupPayload", "No helical contacts given for the %s class", C.FullName())
		}
		name := filepath.Join(R.opts.Dir(), HelicalParamFile)
		f, err := openParamFile(name)
		if err != nil {
			return errDecorate(err, "setupPayload")
		}
		defer f.Close()
		p, err := ReadHelicalParams(f, C.NDefined())
		if err != nil {
			return errDecorate(err, "setupPayload")
		}
		h.R0, h.Sigma2 = p.R0, p.Sigma2
	case C.Kind.Type == Density && C.Kind.Subtype > 0:
		d := C.Density()
		if d == nil {
			return configError("setupPayload", "No density groups given for the %s class", C.FullName())
		}
		name := filepath.Join(R.opts.Dir(), DensityParamFile)
		f, err := openParamFile(name)
		if err != nil {
			return errDecorate(err, "setupPayload")
		}
		defer f.Close()
		d.Sigma, d.Switching, err = ReadDensityParams(f, C.NDefined())
		if err != nil {
			return errDecorate(err, "setupPayload")
		}
		top := R.model.Topology
		d.Engine, err = density.New(density.Kernel(C.Kind.Subtype), C.Cutoff, d.Groups, top.NTypes(), top.NSites(), d.Sigma, d.Switching)
		if err != nil {
			return errDecorate(err, "setupPayload")
		}
	}
	return nil
}

//Model returns the model whose ranges are being found.
func (R *RangeFinder) Model() *Model {
	return R.model
}

//Frames returns the number of frames processed so far.
func (R *RangeFinder) Frames() int {
	return R.frames
}

//Volume returns the average box volume of the processed frames,
//or 0 if no frame had a box.
func (R *RangeFinder) Volume() float64 {
	if R.frames == 0 {
		return 0
	}
	return R.volume / float64(R.frames)
}

//boxInfo returns the half lengths and the volume of the box. box can have 3 elements
//(the lengths) or 9 (the box vectors, of which only the diagonal is used).
//Any other size means no periodic boundaries.
func boxInfo(box []float64) ([3]float64, float64) {
	var half [3]float64
	var l [3]float64
	switch len(box) {
	case 3:
		copy(l[:], box)
	case 9:
		l = [3]float64{box[0], box[4], box[8]}
	default:
		return half, 0
	}
	for i, v := range l {
		half[i] = v / 2
	}
	return half, l[0] * l[1] * l[2]
}

//ProcessFrame samples every defined interaction of every class in the frame x,
//with the given box. Classes are processed concurrently if more than one CPU
//was requested.
func (R *RangeFinder) ProcessFrame(x *v3.Matrix, box []float64) error {
	if R.closed {
		return configError("ProcessFrame", "Range finding already finished")
	}
	if x.NVecs() != len(R.types) {
		return configError("ProcessFrame", "Frame has %d sites, topology has %d", x.NVecs(), len(R.types))
	}
	half, vol := boxInfo(box)
	f := &frame{x: x, half: half, types: R.types, top: R.model.Topology}
	R.frames++
	R.volume += vol
	cpus := R.opts.Cpus()
	if cpus <= 1 {
		for _, c := range R.computers {
			if err := c.eval(c, f); err != nil {
				return errDecorate(err, "ProcessFrame")
			}
		}
		return nil
	}
	errs := make([]error, len(R.computers))
	sem := make(chan struct{}, cpus)
	var wg sync.WaitGroup
	for k, c := range R.computers {
		wg.Add(1)
		sem <- struct{}{}
		go func(k int, c *computer) {
			defer func() { <-sem; wg.Done() }()
			errs[k] = c.eval(c, f)
		}(k, c)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return errDecorate(err, "ProcessFrame")
		}
	}
	return nil
}

//Run processes the frames of traj until it ends. After each processed frame,
//Options.Skip frames are discarded.
func (R *RangeFinder) Run(traj Traj) error {
	if !traj.Readable() {
		return configError("Run", "Trajectory not readable")
	}
	x := v3.Zeros(traj.Len())
	box := make([]float64, 9)
	skip := R.opts.Skip()
	read := 0
	for {
		var err error
		if read%(skip+1) == 0 {
			err = traj.Next(x, box)
		} else {
			err = traj.Next(nil)
		}
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return errDecorate(err, "Run")
		}
		if read%(skip+1) == 0 {
			if err := R.ProcessFrame(x, box); err != nil {
				return errDecorate(err, "Run")
			}
		}
		read++
	}
	log.Printf("Range finding: %d frames read, %d processed", read, R.frames)
	return nil
}

//Close flushes and closes all the distribution files. It is safe to call it more than once.
func (R *RangeFinder) Close() error {
	var first error
	for _, c := range R.computers {
		if err := c.dist.close(); err != nil && first == nil {
			first = err
		}
	}
	R.closed = true
	return first
}
