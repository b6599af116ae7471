/*
 * main.go, part of cgrange.
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

//cgrange reads a coarse-grained trajectory (stf or DCD) and a TOML model
//description, and writes the sampled range of every interaction, the
//distributions and histograms of each sampled coordinate and, optionally,
//Boltzmann-inverted tabulated potentials and their plots.
//
//	cgrange -config model.toml -traj traj.stz -dir out -bi -plot
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/rmera/cgrange"
	"github.com/rmera/cgrange/boltzmann"
	"github.com/rmera/cgrange/cgplot"
	"github.com/rmera/cgrange/spline"
	"github.com/rmera/cgrange/top"
	"github.com/rmera/cgrange/traj/dcd"
	"github.com/rmera/cgrange/traj/stf"
)

func main() {
	config := flag.String("config", "cgrange.toml", "TOML file with the model description")
	trajname := flag.String("traj", "", "stf or dcd trajectory to read")
	dir := flag.String("dir", ".", "Directory for parameter files and all output")
	cpus := flag.Int("cpus", 1, "Goroutines used to process each frame")
	skip := flag.Int("skip", 0, "Frames to skip after each processed frame")
	bi := flag.Bool("bi", false, "Perform Boltzmann inversion and write tabulated potentials")
	plots := flag.Bool("plot", false, "Plot histograms and, with -bi, the potentials")
	flag.Parse()
	if *trajname == "" {
		log.Fatal("A trajectory must be given with -traj")
	}
	model, T, cfg, err := top.Load(*config)
	if err != nil {
		log.Fatal(err)
	}
	opts := cgrange.DefaultOptions()
	opts.Cpus(*cpus)
	opts.Dir(*dir)
	opts.Skip(*skip)
	R, err := cgrange.New(model, opts)
	if err != nil {
		log.Fatal(err)
	}
	traj, err := openTraj(*trajname)
	if err != nil {
		R.Close()
		log.Fatal(err)
	}
	err = R.Run(traj)
	traj.Close()
	if err != nil {
		R.Close()
		log.Fatal(err)
	}
	if err = R.Finish(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Processed %d frames, average volume %.3f", R.Frames(), R.Volume())
	if *plots {
		plotHistograms(R, *dir)
	}
	if !*bi {
		return
	}
	inv := boltzmann.New(cfg.BI.Settings(R.Frames()), T, R.Volume(), *dir)
	back := &spline.Backend{Spacing: cfg.BI.SplineSpacing, Lambda: cfg.BI.Lambda}
	if err = inv.Run(model, back); err != nil {
		log.Fatal(err)
	}
	for _, S := range back.Solutions {
		if err = S.WriteTables(*dir, cfg.BI.TableStep); err != nil {
			log.Fatal(err)
		}
		if *plots {
			plotPotentials(inv, S, *dir)
		}
	}
}

type closingTraj interface {
	cgrange.Traj
	Close()
}

//openTraj opens a DCD trajectory if ".dcd" is part of the name
//(so traj.dcd.gz is also read as DCD), and an stf one otherwise.
func openTraj(name string) (closingTraj, error) {
	if strings.Contains(strings.ToLower(filepath.Base(name)), ".dcd") {
		return dcd.New(name)
	}
	t, _, err := stf.New(name)
	return t, err
}

//plot errors are never fatal.
func plotHistograms(R *cgrange.RangeFinder, dir string) {
	for _, C := range R.Model().Classes {
		for i, h := range R.Histograms(C) {
			if h == nil {
				continue
			}
			name := filepath.Join(dir, C.FileStem(i)+"_hist.png")
			if err := cgplot.Histogram(h, fmt.Sprintf("%s %s", C.FullName(), C.InteractionName(i)), name); err != nil {
				log.Println(err)
			}
		}
	}
}

func plotPotentials(inv *boltzmann.Inverter, S *spline.Solution, dir string) {
	C := S.Class
	for i := 0; i < C.NDefined(); i++ {
		if C.Excluded(i) || !C.Sampled(i) {
			continue
		}
		pts, err := inv.Potentials(C, i)
		if err != nil {
			log.Println(err)
			continue
		}
		fit := func(r float64) float64 { return S.Potential(i, r) }
		name := filepath.Join(dir, C.FileStem(i)+"_pot.png")
		if err := cgplot.Potential(pts, fit, fmt.Sprintf("%s %s", C.FullName(), C.InteractionName(i)), name); err != nil {
			log.Println(err)
		}
	}
}
