/*
 * options.go, part of cgrange.
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

import "runtime"

//Options contains the runtime options of the range finding.
type Options struct {
	cpus int
	dir  string
	skip int
}

//DefaultOptions returns the default options: one goroutine, files read and
//written in the current directory, and every frame used.
func DefaultOptions() *Options {
	r := new(Options)
	r.cpus = 1
	r.dir = "."
	r.skip = 0
	return r
}

//Cpus returns the current number of goroutines used to process the classes of
//a frame, and sets it, if a valid value is given. Values larger than the
//number of logical CPUs are lowered to it.
func (O *Options) Cpus(cpus ...int) int {
	ret := O.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		O.cpus = cpus[0]
		if n := runtime.NumCPU(); O.cpus > n {
			O.cpus = n
		}
	}
	return ret
}

//Dir returns the directory where parameter files are read and all the output is
//written, and sets it, if a non-empty value is given.
func (O *Options) Dir(dir ...string) string {
	ret := O.dir
	if len(dir) > 0 && dir[0] != "" {
		O.dir = dir[0]
	}
	return ret
}

//Skip returns the number of frames skipped after each processed frame,
//and sets it, if a valid value is given.
func (O *Options) Skip(skip ...int) int {
	ret := O.skip
	if len(skip) > 0 && skip[0] >= 0 {
		O.skip = skip[0]
	}
	return ret
}
