/*
 * interfaces.go, part of cgrange.
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

import v3 "github.com/rmera/cgrange/v3"

// Traj is an interface for any trajectory object.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//reads the next frame into output. It can also fill the (optional) box with
	//the 9 box-vector components, if present in the frame.
	Next(output *v3.Matrix, box ...[]float64) error

	//Returns the number of sites per frame
	Len() int
}

// Topology is what the range finding needs to know about the coarse-grained
// system beyond the interaction classes themselves. Types are 0-based.
type Topology interface {
	NSites() int
	NTypes() int
	TypeName(t int) string
	SiteType(site int) int
	NMolecules() int
	//Molecule returns the indexes of the sites of molecule mol, in order.
	Molecule(mol int) []int
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
// filtered in a typeswith that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
