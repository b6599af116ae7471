/*
 * doc.go, part of cgrange.
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

/*Package boltzmann obtains initial potentials for the interactions of a coarse-grained
model by Boltzmann inversion of the histograms written by the range finding:

	U(r) = -kT ln(P(r))

where P(r) is the histogram count at r, normalized according to the geometry
of the interaction. The (r, U) points of all the interactions of a class are then
fitted to a set of basis functions, which is done by types fulfilling the
Basis and System interfaces (see the spline package for one).
*/
package boltzmann
