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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package cgrange finds, from a molecular dynamics trajectory, the range sampled by
every reaction coordinate of a coarse-grained interaction model, and prepares the
distributions used to obtain initial potentials by Boltzmann inversion
(see the boltzmann package).

Each InteractionClass groups the defined interactions of one kind (nonbonded pairs,
bonded pairs, angles, dihedrals, 1-3, 1-4 and 1-5 distances, local densities, radii of
gyration, helical fractions...). The class type and subtype select, once, the function
that evaluates the coordinate of every interaction in each frame. The running lower and
upper bounds start at a sentinel pair that can't come from any real sample, so
interactions that were never sampled can be told apart at the end.

A typical use:

	R, err := cgrange.New(model, opts)
	if err != nil {
		log.Fatal(err) //nothing has been written yet.
	}
	if err = R.Run(traj); err != nil {
		R.Close()
		log.Fatal(err)
	}
	err = R.Finish() //writes the rmin*.in files and the histograms.

The ranges are written to the files rmin.in (nonbonded pairs), rmin_b.in (bonded pairs, angles
and dihedrals), rmin_1.in, rmin_r.in, rmin_den.in, rmin_hel.in and rmin_rg.in, one row per
interaction:

	name lower upper fm|none [extra parameters]

Interactions never sampled (or, for nonbonded pairs, only sampled beyond the cutoff)
get the range -1 -1 and the "none" label.

*/
package cgrange
