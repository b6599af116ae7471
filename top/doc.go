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

/*
Package top reads coarse-grained models from TOML files: the site types, the
sites and molecules, the bonded topology, the density groups and the settings
of each interaction class. From them it builds the Topology and the
interaction classes used by cgrange, and the settings for the Boltzmann inversion.

A minimal model:

	dimension = 3
	types = ["A", "B"]
	sites = ["A", "B", "B", "A"]
	bonds = [[0, 1], [1, 2], [2, 3]]
	angles = [[0, 1, 2], [1, 2, 3]]

	[[molecules]]
	name = "dimer"
	sites = [0, 1, 2, 3]

	[classes.pair_nonbonded]
	cutoff = 1.5
	binwidth = 0.01
	output_distribution = 1

	[classes.angular]
	binwidth = 0.5
	output_distribution = 2

1-3, 1-4 and 1-5 pairs are found from the bonds, as sites separated by 2, 3 or 4
bonds along the shortest path between them.
*/
package top
