/*
 * limits.go, part of cgrange.
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

//Package limits holds the thresholds shared by all the cgrange packages.
package limits

const (
	//VeryLarge marks unset range bounds (lower starts at VeryLarge, upper
	//at -VeryLarge) and bounds Boltzmann-inverted potentials.
	VeryLarge = 1.0e6
	//VerySmall is the smallest kernel width accepted for density weights.
	VerySmall = 1.0e-14
	//VerySmallF is the tolerance used to recognize a sentinel bound.
	VerySmallF = 1.0e-6
)

//Unset reports whether the upper bound still holds the "never sampled" sentinel.
func Unset(upper float64) bool {
	d := upper + VeryLarge
	if d < 0 {
		d = -d
	}
	return d < VerySmallF
}
