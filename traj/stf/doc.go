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
Package stf reads and writes trajectories in the simple trajectory format (stf),
a compressed plain-text format that is very easy to read and write from any language.

A stf file starts with a header of key=value lines, ending with a line with
the characters "**" followed by the number of sites per frame. The "prec" key gives
the precision: every coordinate is stored as an integer, the coordinate times
10^prec, rounded. The default precision is 2.

After the header, each frame has one line per site, with its 3 coordinates,
and a line starting with "*", optionally followed by the 9 components of the
box vectors.

The compression is chosen from the last letter of the file name: zstd
(.stf, or any unknown extension), gzip (.stz), flate (.str) or lzw (.stl).
*/
package stf
