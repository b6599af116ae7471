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

//Package dcd reads and writes CHARMM/NAMD binary (DCD) trajectories, with
//their optional unit cell, as cgrange.Traj sources.
//
//Only CHARMM-flavored files without fixed sites are supported. Files ending
//in .gz, .zst or .lzw are decompressed (gzip, zstd and lzw, respectively)
//while reading. Writing is always uncompressed, since the number of frames
//in the header is updated after each frame.
package dcd
