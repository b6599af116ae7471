/*
 * model.go, part of cgrange.
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

//Model is a coarse-grained model whose interaction ranges are to be found.
type Model struct {
	Topology Topology
	Classes  []*InteractionClass
	//Dimension is the number of spatial dimensions of the system. 0 means 3.
	Dimension int
}

//Class returns the first class of the given type in the model, or nil.
func (M *Model) Class(t ClassType) *InteractionClass {
	for _, C := range M.Classes {
		if C.Kind.Type == t {
			return C
		}
	}
	return nil
}

func (M *Model) dimension() int {
	if M.Dimension <= 0 {
		return 3
	}
	return M.Dimension
}

//siteTypes returns the type of every site in the topology.
func (M *Model) siteTypes() []int {
	n := M.Topology.NSites()
	types := make([]int, n)
	for i := range types {
		types[i] = M.Topology.SiteType(i)
	}
	return types
}

//TypeCount returns how many sites of each type the topology has.
func TypeCount(top Topology) []int {
	count := make([]int, top.NTypes())
	for i := 0; i < top.NSites(); i++ {
		count[top.SiteType(i)]++
	}
	return count
}
