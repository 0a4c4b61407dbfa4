// This file is part of Vidflood.
//
// Vidflood is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vidflood is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vidflood.  If not, see <https://www.gnu.org/licenses/>.

package pixel

import "strings"

// Edge is one side of a pixel.
type Edge uint8

// List of valid Edge values.
const (
	Top Edge = 1 << iota
	Right
	Bottom
	Left
)

// Edges is the set of sides of a pixel that are not adjacent to another
// opaque pixel of the same frame.
type Edges uint8

// NewEdges returns an Edges set containing the listed edges.
func NewEdges(edges ...Edge) Edges {
	var e Edges
	for _, edge := range edges {
		e |= Edges(edge)
	}
	return e
}

// Has returns true if edge is in the set.
func (e Edges) Has(edge Edge) bool {
	return e&Edges(edge) != 0
}

// With returns a copy of the set with the edge added.
func (e Edges) With(edge Edge) Edges {
	return e | Edges(edge)
}

func (e Edges) String() string {
	if e == 0 {
		return "-"
	}
	s := strings.Builder{}
	if e.Has(Top) {
		s.WriteByte('T')
	}
	if e.Has(Right) {
		s.WriteByte('R')
	}
	if e.Has(Bottom) {
		s.WriteByte('B')
	}
	if e.Has(Left) {
		s.WriteByte('L')
	}
	return s.String()
}
