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

import "fmt"

// Area is the bounding box of the source sprite. The origin is the placement
// offset of the sprite on the canvas and the size is the dimensions of the
// decoded source.
type Area struct {
	OriginX uint32
	OriginY uint32
	SizeX   uint32
	SizeY   uint32
}

func (a Area) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", a.SizeX, a.SizeY, a.OriginX, a.OriginY)
}
