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

package dispatch

// ShardLen returns the number of pixels in a buffer of the specified length
// that are owned by shard index of count shards.
//
// Shards are striped, not contiguous. Shard i owns the indices i, i+count,
// i+2*count and so on. The size of any two shards differs by no more than one
// pixel, however the pixels of the sprite are clustered.
func ShardLen(length int, index int, count int) int {
	if count < 1 || index < 0 || index >= count {
		return 0
	}
	n := length / count
	if length%count > index {
		n++
	}
	return n
}

// ShardIndices returns the buffer indices owned by shard index of count
// shards.
func ShardIndices(length int, index int, count int) []int {
	idx := make([]int, 0, ShardLen(length, index, count))
	for i := index; i < length && count > 0; i += count {
		idx = append(idx, i)
	}
	return idx
}
