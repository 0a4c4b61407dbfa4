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

//go:build !linux && !darwin

package status

// IsTerminal always returns false on this platform.
func IsTerminal(_ fileDescriptor) bool {
	return false
}

// TerminalWidth always returns zero on this platform.
func TerminalWidth(_ fileDescriptor) int {
	return 0
}
