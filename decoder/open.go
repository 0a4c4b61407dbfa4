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

package decoder

import (
	"path/filepath"
	"strings"
)

// file extensions that are decoded with the Image decoder. everything else is
// given to ffmpeg
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Open returns the Decoder most suitable for the file. The file is not read
// until Decode() is called.
func Open(path string, size Size) Decoder {
	if imageExtensions[strings.ToLower(filepath.Ext(path))] {
		return NewImage(path, size)
	}
	return NewFFMPEG(path, size)
}
