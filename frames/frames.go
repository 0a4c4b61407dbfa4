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

// Package frames converts decoded raw frames into the precomputed frames that
// are played back onto the canvas.
//
// Preprocessing drops transparent source pixels, places the remaining pixels
// on the canvas at the sprite's offset and flags the edges of every pixel
// that lie on the sprite's silhouette. If restore mode is enabled,
// ComputeRestore() then works out which canvas positions each frame vacates
// when the next frame is drawn. The sequence wraps, so the last frame is
// compared with the first.
package frames

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/vidflood/vidflood/decoder"
	"github.com/vidflood/vidflood/pixel"
)

// ErrMalformedFrame is returned when raw frame data does not match the frame
// dimensions.
var ErrMalformedFrame = errors.New("malformed frame")

// Frame is a single precomputed frame. Frames are never modified once the
// Sequence has been built.
type Frame struct {
	Timestamp time.Duration

	// the opaque pixels of the frame
	Pixels pixel.Buffer

	// erase markers for positions occupied by this frame but not by the next.
	// empty if restore mode is off
	Restore pixel.Buffer
}

func (f Frame) String() string {
	return fmt.Sprintf("%v: %d pixels, %d restore", f.Timestamp, len(f.Pixels), len(f.Restore))
}

// Preprocess a single raw frame. The returned lookup is required by
// ComputeRestore().
func Preprocess(raw decoder.RawFrame, offsetX uint32, offsetY uint32) (Frame, pixel.Lookup, error) {
	if raw.Width < 0 || raw.Height < 0 || len(raw.Data) != raw.Width*raw.Height*4 {
		return Frame{}, nil, fmt.Errorf("frames: %w: %d bytes for %dx%d frame",
			ErrMalformedFrame, len(raw.Data), raw.Width, raw.Height)
	}

	buf := make(pixel.Buffer, 0, raw.Width*raw.Height)

	for i := 0; i < len(raw.Data); i += 4 {
		// fully transparent pixels are never drawn
		if raw.Data[i+3] == 0 {
			continue
		}

		n := i / 4
		buf = append(buf, pixel.Pixel{
			X: offsetX + uint32(n%raw.Width),
			Y: offsetY + uint32(n/raw.Width),
			Color: color.RGBA{
				R: raw.Data[i],
				G: raw.Data[i+1],
				B: raw.Data[i+2],
				A: raw.Data[i+3],
			},
		})
	}

	lookup := pixel.NewLookup(buf)
	CalcEdges(buf, lookup)

	return Frame{
		Timestamp: raw.Timestamp,
		Pixels:    buf,
	}, lookup, nil
}

// CalcEdges sets the edge flags of every pixel in the buffer. A side is
// flagged if there is no pixel next to it in the lookup.
//
// If more than one pixel shares the same coordinates, only the pixel the
// lookup refers to is given edge flags.
func CalcEdges(buf pixel.Buffer, lookup pixel.Lookup) {
	for i := range buf {
		px := &buf[i]
		if idx, ok := lookup[px.Coords()]; !ok || idx != i {
			continue
		}

		var e pixel.Edges
		if px.Y == 0 || !lookup.Has(px.X, px.Y-1) {
			e = e.With(pixel.Top)
		}
		if px.X == math.MaxUint32 || !lookup.Has(px.X+1, px.Y) {
			e = e.With(pixel.Right)
		}
		if px.Y == math.MaxUint32 || !lookup.Has(px.X, px.Y+1) {
			e = e.With(pixel.Bottom)
		}
		if px.X == 0 || !lookup.Has(px.X-1, px.Y) {
			e = e.With(pixel.Left)
		}
		px.Edges = e
	}
}

// ComputeRestore fills in the restore buffer of every frame. The lookups must
// be those returned by Preprocess() for the corresponding frames.
//
// Restore buffers already present are replaced.
func ComputeRestore(frames []Frame, lookups []pixel.Lookup) error {
	if len(frames) != len(lookups) {
		return fmt.Errorf("frames: %d frames but %d lookups", len(frames), len(lookups))
	}

	for i := range frames {
		next := lookups[(i+1)%len(frames)]

		var restore pixel.Buffer
		for _, px := range frames[i].Pixels {
			if px.Color.A == 0 || next.Has(px.X, px.Y) {
				continue
			}
			restore = append(restore, pixel.Erase(px.X, px.Y))
		}
		frames[i].Restore = restore
	}

	return nil
}
