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

package frames

import (
	"fmt"

	"github.com/vidflood/vidflood/decoder"
	"github.com/vidflood/vidflood/logger"
	"github.com/vidflood/vidflood/pixel"
)

// Sequence is the ordered list of frames played back in a loop.
type Sequence struct {
	Frames []Frame

	// dimensions of the decoded source
	Width  int
	Height int
}

// Area returns the bounding box of the sprite when placed at the offset.
func (seq *Sequence) Area(offsetX uint32, offsetY uint32) pixel.Area {
	return pixel.Area{
		OriginX: offsetX,
		OriginY: offsetY,
		SizeX:   uint32(seq.Width),
		SizeY:   uint32(seq.Height),
	}
}

// Len returns the number of frames in the sequence.
func (seq *Sequence) Len() int {
	return len(seq.Frames)
}

// LoadOptions control how a Sequence is built by Load().
type LoadOptions struct {
	// placement of the sprite on the canvas
	OffsetX uint32
	OffsetY uint32

	// compute restore buffers for each frame
	Restore bool

	// called with the number of frames decoded so far. can be nil
	Progress func(n int)
}

// Load decodes the source and preprocesses every frame.
func Load(dec decoder.Decoder, opts LoadOptions) (*Sequence, error) {
	raw, err := dec.Decode(opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}
	return FromRaw(raw, opts)
}

// FromRaw builds a Sequence from frames that have already been decoded. The
// Progress field of the options is not used.
func FromRaw(raw []decoder.RawFrame, opts LoadOptions) (*Sequence, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("frames: %w: no frames", ErrMalformedFrame)
	}

	seq := &Sequence{
		Frames: make([]Frame, 0, len(raw)),
	}
	lookups := make([]pixel.Lookup, 0, len(raw))

	for i, r := range raw {
		f, l, err := Preprocess(r, opts.OffsetX, opts.OffsetY)
		if err != nil {
			return nil, fmt.Errorf("frames: frame %d: %w", i, err)
		}
		seq.Frames = append(seq.Frames, f)
		lookups = append(lookups, l)

		seq.Width = max(seq.Width, r.Width)
		seq.Height = max(seq.Height, r.Height)
	}

	if opts.Restore {
		if err := ComputeRestore(seq.Frames, lookups); err != nil {
			return nil, err
		}
	}

	logger.Logf(logger.Allow, "frames", "preprocessed %d frames (%dx%d)", len(seq.Frames), seq.Width, seq.Height)

	return seq, nil
}
