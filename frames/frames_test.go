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

package frames_test

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/vidflood/vidflood/decoder"
	"github.com/vidflood/vidflood/frames"
	"github.com/vidflood/vidflood/pixel"
	"github.com/vidflood/vidflood/test"
)

// raw builds a raw frame from a picture where '#' is an opaque pixel and
// anything else is transparent
func raw(ts time.Duration, rows ...string) decoder.RawFrame {
	r := decoder.RawFrame{
		Width:     len(rows[0]),
		Height:    len(rows),
		Timestamp: ts,
	}
	for y, row := range rows {
		for x := range row {
			if row[x] == '#' {
				r.Data = append(r.Data, uint8(x), uint8(y), 0x80, 0xff)
			} else {
				r.Data = append(r.Data, 0, 0, 0, 0)
			}
		}
	}
	return r
}

func TestSquare(t *testing.T) {
	f, lookup, err := frames.Preprocess(raw(0, "##", "##"), 0, 0)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(f.Pixels), 4)
	test.ExpectEquality(t, len(lookup), 4)

	expected := map[pixel.Coords]pixel.Edges{
		{X: 0, Y: 0}: pixel.NewEdges(pixel.Top, pixel.Left),
		{X: 1, Y: 0}: pixel.NewEdges(pixel.Top, pixel.Right),
		{X: 0, Y: 1}: pixel.NewEdges(pixel.Bottom, pixel.Left),
		{X: 1, Y: 1}: pixel.NewEdges(pixel.Bottom, pixel.Right),
	}

	for _, px := range f.Pixels {
		test.ExpectEquality(t, px.Edges, expected[px.Coords()], px)
		test.ExpectEquality(t, px.Color, color.RGBA{R: uint8(px.X), G: uint8(px.Y), B: 0x80, A: 0xff})
	}

	// restore is not computed by Preprocess()
	test.ExpectEquality(t, len(f.Restore), 0)
}

func TestOffsetAndTransparency(t *testing.T) {
	f, _, err := frames.Preprocess(raw(5*time.Millisecond, "#.", ".#"), 10, 20)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(f.Pixels), 2)
	test.ExpectEquality(t, f.Timestamp, 5*time.Millisecond)

	test.ExpectEquality(t, f.Pixels[0].Coords(), pixel.Coords{X: 10, Y: 20})
	test.ExpectEquality(t, f.Pixels[1].Coords(), pixel.Coords{X: 11, Y: 21})

	// diagonal neighbours do not count so both pixels are isolated
	all := pixel.NewEdges(pixel.Top, pixel.Right, pixel.Bottom, pixel.Left)
	test.ExpectEquality(t, f.Pixels[0].Edges, all)
	test.ExpectEquality(t, f.Pixels[1].Edges, all)
}

func TestMalformed(t *testing.T) {
	r := raw(0, "##", "##")
	r.Data = r.Data[:len(r.Data)-1]
	_, _, err := frames.Preprocess(r, 0, 0)
	test.ExpectSuccess(t, errors.Is(err, frames.ErrMalformedFrame))

	_, err = frames.FromRaw(nil, frames.LoadOptions{})
	test.ExpectSuccess(t, errors.Is(err, frames.ErrMalformedFrame))
}

func TestEdgesInsertionOrder(t *testing.T) {
	f, _, err := frames.Preprocess(raw(0,
		".###.",
		"##.##",
		"#####",
		"..#..",
	), 3, 7)
	test.DemandSuccess(t, err)

	expected := make(map[pixel.Coords]pixel.Edges)
	for _, px := range f.Pixels {
		expected[px.Coords()] = px.Edges
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for range 10 {
		buf := f.Pixels.Clone()
		rng.Shuffle(len(buf), func(i, j int) {
			buf[i], buf[j] = buf[j], buf[i]
		})
		for i := range buf {
			buf[i].Edges = 0
		}

		frames.CalcEdges(buf, pixel.NewLookup(buf))
		for _, px := range buf {
			test.ExpectEquality(t, px.Edges, expected[px.Coords()], px)
		}
	}
}

func TestDuplicates(t *testing.T) {
	buf := pixel.Buffer{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 0},
	}
	lookup := pixel.NewLookup(buf)
	test.ExpectEquality(t, lookup[pixel.Coords{X: 0, Y: 0}], 2)

	frames.CalcEdges(buf, lookup)
	test.ExpectEquality(t, len(buf), 3)
	test.ExpectEquality(t, buf[0].Edges, pixel.Edges(0))
	test.ExpectEquality(t, buf[2].Edges, pixel.NewEdges(pixel.Top, pixel.Bottom, pixel.Left))
}

func TestRestore(t *testing.T) {
	seq, err := frames.FromRaw([]decoder.RawFrame{
		raw(0, "##.", "...", "..."),
		raw(0, ".##", "...", "..."),
		raw(0, "...", "...", "#.#"),
	}, frames.LoadOptions{Restore: true})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, seq.Len(), 3)
	test.ExpectEquality(t, seq.Width, 3)
	test.ExpectEquality(t, seq.Height, 3)

	coords := func(b pixel.Buffer) map[pixel.Coords]int {
		m := make(map[pixel.Coords]int)
		for _, px := range b {
			test.ExpectEquality(t, px.Color, pixel.EraseColor)
			test.ExpectEquality(t, px.Edges, pixel.Edges(0))
			m[px.Coords()]++
		}
		return m
	}

	// (0,0) is vacated. (1,0) is in both frames
	r := coords(seq.Frames[0].Restore)
	test.ExpectEquality(t, len(r), 1)
	test.ExpectEquality(t, r[pixel.Coords{X: 0, Y: 0}], 1)

	// every pixel of the second frame is vacated
	r = coords(seq.Frames[1].Restore)
	test.ExpectEquality(t, len(r), 2)
	test.ExpectEquality(t, r[pixel.Coords{X: 1, Y: 0}], 1)
	test.ExpectEquality(t, r[pixel.Coords{X: 2, Y: 0}], 1)

	// the last frame is compared with the first
	r = coords(seq.Frames[2].Restore)
	test.ExpectEquality(t, len(r), 2)
	test.ExpectEquality(t, r[pixel.Coords{X: 0, Y: 2}], 1)
	test.ExpectEquality(t, r[pixel.Coords{X: 2, Y: 2}], 1)
}

func TestRestoreDisabled(t *testing.T) {
	seq, err := frames.FromRaw([]decoder.RawFrame{
		raw(0, "#."),
		raw(0, ".#"),
	}, frames.LoadOptions{})
	test.DemandSuccess(t, err)
	for _, f := range seq.Frames {
		test.ExpectEquality(t, len(f.Restore), 0)
	}
}

func TestSingleFrame(t *testing.T) {
	seq, err := frames.FromRaw([]decoder.RawFrame{raw(0, "##", "#.")}, frames.LoadOptions{Restore: true, OffsetX: 4, OffsetY: 5})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, seq.Len(), 1)

	// a single frame is compared with itself and so there is nothing to restore
	test.ExpectEquality(t, len(seq.Frames[0].Restore), 0)

	test.ExpectEquality(t, seq.Area(4, 5), pixel.Area{OriginX: 4, OriginY: 5, SizeX: 2, SizeY: 2})
}

type stubDecoder struct {
	frames []decoder.RawFrame
	err    error
}

func (dec stubDecoder) Decode(progress func(int)) ([]decoder.RawFrame, error) {
	for i := range dec.frames {
		if progress != nil {
			progress(i + 1)
		}
	}
	return dec.frames, dec.err
}

func TestLoad(t *testing.T) {
	var progress int
	seq, err := frames.Load(stubDecoder{frames: []decoder.RawFrame{raw(0, "#"), raw(time.Second, "#")}},
		frames.LoadOptions{Progress: func(n int) { progress = n }})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, seq.Len(), 2)
	test.ExpectEquality(t, progress, 2)
	test.ExpectEquality(t, seq.Frames[1].Timestamp, time.Second)

	_, err = frames.Load(stubDecoder{err: decoder.ErrDecode}, frames.LoadOptions{})
	test.ExpectSuccess(t, errors.Is(err, decoder.ErrDecode))
}
