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

// Package decoder turns a video or image file into a sequence of raw frames.
// A raw frame is row-major non-premultiplied RGBA data with a presentation
// timestamp.
//
// Videos are decoded by an ffmpeg subprocess. Still images and animated GIFs
// are decoded in-process. Use Open() to choose the correct decoder for a
// file.
package decoder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrDecode is returned by every decoder when the source cannot be decoded.
var ErrDecode = errors.New("decode error")

// RawFrame is a single decoded frame. Data is Width*Height*4 bytes long.
type RawFrame struct {
	Width     int
	Height    int
	Timestamp time.Duration
	Data      []byte
}

// Decoder is implemented by the FFMPEG and Image types.
type Decoder interface {
	// Decode the entire source. The progress function is called with the
	// number of frames decoded so far and can be nil.
	Decode(progress func(n int)) ([]RawFrame, error)
}

// Size is the dimensions that frames should be scaled to. The zero value
// indicates that frames should not be scaled.
type Size struct {
	Width  int
	Height int
}

// IsZero returns true if no scaling is required.
func (sz Size) IsZero() bool {
	return sz.Width == 0 && sz.Height == 0
}

func (sz Size) String() string {
	if sz.IsZero() {
		return "native"
	}
	return fmt.Sprintf("%dx%d", sz.Width, sz.Height)
}

// Set implements the flag.Value interface.
func (sz *Size) Set(s string) error {
	v, err := ParseSize(s)
	if err != nil {
		return err
	}
	*sz = v
	return nil
}

// ParseSize parses a string of the form WxH. An empty string is the zero
// Size.
func ParseSize(s string) (Size, error) {
	if s == "" {
		return Size{}, nil
	}

	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Size{}, fmt.Errorf("decoder: size %q is not of the form WxH", s)
	}

	width, err := strconv.Atoi(w)
	if err != nil || width < 1 {
		return Size{}, fmt.Errorf("decoder: size %q has an invalid width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 1 {
		return Size{}, fmt.Errorf("decoder: size %q has an invalid height", s)
	}

	return Size{Width: width, Height: height}, nil
}
