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
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	// register decoders for image.Decode()
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/vidflood/vidflood/logger"
)

// Image decodes still images and animated GIFs. A still image is a single
// frame with a timestamp of zero.
type Image struct {
	path string
	size Size
}

// NewImage is the preferred method of initialisation for the Image type.
func NewImage(path string, size Size) *Image {
	return &Image{
		path: path,
		size: size,
	}
}

// Decode implements the Decoder interface.
func (img *Image) Decode(progress func(n int)) ([]RawFrame, error) {
	f, err := os.Open(img.path)
	if err != nil {
		return nil, fmt.Errorf("image: %w: %v", ErrDecode, err)
	}
	defer f.Close()

	var frames []RawFrame
	if strings.ToLower(filepath.Ext(img.path)) == ".gif" {
		frames, err = DecodeGIF(f, img.size)
	} else {
		frames, err = DecodeImage(f, img.size)
	}
	if err != nil {
		return nil, err
	}

	if progress != nil {
		for i := range frames {
			progress(i + 1)
		}
	}

	return frames, nil
}

// DecodeImage decodes a single image in any of the registered formats.
func DecodeImage(r io.Reader, size Size) ([]RawFrame, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: %w: %v", ErrDecode, err)
	}
	logger.Logf(logger.Allow, "image", "decoded %s image (%dx%d)", format, src.Bounds().Dx(), src.Bounds().Dy())
	return []RawFrame{toRaw(src, size, 0)}, nil
}

// DecodeGIF decodes every frame of a GIF. Frames are composited onto a
// canvas the size of the GIF's logical screen, taking into account the
// disposal method of each frame. The timestamp of each frame is the sum of
// the delays of the frames before it.
func DecodeGIF(r io.Reader, size Size) ([]RawFrame, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("gif: %w: %v", ErrDecode, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif: %w: no frames", ErrDecode)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	screen := image.NewNRGBA(bounds)

	var frames []RawFrame
	var ts time.Duration

	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = image.NewNRGBA(bounds)
			draw.Draw(previous, bounds, screen, bounds.Min, draw.Src)
		}

		draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, toRaw(screen, size, ts))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(screen, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(screen, bounds, previous, bounds.Min, draw.Src)
		}

		if i < len(g.Delay) {
			ts += time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
	}

	logger.Logf(logger.Allow, "gif", "decoded %d frames (%dx%d)", len(frames), bounds.Dx(), bounds.Dy())

	return frames, nil
}

// toRaw copies the image into a new raw frame, scaling it if required
func toRaw(src image.Image, size Size, ts time.Duration) RawFrame {
	b := src.Bounds()

	var dst *image.NRGBA
	if size.IsZero() {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	return RawFrame{
		Width:     dst.Rect.Dx(),
		Height:    dst.Rect.Dy(),
		Timestamp: ts,
		Data:      dst.Pix,
	}
}
