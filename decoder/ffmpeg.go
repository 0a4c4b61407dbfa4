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
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/vidflood/vidflood/logger"
)

// the frame rate assumed when ffprobe cannot tell us the frame rate of the
// source
const fallbackRate = 25.0

// FFMPEG decodes video files with the ffmpeg and ffprobe executables, which
// must be in the path.
type FFMPEG struct {
	path string
	size Size
}

// NewFFMPEG is the preferred method of initialisation for the FFMPEG type.
func NewFFMPEG(path string, size Size) *FFMPEG {
	return &FFMPEG{
		path: path,
		size: size,
	}
}

// Probe is the result of probing the first video stream of a file.
type Probe struct {
	Width  int
	Height int
	Rate   float64
}

// ParseProbe parses the output of ffprobe when run with the entries
// stream=width,height,r_frame_rate and the default output format with no
// wrappers.
func ParseProbe(output string) (Probe, error) {
	var p Probe
	var err error

	for _, l := range strings.Split(output, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(l), "=")
		if !ok {
			continue
		}

		switch k {
		case "width":
			p.Width, err = strconv.Atoi(v)
			if err != nil {
				return Probe{}, fmt.Errorf("ffprobe: %w: width: %v", ErrDecode, err)
			}
		case "height":
			p.Height, err = strconv.Atoi(v)
			if err != nil {
				return Probe{}, fmt.Errorf("ffprobe: %w: height: %v", ErrDecode, err)
			}
		case "r_frame_rate":
			p.Rate = parseRate(v)
		}
	}

	if p.Width < 1 || p.Height < 1 {
		return Probe{}, fmt.Errorf("ffprobe: %w: no video stream dimensions", ErrDecode)
	}

	if p.Rate <= 0 {
		logger.Logf(logger.Allow, "ffprobe", "no frame rate. assuming %.0f fps", fallbackRate)
		p.Rate = fallbackRate
	}

	return p, nil
}

// parseRate parses a frame rate of the form "30000/1001" or "25". returns
// zero if the rate cannot be parsed
func parseRate(s string) float64 {
	n, d, ok := strings.Cut(s, "/")
	num, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return num
	}
	den, err := strconv.ParseFloat(d, 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}

func (vid *FFMPEG) probe() (Probe, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "default=noprint_wrappers=1",
		vid.path)

	out, err := cmd.Output()
	if err != nil {
		return Probe{}, fmt.Errorf("ffprobe: %w: %v", ErrDecode, err)
	}

	return ParseProbe(string(out))
}

// ParseTimestamps parses the output of ffprobe when run with the entries
// packet=pts_time and the csv output format with no section names. Packets
// are listed in decoding order so the timestamps are sorted into presentation
// order. Packets without a timestamp are ignored.
func ParseTimestamps(output string) []time.Duration {
	var ts []time.Duration
	for _, l := range strings.Split(output, "\n") {
		l = strings.TrimSuffix(strings.TrimSpace(l), ",")
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			continue
		}
		ts = append(ts, time.Duration(math.Round(v*float64(time.Second))))
	}
	slices.Sort(ts)
	return ts
}

// ApplyTimestamps replaces the timestamps of the frames with presentation
// timestamps. The timestamps are made relative to the first timestamp. Frames
// without a presentation timestamp keep their spacing from the preceding
// frame.
func ApplyTimestamps(frames []RawFrame, ts []time.Duration) {
	if len(ts) == 0 {
		return
	}

	var prev, prevOrig time.Duration
	for i := range frames {
		orig := frames[i].Timestamp
		if i < len(ts) {
			frames[i].Timestamp = ts[i] - ts[0]
		} else {
			frames[i].Timestamp = prev + (orig - prevOrig)
		}
		prev, prevOrig = frames[i].Timestamp, orig
	}
}

// probeTimestamps returns the presentation timestamps of the first video
// stream. a failure to probe the timestamps is not an error. the frames are
// timed by the frame rate instead
func (vid *FFMPEG) probeTimestamps() []time.Duration {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "packet=pts_time",
		"-of", "csv=p=0",
		vid.path)

	out, err := cmd.Output()
	if err != nil {
		logger.Logf(logger.Allow, "ffprobe", "no timestamps: %v", err)
		return nil
	}

	return ParseTimestamps(string(out))
}

// Decode implements the Decoder interface.
func (vid *FFMPEG) Decode(progress func(n int)) ([]RawFrame, error) {
	for _, exe := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(exe); err != nil {
			return nil, fmt.Errorf("ffmpeg: %w: %s not found in path", ErrDecode, exe)
		}
	}

	p, err := vid.probe()
	if err != nil {
		return nil, err
	}

	ts := vid.probeTimestamps()

	// frames are neither duplicated nor dropped so that they line up with the
	// probed timestamps
	opts := []string{
		"-v", "error",
		"-i", vid.path,
		"-vsync", "passthrough",
	}
	if !vid.size.IsZero() {
		opts = append(opts, "-vf", fmt.Sprintf("scale=%d:%d", vid.size.Width, vid.size.Height))
		p.Width = vid.size.Width
		p.Height = vid.size.Height
	}
	opts = append(opts, "-f", "rawvideo", "-pix_fmt", "rgba", "-")

	logger.Logf(logger.Allow, "ffmpeg", "decoding %s (%dx%d at %.02f fps)", vid.path, p.Width, p.Height, p.Rate)

	cmd := exec.Command("ffmpeg", opts...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %v", ErrDecode, err)
	}

	frames, readErr := ReadRawVideo(pipe, p.Width, p.Height, p.Rate, progress)

	// wait for ffmpeg to finish even if reading failed
	err = cmd.Wait()
	if readErr != nil {
		return nil, readErr
	}
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %v: %s", ErrDecode, err, strings.TrimSpace(stderr.String()))
	}

	if len(ts) > 0 && len(ts) != len(frames) {
		logger.Logf(logger.Allow, "ffmpeg", "%d timestamps for %d frames", len(ts), len(frames))
	}
	ApplyTimestamps(frames, ts)

	return frames, nil
}

// ReadRawVideo slices a stream of rawvideo rgba data into frames of the
// specified dimensions. The timestamp of frame n is n/rate seconds.
//
// The stream must end on a frame boundary.
func ReadRawVideo(r io.Reader, width int, height int, rate float64, progress func(n int)) ([]RawFrame, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("rawvideo: %w: invalid dimensions %dx%d", ErrDecode, width, height)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("rawvideo: %w: invalid frame rate %f", ErrDecode, rate)
	}

	var frames []RawFrame
	size := width * height * 4

	for {
		data := make([]byte, size)
		_, err := io.ReadFull(r, data)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("rawvideo: %w: incomplete frame %d", ErrDecode, len(frames))
			}
			return nil, fmt.Errorf("rawvideo: %w: %v", ErrDecode, err)
		}

		frames = append(frames, RawFrame{
			Width:     width,
			Height:    height,
			Timestamp: time.Duration(float64(len(frames)) / rate * float64(time.Second)),
			Data:      data,
		})

		if progress != nil {
			progress(len(frames))
		}
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("rawvideo: %w: no frames", ErrDecode)
	}

	return frames, nil
}
