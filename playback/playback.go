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

// Package playback paces the submission of frames to the dispatch engine.
//
// The Scheduler loops over the frame sequence indefinitely. Each frame is
// cloned, the filter chain is applied to the clone and the result is
// submitted. The scheduler never waits for a frame to be drawn.
//
// Frames are paced either at a fixed rate or according to the timestamps of
// the frames. With timestamp pacing, the scheduler sleeps until the frame's
// timestamp has elapsed since the start of the loop. A frame that is already
// late is submitted immediately.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vidflood/vidflood/filter"
	"github.com/vidflood/vidflood/frames"
	"github.com/vidflood/vidflood/logger"
	"github.com/vidflood/vidflood/performance/limiter"
	"github.com/vidflood/vidflood/pixel"
)

// ErrNoFrames is returned by Run() if there are no frames to play.
var ErrNoFrames = errors.New("no frames")

// Submitter is implemented by dispatch.Engine. Submit() must not block.
type Submitter interface {
	Submit(buf pixel.Buffer, restore *pixel.Buffer)
}

// Scheduler plays a sequence of frames. The fields must not be changed once
// Run() has been called.
type Scheduler struct {
	Frames    []frames.Frame
	Chain     filter.Chain
	Submitter Submitter

	// submit the restore buffer of each frame with the frame
	Restore bool

	// fixed number of frames per second. a value of zero means the frames
	// are paced according to their timestamps
	FPS float64

	// number of times to play the sequence. a value of zero means forever
	Loops int

	submitted atomic.Uint64

	// the limiter used by the most recent call to Run()
	lim atomic.Pointer[limiter.FpsLimiter]
}

// Submitted returns the number of frames submitted so far. It is safe to call
// from any goroutine.
func (sch *Scheduler) Submitted() uint64 {
	return sch.submitted.Load()
}

// MeasuredFPS returns the rate at which frames were actually submitted over
// the most recent second. Returns zero if frames are paced by their
// timestamps or if the rate has not been measured yet. It is safe to call from
// any goroutine.
func (sch *Scheduler) MeasuredFPS() float64 {
	if lim := sch.lim.Load(); lim != nil {
		return lim.Measured()
	}
	return 0
}

// Run the scheduler until the context is done or the number of loops has been
// reached. The context's error is returned if the context is done.
func (sch *Scheduler) Run(ctx context.Context) error {
	if len(sch.Frames) == 0 {
		return fmt.Errorf("playback: %w", ErrNoFrames)
	}
	if sch.Submitter == nil {
		return fmt.Errorf("playback: no submitter")
	}

	var lim *limiter.FpsLimiter
	if sch.FPS > 0 {
		var err error
		lim, err = limiter.NewFPSLimiter(sch.FPS)
		if err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		defer lim.Stop()
		sch.lim.Store(lim)
		logger.Logf(logger.Allow, "playback", "fixed rate of %.2f fps", lim.Limit())
	}

	for loop := 0; sch.Loops == 0 || loop < sch.Loops; loop++ {
		start := time.Now()

		for i := range sch.Frames {
			f := &sch.Frames[i]

			if lim != nil {
				if err := lim.Wait(ctx); err != nil {
					return err
				}
			} else {
				if err := sleep(ctx, f.Timestamp-time.Since(start)); err != nil {
					return err
				}
			}

			sch.submit(f)
		}

		if loop == 0 {
			logger.Logf(logger.Allow, "playback", "first loop complete (%d frames in %v)", len(sch.Frames), time.Since(start).Round(time.Millisecond))
		}
	}

	return nil
}

func (sch *Scheduler) submit(f *frames.Frame) {
	buf := f.Pixels.Clone()

	var restore *pixel.Buffer
	if sch.Restore {
		r := f.Restore.Clone()
		if r == nil {
			r = pixel.Buffer{}
		}
		restore = &r
	}

	sch.Chain.Apply(buf, restore)
	sch.Submitter.Submit(buf, restore)
	sch.submitted.Add(1)
}

// sleep for the duration or until the context is done. durations of zero or
// less return immediately unless the context is already done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
