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

// Package limiter limits events to a fixed rate.
//
// A new FpsLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(30)
//	defer fps.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		if err := fps.Wait(ctx); err != nil {
//			return err
//		}
//		submitFrame()
//	}
//
// The first call to Wait() returns immediately. Ticks that are missed because
// the caller is slow are dropped rather than queued, so a slow caller does
// not cause a burst of frames when it catches up.
package limiter

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// FpsLimiter will trigger the requested number of times every second.
type FpsLimiter struct {
	framesPerSecond float64

	// pulse that performs the limiting
	pulse *time.Ticker

	// the first call to Wait() does not wait for the pulse
	started bool

	// the measured rate is the number of waits divided by the amount of
	// elapsed time since the previous measurement. the measurement is
	// updated once a second
	measureTime time.Time
	measureCt   int
	measured    atomic.Value // float64
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type
func NewFPSLimiter(framesPerSecond float64) (*FpsLimiter, error) {
	if framesPerSecond <= 0 {
		return nil, fmt.Errorf("limiter: frame rate must be greater than zero (%f)", framesPerSecond)
	}

	lim := &FpsLimiter{
		framesPerSecond: framesPerSecond,
		pulse:           time.NewTicker(period(framesPerSecond)),
		measureTime:     time.Now(),
	}
	lim.measured.Store(float64(0))

	return lim, nil
}

func period(framesPerSecond float64) time.Duration {
	return time.Duration(float64(time.Second) / framesPerSecond)
}

// Limit returns the rate of the limiter.
func (lim *FpsLimiter) Limit() float64 {
	return lim.framesPerSecond
}

// Wait will block until the next trigger or until the context is done. The
// context's error is returned if the context is done first.
func (lim *FpsLimiter) Wait(ctx context.Context) error {
	if lim.started {
		select {
		case <-lim.pulse.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	lim.started = true

	lim.measureCt++
	if t := time.Now(); t.Sub(lim.measureTime) >= time.Second {
		lim.measured.Store(float64(lim.measureCt) / t.Sub(lim.measureTime).Seconds())
		lim.measureTime = t
		lim.measureCt = 0
	}

	return nil
}

// Measured returns the actual rate of calls to Wait(), as measured over the
// most recent second. It is safe to call from any goroutine.
func (lim *FpsLimiter) Measured() float64 {
	return lim.measured.Load().(float64)
}

// Stop the limiter. The limiter should not be used after it has been stopped.
func (lim *FpsLimiter) Stop() {
	lim.pulse.Stop()
}
