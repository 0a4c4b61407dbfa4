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

// Package dispatch distributes pixel buffers over a set of canvas links.
//
// The Engine repeatedly draws the current buffer, back-to-back and without
// pacing, so as to reassert the image on a canvas that other clients are also
// drawing on. Every draw cycle sends the same read-only buffer to every link.
// Each link draws only its own shard of the buffer (see ShardLen()) and the
// engine waits for every link to finish before beginning the next cycle.
//
// New buffers are given to the engine with Submit(). If the previous update
// came with a restore buffer then the restore buffer is drawn once, before
// the new buffer replaces the current one.
package dispatch

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vidflood/vidflood/logger"
	"github.com/vidflood/vidflood/pixel"
)

// ErrLinkLost is sent on the Err() channel if a link stops unexpectedly.
// Links retry forever and so this indicates a fault in the program.
var ErrLinkLost = errors.New("link lost")

// Painter is implemented by canvas.Link. Paint() draws the pixels at index,
// index+count, index+2*count, etc. and returns the number of failed writes.
// Paint() does not return until every pixel in the shard has been drawn.
type Painter interface {
	Paint(buf pixel.Buffer, index int, count int) int
}

// update is a request to change the current buffer.
type update struct {
	buffer  pixel.Buffer
	restore *pixel.Buffer
}

// job is a single draw cycle as seen by one link.
type job struct {
	buffer pixel.Buffer
	reply  chan<- result
}

// result is the reply of one link to a job.
type result struct {
	link   int
	errors int
	pixels int

	// lost is true if the link has stopped and will not reply again
	lost bool
}

// Engine owns the links and runs the draw cycles.
type Engine struct {
	painters []Painter
	jobs     []*Queue[job]
	updates  *Queue[update]
	sink     Sink

	// receives the reason the engine stopped. the engine only stops on a
	// fatal internal error
	err chan error

	cycles atomic.Uint64
}

// NewEngine is the preferred method of initialisation for the Engine type.
// One goroutine is started for each painter and one for the engine itself.
// The engine idles until the first call to Submit().
//
// The sink can be nil if draw cycle statistics are not required.
func NewEngine(painters []Painter, sink Sink) *Engine {
	e := &Engine{
		painters: painters,
		jobs:     make([]*Queue[job], len(painters)),
		updates:  NewQueue[update](),
		sink:     sink,
		err:      make(chan error, 1),
	}

	for i := range e.painters {
		e.jobs[i] = NewQueue[job]()
		go e.link(i)
	}

	go e.run()

	return e
}

// Submit a new buffer and an optional restore buffer. The restore buffer is
// held until the next call to Submit(), at which point it is drawn once
// before the new buffer. A nil restore means there is nothing to restore.
//
// Submit() never blocks. The engine takes ownership of both buffers and the
// caller must not modify them afterwards.
func (e *Engine) Submit(buffer pixel.Buffer, restore *pixel.Buffer) {
	e.updates.Push(update{buffer: buffer, restore: restore})
}

// Err returns a channel that receives an error if the engine stops.
func (e *Engine) Err() <-chan error {
	return e.err
}

// Cycles returns the number of draw cycles completed so far.
func (e *Engine) Cycles() uint64 {
	return e.cycles.Load()
}

// Pending returns the number of updates that have been submitted but not yet
// consumed by the engine.
func (e *Engine) Pending() int {
	return e.updates.Len()
}

func (e *Engine) run() {
	var current pixel.Buffer
	var restore *pixel.Buffer

	for {
		// wait for an update if one is pending or if there is nothing to draw
		if e.updates.Len() > 0 || len(current) == 0 {
			u := e.updates.Pop()

			if restore != nil {
				if err := e.draw(*restore); err != nil {
					e.err <- err
					return
				}
			}

			restore = u.restore
			current = u.buffer
		}

		if err := e.draw(current); err != nil {
			e.err <- err
			return
		}
	}
}

// draw sends the buffer to every link and waits for every link to reply.
func (e *Engine) draw(buffer pixel.Buffer) error {
	if len(buffer) == 0 {
		return nil
	}

	reply := make(chan result, len(e.painters))
	for _, q := range e.jobs {
		q.Push(job{buffer: buffer, reply: reply})
	}

	var stats Stats
	for range e.painters {
		r := <-reply
		if r.lost {
			return fmt.Errorf("dispatch: %w: link %d", ErrLinkLost, r.link)
		}
		stats.Errors += r.errors
		stats.Pixels += r.pixels
	}

	e.cycles.Add(1)

	if e.sink != nil {
		e.sink.Record(stats)
	}

	return nil
}

// link services the job queue of a single painter.
func (e *Engine) link(i int) {
	n := len(e.painters)

	for {
		j := e.jobs[i].Pop()

		failed, ok := e.paint(i, j.buffer)
		if !ok {
			j.reply <- result{link: i, lost: true}
			return
		}

		j.reply <- result{
			link:   i,
			errors: failed,
			pixels: ShardLen(len(j.buffer), i, n),
		}
	}
}

// paint calls the painter, converting a panic into a lost link.
func (e *Engine) paint(i int, buffer pixel.Buffer) (failed int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logf(logger.Allow, "dispatch", "link %d: %v", i, r)
			ok = false
		}
	}()
	return e.painters[i].Paint(buffer, i, len(e.painters)), true
}
