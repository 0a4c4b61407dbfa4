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

// Package status shows a single line summary of the flood. The Display type
// implements the dispatch.Sink interface and is updated at the end of every
// draw cycle.
//
// Stats are queued by Record() and consumed by a goroutine of the Display's
// own so that the dispatch engine is never held up by the output.
package status

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/vidflood/vidflood/dispatch"
)

// entry in the display queue. the stop entry is sent by Close()
type entry struct {
	stats dispatch.Stats
	stop  bool
}

// Display accumulates stats and writes the status line.
type Display struct {
	out         io.Writer
	connections int

	// an interactive display rewrites the same line. a non-interactive
	// display writes a new line only when the error count changes
	interactive bool

	// terminal width in characters. zero if the width is not known
	width int

	queue *dispatch.Queue[entry]
	done  chan bool

	errors atomic.Uint64
	pixels atomic.Uint64
	cycles atomic.Uint64

	last string
}

// NewDisplay is the preferred method of initialisation for the Display type.
// The display goroutine is started immediately.
func NewDisplay(out io.Writer, connections int, interactive bool) *Display {
	return newDisplay(out, connections, interactive, 0)
}

// NewTerminalDisplay is like NewDisplay() but decides whether the display
// should be interactive according to whether the output is a terminal.
func NewTerminalDisplay(out io.Writer, connections int) *Display {
	var interactive bool
	var width int
	if f, ok := out.(fileDescriptor); ok {
		interactive = IsTerminal(f)
		if interactive {
			width = TerminalWidth(f)
		}
	}
	return newDisplay(out, connections, interactive, width)
}

func newDisplay(out io.Writer, connections int, interactive bool, width int) *Display {
	d := &Display{
		out:         out,
		connections: connections,
		interactive: interactive,
		width:       width,
		queue:       dispatch.NewQueue[entry](),
		done:        make(chan bool),
	}
	go d.run()
	return d
}

// Record implements the dispatch.Sink interface. It never blocks.
func (d *Display) Record(stats dispatch.Stats) {
	d.queue.Push(entry{stats: stats})
}

// Close stops the display once every queued stat has been consumed. The
// final status is always written.
func (d *Display) Close() {
	d.queue.Push(entry{stop: true})
	<-d.done
}

// Errors returns the cumulative error count.
func (d *Display) Errors() uint64 {
	return d.errors.Load()
}

// Pixels returns the cumulative number of pixels written.
func (d *Display) Pixels() uint64 {
	return d.pixels.Load()
}

// Cycles returns the number of draw cycles recorded.
func (d *Display) Cycles() uint64 {
	return d.cycles.Load()
}

// Line returns the status line for the current stats.
func (d *Display) Line() string {
	return fmt.Sprintf("Connections: %d  |  Errors: %d", d.connections, d.errors.Load())
}

func (d *Display) accumulate(stats dispatch.Stats) {
	d.errors.Add(uint64(stats.Errors))
	d.pixels.Add(uint64(stats.Pixels))
	d.cycles.Add(1)
}

func (d *Display) run() {
	defer close(d.done)

	for {
		e := d.queue.Pop()

		// consume everything else that is waiting so that a busy engine does
		// not cause a write for every cycle
		stop := e.stop
		if !stop {
			d.accumulate(e.stats)
		}
		for !stop && d.queue.Len() > 0 {
			e = d.queue.Pop()
			if e.stop {
				stop = true
				break
			}
			d.accumulate(e.stats)
		}

		if stop {
			d.final()
			return
		}

		d.print()
	}
}

func (d *Display) print() {
	l := d.Line()

	if d.interactive {
		if d.width > 1 && len(l) >= d.width {
			l = l[:d.width-1]
		}
		fmt.Fprintf(d.out, "\r%s", l)
		d.last = l
		return
	}

	if l != d.last {
		fmt.Fprintln(d.out, l)
		d.last = l
	}
}

func (d *Display) final() {
	if d.interactive {
		d.print()
		fmt.Fprintln(d.out)
		return
	}
	d.print()
}
