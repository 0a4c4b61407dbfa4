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

package dispatch_test

import (
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/vidflood/vidflood/dispatch"
	"github.com/vidflood/vidflood/pixel"
	"github.com/vidflood/vidflood/test"
)

func TestShardScenario(t *testing.T) {
	test.ExpectEquality(t, len(dispatch.ShardIndices(8, 0, 3)), 3)
	test.ExpectEquality(t, len(dispatch.ShardIndices(8, 1, 3)), 3)
	test.ExpectEquality(t, len(dispatch.ShardIndices(8, 2, 3)), 2)

	expected := [][]int{{0, 3, 6}, {1, 4, 7}, {2, 5}}
	for i, e := range expected {
		idx := dispatch.ShardIndices(8, i, 3)
		test.DemandEquality(t, len(idx), len(e))
		for j := range e {
			test.ExpectEquality(t, idx[j], e[j])
		}
		test.ExpectEquality(t, dispatch.ShardLen(8, i, 3), len(e))
	}
}

func TestShardProperty(t *testing.T) {
	for count := 1; count <= 12; count++ {
		for length := 0; length <= 100; length++ {
			seen := make([]int, length)
			for i := range count {
				n := dispatch.ShardLen(length, i, count)
				test.ExpectSuccess(t, n == length/count || n == (length+count-1)/count, length, count)

				idx := dispatch.ShardIndices(length, i, count)
				test.ExpectEquality(t, len(idx), n)
				for _, j := range idx {
					seen[j]++
				}
			}

			// every index is assigned exactly once
			for j := range seen {
				test.ExpectEquality(t, seen[j], 1, length, count, j)
			}
		}
	}

	test.ExpectEquality(t, dispatch.ShardLen(10, 3, 3), 0)
	test.ExpectEquality(t, dispatch.ShardLen(10, 0, 0), 0)
}

func TestQueue(t *testing.T) {
	q := dispatch.NewQueue[int]()
	test.ExpectEquality(t, q.Len(), 0)

	for i := range 100 {
		q.Push(i)
	}
	test.ExpectEquality(t, q.Len(), 100)
	for i := range 100 {
		test.ExpectEquality(t, q.Pop(), i)
	}
	test.ExpectEquality(t, q.Len(), 0)

	// Pop() blocks until there is something to pop
	done := make(chan int)
	go func() {
		done <- q.Pop()
	}()

	select {
	case <-done:
		t.Fatalf("Pop() did not block on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(42)
	select {
	case v := <-done:
		test.ExpectEquality(t, v, 42)
	case <-time.After(time.Second):
		t.Fatalf("Pop() did not return after Push()")
	}
}

// recorder is a fake canvas link. it records the tag of each buffer it is
// asked to paint along with the indices of the pixels it painted
type recorder struct {
	mu      sync.Mutex
	tags    []uint8
	indices [][]int
	errors  int
	panics  bool
}

func (r *recorder) Paint(buf pixel.Buffer, index int, count int) int {
	if r.panics {
		panic("connection task failed")
	}

	// don't spin the engine too quickly
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tags = append(r.tags, buf[0].Color.R)

	var idx []int
	for i := index; i < len(buf); i += count {
		idx = append(idx, int(buf[i].X))
	}
	r.indices = append(r.indices, idx)

	return r.errors
}

func (r *recorder) history() []uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := make([]uint8, len(r.tags))
	copy(h, r.tags)
	return h
}

type sink struct {
	q *dispatch.Queue[dispatch.Stats]
}

func (s sink) Record(st dispatch.Stats) {
	s.q.Push(st)
}

// buffer returns a buffer of n pixels with X set to the pixel's index and the
// red channel set to the tag
func buffer(n int, tag uint8) pixel.Buffer {
	b := make(pixel.Buffer, n)
	for i := range b {
		b[i] = pixel.Pixel{X: uint32(i), Color: color.RGBA{R: tag, A: 0xff}}
	}
	return b
}

func TestEngineShards(t *testing.T) {
	recs := []*recorder{{errors: 1}, {errors: 2}, {errors: 3}}
	painters := []dispatch.Painter{recs[0], recs[1], recs[2]}
	s := sink{q: dispatch.NewQueue[dispatch.Stats]()}

	e := dispatch.NewEngine(painters, s)
	e.Submit(buffer(8, 1), nil)

	// the buffer is drawn continuously
	for range 3 {
		st := s.q.Pop()
		test.ExpectEquality(t, st.Pixels, 8)
		test.ExpectEquality(t, st.Errors, 6)
	}
	test.ExpectSuccess(t, e.Cycles() >= 3)

	expected := [][]int{{0, 3, 6}, {1, 4, 7}, {2, 5}}
	for i, r := range recs {
		r.mu.Lock()
		test.DemandSuccess(t, len(r.indices) > 0)
		test.DemandEquality(t, len(r.indices[0]), len(expected[i]))
		for j := range expected[i] {
			test.ExpectEquality(t, r.indices[0][j], expected[i][j])
		}
		r.mu.Unlock()
	}
}

func TestEngineRestore(t *testing.T) {
	rec := &recorder{}
	s := sink{q: dispatch.NewQueue[dispatch.Stats]()}
	e := dispatch.NewEngine([]dispatch.Painter{rec}, s)

	restore := buffer(2, 2)
	e.Submit(buffer(4, 1), &restore)
	e.Submit(buffer(4, 3), nil)

	// wait for enough cycles for the second update to have been consumed
	for range 5 {
		s.q.Pop()
	}
	test.ExpectEquality(t, e.Pending(), 0)

	// the first buffer is drawn, then the restore buffer exactly once, and
	// then the second buffer from then on
	h := rec.history()
	test.DemandSuccess(t, len(h) >= 3)
	test.ExpectEquality(t, h[0], uint8(1))

	var restores int
	var seen uint8 = 1
	for _, tag := range h {
		switch tag {
		case 1:
			test.ExpectEquality(t, seen, uint8(1))
		case 2:
			restores++
			test.ExpectEquality(t, seen, uint8(1))
			seen = 2
		case 3:
			// the second buffer follows the restore buffer and is then
			// redrawn on every cycle
			test.ExpectSuccess(t, seen == 2 || seen == 3, h)
			seen = 3
		}
	}
	test.ExpectEquality(t, restores, 1)
	test.ExpectEquality(t, seen, uint8(3))
	test.ExpectEquality(t, h[len(h)-1], uint8(3))
}

func TestEngineIdle(t *testing.T) {
	rec := &recorder{}
	e := dispatch.NewEngine([]dispatch.Painter{rec}, nil)

	// nothing is drawn until a buffer is submitted
	time.Sleep(20 * time.Millisecond)
	test.ExpectEquality(t, e.Cycles(), uint64(0))
	test.ExpectEquality(t, len(rec.history()), 0)
}

func TestEngineLinkLost(t *testing.T) {
	good := &recorder{}
	bad := &recorder{panics: true}
	e := dispatch.NewEngine([]dispatch.Painter{good, bad}, nil)
	e.Submit(buffer(4, 1), nil)

	select {
	case err := <-e.Err():
		test.ExpectSuccess(t, errors.Is(err, dispatch.ErrLinkLost))
	case <-time.After(2 * time.Second):
		t.Fatalf("lost link was not reported")
	}
}
