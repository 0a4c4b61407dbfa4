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

package dispatch

import "sync"

// Queue is an unbounded first-in-first-out queue. Push never blocks. Pop
// blocks until an item is available.
//
// Queue is safe for use by more than one goroutine.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
}

// NewQueue is the preferred method of initialisation for the Queue type.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push adds an item to the back of the queue and wakes a waiting consumer.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.cond.Signal()
	q.mu.Unlock()
}

// Pop removes the item at the front of the queue. Blocks until an item is
// available.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.cond.Wait()
	}

	item := q.items[0]

	// zero the vacated slot so that the item can be garbage collected
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]

	// release the backing array once the queue has drained
	if len(q.items) == 0 {
		q.items = nil
	}

	return item
}

// Len returns the number of items waiting in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
