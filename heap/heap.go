// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package heap implements a generic binary min-heap.
package heap

// Queue is a min-priority queue ordered by
// a caller-supplied comparison function.
//
// Ties between elements that compare equal
// in both directions are broken arbitrarily,
// so callers that need a deterministic order
// must supply a total order.
type Queue[T any] struct {
	items []T
	less  func(x, y T) bool
}

// New returns a Queue holding items,
// which it takes ownership of.
func New[T any](items []T, less func(x, y T) bool) *Queue[T] {
	q := &Queue[T]{items: items, less: less}
	for i := len(items)/2 - 1; i >= 0; i-- {
		q.siftDown(i)
	}
	return q
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int { return len(q.items) }

// Peek returns the smallest element
// without removing it.
func (q *Queue[T]) Peek() T { return q.items[0] }

// Push adds item to the queue.
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
	q.siftUp(len(q.items) - 1)
}

// Pop removes and returns the smallest element.
// Pop panics if the queue is empty.
func (q *Queue[T]) Pop() T {
	ret := q.items[0]
	last := len(q.items) - 1
	q.items[0] = q.items[last]
	q.items = q.items[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return ret
}

// PopN appends up to n of the smallest elements
// to dst in ascending order and returns dst.
func (q *Queue[T]) PopN(dst []T, n int) []T {
	for ; n > 0 && len(q.items) > 0; n-- {
		dst = append(dst, q.Pop())
	}
	return dst
}

func (q *Queue[T]) siftUp(index int) {
	x := q.items
	for index > 0 {
		p := (index - 1) / 2
		if !q.less(x[index], x[p]) {
			break
		}
		x[p], x[index] = x[index], x[p]
		index = p
	}
}

func (q *Queue[T]) siftDown(index int) {
	x := q.items
	for {
		left := (index * 2) + 1
		right := left + 1
		if left >= len(x) {
			break
		}
		c := left
		if len(x) > right && q.less(x[right], x[left]) {
			c = right
		}
		if !q.less(x[c], x[index]) {
			break
		}
		x[c], x[index] = x[index], x[c]
		index = c
	}
}
