// Package pqueue implements the binary max-heap that orders a heap
// allocator's candidate pages by (free_bytes DESC, page_id ASC): the page
// with the most free space wins, and among equal-free pages the oldest
// (lowest id) wins, so placement prefers filling long-lived pages over
// spreading writes into newer ones.
//
// Like internal/fastmap, this is hand-rolled rather than built on
// container/heap: the allocator needs O(1) lookup from page id to heap
// position (to Remove a page it picks, or Update its free_bytes) which
// container/heap's slice-of-interface model doesn't give without its own
// side index anyway.
package pqueue

import (
	"github.com/coredbx/slotheap"
	"github.com/coredbx/slotheap/internal/fastmap"
)

type entry struct {
	page slotheap.PageID
	free uint32
}

// Queue is a binary max-heap over pages by (free_bytes, page_id).
type Queue struct {
	items []entry
	pos   fastmap.Uint32Map
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Len returns the number of pages tracked.
func (q *Queue) Len() int { return len(q.items) }

// better reports whether a should sit closer to the root than b.
func better(a, b entry) bool {
	if a.free != b.free {
		return a.free > b.free
	}
	return a.page < b.page
}

func (q *Queue) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.pos.Set(uint32(q.items[i].page), i)
	q.pos.Set(uint32(q.items[j].page), j)
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !better(q.items[i], q.items[parent]) {
			return
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	n := len(q.items)
	for {
		l, r := 2*i+1, 2*i+2
		best := i
		if l < n && better(q.items[l], q.items[best]) {
			best = l
		}
		if r < n && better(q.items[r], q.items[best]) {
			best = r
		}
		if best == i {
			return
		}
		q.swap(i, best)
		i = best
	}
}

// Push inserts a new page with the given free byte count. Pushing a page
// id already present is a bug in the caller; use Update instead.
func (q *Queue) Push(page slotheap.PageID, free int) {
	i := len(q.items)
	q.items = append(q.items, entry{page: page, free: uint32(free)})
	q.pos.Set(uint32(page), i)
	q.siftUp(i)
}

// Update changes a tracked page's free byte count and restores heap
// order. It is a no-op if page isn't tracked.
func (q *Queue) Update(page slotheap.PageID, free int) {
	i, ok := q.pos.Get(uint32(page))
	if !ok {
		return
	}
	old := q.items[i].free
	q.items[i].free = uint32(free)
	if uint32(free) > old {
		q.siftUp(i)
	} else {
		q.siftDown(i)
	}
}

// PeekBest returns the page currently ordered first, without removing it.
func (q *Queue) PeekBest() (page slotheap.PageID, free int, ok bool) {
	if len(q.items) == 0 {
		return 0, 0, false
	}
	top := q.items[0]
	return top.page, int(top.free), true
}

// Remove drops page from the queue. It reports whether page was tracked.
func (q *Queue) Remove(page slotheap.PageID) bool {
	i, ok := q.pos.Get(uint32(page))
	if !ok {
		return false
	}
	last := len(q.items) - 1
	q.swap(i, last)
	q.items = q.items[:last]
	q.pos.Delete(uint32(page))
	if i < len(q.items) {
		q.siftDown(i)
		q.siftUp(i)
	}
	return true
}

// Contains reports whether page is currently tracked.
func (q *Queue) Contains(page slotheap.PageID) bool {
	_, ok := q.pos.Get(uint32(page))
	return ok
}
