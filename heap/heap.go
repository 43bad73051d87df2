// Package heap implements the priority-queue-driven best-fit allocator
// that places caller-supplied byte payloads into slotted pages and hands
// back stable addresses.
//
// The concrete page shape it drives is the reference shape: 16-bit
// index, static capacity equal to the page size, byte-aligned 16-bit
// directory, mutable. Other shapes are exercised directly through the
// page package; the heap allocator standardizes on one shape the way a
// storage engine's buffer manager standardizes on one page format.
package heap

import (
	"github.com/coredbx/slotheap"
	"github.com/coredbx/slotheap/internal/pqueue"
	"github.com/coredbx/slotheap/page"
)

// Address is a stable (page, slot) pair identifying a pushed value.
type Address struct {
	Page slotheap.PageID
	Slot uint16
}

func pageConfig() page.Config {
	return page.Config{
		Capacity:   page.CapacityStatic,
		Alignment:  page.ByteAligned,
		Mutability: page.Mutable,
	}
}

// Heap places payloads into pages obtained from store, keeping a
// best-fit-preferring-older priority queue of free space plus a
// single-page hot cache for consecutive small writes.
type Heap struct {
	store    slotheap.PageAllocator
	pageSize int
	q        *pqueue.Queue

	hasHot  bool
	hotID   slotheap.PageID
	hotPage *page.Page[uint16, uint16]

	maxPayload int
}

// New returns a heap allocator drawing pages of pageSize bytes from
// store. store must not be shared with any other heap.
func New(store slotheap.PageAllocator, pageSize int) (*Heap, error) {
	cfg := pageConfig()
	cfg.StaticCap = uint64(pageSize)
	scratch := make([]byte, pageSize)
	p, err := page.New[uint16, uint16](scratch, cfg)
	if err != nil {
		return nil, err
	}
	maxPayload, err := p.Init(uint64(pageSize))
	if err != nil {
		return nil, err
	}

	return &Heap{
		store:      store,
		pageSize:   pageSize,
		q:          pqueue.New(),
		maxPayload: maxPayload,
	}, nil
}

func (h *Heap) wrap(buf []byte) (*page.Page[uint16, uint16], error) {
	cfg := pageConfig()
	cfg.StaticCap = uint64(h.pageSize)
	return page.New[uint16, uint16](buf, cfg)
}

func (h *Heap) flushHot() {
	if !h.hasHot {
		return
	}
	h.q.Push(h.hotID, h.hotPage.Available())
	h.hasHot = false
	h.hotPage = nil
}

// Push places payload into a page with room for it, allocating a new
// page only if nothing queued or cached has space.
func (h *Heap) Push(payload []byte) (Address, error) {
	size := len(payload)
	if size > h.maxPayload {
		return Address{}, &slotheap.Error{
			Code:    slotheap.ErrPayloadTooLarge,
			Message: "payload exceeds a page's maximum capacity",
		}
	}

	if h.hasHot && h.hotPage.Available() >= size {
		slot, err := h.hotPage.Push(payload)
		if err != nil {
			return Address{}, err
		}
		return Address{Page: h.hotID, Slot: uint16(slot)}, nil
	}

	h.flushHot()

	if pid, free, ok := h.q.PeekBest(); ok && free >= size {
		h.q.Remove(pid)
		buf, err := h.store.Get(pid)
		if err != nil {
			return Address{}, err
		}
		p, err := h.wrap(buf)
		if err != nil {
			return Address{}, err
		}
		h.hotID = pid
		h.hotPage = p
		h.hasHot = true
	} else {
		pid, buf, err := h.store.AllocatePage()
		if err != nil {
			return Address{}, err
		}
		p, err := h.wrap(buf)
		if err != nil {
			return Address{}, err
		}
		if _, err := p.Init(uint64(h.pageSize)); err != nil {
			return Address{}, err
		}
		h.hotID = pid
		h.hotPage = p
		h.hasHot = true
	}

	slot, err := h.hotPage.Push(payload)
	if err != nil {
		return Address{}, err
	}
	return Address{Page: h.hotID, Slot: uint16(slot)}, nil
}

// Get returns the value previously returned by a Push at addr.
func (h *Heap) Get(addr Address) ([]byte, error) {
	if h.hasHot && addr.Page == h.hotID {
		return h.hotPage.Get(addr.Slot)
	}
	buf, err := h.store.Get(addr.Page)
	if err != nil {
		return nil, err
	}
	p, err := h.wrap(buf)
	if err != nil {
		return nil, err
	}
	return p.Get(addr.Slot)
}
