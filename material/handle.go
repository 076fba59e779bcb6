// SPDX-License-Identifier: MIT

package material

import (
	"fmt"

	"github.com/google/uuid"
)

// handle is an arena address. Generations start at 1, so the zero handle
// never resolves.
type handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero (never issued) handle.
func (h handle) IsZero() bool { return h.generation == 0 }

// String renders the handle as index.generation, e.g. "3.1".
func (h handle) String() string { return fmt.Sprintf("%d.%d", h.index, h.generation) }

// RecordHandle addresses a cross-section record held by a Context.
type RecordHandle struct{ handle }

// MaterialHandle addresses a material held by a Context.
type MaterialHandle struct{ handle }

// slot is one arena cell. A released slot keeps its generation, bumped,
// until it is reused.
type slot[T any] struct {
	value      T
	id         string
	generation uint32
	live       bool
}

// arena is a generation-checked slab with a free list. It does no locking;
// Context guards each arena with its own mutex.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// insert stores v under a fresh UUID and returns its address.
func (a *arena[T]) insert(v T) handle {
	id := uuid.NewString()
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[i]
		s.value, s.id, s.live = v, id, true
		a.live++
		return handle{index: i, generation: s.generation}
	}
	a.slots = append(a.slots, slot[T]{value: v, id: id, generation: 1, live: true})
	a.live++

	return handle{index: uint32(len(a.slots) - 1), generation: 1}
}

// get resolves h to its live slot.
func (a *arena[T]) get(h handle) (*slot[T], error) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	s := &a.slots[h.index]
	if !s.live || s.generation != h.generation {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}

	return s, nil
}

// release frees h's slot and invalidates every copy of h.
func (a *arena[T]) release(h handle) error {
	s, err := a.get(h)
	if err != nil {
		return err
	}
	var zero T
	s.value, s.id, s.live = zero, "", false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.free = append(a.free, h.index)
	a.live--

	return nil
}

// each visits every live slot in index order.
func (a *arena[T]) each(fn func(h handle, s *slot[T])) {
	for i := range a.slots {
		if s := &a.slots[i]; s.live {
			fn(handle{index: uint32(i), generation: s.generation}, s)
		}
	}
}
