package composer

// container identifies which side of a board holds an entity.
type container int

const (
	containerNone container = iota
	containerSlots
	containerPool
)

// target is a board-local drop target with the entity reference already
// narrowed to the board's own id type.
type target[ID comparable] struct {
	kind TargetKind
	slot int
	id   ID
}

// Board is the slotted-collection reconciler shared by all three domains:
// a fixed-length ordered slot array where each position holds at most one
// entity, plus an unordered available pool. Every entity the board knows
// about lives in exactly one place.
type Board[ID comparable, T any] struct {
	slots []*T
	pool  []T
	idOf  func(T) ID
}

// NewBoard builds a board with the given fixed slot count.
func NewBoard[ID comparable, T any](slotCount int, idOf func(T) ID) *Board[ID, T] {
	return &Board[ID, T]{
		slots: make([]*T, slotCount),
		idOf:  idOf,
	}
}

// SlotCount returns the fixed number of slots.
func (b *Board[ID, T]) SlotCount() int {
	return len(b.slots)
}

// Slot returns the entity at index i, or nil when the slot is empty or out
// of range.
func (b *Board[ID, T]) Slot(i int) *T {
	if i < 0 || i >= len(b.slots) {
		return nil
	}
	return b.slots[i]
}

// Pool returns a copy of the available pool in its current order.
func (b *Board[ID, T]) Pool() []T {
	out := make([]T, len(b.pool))
	copy(out, b.pool)
	return out
}

// Fill places an entity into slot i at load time. Out-of-range indices and
// occupied slots are ignored, matching how stale linkage orders are dropped.
func (b *Board[ID, T]) Fill(i int, item T) bool {
	if i < 0 || i >= len(b.slots) || b.slots[i] != nil {
		return false
	}
	b.slots[i] = &item
	return true
}

// AddToPool appends an entity to the available pool.
func (b *Board[ID, T]) AddToPool(item T) {
	b.pool = append(b.pool, item)
}

// Contains reports whether the board holds the entity anywhere.
func (b *Board[ID, T]) Contains(id ID) bool {
	c, _ := b.locate(id)
	return c != containerNone
}

// InSlot returns the slot index holding the entity, or -1.
func (b *Board[ID, T]) InSlot(id ID) int {
	if c, i := b.locate(id); c == containerSlots {
		return i
	}
	return -1
}

// Find returns the entity regardless of which container holds it.
func (b *Board[ID, T]) Find(id ID) (T, bool) {
	switch c, i := b.locate(id); c {
	case containerSlots:
		return *b.slots[i], true
	case containerPool:
		return b.pool[i], true
	}
	var zero T
	return zero, false
}

// Remove deletes the entity from whichever container holds it.
func (b *Board[ID, T]) Remove(id ID) bool {
	switch c, i := b.locate(id); c {
	case containerSlots:
		b.slots[i] = nil
		return true
	case containerPool:
		b.pool = append(b.pool[:i], b.pool[i+1:]...)
		return true
	}
	return false
}

// Apply runs the drag transition table for a source entity and a drop
// target. It reports whether any state changed; invalid or unresolved
// combinations are no-ops, not errors.
//
//	slots[i] -> slots[j]   swap (empty or occupied target)
//	pool     -> slots[j]   move, only into an empty slot
//	slots[i] -> pool       release slot, append to pool
//	anything -> unresolved no-op
func (b *Board[ID, T]) Apply(src ID, tgt target[ID]) bool {
	srcContainer, srcIdx := b.locate(src)
	if srcContainer == containerNone {
		return false
	}

	tgtContainer, tgtIdx := b.resolve(tgt)

	switch {
	case srcContainer == containerSlots && tgtContainer == containerSlots:
		if srcIdx == tgtIdx {
			return false
		}
		b.slots[srcIdx], b.slots[tgtIdx] = b.slots[tgtIdx], b.slots[srcIdx]
		return true

	case srcContainer == containerPool && tgtContainer == containerSlots:
		// Never overwrite an occupied slot with a pool entity.
		if b.slots[tgtIdx] != nil {
			return false
		}
		item := b.pool[srcIdx]
		b.pool = append(b.pool[:srcIdx], b.pool[srcIdx+1:]...)
		b.slots[tgtIdx] = &item
		return true

	case srcContainer == containerSlots && tgtContainer == containerPool:
		item := *b.slots[srcIdx]
		b.slots[srcIdx] = nil
		b.pool = append(b.pool, item)
		return true
	}

	return false
}

// ForEachPlaced visits every occupied slot in index order with its 1-based
// order value.
func (b *Board[ID, T]) ForEachPlaced(fn func(order int, item T)) {
	for i, slot := range b.slots {
		if slot != nil {
			fn(i+1, *slot)
		}
	}
}

// PlacedCount returns the number of occupied slots.
func (b *Board[ID, T]) PlacedCount() int {
	n := 0
	for _, slot := range b.slots {
		if slot != nil {
			n++
		}
	}
	return n
}

func (b *Board[ID, T]) locate(id ID) (container, int) {
	for i, slot := range b.slots {
		if slot != nil && b.idOf(*slot) == id {
			return containerSlots, i
		}
	}
	for i, item := range b.pool {
		if b.idOf(item) == id {
			return containerPool, i
		}
	}
	return containerNone, -1
}

func (b *Board[ID, T]) resolve(tgt target[ID]) (container, int) {
	switch tgt.kind {
	case TargetSlot:
		if tgt.slot < 0 || tgt.slot >= len(b.slots) {
			return containerNone, -1
		}
		return containerSlots, tgt.slot
	case TargetPool:
		return containerPool, -1
	case TargetEntity:
		return b.locate(tgt.id)
	}
	return containerNone, -1
}
