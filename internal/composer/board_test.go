package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardEntity struct {
	ID   uint64
	Name string
}

func newTestBoard(slots int) *Board[uint64, boardEntity] {
	return NewBoard(slots, func(e boardEntity) uint64 { return e.ID })
}

func TestBoardFillAndPool(t *testing.T) {
	b := newTestBoard(3)
	require.True(t, b.Fill(0, boardEntity{ID: 1, Name: "a"}))
	b.AddToPool(boardEntity{ID: 2, Name: "b"})

	assert.Equal(t, 3, b.SlotCount())
	require.NotNil(t, b.Slot(0))
	assert.Equal(t, uint64(1), b.Slot(0).ID)
	assert.Nil(t, b.Slot(1))
	assert.Len(t, b.Pool(), 1)

	// a second fill into the same slot is ignored
	assert.False(t, b.Fill(0, boardEntity{ID: 9}))
	assert.False(t, b.Fill(5, boardEntity{ID: 9}))
	assert.Equal(t, uint64(1), b.Slot(0).ID)
}

func TestBoardEntityLivesInExactlyOneContainer(t *testing.T) {
	b := newTestBoard(3)
	b.AddToPool(boardEntity{ID: 1})

	require.True(t, b.Apply(1, target[uint64]{kind: TargetSlot, slot: 0}))

	assert.Equal(t, 0, b.InSlot(1))
	assert.Empty(t, b.Pool())

	require.True(t, b.Apply(1, target[uint64]{kind: TargetPool}))
	assert.Equal(t, -1, b.InSlot(1))
	assert.Len(t, b.Pool(), 1)
}

func TestBoardSwapOccupiedSlots(t *testing.T) {
	b := newTestBoard(3)
	b.Fill(0, boardEntity{ID: 1})
	b.Fill(2, boardEntity{ID: 2})

	require.True(t, b.Apply(1, target[uint64]{kind: TargetEntity, id: 2}))
	assert.Equal(t, 2, b.InSlot(1))
	assert.Equal(t, 0, b.InSlot(2))

	// swapping back restores the original arrangement
	require.True(t, b.Apply(1, target[uint64]{kind: TargetEntity, id: 2}))
	assert.Equal(t, 0, b.InSlot(1))
	assert.Equal(t, 2, b.InSlot(2))
}

func TestBoardSlotToEmptySlotMove(t *testing.T) {
	b := newTestBoard(3)
	b.Fill(0, boardEntity{ID: 1})

	require.True(t, b.Apply(1, target[uint64]{kind: TargetSlot, slot: 2}))
	assert.Nil(t, b.Slot(0))
	assert.Equal(t, 2, b.InSlot(1))
}

func TestBoardPoolEntityNeverOverwritesSlot(t *testing.T) {
	b := newTestBoard(3)
	b.Fill(1, boardEntity{ID: 1})
	b.AddToPool(boardEntity{ID: 2})

	assert.False(t, b.Apply(2, target[uint64]{kind: TargetSlot, slot: 1}))
	assert.False(t, b.Apply(2, target[uint64]{kind: TargetEntity, id: 1}))

	assert.Equal(t, 1, b.InSlot(1))
	assert.Len(t, b.Pool(), 1)
}

func TestBoardUnresolvedDropIsNoOp(t *testing.T) {
	b := newTestBoard(2)
	b.Fill(0, boardEntity{ID: 1})

	assert.False(t, b.Apply(1, target[uint64]{kind: TargetNone}))
	assert.False(t, b.Apply(1, target[uint64]{kind: TargetSlot, slot: 7}))
	assert.False(t, b.Apply(1, target[uint64]{kind: TargetEntity, id: 99}))
	assert.False(t, b.Apply(99, target[uint64]{kind: TargetSlot, slot: 1}))

	assert.Equal(t, 0, b.InSlot(1))
	assert.Equal(t, 1, b.PlacedCount())
}

func TestBoardDropOnSelfIsNoOp(t *testing.T) {
	b := newTestBoard(2)
	b.Fill(0, boardEntity{ID: 1})

	assert.False(t, b.Apply(1, target[uint64]{kind: TargetSlot, slot: 0}))
	assert.False(t, b.Apply(1, target[uint64]{kind: TargetEntity, id: 1}))
	assert.Equal(t, 0, b.InSlot(1))
}

func TestBoardPoolReleaseFromPoolIsNoOp(t *testing.T) {
	b := newTestBoard(2)
	b.AddToPool(boardEntity{ID: 1})

	assert.False(t, b.Apply(1, target[uint64]{kind: TargetPool}))
	assert.Len(t, b.Pool(), 1)
}

func TestBoardForEachPlacedSkipsGaps(t *testing.T) {
	b := newTestBoard(6)
	b.Fill(1, boardEntity{ID: 10})
	b.Fill(3, boardEntity{ID: 20})
	b.Fill(5, boardEntity{ID: 30})

	var orders []int
	var ids []uint64
	b.ForEachPlaced(func(order int, e boardEntity) {
		orders = append(orders, order)
		ids = append(ids, e.ID)
	})

	assert.Equal(t, []int{2, 4, 6}, orders)
	assert.Equal(t, []uint64{10, 20, 30}, ids)
}

func TestBoardRemove(t *testing.T) {
	b := newTestBoard(2)
	b.Fill(0, boardEntity{ID: 1})
	b.AddToPool(boardEntity{ID: 2})

	assert.True(t, b.Remove(1))
	assert.True(t, b.Remove(2))
	assert.False(t, b.Remove(3))
	assert.Equal(t, 0, b.PlacedCount())
	assert.Empty(t, b.Pool())
}
