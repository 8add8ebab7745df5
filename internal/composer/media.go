package composer

import (
	"time"

	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// MediaKind distinguishes gallery asset types.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is a gallery asset inside an editor session.
type MediaItem struct {
	ID   MediaID
	Kind MediaKind
	URL  string
}

// GallerySlotCount is the fixed gallery size; slots render in repeating
// triples where every third slot is big.
const GallerySlotCount = 15

// SlotSize returns the serialized size tag for a 0-based gallery slot index.
func SlotSize(index int) string {
	if (index+1)%3 == 0 {
		return "1x2"
	}
	return "1x1"
}

// GalleryBoard layers media-specific behaviour (duplicate, guarded remove)
// on top of the shared reconciler. The pool doubles as the media library.
type GalleryBoard struct {
	*Board[MediaID, MediaItem]

	now       func() int64
	lastStamp int64
}

// NewGalleryBoard builds an empty 15-slot gallery.
func NewGalleryBoard() *GalleryBoard {
	return &GalleryBoard{
		Board: NewBoard(GallerySlotCount, func(m MediaItem) MediaID { return m.ID }),
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// Duplicate creates a distinct copy of the item and appends it to the
// library, never directly into a slot. The copy keeps the base backend id,
// so the same asset can occupy several gallery positions at once.
func (g *GalleryBoard) Duplicate(id MediaID) (MediaItem, error) {
	item, ok := g.Find(id)
	if !ok {
		return MediaItem{}, appErrors.Clone(appErrors.ErrNotFound, "media item not found in session")
	}

	dup := g.DuplicateOf(item)
	g.AddToPool(dup)
	return dup, nil
}

// DuplicateOf returns a copy of the item under a fresh session-local
// duplicate id. The caller decides where the copy goes.
func (g *GalleryBoard) DuplicateOf(item MediaItem) MediaItem {
	dup := item
	dup.ID = MediaID{Base: item.ID.Base, Dup: g.stamp()}
	return dup
}

// RemoveMedia deletes the item from wherever it is held. Duplicates are
// throwaway and go immediately; removing an original is irreversible, so it
// must arrive with confirmed set or nothing changes.
func (g *GalleryBoard) RemoveMedia(id MediaID, confirmed bool) error {
	if !id.IsDuplicate() && !confirmed {
		return appErrors.ErrConfirmationRequired
	}
	if !g.Remove(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "media item not found in session")
	}
	return nil
}

// stamp returns a strictly increasing duplicate stamp even when two
// duplications land on the same clock tick.
func (g *GalleryBoard) stamp() int64 {
	s := g.now()
	if s <= g.lastStamp {
		s = g.lastStamp + 1
	}
	g.lastStamp = s
	return s
}
