package dto

import (
	"fmt"
	"strconv"

	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/models"
)

// OpenSessionRequest opens an editor session for a version. VersionID zero
// starts a blank session.
type OpenSessionRequest struct {
	VersionID uint64 `json:"version_id"`
}

// DragStartRequest begins a drag. Width and height size the drag overlay on
// the client and are echoed back in the session state.
type DragStartRequest struct {
	Domain string `json:"domain" binding:"required"`
	ID     string `json:"id" binding:"required"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DragEndRequest finishes a drag against a target. Target is one of "slot",
// "entity", "pool" or "none".
type DragEndRequest struct {
	Target string `json:"target" binding:"required"`
	Slot   int    `json:"slot"`
	Domain string `json:"domain"`
	ID     string `json:"id"`
}

// MediaDuplicateRequest copies a media item into the library.
type MediaDuplicateRequest struct {
	ID string `json:"id" binding:"required"`
}

// MediaRemoveRequest deletes a media item from the session. Confirm must be
// set when the item is an original.
type MediaRemoveRequest struct {
	ID      string `json:"id" binding:"required"`
	Confirm bool   `json:"confirm"`
}

// PhoneSelectRequest toggles a phone selection.
type PhoneSelectRequest struct {
	PhoneID  uint64 `json:"phone_id" binding:"required"`
	Selected *bool  `json:"selected" binding:"required"`
}

// MainPhoneRequest designates the main phone.
type MainPhoneRequest struct {
	PhoneID uint64 `json:"phone_id" binding:"required"`
}

// SocialSelectRequest toggles a social link selection.
type SocialSelectRequest struct {
	SocialID uint64 `json:"social_id" binding:"required"`
	Selected *bool  `json:"selected" binding:"required"`
}

// ExportRequest starts a message export.
type ExportRequest struct {
	Format string `json:"format" binding:"required"`
}

// ParseEntityRef resolves a wire (domain, id) pair into a typed reference.
func ParseEntityRef(domain, id string) (composer.EntityRef, error) {
	d, err := composer.ParseDomain(domain)
	if err != nil {
		return composer.EntityRef{}, err
	}
	if d == composer.DomainMedia {
		mid, err := composer.ParseMediaID(id)
		if err != nil {
			return composer.EntityRef{}, err
		}
		return composer.MediaRef(mid), nil
	}
	numID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return composer.EntityRef{}, fmt.Errorf("invalid %s id %q", domain, id)
	}
	if d == composer.DomainTeachers {
		return composer.TeacherRef(numID), nil
	}
	return composer.StudentRef(numID), nil
}

// DropRef resolves the drop side of a drag-end request.
func (r DragEndRequest) DropRef() (composer.DropRef, error) {
	switch r.Target {
	case "none", "":
		return composer.NoDrop(), nil
	case "slot":
		return composer.SlotDrop(r.Slot), nil
	case "pool":
		return composer.PoolDrop(), nil
	case "entity":
		ref, err := ParseEntityRef(r.Domain, r.ID)
		if err != nil {
			return composer.DropRef{}, err
		}
		return composer.EntityDrop(ref), nil
	default:
		return composer.DropRef{}, fmt.Errorf("unknown drop target %q", r.Target)
	}
}

// MediaView is a gallery item in its wire form.
type MediaView struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	URL       string `json:"url"`
	Duplicate bool   `json:"duplicate"`
}

// GalleryView renders the media board with the size tag of each slot.
type GalleryView struct {
	Slots     []*MediaView `json:"slots"`
	SlotSizes []string     `json:"slot_sizes"`
	Pool      []MediaView  `json:"pool"`
}

// TeacherBoardView renders the featured-teacher board.
type TeacherBoardView struct {
	Slots []*models.Teacher `json:"slots"`
	Pool  []models.Teacher  `json:"pool"`
}

// StudentBoardView renders the featured-student board.
type StudentBoardView struct {
	Slots []*models.Student `json:"slots"`
	Pool  []models.Student  `json:"pool"`
}

// DragView echoes the active drag.
type DragView struct {
	Domain string `json:"domain"`
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SessionState is the full editor state returned after every mutation.
type SessionState struct {
	SessionID   string               `json:"session_id"`
	VersionID   uint64               `json:"version_id"`
	Teachers    TeacherBoardView     `json:"teachers"`
	Students    StudentBoardView     `json:"students"`
	Gallery     GalleryView          `json:"gallery"`
	Fields      models.VersionFields `json:"fields"`
	PhoneIDs    []uint64             `json:"phone_ids"`
	MainPhoneID uint64               `json:"main_phone_id"`
	SocialIDs   []uint64             `json:"social_ids"`
	ActiveDrag  *DragView            `json:"active_drag,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// NewSessionState snapshots a session into its wire form.
func NewSessionState(sess *composer.Session, warnings []string) SessionState {
	snap := sess.Snapshot()
	state := SessionState{
		SessionID:   snap.ID,
		VersionID:   snap.VersionID,
		Teachers:    TeacherBoardView{Slots: snap.Teachers.Slots, Pool: snap.Teachers.Pool},
		Students:    StudentBoardView{Slots: snap.Students.Slots, Pool: snap.Students.Pool},
		Fields:      snap.Fields,
		PhoneIDs:    snap.PhoneIDs,
		MainPhoneID: snap.MainPhoneID,
		SocialIDs:   snap.SocialIDs,
		Warnings:    warnings,
	}

	state.Gallery.Slots = make([]*MediaView, len(snap.Gallery.Slots))
	state.Gallery.SlotSizes = make([]string, len(snap.Gallery.Slots))
	for i, item := range snap.Gallery.Slots {
		state.Gallery.SlotSizes[i] = composer.SlotSize(i)
		if item != nil {
			view := mediaView(*item)
			state.Gallery.Slots[i] = &view
		}
	}
	state.Gallery.Pool = make([]MediaView, 0, len(snap.Gallery.Pool))
	for _, item := range snap.Gallery.Pool {
		state.Gallery.Pool = append(state.Gallery.Pool, mediaView(item))
	}

	if snap.Active != nil {
		state.ActiveDrag = &DragView{
			Domain: snap.Active.Ref.Domain.String(),
			ID:     refID(snap.Active.Ref),
			Width:  snap.Active.Width,
			Height: snap.Active.Height,
		}
	}
	return state
}

// NewMediaView converts a gallery item to its wire form.
func NewMediaView(item composer.MediaItem) MediaView {
	return mediaView(item)
}

func mediaView(item composer.MediaItem) MediaView {
	return MediaView{
		ID:        item.ID.String(),
		Kind:      string(item.Kind),
		URL:       item.URL,
		Duplicate: item.ID.IsDuplicate(),
	}
}

func refID(ref composer.EntityRef) string {
	if ref.Domain == composer.DomainMedia {
		return ref.Media.String()
	}
	return strconv.FormatUint(ref.NumID, 10)
}
