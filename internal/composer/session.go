package composer

import (
	"sort"
	"sync"
	"time"

	"github.com/uzlearn/center-admin-api/internal/models"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// FeaturedSlotCount is the fixed size of the teacher and student showcases.
const FeaturedSlotCount = 6

// ActiveDrag is the single piece of drag state a session carries between
// drag-start and drag-end. Width/height only size the visual overlay.
type ActiveDrag struct {
	Ref    EntityRef
	Width  int
	Height int
}

// Session holds one operator's in-flight arrangement of a web version.
// Nothing here is persisted; the arrangement lives only until submit or
// expiry. The mutex serialises HTTP handlers racing on one session; the
// drag model itself stays single-threaded.
type Session struct {
	ID string

	mu sync.Mutex

	versionID uint64 // zero when composing a brand-new version

	teachers *Board[uint64, models.Teacher]
	students *Board[uint64, models.Student]
	gallery  *GalleryBoard

	fields      models.VersionFields
	phoneIDs    map[uint64]struct{}
	mainPhoneID uint64
	socialIDs   map[uint64]struct{}

	active *ActiveDrag

	createdAt   time.Time
	lastTouched time.Time
}

// NewSession builds an empty session shell; boards are populated by the
// loader from reference data and version linkage records.
func NewSession(id string, versionID uint64) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		versionID: versionID,
		teachers:  NewBoard(FeaturedSlotCount, func(t models.Teacher) uint64 { return t.ID }),
		students:  NewBoard(FeaturedSlotCount, func(s models.Student) uint64 { return s.ID }),
		gallery:   NewGalleryBoard(),
		phoneIDs:  make(map[uint64]struct{}),
		socialIDs: make(map[uint64]struct{}),

		createdAt:   now,
		lastTouched: now,
	}
}

// VersionID returns the version this session edits, zero for a new one.
func (s *Session) VersionID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionID
}

// AdoptVersion binds a freshly created version to the session so later
// submits update it instead of creating another one.
func (s *Session) AdoptVersion(id uint64) {
	s.mu.Lock()
	s.versionID = id
	s.mu.Unlock()
}

// Teachers exposes the teacher board for loading and snapshotting.
func (s *Session) Teachers() *Board[uint64, models.Teacher] { return s.teachers }

// Students exposes the student board.
func (s *Session) Students() *Board[uint64, models.Student] { return s.students }

// Gallery exposes the media board.
func (s *Session) Gallery() *GalleryBoard { return s.gallery }

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastTouched = time.Now()
	s.mu.Unlock()
}

// IdleSince returns the last time the session was used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouched
}

// DragStart opens a drag for the referenced entity. The reference arrives
// domain-tagged, so no cross-domain search is needed; a reference that does
// not resolve inside its own domain leaves the session idle.
func (s *Session) DragStart(ref EntityRef, width, height int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()

	if !s.resolvable(ref) {
		s.active = nil
		return false
	}
	s.active = &ActiveDrag{Ref: ref, Width: width, Height: height}
	return true
}

// DragEnd closes the active drag against a drop target and runs exactly one
// domain's transition table. It reports whether any arrangement changed.
// Drops targeting another domain's containers are unresolved by definition.
func (s *Session) DragEnd(drop DropRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()

	active := s.active
	s.active = nil
	if active == nil {
		return false
	}

	if drop.Kind == TargetEntity && drop.Entity.Domain != active.Ref.Domain {
		return false
	}

	switch active.Ref.Domain {
	case DomainTeachers:
		return s.teachers.Apply(active.Ref.NumID, numTarget(drop))
	case DomainStudents:
		return s.students.Apply(active.Ref.NumID, numTarget(drop))
	case DomainMedia:
		return s.gallery.Apply(active.Ref.Media, mediaTarget(drop))
	}
	return false
}

// DragCancel reverts to idle without mutating any container.
func (s *Session) DragCancel() {
	s.mu.Lock()
	s.active = nil
	s.lastTouched = time.Now()
	s.mu.Unlock()
}

// ActiveDrag returns a copy of the in-flight drag state, if any.
func (s *Session) ActiveDrag() *ActiveDrag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	cp := *s.active
	return &cp
}

// DuplicateMedia copies a media item into the library.
func (s *Session) DuplicateMedia(id MediaID) (MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()
	return s.gallery.Duplicate(id)
}

// RemoveMedia deletes a media item, requiring confirmation for originals.
func (s *Session) RemoveMedia(id MediaID, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()
	return s.gallery.RemoveMedia(id, confirmed)
}

// AddLibraryMedia appends freshly uploaded assets to the library.
func (s *Session) AddLibraryMedia(items ...MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()
	for _, item := range items {
		s.gallery.AddToPool(item)
	}
}

// SelectPhone toggles a phone in the selected set. Deselecting the main
// phone also clears the main designation.
func (s *Session) SelectPhone(id uint64, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()
	if selected {
		s.phoneIDs[id] = struct{}{}
		return
	}
	delete(s.phoneIDs, id)
	if s.mainPhoneID == id {
		s.mainPhoneID = 0
	}
}

// SetMainPhone designates the main contact phone; it must already be among
// the selected phones.
func (s *Session) SetMainPhone(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()
	if _, ok := s.phoneIDs[id]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "main phone must be a selected phone")
	}
	s.mainPhoneID = id
	return nil
}

// SelectSocial toggles a social link in the selected set.
func (s *Session) SelectSocial(id uint64, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()
	if selected {
		s.socialIDs[id] = struct{}{}
	} else {
		delete(s.socialIDs, id)
	}
}

// SetFields replaces the scalar site copy.
func (s *Session) SetFields(fields models.VersionFields) {
	s.mu.Lock()
	s.fields = fields
	s.lastTouched = time.Now()
	s.mu.Unlock()
}

// Fields returns the current scalar site copy.
func (s *Session) Fields() models.VersionFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// MainPhoneID returns the designated main phone, zero when unset.
func (s *Session) MainPhoneID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mainPhoneID
}

// PhoneIDs returns the selected phone ids in ascending order.
func (s *Session) PhoneIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedIDs(s.phoneIDs)
}

// SocialIDs returns the selected social ids in ascending order.
func (s *Session) SocialIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedIDs(s.socialIDs)
}

// BoardSnapshot is a point-in-time copy of one board's slots and pool.
type BoardSnapshot[T any] struct {
	Slots []*T
	Pool  []T
}

// Snapshot is a consistent copy of the whole session state.
type Snapshot struct {
	ID          string
	VersionID   uint64
	Teachers    BoardSnapshot[models.Teacher]
	Students    BoardSnapshot[models.Student]
	Gallery     BoardSnapshot[MediaItem]
	Fields      models.VersionFields
	PhoneIDs    []uint64
	MainPhoneID uint64
	SocialIDs   []uint64
	Active      *ActiveDrag
}

func snapshotBoard[ID comparable, T any](b *Board[ID, T]) BoardSnapshot[T] {
	snap := BoardSnapshot[T]{Slots: make([]*T, b.SlotCount())}
	for i := 0; i < b.SlotCount(); i++ {
		if item := b.Slot(i); item != nil {
			cp := *item
			snap.Slots[i] = &cp
		}
	}
	snap.Pool = b.Pool()
	return snap
}

// Snapshot copies the session state under a single lock acquisition so
// concurrent mutations cannot tear the view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.ID,
		VersionID:   s.versionID,
		Teachers:    snapshotBoard(s.teachers),
		Students:    snapshotBoard(s.students),
		Gallery:     snapshotBoard(s.gallery.Board),
		Fields:      s.fields,
		PhoneIDs:    sortedIDs(s.phoneIDs),
		MainPhoneID: s.mainPhoneID,
		SocialIDs:   sortedIDs(s.socialIDs),
	}
	if s.active != nil {
		cp := *s.active
		snap.Active = &cp
	}
	return snap
}

func (s *Session) resolvable(ref EntityRef) bool {
	switch ref.Domain {
	case DomainTeachers:
		return s.teachers.Contains(ref.NumID)
	case DomainStudents:
		return s.students.Contains(ref.NumID)
	case DomainMedia:
		return s.gallery.Contains(ref.Media)
	}
	return false
}

func numTarget(drop DropRef) target[uint64] {
	return target[uint64]{kind: drop.Kind, slot: drop.Slot, id: drop.Entity.NumID}
}

func mediaTarget(drop DropRef) target[MediaID] {
	return target[MediaID]{kind: drop.Kind, slot: drop.Slot, id: drop.Entity.Media}
}

func sortedIDs(set map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
