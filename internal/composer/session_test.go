package composer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/models"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("sess-1", 5)
	s.Teachers().Fill(0, models.Teacher{ID: 1, Name: "Aziz"})
	s.Teachers().AddToPool(models.Teacher{ID: 2, Name: "Laylo"})
	s.Students().AddToPool(models.Student{ID: 11, Name: "Bekzod"})
	s.Gallery().AddToPool(MediaItem{ID: MediaID{Base: 101}, Kind: MediaImage})
	s.Gallery().AddToPool(MediaItem{ID: MediaID{Base: 102}, Kind: MediaVideo})
	return s
}

func TestSessionDragMoveToEmptySlot(t *testing.T) {
	s := newTestSession(t)

	require.True(t, s.DragStart(TeacherRef(2), 120, 80))
	require.NotNil(t, s.ActiveDrag())

	assert.True(t, s.DragEnd(SlotDrop(3)))
	assert.Nil(t, s.ActiveDrag())
	assert.Equal(t, 3, s.Teachers().InSlot(2))
	assert.Empty(t, s.Teachers().Pool())
}

func TestSessionDragSwap(t *testing.T) {
	s := newTestSession(t)
	s.Teachers().Fill(2, models.Teacher{ID: 3, Name: "Olim"})

	require.True(t, s.DragStart(TeacherRef(1), 0, 0))
	assert.True(t, s.DragEnd(EntityDrop(TeacherRef(3))))
	assert.Equal(t, 2, s.Teachers().InSlot(1))
	assert.Equal(t, 0, s.Teachers().InSlot(3))
}

func TestSessionDragReleaseToPool(t *testing.T) {
	s := newTestSession(t)

	require.True(t, s.DragStart(TeacherRef(1), 0, 0))
	assert.True(t, s.DragEnd(PoolDrop()))
	assert.Equal(t, -1, s.Teachers().InSlot(1))
	assert.Len(t, s.Teachers().Pool(), 2)
}

func TestSessionDragCancelDoesNotMutate(t *testing.T) {
	s := newTestSession(t)

	require.True(t, s.DragStart(TeacherRef(1), 0, 0))
	s.DragCancel()

	assert.Nil(t, s.ActiveDrag())
	assert.Equal(t, 0, s.Teachers().InSlot(1))
	assert.False(t, s.DragEnd(SlotDrop(1)), "drag-end without an active drag is a no-op")
}

func TestSessionDragUnresolvedDrop(t *testing.T) {
	s := newTestSession(t)

	require.True(t, s.DragStart(TeacherRef(1), 0, 0))
	assert.False(t, s.DragEnd(NoDrop()))
	assert.Nil(t, s.ActiveDrag())
	assert.Equal(t, 0, s.Teachers().InSlot(1))
}

func TestSessionCrossDomainDropIsNoOp(t *testing.T) {
	s := newTestSession(t)
	s.Students().Fill(0, models.Student{ID: 12, Name: "Dilnoza"})

	require.True(t, s.DragStart(TeacherRef(2), 0, 0))
	assert.False(t, s.DragEnd(EntityDrop(StudentRef(12))))

	assert.Len(t, s.Teachers().Pool(), 1)
	assert.Equal(t, 0, s.Students().InSlot(12))
}

func TestSessionDragStartUnknownEntity(t *testing.T) {
	s := newTestSession(t)

	assert.False(t, s.DragStart(TeacherRef(99), 0, 0))
	assert.Nil(t, s.ActiveDrag())
}

func TestSessionMediaDrag(t *testing.T) {
	s := newTestSession(t)
	id := MediaID{Base: 101}

	require.True(t, s.DragStart(MediaRef(id), 0, 0))
	assert.True(t, s.DragEnd(SlotDrop(2)))
	assert.Equal(t, 2, s.Gallery().InSlot(id))
}

func TestSessionDuplicateAndRemoveMedia(t *testing.T) {
	s := newTestSession(t)

	dup, err := s.DuplicateMedia(MediaID{Base: 101})
	require.NoError(t, err)
	assert.True(t, dup.ID.IsDuplicate())

	err = s.RemoveMedia(MediaID{Base: 101}, false)
	assert.Equal(t, appErrors.ErrConfirmationRequired.Code, appErrors.FromError(err).Code)

	require.NoError(t, s.RemoveMedia(dup.ID, false))
	require.NoError(t, s.RemoveMedia(MediaID{Base: 101}, true))
	assert.False(t, s.Gallery().Contains(MediaID{Base: 101}))
}

func TestSessionPhoneSelection(t *testing.T) {
	s := newTestSession(t)

	err := s.SetMainPhone(10)
	require.Error(t, err, "main phone must already be selected")

	s.SelectPhone(10, true)
	s.SelectPhone(20, true)
	require.NoError(t, s.SetMainPhone(10))
	assert.Equal(t, uint64(10), s.MainPhoneID())

	// deselecting the main phone clears the designation
	s.SelectPhone(10, false)
	assert.Zero(t, s.MainPhoneID())
	assert.Equal(t, []uint64{20}, s.PhoneIDs())
}

func TestSessionSocialSelection(t *testing.T) {
	s := newTestSession(t)

	s.SelectSocial(3, true)
	s.SelectSocial(1, true)
	s.SelectSocial(3, false)
	assert.Equal(t, []uint64{1}, s.SocialIDs())
}

func TestSessionFields(t *testing.T) {
	s := newTestSession(t)

	s.SetFields(models.VersionFields{HeaderH1Uz: "Salom", HeaderH1En: "Hello"})
	assert.Equal(t, "Salom", s.Fields().HeaderH1Uz)
}

func TestSessionSnapshotIsConsistentCopy(t *testing.T) {
	s := newTestSession(t)
	s.SelectPhone(31, true)
	s.DragStart(TeacherRef(2), 100, 50)

	snap := s.Snapshot()
	require.NotNil(t, snap.Teachers.Slots[0])
	assert.Equal(t, uint64(1), snap.Teachers.Slots[0].ID)
	assert.Len(t, snap.Teachers.Pool, 1)
	assert.Equal(t, []uint64{31}, snap.PhoneIDs)
	require.NotNil(t, snap.Active)
	assert.Equal(t, TeacherRef(2), snap.Active.Ref)

	// later mutations do not show through the snapshot
	s.DragEnd(SlotDrop(1))
	s.SelectPhone(31, false)
	assert.Nil(t, snap.Teachers.Slots[1])
	assert.Equal(t, []uint64{31}, snap.PhoneIDs)
	snap.Teachers.Slots[0].Name = "changed"
	assert.Equal(t, "Aziz", s.Teachers().Slot(0).Name)
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(time.Hour, time.Hour, 2)
	defer store.Close()

	a, err := store.Create(1)
	require.NoError(t, err)
	_, err = store.Create(2)
	require.NoError(t, err)

	_, err = store.Create(3)
	assert.Equal(t, appErrors.ErrSessionLimit.Code, appErrors.FromError(err).Code)

	got, err := store.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	store.Delete(a.ID)
	_, err = store.Get(a.ID)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, store.Len())
}

func TestSessionAdoptVersionConcurrentWithSnapshot(t *testing.T) {
	s := NewSession("sess-1", 0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 200; i++ {
			s.AdoptVersion(uint64(i))
		}
	}()
	for i := 0; i < 200; i++ {
		_ = s.Snapshot()
	}
	<-done

	assert.Equal(t, uint64(200), s.VersionID())
	assert.Equal(t, uint64(200), s.Snapshot().VersionID)
}
