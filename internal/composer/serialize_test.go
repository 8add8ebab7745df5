package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/models"
)

func TestBuildArrangementOrdersFollowSlots(t *testing.T) {
	s := NewSession("sess-1", 0)
	s.Teachers().Fill(1, models.Teacher{ID: 10})
	s.Teachers().Fill(3, models.Teacher{ID: 20})
	s.Teachers().Fill(5, models.Teacher{ID: 30})
	s.Teachers().AddToPool(models.Teacher{ID: 40})

	arr := s.BuildArrangement()

	require.Len(t, arr.Teachers, 3)
	assert.Equal(t, models.WebTeacherLink{Order: 2, TeacherID: 10}, arr.Teachers[0])
	assert.Equal(t, models.WebTeacherLink{Order: 4, TeacherID: 20}, arr.Teachers[1])
	assert.Equal(t, models.WebTeacherLink{Order: 6, TeacherID: 30}, arr.Teachers[2])
}

func TestBuildArrangementMediaSizesAndDuplicates(t *testing.T) {
	s := NewSession("sess-1", 0)
	g := s.Gallery()
	g.AddToPool(MediaItem{ID: MediaID{Base: 101}})
	dup, err := g.Duplicate(MediaID{Base: 101})
	require.NoError(t, err)

	require.True(t, g.Apply(MediaID{Base: 101}, target[MediaID]{kind: TargetSlot, slot: 0}))
	require.True(t, g.Apply(dup.ID, target[MediaID]{kind: TargetSlot, slot: 2}))

	arr := s.BuildArrangement()

	require.Len(t, arr.Media, 2)
	assert.Equal(t, models.WebMediaLink{Order: 1, Size: "1x1", MediaID: 101}, arr.Media[0])
	// the duplicate serializes to the same backend id with the big-slot size
	assert.Equal(t, models.WebMediaLink{Order: 3, Size: "1x2", MediaID: 101}, arr.Media[1])
}

func TestBuildArrangementSelections(t *testing.T) {
	s := NewSession("sess-1", 0)
	s.SelectPhone(2, true)
	s.SelectPhone(1, true)
	require.NoError(t, s.SetMainPhone(1))
	s.SelectSocial(5, true)
	s.SetFields(models.VersionFields{Email: "info@example.uz"})

	arr := s.BuildArrangement()

	assert.Equal(t, []models.WebPhoneLink{{PhoneID: 1}, {PhoneID: 2}}, arr.Phones)
	assert.Equal(t, []models.WebSocialLink{{SocialID: 5}}, arr.Socials)
	assert.Equal(t, uint64(1), arr.MainID)
	assert.Equal(t, "info@example.uz", arr.Fields.Email)
}

// End-to-end: arrange a board through drag operations only, then check the
// serialized orders match the final slot layout.
func TestArrangementAfterDragSequence(t *testing.T) {
	s := NewSession("sess-1", 0)
	s.Teachers().Fill(0, models.Teacher{ID: 1})
	s.Teachers().Fill(2, models.Teacher{ID: 2})
	s.Teachers().AddToPool(models.Teacher{ID: 3})
	s.Teachers().AddToPool(models.Teacher{ID: 4})

	// pool -> empty slot
	require.True(t, s.DragStart(TeacherRef(3), 0, 0))
	require.True(t, s.DragEnd(SlotDrop(1)))

	// pool -> occupied slot must not land
	require.True(t, s.DragStart(TeacherRef(4), 0, 0))
	require.False(t, s.DragEnd(EntityDrop(TeacherRef(1))))

	// swap the outer two
	require.True(t, s.DragStart(TeacherRef(1), 0, 0))
	require.True(t, s.DragEnd(EntityDrop(TeacherRef(2))))

	arr := s.BuildArrangement()
	require.Len(t, arr.Teachers, 3)
	assert.Equal(t, models.WebTeacherLink{Order: 1, TeacherID: 2}, arr.Teachers[0])
	assert.Equal(t, models.WebTeacherLink{Order: 2, TeacherID: 3}, arr.Teachers[1])
	assert.Equal(t, models.WebTeacherLink{Order: 3, TeacherID: 1}, arr.Teachers[2])
	assert.Empty(t, arr.Students)
	assert.Len(t, s.Teachers().Pool(), 1)
}
