package composer

import (
	"github.com/uzlearn/center-admin-api/internal/models"
)

// Arrangement is the persistable projection of a session: ordered slot
// linkages plus the contact selections. Duplicates collapse to their base
// media id here, so a version may carry the same media id more than once.
type Arrangement struct {
	Fields   models.VersionFields
	Teachers []models.WebTeacherLink
	Students []models.WebStudentLink
	Media    []models.WebMediaLink
	Phones   []models.WebPhoneLink
	Socials  []models.WebSocialLink
	MainID   uint64
}

// BuildArrangement walks the boards in slot order and emits linkage records
// with 1-based order numbers. Empty slots are skipped, so orders are not
// contiguous; they still reflect slot positions.
func (s *Session) BuildArrangement() Arrangement {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr := Arrangement{
		Fields: s.fields,
		MainID: s.mainPhoneID,
	}

	s.teachers.ForEachPlaced(func(order int, t models.Teacher) {
		arr.Teachers = append(arr.Teachers, models.WebTeacherLink{Order: order, TeacherID: t.ID})
	})
	s.students.ForEachPlaced(func(order int, st models.Student) {
		arr.Students = append(arr.Students, models.WebStudentLink{Order: order, StudentID: st.ID})
	})
	s.gallery.ForEachPlaced(func(order int, m MediaItem) {
		arr.Media = append(arr.Media, models.WebMediaLink{
			Order:   order,
			Size:    SlotSize(order - 1),
			MediaID: m.ID.Base,
		})
	})

	for _, id := range sortedIDs(s.phoneIDs) {
		arr.Phones = append(arr.Phones, models.WebPhoneLink{PhoneID: id})
	}
	for _, id := range sortedIDs(s.socialIDs) {
		arr.Socials = append(arr.Socials, models.WebSocialLink{SocialID: id})
	}
	return arr
}
