package upstream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/models"
)

// ListVersions fetches all web versions.
func (c *Client) ListVersions(ctx context.Context) ([]models.WebVersion, error) {
	var out []models.WebVersion
	if err := c.getJSON(ctx, "/web", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVersion fetches one web version with its slot linkages.
func (c *Client) GetVersion(ctx context.Context, id uint64) (*models.WebVersion, error) {
	var out models.WebVersion
	if err := c.getJSON(ctx, fmt.Sprintf("/web/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateVersion makes the version live; the content API deactivates the
// rest.
func (c *Client) ActivateVersion(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/web/active/%d", id), nil, nil)
}

// SaveVersion persists an arrangement: POST for a new version, PATCH for an
// existing one. headerImg is optional and only sent when a replacement image
// was picked during the session.
func (c *Client) SaveVersion(ctx context.Context, versionID uint64, arr composer.Arrangement, headerImg *FileInput) (*models.WebVersion, error) {
	f := versionForm(arr)
	if headerImg != nil {
		f.AddFile("header_img", headerImg.Filename, headerImg.Content)
	}

	method, path := "POST", "/web"
	if versionID != 0 {
		method, path = "PATCH", fmt.Sprintf("/web/%d", versionID)
	}

	var out models.WebVersion
	if err := c.doMultipart(ctx, method, path, f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// versionForm flattens an arrangement into the bracketed multipart layout.
// Output indices are sequential regardless of which slots were occupied;
// the slot position survives in the order value. Empty scalars are omitted.
func versionForm(arr composer.Arrangement) *Form {
	f := NewForm()

	scalars := []struct {
		key string
		val string
	}{
		{"header_h1_uz", arr.Fields.HeaderH1Uz},
		{"header_h1_en", arr.Fields.HeaderH1En},
		{"about_p1_uz", arr.Fields.AboutP1Uz},
		{"about_p1_en", arr.Fields.AboutP1En},
		{"about_p2_uz", arr.Fields.AboutP2Uz},
		{"about_p2_en", arr.Fields.AboutP2En},
		{"gallery_p_uz", arr.Fields.GalleryPUz},
		{"gallery_p_en", arr.Fields.GalleryPEn},
		{"teachers_p_uz", arr.Fields.TeachersPUz},
		{"teachers_p_en", arr.Fields.TeachersPEn},
		{"students_p_uz", arr.Fields.StudentsPUz},
		{"students_p_en", arr.Fields.StudentsPEn},
		{"address_uz", arr.Fields.AddressUz},
		{"address_en", arr.Fields.AddressEn},
		{"orientation_uz", arr.Fields.OrientationUz},
		{"orientation_en", arr.Fields.OrientationEn},
		{"work_time", arr.Fields.WorkTime},
		{"work_time_sunday", arr.Fields.WorkTimeSunday},
		{"email", arr.Fields.Email},
	}
	for _, s := range scalars {
		if s.val != "" {
			f.Set(s.key, s.val)
		}
	}
	if arr.Fields.TotalStudents > 0 {
		f.SetInt("total_students", arr.Fields.TotalStudents)
	}
	if arr.Fields.BestStudents > 0 {
		f.SetInt("best_students", arr.Fields.BestStudents)
	}
	if arr.Fields.TotalTeachers > 0 {
		f.SetInt("total_teachers", arr.Fields.TotalTeachers)
	}
	if arr.MainID != 0 {
		f.Set("main_phone_id", strconv.FormatUint(arr.MainID, 10))
	}

	for i, m := range arr.Media {
		f.SetIndexed("web_media", i, "order", strconv.Itoa(m.Order))
		f.SetIndexed("web_media", i, "size", m.Size)
		f.SetIndexed("web_media", i, "media_id", strconv.FormatUint(m.MediaID, 10))
	}
	for i, p := range arr.Phones {
		f.SetIndexed("web_phones", i, "phone_id", strconv.FormatUint(p.PhoneID, 10))
	}
	for i, s := range arr.Socials {
		f.SetIndexed("web_socials", i, "social_id", strconv.FormatUint(s.SocialID, 10))
	}
	for i, st := range arr.Students {
		f.SetIndexed("web_students", i, "order", strconv.Itoa(st.Order))
		f.SetIndexed("web_students", i, "student_id", strconv.FormatUint(st.StudentID, 10))
	}
	for i, t := range arr.Teachers {
		f.SetIndexed("web_teachers", i, "order", strconv.Itoa(t.Order))
		f.SetIndexed("web_teachers", i, "teacher_id", strconv.FormatUint(t.TeacherID, 10))
	}
	return f
}
