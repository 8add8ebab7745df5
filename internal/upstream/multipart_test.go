package upstream

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/models"
)

func TestFormEncodeBracketedGroups(t *testing.T) {
	f := NewForm().
		Set("email", "info@example.uz").
		SetIndexed("web_teachers", 0, "order", "2").
		SetIndexed("web_teachers", 0, "teacher_id", "10").
		SetIndexed("web_teachers", 1, "order", "4").
		SetIndexed("web_teachers", 1, "teacher_id", "20")
	f.AddFile("header_img", "header.png", strings.NewReader("png-bytes"))

	body, contentType, err := f.Encode()
	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data")

	req, err := http.NewRequest("POST", "http://example/web", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	require.NoError(t, req.ParseMultipartForm(1<<20))
	assert.Equal(t, "info@example.uz", req.FormValue("email"))
	assert.Equal(t, "2", req.FormValue("web_teachers[0][order]"))
	assert.Equal(t, "10", req.FormValue("web_teachers[0][teacher_id]"))
	assert.Equal(t, "4", req.FormValue("web_teachers[1][order]"))
	assert.Equal(t, "20", req.FormValue("web_teachers[1][teacher_id]"))

	file, header, err := req.FormFile("header_img")
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "header.png", header.Filename)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestVersionFormSequentialIndices(t *testing.T) {
	arr := composer.Arrangement{
		Fields: models.VersionFields{HeaderH1Uz: "Salom", TotalStudents: 120},
		MainID: 3,
		Teachers: []models.WebTeacherLink{
			{Order: 2, TeacherID: 10},
			{Order: 6, TeacherID: 30},
		},
		Media: []models.WebMediaLink{
			{Order: 3, Size: "1x2", MediaID: 101},
		},
		Phones:  []models.WebPhoneLink{{PhoneID: 3}, {PhoneID: 4}},
		Socials: []models.WebSocialLink{{SocialID: 9}},
	}

	body, contentType, err := versionForm(arr).Encode()
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "http://example/web", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	// sparse slot layout, dense form indices
	assert.Equal(t, "2", req.FormValue("web_teachers[0][order]"))
	assert.Equal(t, "6", req.FormValue("web_teachers[1][order]"))
	assert.Equal(t, "30", req.FormValue("web_teachers[1][teacher_id]"))
	assert.Empty(t, req.FormValue("web_teachers[2][order]"))

	assert.Equal(t, "1x2", req.FormValue("web_media[0][size]"))
	assert.Equal(t, "101", req.FormValue("web_media[0][media_id]"))
	assert.Equal(t, "3", req.FormValue("web_phones[0][phone_id]"))
	assert.Equal(t, "4", req.FormValue("web_phones[1][phone_id]"))
	assert.Equal(t, "9", req.FormValue("web_socials[0][social_id]"))

	assert.Equal(t, "Salom", req.FormValue("header_h1_uz"))
	assert.Equal(t, "120", req.FormValue("total_students"))
	assert.Equal(t, "3", req.FormValue("main_phone_id"))
	// empty scalars stay out of the form entirely
	_, ok := req.MultipartForm.Value["header_h1_en"]
	assert.False(t, ok)
}

func TestSaveVersionRoutesCreateAndUpdate(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":12}`))
	})

	v, err := c.SaveVersion(context.Background(), 0, composer.Arrangement{}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/web", gotPath)
	assert.Equal(t, uint64(12), v.ID)

	_, err = c.SaveVersion(context.Background(), 12, composer.Arrangement{}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/web/12", gotPath)
}

func TestUploadMediaForm(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "1", r.FormValue("is_video"))
		assert.Equal(t, "clip.mp4", r.FormValue("name"))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "clip.mp4", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":55,"is_video":1,"url":"/uploads/clip.mp4"}`))
	})

	rec, err := c.UploadMedia(context.Background(), FileInput{
		Filename: "clip.mp4",
		Content:  strings.NewReader("mp4-bytes"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(55), rec.ID)
	assert.True(t, bool(rec.IsVideo))
}
