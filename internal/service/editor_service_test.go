package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/internal/upstream"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

type fakeUpstream struct {
	version  *models.WebVersion
	teachers []models.Teacher
	students []models.Student
	media    []models.MediaRecord
	phones   []models.Phone
	socials  []models.Social

	versionErr  error
	teachersErr error
	uploadErr   error
	saveErr     error

	savedVersionID uint64
	savedArr       *composer.Arrangement
	savedHeader    *upstream.FileInput
	uploaded       []string
	activated      []uint64
	nextMediaID    uint64
}

func (f *fakeUpstream) GetVersion(_ context.Context, id uint64) (*models.WebVersion, error) {
	if f.versionErr != nil {
		return nil, f.versionErr
	}
	return f.version, nil
}

func (f *fakeUpstream) ListTeachers(context.Context) ([]models.Teacher, error) {
	if f.teachersErr != nil {
		return nil, f.teachersErr
	}
	return f.teachers, nil
}

func (f *fakeUpstream) ListStudents(context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeUpstream) ListMedia(context.Context) ([]models.MediaRecord, error) {
	return f.media, nil
}

func (f *fakeUpstream) ListPhones(context.Context) ([]models.Phone, error) {
	return f.phones, nil
}

func (f *fakeUpstream) ListSocials(context.Context) ([]models.Social, error) {
	return f.socials, nil
}

func (f *fakeUpstream) UploadMedia(_ context.Context, file upstream.FileInput, isVideo bool) (*models.MediaRecord, error) {
	if f.uploadErr != nil && strings.HasPrefix(file.Filename, "bad") {
		return nil, f.uploadErr
	}
	f.nextMediaID++
	f.uploaded = append(f.uploaded, file.Filename)
	return &models.MediaRecord{ID: f.nextMediaID, Name: file.Filename, IsVideo: models.FlexBool(isVideo), URL: "/uploads/" + file.Filename}, nil
}

func (f *fakeUpstream) SaveVersion(_ context.Context, versionID uint64, arr composer.Arrangement, headerImg *upstream.FileInput) (*models.WebVersion, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.savedVersionID = versionID
	f.savedArr = &arr
	f.savedHeader = headerImg
	id := versionID
	if id == 0 {
		id = 42
	}
	return &models.WebVersion{ID: id}, nil
}

func (f *fakeUpstream) ActivateVersion(_ context.Context, id uint64) error {
	f.activated = append(f.activated, id)
	return nil
}

type fakeAudit struct {
	rows []models.Submission
	err  error
}

func (f *fakeAudit) Create(_ context.Context, sub *models.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *sub)
	return nil
}

func (f *fakeAudit) List(_ context.Context, versionID uint64, limit int) ([]models.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Submission, 0, len(f.rows))
	for _, row := range f.rows {
		if versionID != 0 && row.VersionID != versionID {
			continue
		}
		out = append(out, row)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newEditorFixture(t *testing.T, client *fakeUpstream, audit *fakeAudit) *EditorService {
	t.Helper()
	store := composer.NewStore(time.Hour, time.Hour, 16)
	t.Cleanup(store.Close)
	var recorder submissionRecorder
	if audit != nil {
		recorder = audit
	}
	return NewEditorService(store, client, recorder, nil)
}

func populatedUpstream() *fakeUpstream {
	return &fakeUpstream{
		version: &models.WebVersion{
			ID: 5,
			VersionFields: models.VersionFields{
				HeaderH1Uz: "Salom",
				Email:      "info@example.uz",
			},
			MainPhoneID: 31,
			WebTeachers: []models.WebTeacherLink{{Order: 1, TeacherID: 1}, {Order: 3, TeacherID: 2}},
			WebStudents: []models.WebStudentLink{{Order: 2, StudentID: 11}},
			WebMedia:    []models.WebMediaLink{{Order: 3, Size: "1x2", MediaID: 101}},
			WebPhones:   []models.WebPhoneLink{{PhoneID: 31}, {PhoneID: 32}},
			WebSocials:  []models.WebSocialLink{{SocialID: 71}},
		},
		teachers: []models.Teacher{{ID: 1, Name: "Aziz"}, {ID: 2, Name: "Laylo"}, {ID: 3, Name: "Olim"}},
		students: []models.Student{{ID: 11, Name: "Bekzod"}, {ID: 12, Name: "Dilnoza"}},
		media:    []models.MediaRecord{{ID: 101, URL: "/m/101.jpg"}, {ID: 102, IsVideo: true, URL: "/m/102.mp4"}},
		phones:   []models.Phone{{ID: 31, Phone: "+998901112233"}, {ID: 32, Phone: "+998904445566"}},
		socials:  []models.Social{{ID: 71, Name: "Telegram"}},
	}
}

func TestEditorOpenLoadsBoards(t *testing.T) {
	client := populatedUpstream()
	svc := newEditorFixture(t, client, nil)

	res, err := svc.Open(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Empty(t, res.Warnings)

	sess := res.Session
	assert.Equal(t, uint64(5), sess.VersionID())

	// linked entities land in their slots, the rest in pools
	assert.Equal(t, 0, sess.Teachers().InSlot(1))
	assert.Equal(t, 2, sess.Teachers().InSlot(2))
	require.Len(t, sess.Teachers().Pool(), 1)
	assert.Equal(t, uint64(3), sess.Teachers().Pool()[0].ID)

	assert.Equal(t, 1, sess.Students().InSlot(11))
	assert.Len(t, sess.Students().Pool(), 1)

	assert.Equal(t, 2, sess.Gallery().InSlot(composer.MediaID{Base: 101}))
	require.Len(t, sess.Gallery().Pool(), 1)
	assert.Equal(t, composer.MediaVideo, sess.Gallery().Pool()[0].Kind)

	assert.Equal(t, "Salom", sess.Fields().HeaderH1Uz)
	assert.Equal(t, []uint64{31, 32}, sess.PhoneIDs())
	assert.Equal(t, uint64(31), sess.MainPhoneID())
	assert.Equal(t, []uint64{71}, sess.SocialIDs())
}

func TestEditorOpenRestoresRepeatedMediaPlacements(t *testing.T) {
	client := populatedUpstream()
	client.version.WebMedia = []models.WebMediaLink{
		{Order: 1, Size: "1x1", MediaID: 101},
		{Order: 3, Size: "1x2", MediaID: 101},
	}
	svc := newEditorFixture(t, client, nil)

	res, err := svc.Open(context.Background(), 5)
	require.NoError(t, err)
	g := res.Session.Gallery()

	first := g.Slot(0)
	require.NotNil(t, first)
	assert.Equal(t, composer.MediaID{Base: 101}, first.ID)

	second := g.Slot(2)
	require.NotNil(t, second)
	assert.Equal(t, uint64(101), second.ID.Base)
	assert.True(t, second.ID.IsDuplicate())

	// only the never-placed video stays in the pool
	require.Len(t, g.Pool(), 1)
	assert.Equal(t, uint64(102), g.Pool()[0].ID.Base)

	arr := res.Session.BuildArrangement()
	require.Len(t, arr.Media, 2)
	assert.Equal(t, models.WebMediaLink{Order: 1, Size: "1x1", MediaID: 101}, arr.Media[0])
	assert.Equal(t, models.WebMediaLink{Order: 3, Size: "1x2", MediaID: 101}, arr.Media[1])
}

func TestEditorOpenBlankSession(t *testing.T) {
	client := populatedUpstream()
	client.version = nil
	svc := newEditorFixture(t, client, nil)

	res, err := svc.Open(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, res.Session.VersionID())
	assert.Equal(t, 0, res.Session.Teachers().PlacedCount())
	assert.Len(t, res.Session.Teachers().Pool(), 3)
}

func TestEditorOpenVersionFetchFailureAborts(t *testing.T) {
	client := populatedUpstream()
	client.versionErr = appErrors.Clone(appErrors.ErrNotFound, "no such version")
	svc := newEditorFixture(t, client, nil)

	_, err := svc.Open(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, 0, svc.Sessions())
}

func TestEditorOpenReferenceListDegrades(t *testing.T) {
	client := populatedUpstream()
	client.teachersErr = errors.New("boom")
	svc := newEditorFixture(t, client, nil)

	res, err := svc.Open(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "teachers")
	assert.Empty(t, res.Teachers)
	assert.Equal(t, 0, res.Session.Teachers().PlacedCount())
}

func TestEditorUploadMediaSkipsFailures(t *testing.T) {
	client := populatedUpstream()
	client.uploadErr = errors.New("disk full")
	svc := newEditorFixture(t, client, nil)

	res, err := svc.Open(context.Background(), 0)
	require.NoError(t, err)

	up, err := svc.UploadMedia(context.Background(), res.Session.ID, []upstream.FileInput{
		{Filename: "good.jpg", Content: strings.NewReader("a")},
		{Filename: "bad.jpg", Content: strings.NewReader("b")},
		{Filename: "good2.mp4", Content: strings.NewReader("c")},
	}, []bool{false, false, true})
	require.NoError(t, err)

	assert.Len(t, up.Added, 2)
	assert.Len(t, up.Warnings, 1)
	assert.Contains(t, up.Warnings[0], "bad.jpg")
	assert.Equal(t, []string{"good.jpg", "good2.mp4"}, client.uploaded)
	assert.Equal(t, composer.MediaVideo, up.Added[1].Kind)
}

func TestEditorSubmit(t *testing.T) {
	client := populatedUpstream()
	audit := &fakeAudit{}
	svc := newEditorFixture(t, client, audit)

	res, err := svc.Open(context.Background(), 5)
	require.NoError(t, err)

	out, err := svc.Submit(context.Background(), res.Session.ID, "admin", nil)
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, uint64(5), client.savedVersionID)

	require.NotNil(t, client.savedArr)
	assert.Len(t, client.savedArr.Teachers, 2)
	assert.Equal(t, 3, client.savedArr.Teachers[1].Order)

	// session survives a successful submit
	_, err = svc.Get(res.Session.ID)
	require.NoError(t, err)

	require.Len(t, audit.rows, 1)
	assert.Equal(t, models.SubmissionSucceeded, audit.rows[0].Outcome)
	assert.Equal(t, 2, audit.rows[0].TeacherCount)
	assert.Equal(t, 1, audit.rows[0].MediaCount)
}

func TestEditorSubmitNewVersionAdoptsID(t *testing.T) {
	client := populatedUpstream()
	svc := newEditorFixture(t, client, nil)

	res, err := svc.Open(context.Background(), 0)
	require.NoError(t, err)

	out, err := svc.Submit(context.Background(), res.Session.ID, "admin", nil)
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, uint64(42), out.Version.ID)
	assert.Equal(t, uint64(42), res.Session.VersionID())
}

func TestEditorSubmitFailureKeepsSession(t *testing.T) {
	client := populatedUpstream()
	client.saveErr = appErrors.Clone(appErrors.ErrUpstream, "save rejected")
	audit := &fakeAudit{}
	svc := newEditorFixture(t, client, audit)

	res, err := svc.Open(context.Background(), 5)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), res.Session.ID, "admin", nil)
	require.Error(t, err)

	_, err = svc.Get(res.Session.ID)
	require.NoError(t, err, "arrangement must survive a failed submit")

	require.Len(t, audit.rows, 1)
	assert.Equal(t, models.SubmissionFailed, audit.rows[0].Outcome)
	assert.Equal(t, "save rejected", audit.rows[0].Detail)
}

func TestEditorSubmissions(t *testing.T) {
	client := populatedUpstream()
	audit := &fakeAudit{rows: []models.Submission{
		{VersionID: 5, Operator: "admin", Outcome: models.SubmissionSucceeded},
		{VersionID: 7, Operator: "admin", Outcome: models.SubmissionFailed},
	}}
	svc := newEditorFixture(t, client, audit)

	rows, err := svc.Submissions(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(5), rows[0].VersionID)

	// no audit store wired means an empty trail, not an error
	bare := newEditorFixture(t, client, nil)
	rows, err = bare.Submissions(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEditorActivate(t *testing.T) {
	client := populatedUpstream()
	svc := newEditorFixture(t, client, nil)

	require.NoError(t, svc.Activate(context.Background(), 5))
	assert.Equal(t, []uint64{5}, client.activated)
}
