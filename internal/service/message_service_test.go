package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/models"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
	"github.com/uzlearn/center-admin-api/pkg/jobs"
	"github.com/uzlearn/center-admin-api/pkg/storage"
)

type fakeInbox struct {
	messages []models.Message
	listErr  error
	deleted  []uint64
}

func (f *fakeInbox) ListMessages(context.Context) ([]models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func (f *fakeInbox) GetMessage(_ context.Context, id uint64) (*models.Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
}

func (f *fakeInbox) SetMessageChecked(_ context.Context, id uint64, checked bool) (*models.Message, error) {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages[i].Checked = models.FlexBool(checked)
			return &f.messages[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
}

func (f *fakeInbox) DeleteMessage(_ context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func sampleInbox() *fakeInbox {
	now := time.Now().UTC()
	return &fakeInbox{messages: []models.Message{
		{ID: 1, Name: "Jasur", Phone: "+998900000001", Body: "Kurslar haqida", Checked: true, CreatedAt: &now},
		{ID: 2, Name: "Malika", Phone: "+998900000002", Body: "Narxlar?", CreatedAt: &now},
	}}
}

func newMessageFixture(t *testing.T, inbox *fakeInbox) *MessageService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	svc := NewMessageService(inbox, store, signer, MessageConfig{APIPrefix: "/api/v1"}, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 1,
		RetryDelay: 10 * time.Millisecond,
	}, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func waitForExport(t *testing.T, svc *MessageService, id string) *ExportJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Export(id)
		require.NoError(t, err)
		if job.Status == models.ExportStatusFinished || job.Status == models.ExportStatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("export did not settle in time")
	return nil
}

func TestMessageListFilter(t *testing.T) {
	svc := newMessageFixture(t, sampleInbox())

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unchecked, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, unchecked, 1)
	assert.Equal(t, uint64(2), unchecked[0].ID)
}

func TestMessageSetCheckedAndDelete(t *testing.T) {
	inbox := sampleInbox()
	svc := newMessageFixture(t, inbox)

	m, err := svc.SetChecked(context.Background(), 2, true)
	require.NoError(t, err)
	assert.True(t, m.Checked.Bool())

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []uint64{1}, inbox.deleted)
}

func TestMessageExportCSVLifecycle(t *testing.T) {
	svc := newMessageFixture(t, sampleInbox())

	job, err := svc.StartExport(models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)

	done := waitForExport(t, svc, job.ID)
	require.Equal(t, models.ExportStatusFinished, done.Status)
	assert.Contains(t, done.DownloadURL, "/api/v1/messages/exports/download/")
	assert.False(t, done.ExpiresAt.IsZero())

	token := done.DownloadURL[strings.LastIndex(done.DownloadURL, "/")+1:]
	file, _, err := svc.ResolveDownload(token)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Jasur")
	assert.Contains(t, string(content), "Narxlar?")
}

func TestMessageExportPDF(t *testing.T) {
	svc := newMessageFixture(t, sampleInbox())

	job, err := svc.StartExport(models.ExportFormatPDF)
	require.NoError(t, err)

	done := waitForExport(t, svc, job.ID)
	require.Equal(t, models.ExportStatusFinished, done.Status)
}

func TestMessageExportRejectsUnknownFormat(t *testing.T) {
	svc := newMessageFixture(t, sampleInbox())

	_, err := svc.StartExport("xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMessageExportFailure(t *testing.T) {
	inbox := sampleInbox()
	inbox.listErr = errors.New("upstream down")
	svc := newMessageFixture(t, inbox)

	job, err := svc.StartExport(models.ExportFormatCSV)
	require.NoError(t, err)

	done := waitForExport(t, svc, job.ID)
	assert.Equal(t, models.ExportStatusFailed, done.Status)
	assert.NotEmpty(t, done.Error)
}

func TestMessageExportsDisabledWithoutStorage(t *testing.T) {
	svc := NewMessageService(sampleInbox(), nil, nil, MessageConfig{}, jobs.QueueConfig{}, nil)

	_, err := svc.StartExport(models.ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, "EXPORTS_DISABLED", appErrors.FromError(err).Code)
}

func TestResolveDownloadRejectsTamperedToken(t *testing.T) {
	svc := newMessageFixture(t, sampleInbox())

	_, _, err := svc.ResolveDownload("not-a-real-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
