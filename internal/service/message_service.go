package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uzlearn/center-admin-api/internal/models"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
	"github.com/uzlearn/center-admin-api/pkg/export"
	"github.com/uzlearn/center-admin-api/pkg/jobs"
	"github.com/uzlearn/center-admin-api/pkg/storage"
)

// messageUpstream is the slice of the content API the inbox uses.
type messageUpstream interface {
	ListMessages(ctx context.Context) ([]models.Message, error)
	GetMessage(ctx context.Context, id uint64) (*models.Message, error)
	SetMessageChecked(ctx context.Context, id uint64, checked bool) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uint64) error
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportJob tracks one inbox export from enqueue to download.
type ExportJob struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	Status      string    `json:"status"`
	DownloadURL string    `json:"download_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// MessageConfig tunes inbox exports.
type MessageConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// MessageService proxies the visitor inbox and renders CSV/PDF exports of it
// in the background.
type MessageService struct {
	client  messageUpstream
	storage exportFileStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	cfg     MessageConfig

	queue *jobs.Queue

	mu      sync.RWMutex
	exports map[string]*ExportJob
}

// NewMessageService constructs a MessageService. Exports stay disabled when
// storage or signer are nil.
func NewMessageService(client messageUpstream, store exportFileStorage, signer *storage.SignedURLSigner, cfg MessageConfig, queueCfg jobs.QueueConfig, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	s := &MessageService{
		client:  client,
		storage: store,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		cfg:     cfg,
		exports: make(map[string]*ExportJob),
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("message-exports", s.runExport, queueCfg)
	return s
}

// Start launches the export workers.
func (s *MessageService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *MessageService) Stop() {
	s.queue.Stop()
}

// List returns inbox messages, optionally only unchecked ones.
func (s *MessageService) List(ctx context.Context, onlyUnchecked bool) ([]models.Message, error) {
	msgs, err := s.client.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	if !onlyUnchecked {
		return msgs, nil
	}
	filtered := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.Checked.Bool() {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// Get fetches one message.
func (s *MessageService) Get(ctx context.Context, id uint64) (*models.Message, error) {
	return s.client.GetMessage(ctx, id)
}

// SetChecked flips the read flag.
func (s *MessageService) SetChecked(ctx context.Context, id uint64, checked bool) (*models.Message, error) {
	return s.client.SetMessageChecked(ctx, id, checked)
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id uint64) error {
	return s.client.DeleteMessage(ctx, id)
}

// StartExport queues an inbox export and returns its tracking record.
func (s *MessageService) StartExport(format string) (*ExportJob, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.New("EXPORTS_DISABLED", 503, "message exports are not configured")
	}
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	job := &ExportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.exports[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "message-export"}); err != nil {
		s.setExportFailed(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return job, nil
}

// Export returns the tracking record for an export id.
func (s *MessageService) Export(id string) (*ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.exports[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	cp := *job
	return &cp, nil
}

// ResolveDownload validates a signed token and opens the stored file.
func (s *MessageService) ResolveDownload(token string) (*os.File, string, error) {
	if s.signer == nil || s.storage == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "exports are not configured")
	}
	exportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		s.logger.Warn("export file missing", zap.String("export_id", exportID), zap.String("path", relPath))
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

// CleanupExpired removes export files older than the result TTL.
func (s *MessageService) CleanupExpired() {
	if s.storage == nil {
		return
	}
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("removed expired export files", zap.Int("count", len(removed)))
	}
}

func (s *MessageService) runExport(ctx context.Context, job jobs.Job) error {
	s.setExportStatus(job.ID, models.ExportStatusRunning)

	msgs, err := s.client.ListMessages(ctx)
	if err != nil {
		s.setExportFailed(job.ID, err)
		return err
	}

	record, err := s.Export(job.ID)
	if err != nil {
		return err
	}

	dataset := messagesDataset(msgs)
	var payload []byte
	var ext string
	switch record.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		ext = "csv"
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Visitor Messages")
		ext = "pdf"
	default:
		err = fmt.Errorf("unsupported format %s", record.Format)
	}
	if err != nil {
		s.setExportFailed(job.ID, err)
		return err
	}

	filename := fmt.Sprintf("messages-%s-%s.%s", time.Now().UTC().Format("20060102-150405"), job.ID[:8], ext)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.setExportFailed(job.ID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setExportFailed(job.ID, err)
		return err
	}

	url := fmt.Sprintf("%s/messages/exports/download/%s", s.cfg.APIPrefix, token)
	s.mu.Lock()
	if rec, ok := s.exports[job.ID]; ok {
		rec.Status = models.ExportStatusFinished
		rec.DownloadURL = url
		rec.ExpiresAt = expiresAt
	}
	s.mu.Unlock()

	s.logger.Info("message export finished",
		zap.String("export_id", job.ID),
		zap.String("format", record.Format),
		zap.Int("messages", len(msgs)))
	return nil
}

func (s *MessageService) setExportStatus(id, status string) {
	s.mu.Lock()
	if rec, ok := s.exports[id]; ok {
		rec.Status = status
	}
	s.mu.Unlock()
}

func (s *MessageService) setExportFailed(id string, err error) {
	s.mu.Lock()
	if rec, ok := s.exports[id]; ok {
		rec.Status = models.ExportStatusFailed
		rec.Error = appErrors.FromError(err).Message
	}
	s.mu.Unlock()
}

func messagesDataset(msgs []models.Message) export.Dataset {
	rows := make([]map[string]string, 0, len(msgs))
	for _, m := range msgs {
		checked := "no"
		if m.Checked.Bool() {
			checked = "yes"
		}
		created := ""
		if m.CreatedAt != nil {
			created = m.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"ID":       strconv.FormatUint(m.ID, 10),
			"Name":     m.Name,
			"Phone":    m.Phone,
			"Email":    m.Email,
			"Message":  m.Body,
			"Checked":  checked,
			"Received": created,
		})
	}
	return export.Dataset{
		Headers: []string{"ID", "Name", "Phone", "Email", "Message", "Checked", "Received"},
		Rows:    rows,
	}
}
