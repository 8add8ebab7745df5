package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/internal/upstream"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// editorUpstream is the slice of the content API the editor needs.
type editorUpstream interface {
	GetVersion(ctx context.Context, id uint64) (*models.WebVersion, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListMedia(ctx context.Context) ([]models.MediaRecord, error)
	ListPhones(ctx context.Context) ([]models.Phone, error)
	ListSocials(ctx context.Context) ([]models.Social, error)
	UploadMedia(ctx context.Context, file upstream.FileInput, isVideo bool) (*models.MediaRecord, error)
	SaveVersion(ctx context.Context, versionID uint64, arr composer.Arrangement, headerImg *upstream.FileInput) (*models.WebVersion, error)
	ActivateVersion(ctx context.Context, id uint64) error
}

// submissionRecorder persists and lists audit rows for submit attempts.
type submissionRecorder interface {
	Create(ctx context.Context, sub *models.Submission) error
	List(ctx context.Context, versionID uint64, limit int) ([]models.Submission, error)
}

// EditorService drives website-version editing sessions: opening a session
// from upstream state, routing drag operations into it, and submitting the
// arrangement back.
type EditorService struct {
	store  *composer.Store
	client editorUpstream
	audit  submissionRecorder
	logger *zap.Logger
}

// OpenResult is a freshly loaded session with its reference lists and any
// degradation warnings collected while loading.
type OpenResult struct {
	Session  *composer.Session
	Teachers []models.Teacher
	Students []models.Student
	Media    []models.MediaRecord
	Phones   []models.Phone
	Socials  []models.Social
	Warnings []string
}

// SubmitResult reports the outcome of persisting a session.
type SubmitResult struct {
	Version *models.WebVersion
	Created bool
}

// NewEditorService constructs an EditorService. The audit recorder may be
// nil when no database is wired in.
func NewEditorService(store *composer.Store, client editorUpstream, audit submissionRecorder, logger *zap.Logger) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorService{store: store, client: client, audit: audit, logger: logger}
}

// Open creates a session for the given version. Version zero opens a blank
// session for composing a new version. The version record itself must load;
// each reference list degrades to empty with a warning when its fetch fails.
func (s *EditorService) Open(ctx context.Context, versionID uint64) (*OpenResult, error) {
	var version *models.WebVersion
	if versionID != 0 {
		v, err := s.client.GetVersion(ctx, versionID)
		if err != nil {
			return nil, err
		}
		version = v
	}

	res := &OpenResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	warn := func(list string, err error) {
		mu.Lock()
		res.Warnings = append(res.Warnings, fmt.Sprintf("failed to load %s: %s", list, appErrors.FromError(err).Message))
		mu.Unlock()
		s.logger.Warn("reference list unavailable", zap.String("list", list), zap.Error(err))
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		if items, err := s.client.ListTeachers(ctx); err != nil {
			warn("teachers", err)
		} else {
			res.Teachers = items
		}
	}()
	go func() {
		defer wg.Done()
		if items, err := s.client.ListStudents(ctx); err != nil {
			warn("students", err)
		} else {
			res.Students = items
		}
	}()
	go func() {
		defer wg.Done()
		if items, err := s.client.ListMedia(ctx); err != nil {
			warn("media", err)
		} else {
			res.Media = items
		}
	}()
	go func() {
		defer wg.Done()
		if items, err := s.client.ListPhones(ctx); err != nil {
			warn("phones", err)
		} else {
			res.Phones = items
		}
	}()
	go func() {
		defer wg.Done()
		if items, err := s.client.ListSocials(ctx); err != nil {
			warn("socials", err)
		} else {
			res.Socials = items
		}
	}()
	wg.Wait()

	sess, err := s.store.Create(versionID)
	if err != nil {
		return nil, err
	}
	res.Session = sess

	loadBoards(sess, version, res)
	return res, nil
}

// loadBoards distributes reference entities between slots and pools from
// the version's linkage records. Orders are 1-based slot positions.
func loadBoards(sess *composer.Session, version *models.WebVersion, res *OpenResult) {
	placedTeachers := map[uint64]int{}
	placedStudents := map[uint64]int{}
	if version != nil {
		for _, link := range version.WebTeachers {
			placedTeachers[link.TeacherID] = link.Order - 1
		}
		for _, link := range version.WebStudents {
			placedStudents[link.StudentID] = link.Order - 1
		}
	}

	for _, t := range res.Teachers {
		if idx, ok := placedTeachers[t.ID]; ok && sess.Teachers().Fill(idx, t) {
			continue
		}
		sess.Teachers().AddToPool(t)
	}
	for _, st := range res.Students {
		if idx, ok := placedStudents[st.ID]; ok && sess.Students().Fill(idx, st) {
			continue
		}
		sess.Students().AddToPool(st)
	}
	// A media id may be linked at several orders; the first linkage keeps
	// the base id and later ones become session-local duplicates, so every
	// saved placement survives the round trip.
	library := make(map[uint64]composer.MediaItem, len(res.Media))
	for _, m := range res.Media {
		item := composer.MediaItem{
			ID:   composer.MediaID{Base: m.ID},
			Kind: composer.MediaImage,
			URL:  m.URL,
		}
		if m.IsVideo.Bool() {
			item.Kind = composer.MediaVideo
		}
		library[m.ID] = item
	}
	placedMedia := map[uint64]int{}
	if version != nil {
		for _, link := range version.WebMedia {
			item, ok := library[link.MediaID]
			if !ok {
				continue
			}
			if placedMedia[link.MediaID] > 0 {
				item = sess.Gallery().DuplicateOf(item)
			}
			if sess.Gallery().Fill(link.Order-1, item) {
				placedMedia[link.MediaID]++
			}
		}
	}
	for _, m := range res.Media {
		if placedMedia[m.ID] == 0 {
			sess.Gallery().AddToPool(library[m.ID])
		}
	}

	if version != nil {
		sess.SetFields(version.VersionFields)
		for _, p := range version.WebPhones {
			sess.SelectPhone(p.PhoneID, true)
		}
		for _, so := range version.WebSocials {
			sess.SelectSocial(so.SocialID, true)
		}
		mainID := version.MainPhoneID
		if mainID == 0 && version.MainPhone != nil {
			mainID = version.MainPhone.ID
		}
		if mainID != 0 {
			sess.SelectPhone(mainID, true)
			_ = sess.SetMainPhone(mainID)
		}
	}
}

// Get returns a live session by id.
func (s *EditorService) Get(sessionID string) (*composer.Session, error) {
	return s.store.Get(sessionID)
}

// Close discards a session without submitting.
func (s *EditorService) Close(sessionID string) {
	s.store.Delete(sessionID)
}

// UploadResult reports per-file outcomes of a media upload batch.
type UploadResult struct {
	Added    []composer.MediaItem
	Warnings []string
}

// UploadMedia ships files to the content API one by one and adds the
// successes to the session library. A failed file is skipped, not fatal.
func (s *EditorService) UploadMedia(ctx context.Context, sessionID string, files []upstream.FileInput, isVideo []bool) (*UploadResult, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	res := &UploadResult{}
	for i, file := range files {
		video := i < len(isVideo) && isVideo[i]
		rec, err := s.client.UploadMedia(ctx, file, video)
		if err != nil {
			s.logger.Warn("media upload failed",
				zap.String("filename", file.Filename),
				zap.Error(err))
			res.Warnings = append(res.Warnings, fmt.Sprintf("upload of %s failed: %s", file.Filename, appErrors.FromError(err).Message))
			continue
		}

		item := composer.MediaItem{
			ID:   composer.MediaID{Base: rec.ID},
			Kind: composer.MediaImage,
			URL:  rec.URL,
		}
		if rec.IsVideo.Bool() {
			item.Kind = composer.MediaVideo
		}
		sess.AddLibraryMedia(item)
		res.Added = append(res.Added, item)
	}
	return res, nil
}

// Submit serialises the session and persists it upstream. The session stays
// alive either way: on failure so the operator can retry without losing the
// arrangement, on success so editing can continue against the saved version.
func (s *EditorService) Submit(ctx context.Context, sessionID, operator string, headerImg *upstream.FileInput) (*SubmitResult, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	arr := sess.BuildArrangement()
	targetID := sess.VersionID()
	created := targetID == 0

	version, err := s.client.SaveVersion(ctx, targetID, arr, headerImg)
	s.recordSubmission(ctx, sess, operator, arr, err)
	if err != nil {
		return nil, err
	}

	if created && version != nil {
		sess.AdoptVersion(version.ID)
	}
	return &SubmitResult{Version: version, Created: created}, nil
}

// Activate makes a version live.
func (s *EditorService) Activate(ctx context.Context, versionID uint64) error {
	return s.client.ActivateVersion(ctx, versionID)
}

// recordSubmission writes the audit row. Audit failure never fails the
// submit itself.
func (s *EditorService) recordSubmission(ctx context.Context, sess *composer.Session, operator string, arr composer.Arrangement, submitErr error) {
	if s.audit == nil {
		return
	}

	sub := &models.Submission{
		VersionID:    sess.VersionID(),
		Operator:     operator,
		TeacherCount: len(arr.Teachers),
		StudentCount: len(arr.Students),
		MediaCount:   len(arr.Media),
		Outcome:      models.SubmissionSucceeded,
	}
	if submitErr != nil {
		sub.Outcome = models.SubmissionFailed
		sub.Detail = appErrors.FromError(submitErr).Message
	}
	if err := s.audit.Create(ctx, sub); err != nil {
		s.logger.Warn("failed to record submission audit row", zap.Error(err))
	}
}

// Submissions returns the audit trail, newest first, optionally filtered by
// version.
func (s *EditorService) Submissions(ctx context.Context, versionID uint64, limit int) ([]models.Submission, error) {
	if s.audit == nil {
		return []models.Submission{}, nil
	}
	return s.audit.List(ctx, versionID, limit)
}

// Sessions exposes the live session count for metrics.
func (s *EditorService) Sessions() int {
	return s.store.Len()
}
