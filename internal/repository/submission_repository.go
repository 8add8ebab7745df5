package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uzlearn/center-admin-api/internal/models"
)

// SubmissionRepository persists the audit trail of version submit attempts.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission row.
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO submissions
	(id, version_id, operator, teacher_count, student_count, media_count, outcome, detail, created_at)
	VALUES (:id, :version_id, :operator, :teacher_count, :student_count, :media_count, :outcome, :detail, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// List returns the latest submissions, optionally narrowed to one version.
func (r *SubmissionRepository) List(ctx context.Context, versionID uint64, limit int) ([]models.Submission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	const base = `SELECT id, version_id, operator, teacher_count, student_count, media_count, outcome, detail, created_at
	FROM submissions`

	var subs []models.Submission
	var err error
	if versionID > 0 {
		query := base + ` WHERE version_id = $1 ORDER BY created_at DESC LIMIT $2`
		err = r.db.SelectContext(ctx, &subs, query, versionID, limit)
	} else {
		query := base + ` ORDER BY created_at DESC LIMIT $1`
		err = r.db.SelectContext(ctx, &subs, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
