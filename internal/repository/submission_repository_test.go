package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/models"
)

func newSubmissionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubmissionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewSubmissionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Submission{
		VersionID:    4,
		Operator:     "admin",
		TeacherCount: 3,
		StudentCount: 2,
		MediaCount:   7,
		Outcome:      models.SubmissionSucceeded,
	}
	require.NoError(t, repo.Create(context.Background(), sub))
	require.NotEmpty(t, sub.ID)
	require.False(t, sub.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryList(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewSubmissionRepository(db)
	rows := sqlmock.NewRows([]string{"id", "version_id", "operator", "teacher_count", "student_count", "media_count", "outcome", "detail", "created_at"}).
		AddRow("sub-1", 4, "admin", 3, 2, 7, "succeeded", "", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, version_id, operator")).
		WithArgs(uint64(4), 10).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), 4, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "sub-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryListDefaultLimit(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewSubmissionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, version_id, operator")).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version_id", "operator", "teacher_count", "student_count", "media_count", "outcome", "detail", "created_at"}))

	list, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}
