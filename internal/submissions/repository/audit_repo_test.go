package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditRepo(db)

	sub := &domain.Submission{
		ID:           "sub-123",
		UserID:       "user-1",
		Area:         42.5,
		GSD:          0.45,
		CreditsAdded: 380,
		TreeSpecies:  "mangrove",
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO submission_audit").
		WithArgs(sub.ID, sub.UserID, sub.Area, sub.GSD, sub.CreditsAdded, sqlmock.AnyArg(), sub.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(sub))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Insert_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditRepo(db)

	mock.ExpectExec("INSERT INTO submission_audit").
		WillReturnError(assert.AnError)

	err = repo.Insert(&domain.Submission{ID: "sub-1", UserID: "user-1"})
	assert.Error(t, err)
}

func TestAuditRepo_CountByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
