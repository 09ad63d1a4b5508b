package repository

import (
	"database/sql"
	"fmt"

	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
)

// AuditRepo writes the durable submission log to PostgreSQL. Every
// applied award gets one row; unlike the Redis history this never
// expires.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends one submission to the audit log.
func (r *AuditRepo) Insert(sub *domain.Submission) error {
	query := `
		INSERT INTO submission_audit (
			id, user_id, area, gsd, credits_added, tree_species, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var species sql.NullString
	if sub.TreeSpecies != "" {
		species = sql.NullString{String: sub.TreeSpecies, Valid: true}
	}

	_, err := r.db.Exec(query,
		sub.ID, sub.UserID, sub.Area, sub.GSD, sub.CreditsAdded, species, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission audit: %w", err)
	}
	return nil
}

// CountByUser returns how many submissions a user has ever made.
func (r *AuditRepo) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM submission_audit WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}
