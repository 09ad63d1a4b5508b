package domain

import (
	"time"

	"github.com/NEhIL06/Ecosap/internal/credits"
)

// Submission is the record of one successful credit award. The
// authoritative balance lives on the user row; submissions are
// reporting data.
type Submission struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Area         float64   `json:"area"`
	GSD          float64   `json:"gsd"`
	CreditsAdded int       `json:"credits_added"`
	TreeSpecies  string    `json:"tree_species,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitRequest is one sapling-image submission from an authenticated
// caller. Factors is optional.
type SubmitRequest struct {
	UserID   string
	Image    []byte
	Filename string
	GSD      float64
	Factors  *credits.Factors
}

// SubmitResult is returned after the award has been applied.
// TotalCredits is the post-increment balance, never a stale snapshot.
type SubmitResult struct {
	SubmissionID string
	Area         float64
	CreditsAdded int
	TotalCredits int64
}

// LeaderboardEntry is one row of the eco-credit leaderboard.
type LeaderboardEntry struct {
	UserID  string `json:"user_id"`
	Credits int64  `json:"credits"`
}
