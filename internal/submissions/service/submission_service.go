package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/NEhIL06/Ecosap/internal/credits"
	"github.com/NEhIL06/Ecosap/internal/detector"
	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/NEhIL06/Ecosap/internal/submissions/repository"
	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/google/uuid"
)

// AreaMeasurer is the outbound boundary to the detection service.
type AreaMeasurer interface {
	MeasureArea(ctx context.Context, image []byte, filename string, gsd float64) (*detector.Measurement, error)
}

// BalanceStore applies awards atomically against the durable user
// balance and returns the post-increment total. Must report
// users.ErrNotFound for a missing record.
type BalanceStore interface {
	AddCredits(ctx context.Context, userID string, delta int) (int64, error)
}

// Archiver stores raw evidence images. Optional.
type Archiver interface {
	Store(ctx context.Context, key string, data []byte) error
}

// SubmissionService orchestrates one submission end to end: validate,
// measure, score, apply the award, then record reporting data.
type SubmissionService struct {
	measurer    AreaMeasurer
	balances    BalanceStore
	history     *repository.HistoryRepo
	leaderboard *repository.LeaderboardRepo
	audit       *repository.AuditRepo
	archive     Archiver
}

// NewSubmissionService creates the orchestrator. history, leaderboard,
// audit, and archive may each be nil; the award path does not depend
// on them.
func NewSubmissionService(
	measurer AreaMeasurer,
	balances BalanceStore,
	history *repository.HistoryRepo,
	leaderboard *repository.LeaderboardRepo,
	audit *repository.AuditRepo,
	archive Archiver,
) *SubmissionService {
	return &SubmissionService{
		measurer:    measurer,
		balances:    balances,
		history:     history,
		leaderboard: leaderboard,
		audit:       audit,
		archive:     archive,
	}
}

// Submit runs the full flow. No balance mutation happens unless the
// measurement succeeded; once the balance is incremented the award is
// final and side records are best-effort.
func (s *SubmissionService) Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.SubmitResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if len(req.Image) == 0 {
		return nil, fmt.Errorf("%w: image is required", domain.ErrValidation)
	}
	if req.GSD <= 0 {
		return nil, fmt.Errorf("%w: gsd must be a positive number", domain.ErrValidation)
	}

	m, err := s.measurer.MeasureArea(ctx, req.Image, req.Filename, req.GSD)
	if err != nil {
		return nil, err
	}

	gsd := m.GSD
	award := credits.Compute(m.Area, &gsd, req.Factors)

	total, err := s.balances.AddCredits(ctx, req.UserID, award)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Award computed, but nobody to credit it to. Discard.
			return nil, err
		}
		return nil, fmt.Errorf("apply award: %w", err)
	}

	sub := &domain.Submission{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		Area:         m.Area,
		GSD:          m.GSD,
		CreditsAdded: award,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Factors != nil {
		sub.TreeSpecies = req.Factors.TreeSpecies
	}

	s.recordSideEffects(ctx, sub, req.Image)

	return &domain.SubmitResult{
		SubmissionID: sub.ID,
		Area:         m.Area,
		CreditsAdded: award,
		TotalCredits: total,
	}, nil
}

// RecentSubmissions lists the caller's recent submissions.
func (s *SubmissionService) RecentSubmissions(ctx context.Context, userID string, limit int) ([]domain.Submission, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByUser(ctx, userID, limit)
}

// Leaderboard returns the top n users by credits.
func (s *SubmissionService) Leaderboard(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, nil
	}
	return s.leaderboard.Top(ctx, n)
}

// recordSideEffects writes the reporting records for an already-applied
// award. Failures are logged and swallowed: the balance increment is
// the one durable mutation the flow guarantees, and it is never rolled
// back here.
func (s *SubmissionService) recordSideEffects(ctx context.Context, sub *domain.Submission, image []byte) {
	if s.history != nil {
		if err := s.history.Record(ctx, sub); err != nil {
			log.Printf("[warn] operation=record_history submission=%s error=%v", sub.ID, err)
		}
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.AddScore(ctx, sub.UserID, sub.CreditsAdded); err != nil {
			log.Printf("[warn] operation=leaderboard_incr submission=%s error=%v", sub.ID, err)
		}
	}

	if s.audit != nil {
		if err := s.audit.Insert(sub); err != nil {
			log.Printf("[warn] operation=audit_insert submission=%s error=%v", sub.ID, err)
		}
	}

	if s.archive != nil {
		key := fmt.Sprintf("submissions/%s/%s.jpg", sub.UserID, sub.ID)
		go func(data []byte) {
			actx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.archive.Store(actx, key, data); err != nil {
				log.Printf("[warn] operation=archive_image submission=%s error=%v", sub.ID, err)
			}
		}(image)
	}
}
