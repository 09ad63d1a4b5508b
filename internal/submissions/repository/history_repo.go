package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/redis/go-redis/v9"
)

const (
	submissionKeyPrefix = "eco:submission:"   // eco:submission:{submission_id}
	userSubSetPrefix    = "eco:user:"         // set of submission IDs: eco:user:{user_id}
	historyTTL          = 30 * 24 * time.Hour // recent-history window
)

// HistoryRepo keeps a rolling window of recent submissions in Redis for
// fast per-user listings. It is a cache, not the durable record.
type HistoryRepo struct {
	client *redis.Client
}

func NewHistoryRepo(client *redis.Client) *HistoryRepo {
	return &HistoryRepo{client: client}
}

// Record stores a submission and indexes it under its user.
func (r *HistoryRepo) Record(ctx context.Context, sub *domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	subKey := r.submissionKey(sub.ID)
	setKey := r.userSetKey(sub.UserID)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, subKey, data, historyTTL)
	pipe.SAdd(ctx, setKey, sub.ID)
	pipe.Expire(ctx, setKey, historyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Get retrieves a single submission by ID.
func (r *HistoryRepo) Get(ctx context.Context, submissionID string) (*domain.Submission, error) {
	data, err := r.client.Get(ctx, r.submissionKey(submissionID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSubmissionMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal([]byte(data), &sub); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	return &sub, nil
}

// ListByUser returns the user's recent submissions, newest first.
// Entries whose TTL already expired are skipped and unindexed.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Submission, error) {
	setKey := r.userSetKey(userID)

	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list submission ids: %w", err)
	}

	subs := make([]domain.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := r.Get(ctx, id)
		if err == domain.ErrSubmissionMissing {
			r.client.SRem(ctx, setKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})

	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

func (r *HistoryRepo) submissionKey(id string) string {
	return submissionKeyPrefix + id
}

func (r *HistoryRepo) userSetKey(userID string) string {
	return userSubSetPrefix + userID
}
