package repository

import (
	"context"
	"fmt"

	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "eco:leaderboard"

// LeaderboardRepo maintains the eco-credit leaderboard as a Redis
// sorted set. Increments happen on each award; a nightly job rebuilds
// the set from the durable balances so drift never accumulates.
type LeaderboardRepo struct {
	client *redis.Client
}

func NewLeaderboardRepo(client *redis.Client) *LeaderboardRepo {
	return &LeaderboardRepo{client: client}
}

// AddScore applies an award to the user's leaderboard score.
func (r *LeaderboardRepo) AddScore(ctx context.Context, userID string, delta int) error {
	if err := r.client.ZIncrBy(ctx, leaderboardKey, float64(delta), userID).Err(); err != nil {
		return fmt.Errorf("leaderboard incr: %w", err)
	}
	return nil
}

// Top returns the n highest-credit users, best first.
func (r *LeaderboardRepo) Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}

	scored, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard range: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(scored))
	for _, z := range scored {
		userID, _ := z.Member.(string)
		entries = append(entries, domain.LeaderboardEntry{
			UserID:  userID,
			Credits: int64(z.Score),
		})
	}
	return entries, nil
}

// Rebuild replaces the whole leaderboard with the given balances.
func (r *LeaderboardRepo) Rebuild(ctx context.Context, balances map[string]int64) error {
	members := make([]redis.Z, 0, len(balances))
	for userID, credits := range balances {
		members = append(members, redis.Z{Score: float64(credits), Member: userID})
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard rebuild: %w", err)
	}
	return nil
}
