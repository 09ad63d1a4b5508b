package repository

import (
	"context"
	"testing"
	"time"

	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestHistoryRepo_RecordAndList(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewHistoryRepo(client)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"sub-1", "sub-2", "sub-3"} {
		err := repo.Record(ctx, &domain.Submission{
			ID:           id,
			UserID:       "user-1",
			Area:         float64(10 * (i + 1)),
			GSD:          0.45,
			CreditsAdded: 100,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	subs, err := repo.ListByUser(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	// Newest first
	assert.Equal(t, "sub-3", subs[0].ID)
	assert.Equal(t, "sub-2", subs[1].ID)
}

func TestHistoryRepo_Get_Missing(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewHistoryRepo(client)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSubmissionMissing)
}

func TestHistoryRepo_ExpiredEntriesSkipped(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewHistoryRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &domain.Submission{
		ID: "sub-old", UserID: "user-1", Area: 5, CreatedAt: time.Now(),
	}))

	// Let the submission value expire while the index set survives.
	mr.Del(submissionKeyPrefix + "sub-old")

	subs, err := repo.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestLeaderboardRepo(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewLeaderboardRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.AddScore(ctx, "user-a", 100))
	require.NoError(t, repo.AddScore(ctx, "user-b", 300))
	require.NoError(t, repo.AddScore(ctx, "user-a", 50))

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, domain.LeaderboardEntry{UserID: "user-b", Credits: 300}, top[0])
	assert.Equal(t, domain.LeaderboardEntry{UserID: "user-a", Credits: 150}, top[1])
}

func TestLeaderboardRepo_Rebuild(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewLeaderboardRepo(client)
	ctx := context.Background()

	// Drifted entry that the rebuild must discard.
	require.NoError(t, repo.AddScore(ctx, "ghost", 999))

	err := repo.Rebuild(ctx, map[string]int64{
		"user-a": 120,
		"user-b": 80,
	})
	require.NoError(t, err)

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "user-a", top[0].UserID)
	assert.Equal(t, int64(120), top[0].Credits)
}
