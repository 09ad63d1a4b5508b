package service

import (
	"context"
	"sync"
	"testing"

	"github.com/NEhIL06/Ecosap/internal/credits"
	"github.com/NEhIL06/Ecosap/internal/detector"
	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/NEhIL06/Ecosap/internal/submissions/repository"
	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMeasurer returns a canned measurement or error.
type fakeMeasurer struct {
	area float64
	err  error
}

func (f *fakeMeasurer) MeasureArea(_ context.Context, image []byte, _ string, gsd float64) (*detector.Measurement, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.area <= 0 {
		return nil, detector.ErrInvalidMeasurement
	}
	return &detector.Measurement{Area: f.area, GSD: gsd}, nil
}

// fakeBalances is an in-memory balance store with atomic increments.
type fakeBalances struct {
	mu       sync.Mutex
	balances map[string]int64
	calls    int
}

func newFakeBalances(userIDs ...string) *fakeBalances {
	b := &fakeBalances{balances: make(map[string]int64)}
	for _, id := range userIDs {
		b.balances[id] = 0
	}
	return b
}

func (b *fakeBalances) AddCredits(_ context.Context, userID string, delta int) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	total, ok := b.balances[userID]
	if !ok {
		return 0, users.ErrNotFound
	}
	total += int64(delta)
	b.balances[userID] = total
	return total, nil
}

func newTestService(t *testing.T, measurer AreaMeasurer, balances BalanceStore) (*SubmissionService, *repository.HistoryRepo, *repository.LeaderboardRepo) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	history := repository.NewHistoryRepo(client)
	leaderboard := repository.NewLeaderboardRepo(client)

	return NewSubmissionService(measurer, balances, history, leaderboard, nil, nil), history, leaderboard
}

func TestSubmit_Success(t *testing.T) {
	balances := newFakeBalances("user-1")
	svc, history, leaderboard := newTestService(t, &fakeMeasurer{area: 10}, balances)
	ctx := context.Background()

	res, err := svc.Submit(ctx, &domain.SubmitRequest{
		UserID: "user-1",
		Image:  []byte("jpegdata"),
		GSD:    0.4,
	})
	require.NoError(t, err)

	// base 100 with the 1.5 quality multiplier
	assert.Equal(t, 150, res.CreditsAdded)
	assert.Equal(t, int64(150), res.TotalCredits)
	assert.Equal(t, 10.0, res.Area)
	assert.NotEmpty(t, res.SubmissionID)

	subs, err := history.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, res.SubmissionID, subs[0].ID)

	top, err := leaderboard.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(150), top[0].Credits)
}

func TestSubmit_FactorsReachEngine(t *testing.T) {
	balances := newFakeBalances("user-1")
	svc, _, _ := newTestService(t, &fakeMeasurer{area: 10}, balances)

	res, err := svc.Submit(context.Background(), &domain.SubmitRequest{
		UserID:  "user-1",
		Image:   []byte("jpegdata"),
		GSD:     3.0, // neutral quality band
		Factors: &credits.Factors{TreeSpecies: "oak"},
	})
	require.NoError(t, err)
	assert.Equal(t, 130, res.CreditsAdded)
}

func TestSubmit_Validation(t *testing.T) {
	balances := newFakeBalances("user-1")
	svc, _, _ := newTestService(t, &fakeMeasurer{area: 10}, balances)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *domain.SubmitRequest
	}{
		{"missing image", &domain.SubmitRequest{UserID: "user-1", GSD: 0.5}},
		{"non-positive gsd", &domain.SubmitRequest{UserID: "user-1", Image: []byte("x"), GSD: 0}},
		{"missing user", &domain.SubmitRequest{Image: []byte("x"), GSD: 0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	assert.Zero(t, balances.calls, "validation failures must never reach the balance store")
}

func TestSubmit_InvalidMeasurement_NoMutation(t *testing.T) {
	balances := newFakeBalances("user-1")
	svc, history, _ := newTestService(t, &fakeMeasurer{area: 0}, balances)
	ctx := context.Background()

	_, err := svc.Submit(ctx, &domain.SubmitRequest{
		UserID: "user-1",
		Image:  []byte("jpegdata"),
		GSD:    0.5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, detector.ErrInvalidMeasurement)

	assert.Zero(t, balances.calls)
	assert.Equal(t, int64(0), balances.balances["user-1"])

	subs, err := history.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmit_AdapterUnavailable_NoMutation(t *testing.T) {
	balances := newFakeBalances("user-1")
	svc, _, _ := newTestService(t, &fakeMeasurer{err: detector.ErrUnavailable}, balances)

	_, err := svc.Submit(context.Background(), &domain.SubmitRequest{
		UserID: "user-1",
		Image:  []byte("jpegdata"),
		GSD:    0.5,
	})
	assert.ErrorIs(t, err, detector.ErrUnavailable)
	assert.Zero(t, balances.calls)
}

func TestSubmit_UserNotFound(t *testing.T) {
	balances := newFakeBalances() // empty store
	svc, history, _ := newTestService(t, &fakeMeasurer{area: 10}, balances)
	ctx := context.Background()

	_, err := svc.Submit(ctx, &domain.SubmitRequest{
		UserID: "ghost",
		Image:  []byte("jpegdata"),
		GSD:    0.5,
	})
	assert.ErrorIs(t, err, users.ErrNotFound)

	// No balance record created, no history written.
	_, exists := balances.balances["ghost"]
	assert.False(t, exists)

	subs, err := history.ListByUser(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmit_ConcurrentAwardsBothLand(t *testing.T) {
	balances := newFakeBalances("user-1")
	svc, _, _ := newTestService(t, &fakeMeasurer{area: 10}, balances)
	ctx := context.Background()

	gsdA := 0.4 // award 150
	gsdB := 3.0 // award 100

	var wg sync.WaitGroup
	results := make([]*domain.SubmitResult, 2)
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.Submit(ctx, &domain.SubmitRequest{
			UserID: "user-1", Image: []byte("a"), GSD: gsdA,
		})
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = svc.Submit(ctx, &domain.SubmitRequest{
			UserID: "user-1", Image: []byte("b"), GSD: gsdB,
		})
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Equal(t, int64(250), balances.balances["user-1"], "both awards must be reflected")

	// One of the two observed totals must be the final one.
	finals := []int64{results[0].TotalCredits, results[1].TotalCredits}
	assert.Contains(t, finals, int64(250))
}
