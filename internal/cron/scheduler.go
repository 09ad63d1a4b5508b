package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/NEhIL06/Ecosap/internal/submissions/repository"
	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the nightly leaderboard reconciliation: the Redis
// leaderboard is a cache that drifts if incremental updates are lost,
// so it is rebuilt wholesale from the durable balances.
type Scheduler struct {
	users       *users.Repo
	leaderboard *repository.LeaderboardRepo
	cron        *cron.Cron
}

func NewScheduler(userRepo *users.Repo, leaderboard *repository.LeaderboardRepo) *Scheduler {
	return &Scheduler{
		users:       userRepo,
		leaderboard: leaderboard,
	}
}

// Start schedules the reconciliation nightly at 12:00 AM.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.Reconcile()
	})
	if err != nil {
		log.Printf("[error] operation=cron_schedule error=%v", err)
		return
	}

	log.Println("[info] cron scheduler started (leaderboard reconciliation nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Reconcile rebuilds the leaderboard from the balance table.
func (s *Scheduler) Reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	balances, err := s.users.ListBalances(ctx)
	if err != nil {
		log.Printf("[error] operation=leaderboard_reconcile error=%v", err)
		return
	}

	byUser := make(map[string]int64, len(balances))
	for _, b := range balances {
		byUser[b.UserID] = b.Ecocredits
	}

	if err := s.leaderboard.Rebuild(ctx, byUser); err != nil {
		log.Printf("[error] operation=leaderboard_reconcile error=%v", err)
		return
	}

	log.Printf("[info] operation=leaderboard_reconcile message=rebuilt users=%d", len(byUser))
}
