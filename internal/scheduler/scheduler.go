// Package scheduler runs the periodic maintenance jobs: score
// reconciliation for live matches, trending hashtag refresh and
// notification pruning.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/cricbook/config"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	"github.com/DhavalSuthar-24/cricbook/internal/post"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	JobReconcile = "reconcile_scores"
	JobTrending  = "refresh_trending"
	JobPrune     = "prune_notifications"
)

type LiveMatches interface {
	ListLiveMatchIDs(ctx context.Context) ([]uint, error)
}

type Recomputer interface {
	Recompute(ctx context.Context, matchID uint, trigger string) (*match.Match, bool, error)
}

type TrendingRefresher interface {
	Refresh(ctx context.Context) ([]post.TrendingHashtag, error)
}

type NotificationPruner interface {
	PruneRead(ctx context.Context, olderThan time.Time) (int64, error)
}

// Scheduler owns a cron runner. Jobs with a nil dependency are skipped.
type Scheduler struct {
	cfg      config.SchedulerConfig
	cron     *cron.Cron
	matches  LiveMatches
	keeper   Recomputer
	trending TrendingRefresher
	pruner   NotificationPruner
	now      func() time.Time
}

func NewScheduler(cfg config.SchedulerConfig, matches LiveMatches, keeper Recomputer, trending TrendingRefresher, pruner NotificationPruner) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		cron:     cron.New(),
		matches:  matches,
		keeper:   keeper,
		trending: trending,
		pruner:   pruner,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the runner. Jobs share ctx, so
// cancelling it aborts in-flight work.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
		on   bool
	}{
		{JobReconcile, s.cfg.ReconcileCron, s.ReconcileScores, s.matches != nil && s.keeper != nil},
		{JobTrending, s.cfg.TrendingCron, s.RefreshTrending, s.trending != nil},
		{JobPrune, s.cfg.PruneCron, s.PruneNotifications, s.pruner != nil},
	}
	for _, j := range jobs {
		if !j.on || j.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, func() { s.runJob(ctx, j.name, j.run) }); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", j.name, err)
		}
		log.Info().Str("job", j.name).Str("schedule", j.spec).Msg("job scheduled")
	}
	s.cron.Start()
	return nil
}

// Stop halts the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, name string, run func(context.Context) error) {
	start := time.Now()
	err := run(ctx)
	metrics.SchedulerJobRuns.WithLabelValues(name, metrics.Status(err)).Inc()
	if err != nil {
		log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
		return
	}
	log.Debug().Str("job", name).Dur("duration", time.Since(start)).Msg("scheduled job finished")
}

// ReconcileScores re-derives every live match's score from its commentary
// log. A failure on one match does not stop the others.
func (s *Scheduler) ReconcileScores(ctx context.Context) error {
	ids, err := s.matches.ListLiveMatchIDs(ctx)
	if err != nil {
		return fmt.Errorf("list live matches: %w", err)
	}
	var failed int
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, changed, err := s.keeper.Recompute(ctx, id, match.TriggerReconcile); err != nil {
			failed++
			log.Error().Err(err).Uint("match_id", id).Msg("score reconcile failed")
		} else if changed {
			log.Info().Uint("match_id", id).Msg("score reconciled")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d matches failed to reconcile", failed, len(ids))
	}
	return nil
}

func (s *Scheduler) RefreshTrending(ctx context.Context) error {
	tags, err := s.trending.Refresh(ctx)
	if err != nil {
		return err
	}
	log.Debug().Int("hashtags", len(tags)).Msg("trending refreshed")
	return nil
}

// PruneNotifications deletes read notifications older than the retention.
func (s *Scheduler) PruneNotifications(ctx context.Context) error {
	n, err := s.pruner.PruneRead(ctx, s.now().Add(-s.cfg.NotificationRetention))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("pruned read notifications")
	}
	return nil
}
