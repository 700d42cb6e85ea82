package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/internal/scoring"
	"github.com/rs/zerolog/log"
)

const (
	TriggerAdd       = "add"
	TriggerUpdate    = "update"
	TriggerDelete    = "delete"
	TriggerToss      = "toss"
	TriggerReconcile = "reconcile"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrCommentaryNotFound = errors.New("commentary not found for this match")
	ErrInvalidTossWinner  = errors.New("toss winner must be one of the playing teams")
)

// ScoreUpdate is what subscribers see after the derived score changes.
type ScoreUpdate struct {
	MatchID    uint        `json:"match_id"`
	Status     MatchStatus `json:"status"`
	HomeTeamID uint        `json:"home_team_id"`
	AwayTeamID uint        `json:"away_team_id"`
	scoring.Result
	Trigger    string      `json:"trigger"`
	Commentary *Commentary `json:"commentary,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func NewScoreUpdate(m *Match, trigger string, c *Commentary) ScoreUpdate {
	return ScoreUpdate{
		MatchID:    m.ID,
		Status:     m.Status,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Result:     m.Scores(),
		Trigger:    trigger,
		Commentary: c,
		UpdatedAt:  time.Now().UTC(),
	}
}

// ScorePublisher fans committed score updates out to live subscribers.
type ScorePublisher interface {
	PublishScore(ctx context.Context, u ScoreUpdate)
}

// PredictorLister names the users who predicted a match's winner.
type PredictorLister interface {
	PredictorIDs(ctx context.Context, matchID uint) ([]uint, error)
}

// ScoreKeeper owns every write that can change a match's derived score. Each
// write locks the match, mutates, folds the full ball log and stores the
// result in one transaction, then publishes after commit.
type ScoreKeeper struct {
	repo       MatchRepository
	publisher  ScorePublisher
	predictors PredictorLister
	notifier   notification.Notifier
}

func NewScoreKeeper(repo MatchRepository, publisher ScorePublisher, predictors PredictorLister, notifier notification.Notifier) *ScoreKeeper {
	return &ScoreKeeper{repo: repo, publisher: publisher, predictors: predictors, notifier: notifier}
}

type mutation func(ctx context.Context, repo MatchRepository, m *Match) error

func (k *ScoreKeeper) run(ctx context.Context, matchID uint, trigger string, fn mutation) (*Match, bool, error) {
	start := time.Now()
	var out *Match
	var changed bool

	err := k.repo.WithTransaction(ctx, func(repo MatchRepository) error {
		m, err := repo.LockForUpdate(ctx, matchID)
		if err != nil {
			return fmt.Errorf("lock match: %w", err)
		}
		if m == nil {
			return ErrMatchNotFound
		}
		if fn != nil {
			if err := fn(ctx, repo, m); err != nil {
				return err
			}
		}

		events, err := repo.ListBallEvents(ctx, matchID)
		if err != nil {
			return fmt.Errorf("load ball log: %w", err)
		}
		res := scoring.ComputeScores(m.ScoringInfo(), events)
		if !res.Equal(m.Scores()) {
			m.applyScores(res)
			if err := repo.SaveDerivedScores(ctx, m); err != nil {
				return fmt.Errorf("save derived scores: %w", err)
			}
			changed = true
		}
		out = m
		return nil
	})

	metrics.ScoreRecomputeTotal.WithLabelValues(trigger, metrics.Status(err)).Inc()
	metrics.ScoreRecomputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, err
	}
	return out, changed, nil
}

func (k *ScoreKeeper) publish(ctx context.Context, m *Match, trigger string, c *Commentary) {
	if k.publisher == nil {
		return
	}
	k.publisher.PublishScore(ctx, NewScoreUpdate(m, trigger, c))
}

// AddBall appends a delivery to the match's log.
func (k *ScoreKeeper) AddBall(ctx context.Context, matchID, authorID uint, in CommentaryInput) (*Commentary, *Match, error) {
	c := &Commentary{MatchID: matchID}
	if authorID != 0 {
		c.AuthorID = &authorID
	}
	in.apply(c)

	m, _, err := k.run(ctx, matchID, TriggerAdd, func(ctx context.Context, repo MatchRepository, _ *Match) error {
		return repo.CreateCommentary(ctx, c)
	})
	if err != nil {
		return nil, nil, err
	}
	k.publish(ctx, m, TriggerAdd, c)
	return c, m, nil
}

// UpdateBall rewrites a delivery. It must belong to matchID.
func (k *ScoreKeeper) UpdateBall(ctx context.Context, matchID, commentaryID uint, in CommentaryInput) (*Commentary, *Match, error) {
	var updated *Commentary
	m, _, err := k.run(ctx, matchID, TriggerUpdate, func(ctx context.Context, repo MatchRepository, _ *Match) error {
		c, err := repo.GetCommentary(ctx, commentaryID)
		if err != nil {
			return err
		}
		if c == nil || c.MatchID != matchID {
			return ErrCommentaryNotFound
		}
		in.apply(c)
		if err := repo.UpdateCommentary(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	k.publish(ctx, m, TriggerUpdate, updated)
	return updated, m, nil
}

// DeleteBall removes a delivery. It must belong to matchID.
func (k *ScoreKeeper) DeleteBall(ctx context.Context, matchID, commentaryID uint) (*Match, error) {
	m, _, err := k.run(ctx, matchID, TriggerDelete, func(ctx context.Context, repo MatchRepository, _ *Match) error {
		c, err := repo.GetCommentary(ctx, commentaryID)
		if err != nil {
			return err
		}
		if c == nil || c.MatchID != matchID {
			return ErrCommentaryNotFound
		}
		return repo.DeleteCommentary(ctx, commentaryID)
	})
	if err != nil {
		return nil, err
	}
	k.publish(ctx, m, TriggerDelete, nil)
	return m, nil
}

// Recompute re-derives the score from the log without mutating it. Updates
// are published only when the stored score was stale.
func (k *ScoreKeeper) Recompute(ctx context.Context, matchID uint, trigger string) (*Match, bool, error) {
	m, changed, err := k.run(ctx, matchID, trigger, nil)
	if err != nil {
		return nil, false, err
	}
	if changed {
		log.Warn().Uint("match_id", matchID).Str("trigger", trigger).Msg("derived score was stale, corrected")
		k.publish(ctx, m, trigger, nil)
	}
	return m, changed, nil
}

// UpdateMatch applies admin edits. Toss edits re-derive the score in the
// same transaction. Completing a match fills result and winner from the
// derived scores and notifies everyone who predicted on it.
func (k *ScoreKeeper) UpdateMatch(ctx context.Context, matchID uint, req UpdateMatchRequest) (*Match, error) {
	var completedNow bool
	trigger := TriggerUpdate
	if req.changesToss() {
		trigger = TriggerToss
	}

	m, _, err := k.run(ctx, matchID, trigger, func(ctx context.Context, repo MatchRepository, m *Match) error {
		if req.TossWinnerID != nil && !m.HasTeam(*req.TossWinnerID) {
			return ErrInvalidTossWinner
		}
		wasFinished := m.Status.Finished()
		applyMatchUpdate(m, req)
		// Fold with the new toss before the result is derived below.
		events, err := repo.ListBallEvents(ctx, m.ID)
		if err != nil {
			return err
		}
		m.applyScores(scoring.ComputeScores(m.ScoringInfo(), events))
		if m.Status == StatusCompleted && !wasFinished {
			completedNow = true
			m.Result, m.WinnerID = scoring.MatchResult(m.HomeTeamID, m.AwayTeamID, m.HomeTeam.Name, m.AwayTeam.Name, m.HomeScore, m.AwayScore)
		}
		return repo.UpdateMatch(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	k.publish(ctx, m, trigger, nil)
	if completedNow {
		k.notifyPredictors(ctx, m)
	}
	return m, nil
}

func applyMatchUpdate(m *Match, req UpdateMatchRequest) {
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.Venue != nil {
		m.Venue = *req.Venue
	}
	if req.City != nil {
		m.City = *req.City
	}
	if req.Country != nil {
		m.Country = *req.Country
	}
	if req.Weather != nil {
		m.Weather = *req.Weather
	}
	if req.Pitch != nil {
		m.Pitch = *req.Pitch
	}
	if req.EndDate != nil {
		m.EndDate = req.EndDate
	}
	if req.TossWinnerID != nil {
		m.TossWinnerID = req.TossWinnerID
	}
	if req.TossDecision != nil {
		m.TossDecision = req.TossDecision
	}
}

func (k *ScoreKeeper) notifyPredictors(ctx context.Context, m *Match) {
	if k.predictors == nil || k.notifier == nil {
		return
	}
	ids, err := k.predictors.PredictorIDs(ctx, m.ID)
	if err != nil {
		log.Error().Err(err).Uint("match_id", m.ID).Msg("failed to list predictors")
		return
	}

	msg := fmt.Sprintf("%s vs %s has finished", m.HomeTeam.Name, m.AwayTeam.Name)
	if m.Result != "" {
		msg += ": " + m.Result
	}
	matchID := m.ID
	events := make([]notification.Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, notification.Event{
			Type:        notification.TypeMatchUpdate,
			RecipientID: id,
			MatchID:     &matchID,
			Message:     msg,
		})
	}
	notification.NotifyAll(ctx, k.notifier, events...)
}
