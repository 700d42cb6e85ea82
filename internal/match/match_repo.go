package match

import (
	"context"
	"errors"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository defines methods to interact with matches, their ball log
// and summaries.
type MatchRepository interface {
	CreateMatch(ctx context.Context, m *Match) error
	GetMatchByID(ctx context.Context, id uint) (*Match, error)
	GetMatches(ctx context.Context, f MatchFilter, page, pageSize int) ([]Match, int64, error)
	SearchMatches(ctx context.Context, q string, teamIDs []uint, limit int) ([]Match, error)
	ListLiveMatchIDs(ctx context.Context) ([]uint, error)
	UpdateMatch(ctx context.Context, m *Match) error

	// LockForUpdate loads the match with its teams and, on Postgres, holds a
	// row lock until the surrounding transaction ends.
	LockForUpdate(ctx context.Context, id uint) (*Match, error)
	SaveDerivedScores(ctx context.Context, m *Match) error

	CreateCommentary(ctx context.Context, c *Commentary) error
	GetCommentary(ctx context.Context, id uint) (*Commentary, error)
	UpdateCommentary(ctx context.Context, c *Commentary) error
	DeleteCommentary(ctx context.Context, id uint) error
	ListBallEvents(ctx context.Context, matchID uint) ([]scoring.BallEvent, error)
	ListCommentary(ctx context.Context, matchID uint, innings *int, page, pageSize int) ([]Commentary, int64, error)

	UpsertSummary(ctx context.Context, s *MatchSummary) error
	GetSummary(ctx context.Context, matchID uint) (*MatchSummary, error)

	WithTransaction(ctx context.Context, txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction runs txFunc against a repository bound to one transaction.
func (r *GormMatchRepository) WithTransaction(ctx context.Context, txFunc func(MatchRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormMatchRepository{db: tx})
	})
}

func (r *GormMatchRepository) CreateMatch(ctx context.Context, m *Match) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *GormMatchRepository) GetMatchByID(ctx context.Context, id uint) (*Match, error) {
	var m Match
	err := r.db.WithContext(ctx).
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Winner").
		Preload("Series").
		First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetMatches lists matches newest first, except upcoming fixtures which are
// listed soonest first.
func (r *GormMatchRepository) GetMatches(ctx context.Context, f MatchFilter, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.WithContext(ctx).Model(&Match{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Format != "" {
		query = query.Where("format = ?", f.Format)
	}
	if f.MatchType != "" {
		query = query.Where("match_type = ?", f.MatchType)
	}
	if f.TeamID != nil {
		query = query.Where("home_team_id = ? OR away_team_id = ?", *f.TeamID, *f.TeamID)
	}
	if f.SeriesID != nil {
		query = query.Where("series_id = ?", *f.SeriesID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "start_date desc"
	if f.Status == string(StatusUpcoming) {
		order = "start_date asc"
	}
	err := query.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Series").
		Order(order).Order("id desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&matches).Error
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// SearchMatches matches q against venue and city, or any of teamIDs playing.
func (r *GormMatchRepository) SearchMatches(ctx context.Context, q string, teamIDs []uint, limit int) ([]Match, error) {
	like := "%" + strings.ToLower(q) + "%"
	cond := r.db.Where("LOWER(venue) LIKE ? OR LOWER(city) LIKE ?", like, like)
	if len(teamIDs) > 0 {
		cond = cond.Or("home_team_id IN ? OR away_team_id IN ?", teamIDs, teamIDs)
	}

	var matches []Match
	err := r.db.WithContext(ctx).
		Where(cond).
		Preload("HomeTeam").
		Preload("AwayTeam").
		Order("start_date desc").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

func (r *GormMatchRepository) ListLiveMatchIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&Match{}).
		Where("status = ?", StatusLive).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// UpdateMatch saves the editable columns. Associations are never written
// through a match.
func (r *GormMatchRepository) UpdateMatch(ctx context.Context, m *Match) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *GormMatchRepository) LockForUpdate(ctx context.Context, id uint) (*Match, error) {
	q := r.db.WithContext(ctx).Preload("HomeTeam").Preload("AwayTeam")
	// SQLite serialises writers itself and has no FOR UPDATE.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m Match
	if err := q.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormMatchRepository) SaveDerivedScores(ctx context.Context, m *Match) error {
	return r.db.WithContext(ctx).Model(&Match{}).
		Where("id = ?", m.ID).
		Select("home_score", "away_score", "current_innings", "current_over").
		Updates(map[string]interface{}{
			"home_score":      m.HomeScore,
			"away_score":      m.AwayScore,
			"current_innings": m.CurrentInnings,
			"current_over":    m.CurrentOver,
		}).Error
}

func (r *GormMatchRepository) CreateCommentary(ctx context.Context, c *Commentary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *GormMatchRepository) GetCommentary(ctx context.Context, id uint) (*Commentary, error) {
	var c Commentary
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormMatchRepository) UpdateCommentary(ctx context.Context, c *Commentary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *GormMatchRepository) DeleteCommentary(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Commentary{}, id).Error
}

// ListBallEvents returns the scoring projection of every live delivery in
// the match, in no particular order.
func (r *GormMatchRepository) ListBallEvents(ctx context.Context, matchID uint) ([]scoring.BallEvent, error) {
	var events []scoring.BallEvent
	err := r.db.WithContext(ctx).Model(&Commentary{}).
		Select("innings_number, over_number, ball_number, runs, is_wicket").
		Where("match_id = ?", matchID).
		Scan(&events).Error
	return events, err
}

func (r *GormMatchRepository) ListCommentary(ctx context.Context, matchID uint, innings *int, page, pageSize int) ([]Commentary, int64, error) {
	var out []Commentary
	var total int64

	query := r.db.WithContext(ctx).Model(&Commentary{}).Where("match_id = ?", matchID)
	if innings != nil {
		query = query.Where("innings_number = ?", *innings)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Author").
		Order("over_number desc").Order("ball_number desc").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&out).Error
	return out, total, err
}

// UpsertSummary writes the summary keyed by match id.
func (r *GormMatchRepository) UpsertSummary(ctx context.Context, s *MatchSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
	}).Create(s).Error
}

func (r *GormMatchRepository) GetSummary(ctx context.Context, matchID uint) (*MatchSummary, error) {
	var s MatchSummary
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
