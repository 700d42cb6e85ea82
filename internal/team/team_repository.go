package team

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository defines the data operations for teams and players.
type TeamRepository interface {
	GetTeamByID(ctx context.Context, id uint) (*Team, error)
	GetTeamByName(ctx context.Context, name string) (*Team, error)
	FindOrCreateByName(ctx context.Context, name string, defaults Team) (*Team, bool, error)
	ListTeams(ctx context.Context, page, limit int, filters TeamFilter) ([]Team, int64, error)
	SearchTeamIDs(ctx context.Context, q string) ([]uint, error)

	CreatePlayer(ctx context.Context, p *Player) error
	ListPlayers(ctx context.Context, teamID uint, page, limit int) ([]Player, int64, error)
}

type TeamFilter struct {
	TeamType string
	Country  string
	Query    string
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetTeamByID(ctx context.Context, id uint) (*Team, error) {
	var team Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(ctx context.Context, name string) (*Team, error) {
	var team Team
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// FindOrCreateByName inserts defaults under name unless the unique name is
// already held, then returns the stored row. created reports whether this
// call inserted it. Concurrent callers converge on one row.
func (r *teamRepository) FindOrCreateByName(ctx context.Context, name string, defaults Team) (*Team, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New("team name is required")
	}
	t := defaults
	t.ID = 0
	t.Name = name
	if t.TeamType == "" {
		t.TeamType = TypeNational
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&t)
	if res.Error != nil {
		return nil, false, fmt.Errorf("insert team: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return &t, true, nil
	}

	existing, err := r.GetTeamByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("team %q is reserved by a deleted record", name)
	}
	return existing, false, nil
}

func (r *teamRepository) ListTeams(ctx context.Context, page, limit int, f TeamFilter) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.WithContext(ctx).Model(&Team{})
	if f.TeamType != "" {
		query = query.Where("team_type = ?", f.TeamType)
	}
	if f.Country != "" {
		query = query.Where("LOWER(country) = ?", strings.ToLower(f.Country))
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(short_name) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// SearchTeamIDs returns ids of teams whose name or short name contains q.
func (r *teamRepository) SearchTeamIDs(ctx context.Context, q string) ([]uint, error) {
	var ids []uint
	like := "%" + strings.ToLower(q) + "%"
	err := r.db.WithContext(ctx).Model(&Team{}).
		Where("LOWER(name) LIKE ? OR LOWER(short_name) LIKE ?", like, like).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *teamRepository) CreatePlayer(ctx context.Context, p *Player) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *teamRepository) ListPlayers(ctx context.Context, teamID uint, page, limit int) ([]Player, int64, error) {
	var players []Player
	var total int64

	query := r.db.WithContext(ctx).Model(&Player{}).Where("team_id = ?", teamID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&players).Error; err != nil {
		return nil, 0, err
	}
	return players, total, nil
}
