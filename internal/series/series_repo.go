package series

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeriesRepository interface {
	GetByID(ctx context.Context, id uint) (*Series, error)
	FindOrCreateByName(ctx context.Context, name string, defaults Series) (*Series, bool, error)
	List(ctx context.Context, page, limit int, format string) ([]Series, int64, error)
}

type seriesRepository struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) SeriesRepository {
	return &seriesRepository{db: db}
}

func (r *seriesRepository) GetByID(ctx context.Context, id uint) (*Series, error) {
	var s Series
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// FindOrCreateByName follows the same insert-or-select contract as the team
// repository: the unique name decides the winner.
func (r *seriesRepository) FindOrCreateByName(ctx context.Context, name string, defaults Series) (*Series, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New("series name is required")
	}
	s := defaults
	s.ID = 0
	s.Name = name
	if s.Format == "" {
		s.Format = FormatInternational
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&s)
	if res.Error != nil {
		return nil, false, fmt.Errorf("insert series: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return &s, true, nil
	}

	var existing Series
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("load series %q: %w", name, err)
	}
	return &existing, false, nil
}

func (r *seriesRepository) List(ctx context.Context, page, limit int, format string) ([]Series, int64, error) {
	var out []Series
	var total int64

	query := r.db.WithContext(ctx).Model(&Series{})
	if format != "" {
		query = query.Where("format = ?", format)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("start_date desc").Order("id desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	return out, total, err
}
