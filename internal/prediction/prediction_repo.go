package prediction

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionRepository interface {
	UpsertMatchPrediction(ctx context.Context, p *MatchPrediction) error
	GetMatchPrediction(ctx context.Context, userID, matchID uint) (*MatchPrediction, error)
	Aggregate(ctx context.Context, matchID uint) ([]TeamShare, int64, error)
	PredictorIDs(ctx context.Context, matchID uint) ([]uint, error)

	UpsertOverSummary(ctx context.Context, o *OverSummary) error
	GetOverSummary(ctx context.Context, id uint) (*OverSummary, error)
	ListOverSummaries(ctx context.Context, matchID uint, innings int) ([]OverSummary, error)
	UpsertOverPrediction(ctx context.Context, p *OverPrediction) error
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) UpsertMatchPrediction(ctx context.Context, p *MatchPrediction) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"predicted_team_id", "confidence", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return err
	}
	var stored MatchPrediction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND match_id = ?", p.UserID, p.MatchID).
		First(&stored).Error; err != nil {
		return err
	}
	*p = stored
	return nil
}

func (r *predictionRepository) GetMatchPrediction(ctx context.Context, userID, matchID uint) (*MatchPrediction, error) {
	var p MatchPrediction
	err := r.db.WithContext(ctx).Where("user_id = ? AND match_id = ?", userID, matchID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Aggregate groups predictions by team. Percentages are rounded and may not
// sum to exactly 100.
func (r *predictionRepository) Aggregate(ctx context.Context, matchID uint) ([]TeamShare, int64, error) {
	var rows []TeamShare
	err := r.db.WithContext(ctx).Model(&MatchPrediction{}).
		Select("predicted_team_id AS team_id, COUNT(*) AS count").
		Where("match_id = ?", matchID).
		Group("predicted_team_id").
		Order("count desc").Order("predicted_team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}
	for i := range rows {
		if total > 0 {
			rows[i].Percentage = int(math.Round(float64(rows[i].Count) / float64(total) * 100))
		}
	}
	return rows, total, nil
}

func (r *predictionRepository) PredictorIDs(ctx context.Context, matchID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&MatchPrediction{}).
		Where("match_id = ?", matchID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// UpsertOverSummary writes the over and re-grades any predictions already made on it.
func (r *predictionRepository) UpsertOverSummary(ctx context.Context, o *OverSummary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "innings_number"}, {Name: "over_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"balls", "total_runs", "wickets", "extras", "bowler_name", "updated_at"}),
		}).Create(o).Error
		if err != nil {
			return err
		}
		var stored OverSummary
		if err := tx.Where("match_id = ? AND innings_number = ? AND over_number = ?", o.MatchID, o.InningsNumber, o.OverNumber).
			First(&stored).Error; err != nil {
			return err
		}
		*o = stored

		var preds []OverPrediction
		if err := tx.Where("over_summary_id = ?", o.ID).Find(&preds).Error; err != nil {
			return err
		}
		for i := range preds {
			preds[i].grade(o)
			if err := tx.Model(&preds[i]).
				Select("is_correct_runs", "is_correct_wicket").
				Updates(&preds[i]).Error; err != nil {
				return err
			}
		}
		o.Predictions = preds
		return nil
	})
}

func (r *predictionRepository) GetOverSummary(ctx context.Context, id uint) (*OverSummary, error) {
	var o OverSummary
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *predictionRepository) ListOverSummaries(ctx context.Context, matchID uint, innings int) ([]OverSummary, error) {
	var overs []OverSummary
	err := r.db.WithContext(ctx).
		Preload("Predictions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Predictions.User").
		Where("match_id = ? AND innings_number = ?", matchID, innings).
		Order("over_number desc").
		Find(&overs).Error
	return overs, err
}

// UpsertOverPrediction stores the guess graded against the over's recorded figures.
func (r *predictionRepository) UpsertOverPrediction(ctx context.Context, p *OverPrediction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o OverSummary
		if err := tx.First(&o, p.OverSummaryID).Error; err != nil {
			return err
		}
		p.grade(&o)

		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "over_summary_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"predicted_runs", "predicted_wicket", "is_correct_runs", "is_correct_wicket", "updated_at",
			}),
		}).Create(p).Error
		if err != nil {
			return err
		}
		var stored OverPrediction
		if err := tx.Where("user_id = ? AND over_summary_id = ?", p.UserID, p.OverSummaryID).First(&stored).Error; err != nil {
			return err
		}
		*p = stored
		return nil
	})
}
