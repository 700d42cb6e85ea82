package prediction

import (
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/models"
)

// MatchPrediction is a fan's pick for the winner of a match. One per user per match.
type MatchPrediction struct {
	ID              uint          `gorm:"primarykey" json:"id"`
	UserID          uint          `gorm:"not null;uniqueIndex:idx_match_prediction_user" json:"user_id"`
	MatchID         uint          `gorm:"not null;uniqueIndex:idx_match_prediction_user;index" json:"match_id"`
	PredictedTeamID uint          `gorm:"not null" json:"predicted_team_id"`
	Confidence      *int          `json:"confidence"`
	User            *models.Actor `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OverSummary is the scorer's recap of one completed over.
type OverSummary struct {
	ID            uint               `gorm:"primarykey" json:"id"`
	MatchID       uint               `gorm:"not null;uniqueIndex:idx_over_summary_over" json:"match_id"`
	InningsNumber int                `gorm:"not null;uniqueIndex:idx_over_summary_over" json:"innings_number"`
	OverNumber    int                `gorm:"not null;uniqueIndex:idx_over_summary_over" json:"over_number"`
	Balls         models.StringSlice `gorm:"type:text" json:"balls"`
	TotalRuns     int                `gorm:"not null;default:0" json:"total_runs"`
	Wickets       int                `gorm:"not null;default:0" json:"wickets"`
	Extras        int                `gorm:"not null;default:0" json:"extras"`
	BowlerName    string             `gorm:"size:100" json:"bowler_name,omitempty"`
	Predictions   []OverPrediction   `gorm:"foreignKey:OverSummaryID" json:"predictions"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// OverPrediction is a fan's guess at an over's runs and whether it has a wicket.
// The correctness flags are filled once the over summary is recorded.
type OverPrediction struct {
	ID              uint          `gorm:"primarykey" json:"id"`
	OverSummaryID   uint          `gorm:"not null;uniqueIndex:idx_over_prediction_user;index" json:"over_summary_id"`
	UserID          uint          `gorm:"not null;uniqueIndex:idx_over_prediction_user" json:"user_id"`
	PredictedRuns   int           `gorm:"not null" json:"predicted_runs"`
	PredictedWicket bool          `gorm:"not null;default:false" json:"predicted_wicket"`
	IsCorrectRuns   *bool         `json:"is_correct_runs"`
	IsCorrectWicket *bool         `json:"is_correct_wicket"`
	User            *models.Actor `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// grade marks the prediction against the recorded over.
func (p *OverPrediction) grade(o *OverSummary) {
	runs := p.PredictedRuns == o.TotalRuns
	wicket := p.PredictedWicket == (o.Wickets > 0)
	p.IsCorrectRuns = &runs
	p.IsCorrectWicket = &wicket
}

// TeamShare is one row of the winner-prediction breakdown.
type TeamShare struct {
	TeamID     uint  `json:"team_id"`
	Count      int64 `json:"count"`
	Percentage int   `json:"percentage"`
}

type MatchPredictionRequest struct {
	PredictedTeamID uint `json:"predicted_team_id" binding:"required"`
	Confidence      *int `json:"confidence" binding:"omitempty,min=1,max=100"`
}

type OverSummaryRequest struct {
	InningsNumber int      `json:"innings_number" binding:"required,min=1,max=4"`
	OverNumber    *int     `json:"over_number" binding:"required,min=0"`
	Balls         []string `json:"balls" binding:"required,max=12,dive,max=4"`
	TotalRuns     int      `json:"total_runs" binding:"min=0"`
	Wickets       int      `json:"wickets" binding:"min=0,max=10"`
	Extras        int      `json:"extras" binding:"min=0"`
	BowlerName    string   `json:"bowler_name" binding:"max=100"`
}

type OverPredictionRequest struct {
	PredictedRuns   *int `json:"predicted_runs" binding:"required,min=0,max=36"`
	PredictedWicket bool `json:"predicted_wicket"`
}
