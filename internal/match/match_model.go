package match

import (
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/scoring"
	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "upcoming"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
	StatusAbandoned MatchStatus = "abandoned"
)

// Finished reports whether no more play is expected.
func (s MatchStatus) Finished() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

const (
	TypeTest = "test"
	TypeODI  = "odi"
	TypeT20  = "t20"
	TypeT10  = "t10"
)

// Match is one fixture between two teams. HomeScore, AwayScore,
// CurrentInnings and CurrentOver are derived from the ball log and are only
// written by ScoreKeeper.
type Match struct {
	gorm.Model
	HomeTeamID uint           `json:"home_team_id" gorm:"not null;index"`
	HomeTeam   team.Team      `json:"home_team" gorm:"foreignKey:HomeTeamID"`
	AwayTeamID uint           `json:"away_team_id" gorm:"not null;index"`
	AwayTeam   team.Team      `json:"away_team" gorm:"foreignKey:AwayTeamID"`
	SeriesID   *uint          `json:"series_id,omitempty" gorm:"index"`
	Series     *series.Series `json:"series,omitempty" gorm:"foreignKey:SeriesID"`

	MatchType string      `json:"match_type" gorm:"size:10;index"`
	Format    string      `json:"format" gorm:"size:20;index"`
	Venue     string      `json:"venue" gorm:"size:200;not null"`
	City      string      `json:"city" gorm:"size:100"`
	Country   string      `json:"country" gorm:"size:100"`
	StartDate time.Time   `json:"start_date" gorm:"index"`
	EndDate   *time.Time  `json:"end_date,omitempty"`
	Status    MatchStatus `json:"status" gorm:"size:20;not null;default:'upcoming';index"`
	Weather   string      `json:"weather,omitempty"`
	Pitch     string      `json:"pitch,omitempty"`

	TossWinnerID *uint      `json:"toss_winner_id,omitempty"`
	TossDecision *string    `json:"toss_decision,omitempty" gorm:"size:4"`
	WinnerID     *uint      `json:"winner_id,omitempty"`
	Winner       *team.Team `json:"winner,omitempty" gorm:"foreignKey:WinnerID"`
	Result       string     `json:"result,omitempty"`

	HomeScore      *string  `json:"home_score"`
	AwayScore      *string  `json:"away_score"`
	CurrentInnings *int     `json:"current_innings"`
	CurrentOver    *float64 `json:"current_over"`
}

func (m *Match) ScoringInfo() scoring.MatchInfo {
	return scoring.MatchInfo{
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		TossWinnerID: m.TossWinnerID,
		TossDecision: m.TossDecision,
	}
}

// Scores returns the stored derived fields.
func (m *Match) Scores() scoring.Result {
	return scoring.Result{
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		CurrentInnings: m.CurrentInnings,
		CurrentOver:    m.CurrentOver,
	}
}

func (m *Match) applyScores(r scoring.Result) {
	m.HomeScore = r.HomeScore
	m.AwayScore = r.AwayScore
	m.CurrentInnings = r.CurrentInnings
	m.CurrentOver = r.CurrentOver
}

// HasTeam reports whether id is one of the two sides.
func (m *Match) HasTeam(id uint) bool {
	return id == m.HomeTeamID || id == m.AwayTeamID
}

// MatchSummary is the editorial write-up of a match, one per match.
type MatchSummary struct {
	gorm.Model
	MatchID uint   `json:"match_id" gorm:"not null;uniqueIndex"`
	Title   string `json:"title" gorm:"size:200;not null"`
	Content string `json:"content" gorm:"type:text;not null"`
}

type CreateMatchRequest struct {
	HomeTeamID uint       `json:"home_team_id" binding:"required"`
	AwayTeamID uint       `json:"away_team_id" binding:"required,nefield=HomeTeamID"`
	SeriesID   *uint      `json:"series_id"`
	MatchType  string     `json:"match_type" binding:"required,oneof=test odi t20 t10"`
	Format     string     `json:"format" binding:"required,oneof=international domestic league"`
	Venue      string     `json:"venue" binding:"required,min=2,max=200"`
	City       string     `json:"city" binding:"omitempty,max=100"`
	Country    string     `json:"country" binding:"omitempty,max=100"`
	StartDate  time.Time  `json:"start_date" binding:"required"`
	EndDate    *time.Time `json:"end_date" binding:"omitempty,gtefield=StartDate"`
	Weather    string     `json:"weather" binding:"omitempty,max=100"`
	Pitch      string     `json:"pitch" binding:"omitempty,max=200"`
}

// UpdateMatchRequest changes only the fields that are present.
type UpdateMatchRequest struct {
	Status       *MatchStatus `json:"status" binding:"omitempty,oneof=upcoming live completed abandoned"`
	Venue        *string      `json:"venue" binding:"omitempty,min=2,max=200"`
	City         *string      `json:"city" binding:"omitempty,max=100"`
	Country      *string      `json:"country" binding:"omitempty,max=100"`
	Weather      *string      `json:"weather" binding:"omitempty,max=100"`
	Pitch        *string      `json:"pitch" binding:"omitempty,max=200"`
	EndDate      *time.Time   `json:"end_date"`
	TossWinnerID *uint        `json:"toss_winner_id"`
	TossDecision *string      `json:"toss_decision" binding:"omitempty,oneof=bat bowl"`
}

func (r UpdateMatchRequest) changesToss() bool {
	return r.TossWinnerID != nil || r.TossDecision != nil
}

type SummaryRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Content string `json:"content" binding:"required,min=10"`
}

type MatchFilter struct {
	Status    string
	Format    string
	MatchType string
	TeamID    *uint
	SeriesID  *uint
}
