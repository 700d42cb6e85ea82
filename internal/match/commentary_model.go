package match

import (
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"gorm.io/gorm"
)

// Commentary is one delivery in the ball log. The log is the source of truth
// for a match's derived score.
type Commentary struct {
	gorm.Model
	MatchID       uint          `json:"match_id" gorm:"not null;index:idx_commentary_ball,priority:1"`
	InningsNumber int           `json:"innings_number" gorm:"not null;index:idx_commentary_ball,priority:2"`
	OverNumber    int           `json:"over_number" gorm:"not null;index:idx_commentary_ball,priority:3"`
	BallNumber    int           `json:"ball_number" gorm:"not null;index:idx_commentary_ball,priority:4"`
	Runs          int           `json:"runs" gorm:"not null;default:0"`
	IsWicket      bool          `json:"is_wicket"`
	WicketType    string        `json:"wicket_type,omitempty" gorm:"size:30"`
	IsExtra       bool          `json:"is_extra"`
	ExtraType     string        `json:"extra_type,omitempty" gorm:"size:20"`
	IsBoundary    bool          `json:"is_boundary"`
	IsSix         bool          `json:"is_six"`
	Description   string        `json:"description" gorm:"type:text;not null"`
	BatsmanName   string        `json:"batsman_name,omitempty" gorm:"size:100"`
	BowlerName    string        `json:"bowler_name,omitempty" gorm:"size:100"`
	AuthorID      *uint         `json:"author_id,omitempty"`
	Author        *models.Actor `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// CommentaryInput is the admin payload for adding or editing a delivery.
// Extras are already included in Runs.
type CommentaryInput struct {
	InningsNumber int    `json:"innings_number" binding:"required,min=1,max=4"`
	OverNumber    int    `json:"over_number" binding:"min=0"`
	BallNumber    int    `json:"ball_number" binding:"required,min=1,max=6"`
	Runs          int    `json:"runs" binding:"min=0"`
	IsWicket      bool   `json:"is_wicket"`
	WicketType    string `json:"wicket_type" binding:"omitempty,oneof=bowled caught lbw run_out stumped hit_wicket retired_out obstructing_the_field timed_out handled_ball"`
	IsExtra       bool   `json:"is_extra"`
	ExtraType     string `json:"extra_type" binding:"omitempty,oneof=wide no_ball bye leg_bye penalty"`
	IsBoundary    bool   `json:"is_boundary"`
	IsSix         bool   `json:"is_six"`
	Description   string `json:"description" binding:"required,min=1,max=1000"`
	BatsmanName   string `json:"batsman_name" binding:"omitempty,max=100"`
	BowlerName    string `json:"bowler_name" binding:"omitempty,max=100"`
}

func (in CommentaryInput) apply(c *Commentary) {
	c.InningsNumber = in.InningsNumber
	c.OverNumber = in.OverNumber
	c.BallNumber = in.BallNumber
	c.Runs = in.Runs
	c.IsWicket = in.IsWicket
	c.WicketType = in.WicketType
	c.IsExtra = in.IsExtra
	c.ExtraType = in.ExtraType
	c.IsBoundary = in.IsBoundary
	c.IsSix = in.IsSix
	c.Description = in.Description
	c.BatsmanName = in.BatsmanName
	c.BowlerName = in.BowlerName
	if !c.IsWicket {
		c.WicketType = ""
	}
	if !c.IsExtra {
		c.ExtraType = ""
	}
}
