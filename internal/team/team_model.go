package team

import (
	"time"

	"gorm.io/gorm"
)

const (
	TypeNational  = "national"
	TypeFranchise = "franchise"
	TypeClub      = "club"

	RoleBatsman      = "batsman"
	RoleBowler       = "bowler"
	RoleAllRounder   = "all-rounder"
	RoleWicketKeeper = "wicket-keeper"
)

// Team is a side that plays matches. Names are unique.
type Team struct {
	gorm.Model
	Name      string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	ShortName string `json:"short_name" gorm:"size:10"`
	Logo      string `json:"logo"`
	Country   string `json:"country" gorm:"size:100;index"`
	TeamType  string `json:"team_type" gorm:"size:20;default:'national';index"`
}

type Player struct {
	gorm.Model
	Name         string     `json:"name" gorm:"size:100;not null"`
	Image        string     `json:"image"`
	Country      string     `json:"country" gorm:"size:100"`
	Role         string     `json:"role" gorm:"size:20"`
	BattingStyle string     `json:"batting_style" gorm:"size:50"`
	BowlingStyle string     `json:"bowling_style" gorm:"size:50"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	TeamID       *uint      `json:"team_id" gorm:"index"`
	Team         *Team      `json:"team,omitempty"`
}

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100" example:"India"`
	ShortName string `json:"short_name" binding:"omitempty,max=10" example:"IND"`
	Logo      string `json:"logo" binding:"omitempty,url"`
	Country   string `json:"country" binding:"omitempty,max=100" example:"India"`
	TeamType  string `json:"team_type" binding:"omitempty,oneof=national franchise club"`
}

// CreatePlayerRequest attaches the player to TeamID, or to TeamName which is
// created when it does not exist yet.
type CreatePlayerRequest struct {
	Name         string     `json:"name" binding:"required,min=2,max=100" example:"Jasprit Bumrah"`
	Image        string     `json:"image" binding:"omitempty,url"`
	Country      string     `json:"country" binding:"omitempty,max=100"`
	Role         string     `json:"role" binding:"omitempty,oneof=batsman bowler all-rounder wicket-keeper"`
	BattingStyle string     `json:"batting_style" binding:"omitempty,max=50"`
	BowlingStyle string     `json:"bowling_style" binding:"omitempty,max=50"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	TeamID       *uint      `json:"team_id"`
	TeamName     string     `json:"team_name" binding:"omitempty,min=2,max=100"`
}
