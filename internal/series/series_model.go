package series

import (
	"time"

	"gorm.io/gorm"
)

const (
	FormatInternational = "international"
	FormatDomestic      = "domestic"
	FormatLeague        = "league"
)

type Series struct {
	gorm.Model
	Name      string    `json:"name" gorm:"size:150;not null;uniqueIndex"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Format    string    `json:"format" gorm:"size:20;default:'international'"`
}

type CreateSeriesRequest struct {
	Name      string    `json:"name" binding:"required,min=3,max=150" example:"Border-Gavaskar Trophy 2026"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required,gtefield=StartDate"`
	Format    string    `json:"format" binding:"omitempty,oneof=international domestic league"`
}
