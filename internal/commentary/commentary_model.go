package commentary

import (
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"gorm.io/gorm"
)

// ReactionTypes are the reactions a fan can leave on a delivery or comment.
var ReactionTypes = []string{"bat", "ball", "wow", "clap", "mindblown", "fire"}

type CommentaryReaction struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_commentary_reaction"`
	CommentaryID uint      `json:"commentary_id" gorm:"not null;uniqueIndex:idx_commentary_reaction;index"`
	Type         string    `json:"type" gorm:"size:20;not null;uniqueIndex:idx_commentary_reaction"`
	CreatedAt    time.Time `json:"created_at"`
}

type CommentaryComment struct {
	gorm.Model
	CommentaryID uint          `json:"commentary_id" gorm:"not null;index"`
	UserID       uint          `json:"user_id" gorm:"not null"`
	User         *models.Actor `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Content      string        `json:"content" gorm:"size:500;not null"`
}

type CommentReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_reaction"`
	CommentID uint      `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_reaction;index"`
	Type      string    `json:"type" gorm:"size:20;not null;uniqueIndex:idx_comment_reaction"`
	CreatedAt time.Time `json:"created_at"`
}

type ReactionRequest struct {
	Type string `json:"type" binding:"required,oneof=bat ball wow clap mindblown fire" example:"fire"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

// CommentView is a comment with its reaction tallies.
type CommentView struct {
	CommentaryComment
	ReactionCounts map[string]int64 `json:"reaction_counts"`
	MyReactions    []string         `json:"my_reactions"`
}

// CommentaryView is a delivery as shown in the feed under a match.
type CommentaryView struct {
	match.Commentary
	ReactionCounts map[string]int64 `json:"reaction_counts"`
	MyReactions    []string         `json:"my_reactions"`
	Comments       []CommentView    `json:"comments"`
	CommentCount   int              `json:"comment_count"`
}
