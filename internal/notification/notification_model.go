package notification

import (
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"gorm.io/gorm"
)

type Type string

const (
	TypeLike        Type = "like"
	TypeComment     Type = "comment"
	TypeFollow      Type = "follow"
	TypeMention     Type = "mention"
	TypeMatchUpdate Type = "match_update"
	TypeRepost      Type = "repost"
)

type Notification struct {
	gorm.Model
	Type        Type          `gorm:"size:20;not null" json:"type"`
	RecipientID uint          `gorm:"index;not null" json:"recipient_id"`
	SenderID    *uint         `json:"sender_id,omitempty"`
	Sender      *models.Actor `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	PostID      *uint         `json:"post_id,omitempty"`
	MatchID     *uint         `json:"match_id,omitempty"`
	Message     string        `gorm:"size:500" json:"message"`
	IsRead      bool          `gorm:"index;default:false" json:"is_read"`
}

// Event is what producers hand to a Notifier and what travels on the queue.
type Event struct {
	Type        Type   `json:"type"`
	RecipientID uint   `json:"recipient_id"`
	SenderID    *uint  `json:"sender_id,omitempty"`
	PostID      *uint  `json:"post_id,omitempty"`
	MatchID     *uint  `json:"match_id,omitempty"`
	Message     string `json:"message"`
}

// Deliverable is false for events with no recipient and for users acting
// on their own content.
func (e Event) Deliverable() bool {
	if e.RecipientID == 0 {
		return false
	}
	return e.SenderID == nil || *e.SenderID != e.RecipientID
}

func (e Event) toModel() *Notification {
	return &Notification{
		Type:        e.Type,
		RecipientID: e.RecipientID,
		SenderID:    e.SenderID,
		PostID:      e.PostID,
		MatchID:     e.MatchID,
		Message:     e.Message,
	}
}
