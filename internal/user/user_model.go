package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username       string `gorm:"uniqueIndex;size:20;not null" json:"username"`
	Name           string `gorm:"size:100;not null" json:"name"`
	Password       string `gorm:"not null" json:"-"`
	Role           string `gorm:"size:10;not null;default:user" json:"role"`
	Bio            string `gorm:"size:160" json:"bio"`
	Avatar         string `json:"avatar"`
	CoverImage     string `json:"cover_image"`
	Location       string `gorm:"size:100" json:"location"`
	Website        string `json:"website"`
	IsVerified     bool   `gorm:"default:false" json:"is_verified"`
	FavoriteTeam   string `gorm:"size:100" json:"favorite_team"`
	FavoritePlayer string `gorm:"size:100" json:"favorite_player"`
}

type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}

// Follow is a directed edge; the pair is unique.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"uniqueIndex:idx_follow_pair;not null" json:"follower_id"`
	FollowingID uint      `gorm:"uniqueIndex:idx_follow_pair;index;not null" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile is a user as seen by a viewer.
type Profile struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Bio            string    `json:"bio"`
	Avatar         string    `json:"avatar"`
	CoverImage     string    `json:"cover_image"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	IsVerified     bool      `json:"is_verified"`
	FavoriteTeam   string    `json:"favorite_team"`
	FavoritePlayer string    `json:"favorite_player"`
	CreatedAt      time.Time `json:"created_at"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	PostCount      int64     `json:"post_count"`
	IsFollowing    bool      `json:"is_following"`
}

func NewProfile(u *User) Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Role:           u.Role,
		Bio:            u.Bio,
		Avatar:         u.Avatar,
		CoverImage:     u.CoverImage,
		Location:       u.Location,
		Website:        u.Website,
		IsVerified:     u.IsVerified,
		FavoriteTeam:   u.FavoriteTeam,
		FavoritePlayer: u.FavoritePlayer,
		CreatedAt:      u.CreatedAt,
	}
}
