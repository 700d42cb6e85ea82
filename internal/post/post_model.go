package post

import (
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"gorm.io/gorm"
)

const trendingWindow = 7 * 24 * time.Hour

type Post struct {
	gorm.Model
	Content        string             `gorm:"size:500;not null" json:"content"`
	Images         models.StringSlice `gorm:"type:text" json:"images"`
	AuthorID       uint               `gorm:"index;not null" json:"author_id"`
	Author         *models.Actor      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	MatchID        *uint              `gorm:"index" json:"match_id,omitempty"`
	Match          *match.Match       `gorm:"foreignKey:MatchID" json:"match,omitempty"`
	IsRepost       bool               `gorm:"default:false" json:"is_repost"`
	OriginalPostID *uint              `gorm:"index" json:"original_post_id,omitempty"`
	OriginalPost   *Post              `gorm:"foreignKey:OriginalPostID" json:"original_post,omitempty"`
	Hashtags       []Hashtag          `gorm:"many2many:post_hashtags" json:"hashtags"`
	Poll           *Poll              `gorm:"foreignKey:PostID" json:"poll,omitempty"`
}

type Comment struct {
	gorm.Model
	Content  string        `gorm:"size:300;not null" json:"content"`
	PostID   uint          `gorm:"index;not null" json:"post_id"`
	AuthorID uint          `gorm:"not null" json:"author_id"`
	Author   *models.Actor `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ParentID *uint         `gorm:"index" json:"parent_id,omitempty"`
	Replies  []Comment     `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

type Like struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Hashtag names are stored lower-cased without the leading '#'.
type Hashtag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PostHashtag is the join row behind Post.Hashtags.
type PostHashtag struct {
	PostID    uint `gorm:"primaryKey"`
	HashtagID uint `gorm:"primaryKey;index"`
}

type Poll struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	PostID    uint         `gorm:"uniqueIndex;not null" json:"post_id"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	Options   []PollOption `gorm:"foreignKey:PollID" json:"options"`
	CreatedAt time.Time    `json:"created_at"`
}

func (p *Poll) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

type PollOption struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	PollID uint   `gorm:"index;not null" json:"poll_id"`
	Text   string `gorm:"size:50;not null" json:"text"`
	Poll   *Poll  `gorm:"foreignKey:PollID" json:"-"`

	VoteCount int64 `gorm:"-" json:"vote_count"`
}

// PollVote carries the poll id so the unique index enforces one vote per poll.
type PollVote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote_user" json:"user_id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote_user" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PollRequest struct {
	Options   []string `json:"options" binding:"required,min=2,max=4,dive,required,max=50"`
	ExpiresIn int      `json:"expires_in" binding:"required,min=1,max=7"`
}

type CreatePostRequest struct {
	Content string       `json:"content" binding:"required,min=1,max=500"`
	Images  []string     `json:"images" binding:"omitempty,max=4,dive,url"`
	MatchID *uint        `json:"match_id"`
	Poll    *PollRequest `json:"poll"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=300"`
	ParentID *uint  `json:"parent_id"`
}

// FeedFilter narrows the feed. Zero fields are ignored.
type FeedFilter struct {
	AuthorID *uint
	MatchID  *uint
	Hashtag  string
}

// Stats are the per-post counters and the viewer's own interactions.
type Stats struct {
	CommentCount int64 `json:"comment_count"`
	LikeCount    int64 `json:"like_count"`
	RepostCount  int64 `json:"repost_count"`
	IsLiked      bool  `json:"is_liked"`
	IsBookmarked bool  `json:"is_bookmarked"`
	IsReposted   bool  `json:"is_reposted"`
}

// PostView is a post as rendered in feeds.
type PostView struct {
	Post
	Stats
	MyVote   *uint     `json:"my_vote,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

type TrendingHashtag struct {
	Name      string `json:"name"`
	PostCount int64  `json:"post_count"`
}
