package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/cricbook/pkg/dberr"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyVoted = errors.New("already voted on this poll")

type PostRepository interface {
	Create(ctx context.Context, p *Post, tags []string, poll *PollRequest) error
	GetByID(ctx context.Context, id uint) (*Post, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f FeedFilter, page, pageSize int) ([]Post, int64, error)
	ListBookmarked(ctx context.Context, userID uint, page, pageSize int) ([]Post, int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	Search(ctx context.Context, q string, limit int) ([]Post, error)

	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error)
	ToggleRepost(ctx context.Context, userID uint, original *Post) (*Post, bool, error)

	CreateComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, id uint) (*Comment, error)
	ListComments(ctx context.Context, postID uint) ([]Comment, error)

	GetOption(ctx context.Context, id uint) (*PollOption, error)
	Vote(ctx context.Context, userID uint, option *PollOption) error

	Stats(ctx context.Context, postIDs []uint, viewer uint) (map[uint]Stats, error)
	VoteCounts(ctx context.Context, pollIDs []uint) (map[uint]int64, error)
	VotesBy(ctx context.Context, userID uint, pollIDs []uint) (map[uint]uint, error)

	Trending(ctx context.Context, since time.Time, limit int) ([]TrendingHashtag, error)
	SearchHashtags(ctx context.Context, q string, limit int) ([]TrendingHashtag, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func withFeedPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Match.HomeTeam").
		Preload("Match.AwayTeam").
		Preload("OriginalPost.Author").
		Preload("Hashtags").
		Preload("Poll.Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// findOrCreateHashtags returns the rows for names, inserting the missing ones.
func findOrCreateHashtags(tx *gorm.DB, names []string) ([]Hashtag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rows := make([]Hashtag, len(names))
	for i, n := range names {
		rows[i] = Hashtag{Name: n}
	}
	if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("insert hashtags: %w", err)
	}
	var stored []Hashtag
	if err := tx.Where("name IN ?", names).Find(&stored).Error; err != nil {
		return nil, err
	}
	return stored, nil
}

// Create stores the post with its hashtags and optional poll atomically.
func (r *postRepository) Create(ctx context.Context, p *Post, tags []string, poll *PollRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hashtags, err := findOrCreateHashtags(tx, tags)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		for _, h := range hashtags {
			if err := tx.Create(&PostHashtag{PostID: p.ID, HashtagID: h.ID}).Error; err != nil {
				return err
			}
		}
		p.Hashtags = hashtags

		if poll == nil {
			return nil
		}
		pl := &Poll{PostID: p.ID, ExpiresAt: time.Now().AddDate(0, 0, poll.ExpiresIn)}
		for _, text := range poll.Options {
			pl.Options = append(pl.Options, PollOption{Text: strings.TrimSpace(text)})
		}
		if err := tx.Create(pl).Error; err != nil {
			return fmt.Errorf("create poll: %w", err)
		}
		p.Poll = pl
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*Post, error) {
	var p Post
	if err := withFeedPreloads(r.db.WithContext(ctx)).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the post together with its reposts.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("original_post_id = ? AND is_repost = ?", id, true).Delete(&Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Post{}, id).Error
	})
}

func (r *postRepository) List(ctx context.Context, f FeedFilter, page, pageSize int) ([]Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&Post{})
	if f.AuthorID != nil {
		query = query.Where("posts.author_id = ?", *f.AuthorID)
	}
	if f.MatchID != nil {
		query = query.Where("posts.match_id = ?", *f.MatchID)
	}
	if tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f.Hashtag), "#")); tag != "" {
		tagged := r.db.Table("post_hashtags").
			Select("post_hashtags.post_id").
			Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
			Where("hashtags.name = ?", tag)
		query = query.Where("posts.id IN (?)", tagged)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := withFeedPreloads(query).
		Order("posts.created_at desc").Order("posts.id desc").
		Offset(responses.Offset(page, pageSize)).Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) ListBookmarked(ctx context.Context, userID uint, page, pageSize int) ([]Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&Post{}).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id AND bookmarks.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := withFeedPreloads(query).
		Order("bookmarks.created_at desc").Order("bookmarks.id desc").
		Offset(responses.Offset(page, pageSize)).Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

func (r *postRepository) Search(ctx context.Context, q string, limit int) ([]Post, error) {
	var posts []Post
	err := withFeedPreloads(r.db.WithContext(ctx)).
		Where("LOWER(content) LIKE ? AND is_repost = ?", "%"+strings.ToLower(q)+"%", false).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// toggle removes the row matching where, or inserts row when none existed.
func (r *postRepository) toggle(ctx context.Context, where map[string]interface{}, row interface{}) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(where).Delete(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	})
	return added, err
}

func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return r.toggle(ctx, map[string]interface{}{"user_id": userID, "post_id": postID}, &Like{UserID: userID, PostID: postID})
}

func (r *postRepository) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	return r.toggle(ctx, map[string]interface{}{"user_id": userID, "post_id": postID}, &Bookmark{UserID: userID, PostID: postID})
}

// ToggleRepost deletes the user's repost of original, or creates one copying
// its content. The returned post is nil when the repost was removed.
func (r *postRepository) ToggleRepost(ctx context.Context, userID uint, original *Post) (*Post, bool, error) {
	var repost *Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("author_id = ? AND original_post_id = ? AND is_repost = ?", userID, original.ID, true).Delete(&Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		originalID := original.ID
		repost = &Post{
			Content:        original.Content,
			AuthorID:       userID,
			IsRepost:       true,
			OriginalPostID: &originalID,
		}
		return tx.Omit(clause.Associations).Create(repost).Error
	})
	if err != nil {
		return nil, false, err
	}
	return repost, repost != nil, nil
}

func (r *postRepository) CreateComment(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *postRepository) GetComment(ctx context.Context, id uint) (*Comment, error) {
	var c Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListComments returns top-level comments oldest first with their replies.
func (r *postRepository) ListComments(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at").Order("id") }).
		Preload("Replies.Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at").Order("id").
		Find(&comments).Error
	return comments, err
}

func (r *postRepository) GetOption(ctx context.Context, id uint) (*PollOption, error) {
	var o PollOption
	if err := r.db.WithContext(ctx).Preload("Poll").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *postRepository) Vote(ctx context.Context, userID uint, option *PollOption) error {
	err := r.db.WithContext(ctx).Create(&PollVote{UserID: userID, PollID: option.PollID, OptionID: option.ID}).Error
	if dberr.IsUniqueViolation(err) {
		return ErrAlreadyVoted
	}
	return err
}

type idCount struct {
	ID    uint
	Count int64
}

func (r *postRepository) countBy(ctx context.Context, model interface{}, col string, ids []uint, where ...interface{}) (map[uint]int64, error) {
	query := r.db.WithContext(ctx).Model(model).
		Select(col+" AS id, COUNT(*) AS count").
		Where(col+" IN ?", ids)
	if len(where) > 0 {
		query = query.Where(where[0], where[1:]...)
	}
	var rows []idCount
	if err := query.Group(col).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

func (r *postRepository) pluckIDs(ctx context.Context, model interface{}, col string, where string, args ...interface{}) (map[uint]bool, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(model).Where(where, args...).Pluck(col, &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Stats computes counters for postIDs and, when viewer is set, which of them
// the viewer liked, bookmarked or reposted.
func (r *postRepository) Stats(ctx context.Context, postIDs []uint, viewer uint) (map[uint]Stats, error) {
	out := make(map[uint]Stats, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	comments, err := r.countBy(ctx, &Comment{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	likes, err := r.countBy(ctx, &Like{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	reposts, err := r.countBy(ctx, &Post{}, "original_post_id", postIDs, "is_repost = ?", true)
	if err != nil {
		return nil, err
	}

	liked, bookmarked, reposted := map[uint]bool{}, map[uint]bool{}, map[uint]bool{}
	if viewer != 0 {
		if liked, err = r.pluckIDs(ctx, &Like{}, "post_id", "user_id = ? AND post_id IN ?", viewer, postIDs); err != nil {
			return nil, err
		}
		if bookmarked, err = r.pluckIDs(ctx, &Bookmark{}, "post_id", "user_id = ? AND post_id IN ?", viewer, postIDs); err != nil {
			return nil, err
		}
		if reposted, err = r.pluckIDs(ctx, &Post{}, "original_post_id",
			"author_id = ? AND is_repost = ? AND original_post_id IN ?", viewer, true, postIDs); err != nil {
			return nil, err
		}
	}

	for _, id := range postIDs {
		out[id] = Stats{
			CommentCount: comments[id],
			LikeCount:    likes[id],
			RepostCount:  reposts[id],
			IsLiked:      liked[id],
			IsBookmarked: bookmarked[id],
			IsReposted:   reposted[id],
		}
	}
	return out, nil
}

// VoteCounts returns votes per option id for the given polls.
func (r *postRepository) VoteCounts(ctx context.Context, pollIDs []uint) (map[uint]int64, error) {
	if len(pollIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).Model(&PollVote{}).
		Select("option_id AS id, COUNT(*) AS count").
		Where("poll_id IN ?", pollIDs).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

// VotesBy maps poll id to the option the user chose.
func (r *postRepository) VotesBy(ctx context.Context, userID uint, pollIDs []uint) (map[uint]uint, error) {
	out := map[uint]uint{}
	if userID == 0 || len(pollIDs) == 0 {
		return out, nil
	}
	var votes []PollVote
	if err := r.db.WithContext(ctx).Where("user_id = ? AND poll_id IN ?", userID, pollIDs).Find(&votes).Error; err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.PollID] = v.OptionID
	}
	return out, nil
}

func (r *postRepository) hashtagCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("post_hashtags").
		Select("hashtags.name AS name, COUNT(*) AS post_count").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Joins("JOIN posts ON posts.id = post_hashtags.post_id AND posts.deleted_at IS NULL").
		Group("hashtags.name").
		Order("post_count desc").Order("hashtags.name")
}

// Trending ranks hashtags by how many posts used them since the given time.
func (r *postRepository) Trending(ctx context.Context, since time.Time, limit int) ([]TrendingHashtag, error) {
	var out []TrendingHashtag
	err := r.hashtagCounts(ctx).
		Where("posts.created_at >= ?", since).
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *postRepository) SearchHashtags(ctx context.Context, q string, limit int) ([]TrendingHashtag, error) {
	var out []TrendingHashtag
	q = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(q), "#"))
	err := r.hashtagCounts(ctx).
		Where("hashtags.name LIKE ?", "%"+q+"%").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
