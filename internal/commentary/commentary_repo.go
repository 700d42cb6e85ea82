package commentary

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentaryRepository interface {
	ToggleCommentaryReaction(ctx context.Context, userID, commentaryID uint, typ string) (bool, error)
	ToggleCommentReaction(ctx context.Context, userID, commentID uint, typ string) (bool, error)
	CreateComment(ctx context.Context, c *CommentaryComment) error
	GetComment(ctx context.Context, id uint) (*CommentaryComment, error)

	CommentaryReactionCounts(ctx context.Context, commentaryIDs []uint) (map[uint]map[string]int64, error)
	CommentaryReactionsBy(ctx context.Context, userID uint, commentaryIDs []uint) (map[uint][]string, error)
	CommentsFor(ctx context.Context, commentaryIDs []uint) (map[uint][]CommentaryComment, error)
	CommentReactionCounts(ctx context.Context, commentIDs []uint) (map[uint]map[string]int64, error)
	CommentReactionsBy(ctx context.Context, userID uint, commentIDs []uint) (map[uint][]string, error)
}

type commentaryRepository struct {
	db *gorm.DB
}

func NewCommentaryRepository(db *gorm.DB) CommentaryRepository {
	return &commentaryRepository{db: db}
}

// toggle removes the row matching where, or inserts row when none existed.
func (r *commentaryRepository) toggle(ctx context.Context, where map[string]interface{}, row interface{}) (bool, error) {
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

func (r *commentaryRepository) ToggleCommentaryReaction(ctx context.Context, userID, commentaryID uint, typ string) (bool, error) {
	return r.toggle(ctx,
		map[string]interface{}{"user_id": userID, "commentary_id": commentaryID, "type": typ},
		&CommentaryReaction{UserID: userID, CommentaryID: commentaryID, Type: typ})
}

func (r *commentaryRepository) ToggleCommentReaction(ctx context.Context, userID, commentID uint, typ string) (bool, error) {
	return r.toggle(ctx,
		map[string]interface{}{"user_id": userID, "comment_id": commentID, "type": typ},
		&CommentReaction{UserID: userID, CommentID: commentID, Type: typ})
}

func (r *commentaryRepository) CreateComment(ctx context.Context, c *CommentaryComment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *commentaryRepository) GetComment(ctx context.Context, id uint) (*CommentaryComment, error) {
	var c CommentaryComment
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type reactionCount struct {
	OwnerID uint
	Type    string
	Count   int64
}

func (r *commentaryRepository) counts(ctx context.Context, model interface{}, ownerCol string, ids []uint) (map[uint]map[string]int64, error) {
	out := make(map[uint]map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []reactionCount
	err := r.db.WithContext(ctx).Model(model).
		Select(ownerCol+" AS owner_id, type, COUNT(*) AS count").
		Where(ownerCol+" IN ?", ids).
		Group(ownerCol + ", type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if out[row.OwnerID] == nil {
			out[row.OwnerID] = map[string]int64{}
		}
		out[row.OwnerID][row.Type] = row.Count
	}
	return out, nil
}

func (r *commentaryRepository) reactionsBy(ctx context.Context, model interface{}, ownerCol string, userID uint, ids []uint) (map[uint][]string, error) {
	out := map[uint][]string{}
	if userID == 0 || len(ids) == 0 {
		return out, nil
	}
	var rows []reactionCount
	err := r.db.WithContext(ctx).Model(model).
		Select(ownerCol+" AS owner_id, type").
		Where("user_id = ? AND "+ownerCol+" IN ?", userID, ids).
		Order("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OwnerID] = append(out[row.OwnerID], row.Type)
	}
	return out, nil
}

func (r *commentaryRepository) CommentaryReactionCounts(ctx context.Context, ids []uint) (map[uint]map[string]int64, error) {
	return r.counts(ctx, &CommentaryReaction{}, "commentary_id", ids)
}

func (r *commentaryRepository) CommentaryReactionsBy(ctx context.Context, userID uint, ids []uint) (map[uint][]string, error) {
	return r.reactionsBy(ctx, &CommentaryReaction{}, "commentary_id", userID, ids)
}

func (r *commentaryRepository) CommentReactionCounts(ctx context.Context, ids []uint) (map[uint]map[string]int64, error) {
	return r.counts(ctx, &CommentReaction{}, "comment_id", ids)
}

func (r *commentaryRepository) CommentReactionsBy(ctx context.Context, userID uint, ids []uint) (map[uint][]string, error) {
	return r.reactionsBy(ctx, &CommentReaction{}, "comment_id", userID, ids)
}

// CommentsFor groups comments by delivery, newest first.
func (r *commentaryRepository) CommentsFor(ctx context.Context, ids []uint) (map[uint][]CommentaryComment, error) {
	out := map[uint][]CommentaryComment{}
	if len(ids) == 0 {
		return out, nil
	}
	var comments []CommentaryComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("commentary_id IN ?", ids).
		Order("created_at desc").Order("id desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		out[c.CommentaryID] = append(out[c.CommentaryID], c)
	}
	return out, nil
}
