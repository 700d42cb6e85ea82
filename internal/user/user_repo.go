package user

import (
	"context"
	"errors"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, u *User) error
	Search(ctx context.Context, q string, limit int) ([]models.Actor, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]models.Actor, error)

	ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	FollowCounts(ctx context.Context, userID uint) (followers, following int64, err error)
	Followers(ctx context.Context, userID uint, page, pageSize int) ([]models.Actor, int64, error)
	Following(ctx context.Context, userID uint, page, pageSize int) ([]models.Actor, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername matches case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(username)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UsernameTaken also counts soft-deleted accounts, which still hold the
// unique index.
func (r *userRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&User{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) Search(ctx context.Context, q string, limit int) ([]models.Actor, error) {
	var out []models.Actor
	like := "%" + strings.ToLower(q) + "%"
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", like, like).
		Order("is_verified DESC").Order("username ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *userRepository) FindByUsernames(ctx context.Context, usernames []string) ([]models.Actor, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	lower := make([]string, len(usernames))
	for i, u := range usernames {
		lower[i] = strings.ToLower(u)
	}
	var out []models.Actor
	err := r.db.WithContext(ctx).Model(&User{}).Where("LOWER(username) IN ?", lower).Find(&out).Error
	return out, err
}

// ToggleFollow removes the edge when present, otherwise inserts it, and
// reports whether followerID now follows followingID.
func (r *userRepository) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}
		following = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Follow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	return following, err
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) FollowCounts(ctx context.Context, userID uint) (int64, int64, error) {
	var followers, following int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&Follow{}).Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (r *userRepository) Followers(ctx context.Context, userID uint, page, pageSize int) ([]models.Actor, int64, error) {
	return r.followPage(ctx, "follows.following_id = ?", "follows.follower_id", userID, page, pageSize)
}

func (r *userRepository) Following(ctx context.Context, userID uint, page, pageSize int) ([]models.Actor, int64, error) {
	return r.followPage(ctx, "follows.follower_id = ?", "follows.following_id", userID, page, pageSize)
}

func (r *userRepository) followPage(ctx context.Context, where, joinCol string, userID uint, page, pageSize int) ([]models.Actor, int64, error) {
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&Follow{}).Where(where, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Actor
	err := db.Model(&User{}).
		Select("users.id, users.username, users.name, users.avatar, users.is_verified").
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(where, userID).
		Order("follows.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
