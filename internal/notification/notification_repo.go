package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, recipientID uint, page, pageSize int) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, recipientID uint, ids []uint) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	PruneRead(ctx context.Context, olderThan time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) List(ctx context.Context, recipientID uint, page, pageSize int) ([]Notification, int64, error) {
	var items []Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&Notification{}).Where("recipient_id = ?", recipientID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Sender").
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead only touches notifications owned by recipientID.
func (r *notificationRepository) MarkRead(ctx context.Context, recipientID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// PruneRead hard-deletes read notifications created before olderThan.
func (r *notificationRepository) PruneRead(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("is_read = ? AND created_at < ?", true, olderThan).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}
