package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

// NotifyLogRepository 回调记录仓储
type NotifyLogRepository struct {
	db *gorm.DB
}

// NewNotifyLogRepository 创建回调记录仓储
func NewNotifyLogRepository(db *gorm.DB) *NotifyLogRepository {
	return &NotifyLogRepository{db: db}
}

// Create 写入回调记录
func (r *NotifyLogRepository) Create(ctx context.Context, log *models.NotifyLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByBizNo 按业务单号查询回调记录，最新的在前
func (r *NotifyLogRepository) ListByBizNo(ctx context.Context, notifyType, bizNo string) ([]*models.NotifyLog, error) {
	var logs []*models.NotifyLog
	err := r.db.WithContext(ctx).
		Where("notify_type = ? AND biz_no = ?", notifyType, bizNo).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}
