package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

// RefundOrderRepository 退款订单仓储
type RefundOrderRepository struct {
	db *gorm.DB
}

// NewRefundOrderRepository 创建退款订单仓储
func NewRefundOrderRepository(db *gorm.DB) *RefundOrderRepository {
	return &RefundOrderRepository{db: db}
}

// Create 创建退款订单
func (r *RefundOrderRepository) Create(ctx context.Context, tx *gorm.DB, refund *models.RefundOrder) error {
	return tx.WithContext(ctx).Create(refund).Error
}

// GetByRefundNo 根据淘宝闪购退款单号获取
func (r *RefundOrderRepository) GetByRefundNo(ctx context.Context, refundNo string) (*models.RefundOrder, error) {
	var refund models.RefundOrder
	err := r.db.WithContext(ctx).Where("refund_no = ?", refundNo).First(&refund).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

// GetByRefundNoInTx 在事务中读取，用于退款幂等判断
func (r *RefundOrderRepository) GetByRefundNoInTx(ctx context.Context, tx *gorm.DB, refundNo string) (*models.RefundOrder, error) {
	var refund models.RefundOrder
	err := tx.WithContext(ctx).Where("refund_no = ?", refundNo).First(&refund).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}
