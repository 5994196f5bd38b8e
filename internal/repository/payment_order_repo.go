// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

// PaymentOrderRepository 支付订单仓储
type PaymentOrderRepository struct {
	db *gorm.DB
}

// NewPaymentOrderRepository 创建支付订单仓储
func NewPaymentOrderRepository(db *gorm.DB) *PaymentOrderRepository {
	return &PaymentOrderRepository{db: db}
}

// Create 创建支付订单
func (r *PaymentOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.PaymentOrder) error {
	return tx.WithContext(ctx).Create(order).Error
}

// GetByTransactionID 根据淘宝闪购交易号获取
func (r *PaymentOrderRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByTransactionIDForUpdate 在事务中加行锁读取
func (r *PaymentOrderRepository) GetByTransactionIDForUpdate(ctx context.Context, tx *gorm.DB, transactionID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_id = ?", transactionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus 按原状态条件更新，返回受影响行数
// 原状态不符时返回 0，由调用方决定如何处理
func (r *PaymentOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, from, to string, successTime *time.Time) (int64, error) {
	fields := map[string]interface{}{
		"pay_status": to,
	}
	if successTime != nil {
		fields["success_time"] = *successTime
	}
	result := tx.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("id = ? AND pay_status = ?", id, from).
		Updates(fields)
	return result.RowsAffected, result.Error
}
