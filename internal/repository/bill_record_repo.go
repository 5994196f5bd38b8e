package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

// BillRecordRepository 对账单明细仓储
type BillRecordRepository struct {
	db *gorm.DB
}

// NewBillRecordRepository 创建对账单明细仓储
func NewBillRecordRepository(db *gorm.DB) *BillRecordRepository {
	return &BillRecordRepository{db: db}
}

// Create 写入一条明细
func (r *BillRecordRepository) Create(ctx context.Context, tx *gorm.DB, record *models.BillRecord) error {
	return tx.WithContext(ctx).Create(record).Error
}

// ListByBillDate 按账单日期查询，支付在前退款在后，同类型按写入顺序
func (r *BillRecordRepository) ListByBillDate(ctx context.Context, billDate string) ([]*models.BillRecord, error) {
	var records []*models.BillRecord
	err := r.db.WithContext(ctx).
		Where("bill_date = ?", billDate).
		Order("trans_type ASC, created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}
