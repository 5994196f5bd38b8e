package models

import (
	"time"
)

// RefundOrder 淘宝闪购退款订单
type RefundOrder struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RefundNo      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"refund_no"`
	TransactionID string     `gorm:"type:varchar(64);index;not null" json:"transaction_id"`
	OutRefundNo   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"out_refund_no"`
	PayAmount     int64      `gorm:"not null" json:"pay_amount"`
	RefundAmount  int64      `gorm:"not null" json:"refund_amount"`
	RefundStatus  string     `gorm:"type:varchar(20);not null" json:"refund_status"`
	NotifyURL     string     `gorm:"column:notify_url;type:varchar(512)" json:"notify_url"`
	RequestTime   time.Time  `gorm:"not null" json:"request_time"`
	SuccessTime   *time.Time `json:"success_time,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (RefundOrder) TableName() string {
	return "refund_orders"
}

// RefundStatus 退款状态
const (
	RefundStatusPending    = "PENDING"
	RefundStatusProcessing = "PROCESSING"
	RefundStatusSuccess    = "SUCCESS"
	RefundStatusFail       = "FAIL"
)
