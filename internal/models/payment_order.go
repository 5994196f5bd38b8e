package models

import (
	"time"
)

// PaymentOrder 淘宝闪购支付订单
type PaymentOrder struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_id"`
	OutTradeNo    string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"out_trade_no"`
	PayAmount     int64      `gorm:"not null" json:"pay_amount"`
	Subject       string     `gorm:"type:varchar(256)" json:"subject"`
	Body          string     `gorm:"type:varchar(512)" json:"body"`
	UID           string     `gorm:"column:uid;type:varchar(64)" json:"uid"`
	PayStatus     string     `gorm:"type:varchar(20);not null;index" json:"pay_status"`
	NotifyURL     string     `gorm:"column:notify_url;type:varchar(512)" json:"notify_url"`
	RedirectURL   string     `gorm:"column:redirect_url;type:varchar(512)" json:"redirect_url"`
	RequestTime   time.Time  `gorm:"not null" json:"request_time"`
	SuccessTime   *time.Time `json:"success_time,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (PaymentOrder) TableName() string {
	return "payment_orders"
}

// PayStatus 支付状态
const (
	PayStatusNotPay     = "NOTPAY"     // 待支付
	PayStatusProcessing = "PROCESSING" // 支付中
	PayStatusSuccess    = "SUCCESS"    // 支付成功
	PayStatusFail       = "FAIL"       // 支付失败
	PayStatusClosed     = "CLOSED"     // 已关闭
)

// PayStatusPending 与 NOTPAY 等价的别名
const PayStatusPending = "PENDING"

// IsTerminal 是否为终态
func (o *PaymentOrder) IsTerminal() bool {
	return o.PayStatus == PayStatusSuccess || o.PayStatus == PayStatusClosed
}

// CanTransitTo 判断状态流转是否合法
// NOTPAY/PENDING -> PROCESSING/SUCCESS/CLOSED，PROCESSING -> SUCCESS/CLOSED
func (o *PaymentOrder) CanTransitTo(next string) bool {
	switch o.PayStatus {
	case PayStatusNotPay, PayStatusPending:
		return next == PayStatusProcessing || next == PayStatusSuccess || next == PayStatusClosed
	case PayStatusProcessing:
		return next == PayStatusSuccess || next == PayStatusClosed
	default:
		return false
	}
}
