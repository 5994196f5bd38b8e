package models

import (
	"time"
)

// BillRecord 对账单明细，每笔成功的支付或退款一行，写入后不再修改
type BillRecord struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BillDate            string    `gorm:"type:varchar(10);index;not null" json:"bill_date"`
	PayCode             string    `gorm:"type:varchar(64);not null" json:"pay_code"`
	TransType           string    `gorm:"type:varchar(10);not null" json:"trans_type"`
	RequestTime         string    `gorm:"type:varchar(19)" json:"request_time"`
	SuccessTime         string    `gorm:"type:varchar(19)" json:"success_time"`
	TransactionID       string    `gorm:"type:varchar(64);index;not null" json:"transaction_id"`
	OutTransactionID    string    `gorm:"type:varchar(64);not null" json:"out_transaction_id"`
	TransStatus         string    `gorm:"type:varchar(4);not null" json:"trans_status"`
	TransAmount         int64     `gorm:"not null" json:"trans_amount"`
	UserTransRealAmount int64     `gorm:"not null" json:"user_trans_real_amount"`
	SettleAmount        int64     `gorm:"not null;default:0" json:"settle_amount"`
	MarketingAmount     int64     `gorm:"not null;default:0" json:"marketing_amount"`
	MarketingType       string    `gorm:"type:varchar(32)" json:"marketing_type"`
	MarketingFee        int64     `gorm:"not null;default:0" json:"marketing_fee"`
	OriginTransactionID string    `gorm:"type:varchar(64)" json:"origin_transaction_id"`
	Rate                int64     `gorm:"not null;default:0" json:"rate"`
	Fee                 int64     `gorm:"not null;default:0" json:"fee"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (BillRecord) TableName() string {
	return "bill_records"
}

// TransType 交易类型
const (
	TransTypePay    = "pay"
	TransTypeRefund = "refund"
)

// TransStatusSuccess 交易成功
const TransStatusSuccess = "S"
