package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotifyLog 向淘宝闪购发送回调的记录
type NotifyLog struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	NotifyType   string         `gorm:"type:varchar(10);not null;index:idx_notify_biz" json:"notify_type"`
	BizNo        string         `gorm:"type:varchar(64);not null;index:idx_notify_biz" json:"biz_no"`
	NotifyURL    string         `gorm:"column:notify_url;type:varchar(512)" json:"notify_url"`
	Request      datatypes.JSON `json:"request"`
	Response     string         `gorm:"type:text" json:"response"`
	HTTPStatus   int            `gorm:"column:http_status" json:"http_status"`
	Status       string         `gorm:"type:varchar(10);not null" json:"status"`
	ErrorMessage string         `gorm:"type:varchar(512)" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (NotifyLog) TableName() string {
	return "notify_logs"
}

// NotifyType 回调类型
const (
	NotifyTypePay    = "pay"
	NotifyTypeRefund = "refund"
)

// NotifyStatus 回调结果
const (
	NotifyStatusSuccess = "success"
	NotifyStatusFailed  = "failed"
)
