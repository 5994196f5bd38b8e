// Package utils 提供通用工具函数
package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 日期时间格式
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// 机构侧流水号前缀
const (
	PayTradeNoPrefix    = "PAY_OUT_TRADENO_"
	RefundTradeNoPrefix = "REFUND_OUT_TRADENO_"
)

// GenerateSerialNo 生成机构侧流水号
// 格式: 前缀 + 毫秒时间戳 + "_" + 8 位随机串
func GenerateSerialNo(prefix string, now time.Time) string {
	return prefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + uuid.New().String()[:8]
}

// Param 有序查询参数
type Param struct {
	Key   string
	Value string
}

// BuildQuery 按给定顺序拼接查询串，跳过空值
func BuildQuery(params ...Param) string {
	var sb strings.Builder
	for _, p := range params {
		if p.Value == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// BuildURL 将有序参数拼接到基础地址之后
func BuildURL(base string, params ...Param) string {
	query := BuildQuery(params...)
	if query == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
		if strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&") {
			sep = ""
		}
	}
	return base + sep + query
}

// FormatDate 格式化为 yyyy-MM-dd
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime 格式化为 yyyy-MM-dd HH:mm:ss，零值返回空串
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// StartOfDay 返回 t 所在日期的零点
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Contains 判断切片是否包含元素
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
