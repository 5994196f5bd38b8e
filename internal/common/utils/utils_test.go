// Package utils 工具函数单元测试
package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSerialNo(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	no := GenerateSerialNo(PayTradeNoPrefix, now)
	assert.Regexp(t, regexp.MustCompile(`^PAY_OUT_TRADENO_1700000000123_[0-9a-f]{8}$`), no)

	t.Run("同一毫秒内仍然唯一", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			n := GenerateSerialNo(RefundTradeNoPrefix, now)
			assert.False(t, seen[n])
			seen[n] = true
		}
	})
}

func TestBuildQuery(t *testing.T) {
	t.Run("保持顺序并编码", func(t *testing.T) {
		got := BuildQuery(
			Param{"transactionId", "TX001"},
			Param{"payAmount", "1000"},
			Param{"subject", "测试 商品"},
			Param{"notifyUrl", "https://tbsg.example.com/notify?a=1&b=2"},
		)
		assert.Equal(t, "transactionId=TX001&payAmount=1000&subject=%E6%B5%8B%E8%AF%95+%E5%95%86%E5%93%81&notifyUrl=https%3A%2F%2Ftbsg.example.com%2Fnotify%3Fa%3D1%26b%3D2", got)
	})

	t.Run("跳过空值", func(t *testing.T) {
		assert.Equal(t, "a=1&c=3", BuildQuery(Param{"a", "1"}, Param{"b", ""}, Param{"c", "3"}))
		assert.Equal(t, "", BuildQuery(Param{"a", ""}))
	})
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://x.com/pay?a=1", BuildURL("https://x.com/pay", Param{"a", "1"}))
	assert.Equal(t, "https://h5.ele.me/minisite/?a=1", BuildURL("https://h5.ele.me/minisite/?", Param{"a", "1"}))
	assert.Equal(t, "https://x.com/pay?x=0&a=1", BuildURL("https://x.com/pay?x=0", Param{"a", "1"}))
	assert.Equal(t, "https://x.com/pay", BuildURL("https://x.com/pay"))
}

func TestDateHelpers(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	ts := time.Date(2024, 3, 5, 14, 30, 15, 0, loc)

	assert.Equal(t, "2024-03-05", FormatDate(ts))
	assert.Equal(t, "2024-03-05 14:30:15", FormatDateTime(&ts))
	assert.Equal(t, "", FormatDateTime(nil))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, loc), StartOfDay(ts))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"13800000000", "13900000000"}, "13900000000"))
	assert.False(t, Contains([]string{"13800000000"}, "13700000000"))
}
