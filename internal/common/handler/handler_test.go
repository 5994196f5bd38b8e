package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/tbsg/channel/queryPay", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	t.Run("nil 不处理", func(t *testing.T) {
		c, w := createTestContext()
		assert.False(t, HandleError(c, nil))
		assert.Equal(t, 0, w.Body.Len())
	})

	t.Run("冲突错误返回 400 与 FAIL", func(t *testing.T) {
		c, w := createTestContext()
		assert.True(t, HandleError(c, errors.ErrAlreadyPaid))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, response.ReturnFail, body["returnCode"])
		assert.Equal(t, "订单已支付成功，请勿重复支付", body["returnMsg"])
	})

	t.Run("被包装的业务错误仍按类别处理", func(t *testing.T) {
		c, w := createTestContext()
		HandleError(c, fmt.Errorf("query: %w", errors.ErrOrderNotFound))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "订单不存在", decode(t, w)["returnMsg"])
	})

	t.Run("依赖错误返回 500", func(t *testing.T) {
		c, w := createTestContext()
		HandleError(c, errors.ErrNotifyFailed.WithError(stderrors.New("dial tcp: refused")))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "回调淘宝闪购失败", decode(t, w)["returnMsg"])
	})

	t.Run("普通错误不泄漏细节", func(t *testing.T) {
		c, w := createTestContext()
		HandleError(c, stderrors.New("pq: relation does not exist"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, response.SystemErrorMessage, body["returnMsg"])
		assert.NotContains(t, w.Body.String(), "relation")
	})
}

func TestHandleMessageError(t *testing.T) {
	c, w := createTestContext()
	assert.True(t, HandleMessageError(c, errors.ErrPaymentFailed))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"支付失败"}`, w.Body.String())
}

func TestPrefixedMessage(t *testing.T) {
	assert.Equal(t, "查询失败: 订单不存在", PrefixedMessage("查询失败: ", errors.ErrOrderNotFound))
	assert.Equal(t, "退款失败: 退款金额超过支付金额", PrefixedMessage("退款失败:", errors.ErrRefundExceedsPayment))
	assert.Equal(t, "关闭失败: "+response.SystemErrorMessage, PrefixedMessage("关闭失败: ", stderrors.New("db down")))
	assert.Equal(t, "订单已关闭", PrefixedMessage("", errors.ErrOrderClosed))
	assert.Empty(t, PrefixedMessage("查询失败: ", nil))
}
