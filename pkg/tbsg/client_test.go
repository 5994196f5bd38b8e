package tbsg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PayCallback(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
		_, _ = w.Write([]byte("SUCCESS"))
	}))
	defer server.Close()

	client := NewClient(NoopSigner{}, time.Second)
	result, err := client.PayCallback(context.Background(), server.URL, &PayCallbackRequest{
		PayCode:       "TBSG_PAY",
		TransactionID: "TX001",
		OutTradeNo:    "PAY_OUT_TRADENO_1",
		PayAmount:     1000,
		PayStatus:     "SUCCESS",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.HTTPStatus)
	assert.Equal(t, "SUCCESS", result.Body)

	assert.Equal(t, "TX001", got["transactionId"])
	assert.Equal(t, "1000", got["payAmount"])
	assert.Equal(t, "PAY_OUT_TRADENO_1", got["outTradeNo"])
	assert.NotEmpty(t, got[ParamNonceStr])
}

func TestClient_RefundCallback(t *testing.T) {
	t.Run("JSON 确认", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"returnCode":"SUCCESS","returnMsg":"OK"}`))
		}))
		defer server.Close()

		_, err := NewClient(NoopSigner{}, time.Second).RefundCallback(context.Background(), server.URL, &RefundCallbackRequest{
			RefundNo:     "R001",
			RefundAmount: 400,
			RefundStatus: "SUCCESS",
		})
		assert.NoError(t, err)
	})

	t.Run("平台拒绝", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("FAIL"))
		}))
		defer server.Close()

		result, err := NewClient(NoopSigner{}, time.Second).RefundCallback(context.Background(), server.URL, &RefundCallbackRequest{RefundNo: "R001"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCallbackRejected)
		require.NotNil(t, result)
		assert.Equal(t, http.StatusInternalServerError, result.HTTPStatus)
		assert.Equal(t, "FAIL", result.Body)
	})
}

func TestClient_Errors(t *testing.T) {
	client := NewClient(NoopSigner{}, 0)

	t.Run("缺少回调地址", func(t *testing.T) {
		result, err := client.PayCallback(context.Background(), "", &PayCallbackRequest{})
		assert.ErrorIs(t, err, ErrMissingParam)
		assert.Nil(t, result)
	})

	t.Run("连接失败", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		addr := server.URL
		server.Close()

		result, err := client.PayCallback(context.Background(), addr, &PayCallbackRequest{TransactionID: "TX001"})
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Zero(t, result.HTTPStatus)
		assert.Equal(t, "TX001", result.Params["transactionId"])
	})
}

func TestAcknowledged(t *testing.T) {
	assert.True(t, Acknowledged(200, []byte("SUCCESS")))
	assert.True(t, Acknowledged(200, []byte(" success\n")))
	assert.True(t, Acknowledged(204, []byte(`{"returnCode":"SUCCESS"}`)))
	assert.False(t, Acknowledged(200, []byte(`{"returnCode":"FAIL"}`)))
	assert.False(t, Acknowledged(200, []byte("ok")))
	assert.False(t, Acknowledged(500, []byte("SUCCESS")))
}

func TestTruncate(t *testing.T) {
	t.Run("未超长原样返回", func(t *testing.T) {
		assert.Equal(t, "SUCCESS", Truncate("SUCCESS", 256))
	})

	t.Run("不拆分多字节字符", func(t *testing.T) {
		s := "a" + strings.Repeat("失", 700)
		got := Truncate(s, 2000)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), 2000)
		assert.Equal(t, 1+666*3, len(got))
	})

	t.Run("上限为零", func(t *testing.T) {
		assert.Empty(t, Truncate("失败", 0))
	})
}
