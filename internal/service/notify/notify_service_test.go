package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appErrors "github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
	"github.com/dumeirei/tbsg-pay-adapter/internal/repository"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/tbsg"
)

func setupNotifyService(t *testing.T) (*NotifyService, *repository.NotifyLogRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.NotifyLog{}))

	logRepo := repository.NewNotifyLogRepository(db)
	client := tbsg.NewClient(tbsg.NoopSigner{}, time.Second)
	return NewNotifyService(client, logRepo, "TBSG_TEST", nil, nil), logRepo
}

func TestNotifyPay(t *testing.T) {
	ctx := context.Background()
	order := &models.PaymentOrder{
		TransactionID: "TX001",
		OutTradeNo:    "PAY_OUT_TRADENO_1",
		PayAmount:     1000,
	}

	t.Run("平台确认", func(t *testing.T) {
		var form map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			form = map[string]string{
				"payCode":    r.PostForm.Get("payCode"),
				"payStatus":  r.PostForm.Get("payStatus"),
				"outTradeNo": r.PostForm.Get("outTradeNo"),
			}
			_, _ = w.Write([]byte("SUCCESS"))
		}))
		defer server.Close()

		svc, logRepo := setupNotifyService(t)
		require.NoError(t, svc.NotifyPay(ctx, server.URL, order))

		assert.Equal(t, "TBSG_TEST", form["payCode"])
		assert.Equal(t, "SUCCESS", form["payStatus"])
		assert.Equal(t, "PAY_OUT_TRADENO_1", form["outTradeNo"])

		logs, err := logRepo.ListByBizNo(ctx, models.NotifyTypePay, "TX001")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, models.NotifyStatusSuccess, logs[0].Status)
		assert.Equal(t, http.StatusOK, logs[0].HTTPStatus)
		assert.Contains(t, string(logs[0].Request), `"transactionId":"TX001"`)
	})

	t.Run("平台拒绝不重试", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc, logRepo := setupNotifyService(t)
		err := svc.NotifyPay(ctx, server.URL, order)
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrNotifyFailed)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

		logs, err := logRepo.ListByBizNo(ctx, models.NotifyTypePay, "TX001")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, models.NotifyStatusFailed, logs[0].Status)
		assert.Equal(t, http.StatusBadGateway, logs[0].HTTPStatus)
		assert.NotEmpty(t, logs[0].ErrorMessage)
	})

	t.Run("中文长响应按字符边界截断", func(t *testing.T) {
		body := "a" + strings.Repeat("失", 700)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		svc, logRepo := setupNotifyService(t)
		require.Error(t, svc.NotifyPay(ctx, server.URL, order))

		logs, err := logRepo.ListByBizNo(ctx, models.NotifyTypePay, "TX001")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.True(t, utf8.ValidString(logs[0].Response))
		assert.LessOrEqual(t, len(logs[0].Response), maxLoggedResponse)
		assert.True(t, strings.HasPrefix(body, logs[0].Response))
		assert.True(t, utf8.ValidString(logs[0].ErrorMessage))
	})

	t.Run("回调地址为空", func(t *testing.T) {
		svc, logRepo := setupNotifyService(t)
		err := svc.NotifyPay(ctx, "", order)
		assert.ErrorIs(t, err, appErrors.ErrNotifyFailed)

		logs, err := logRepo.ListByBizNo(ctx, models.NotifyTypePay, "TX001")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Contains(t, string(logs[0].Request), `"outTradeNo":"PAY_OUT_TRADENO_1"`)
	})
}

func TestNotifyRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		assert.Equal(t, "R001", r.PostForm.Get("refundNo"))
		assert.Equal(t, "400", r.PostForm.Get("refundAmount"))
		_, _ = w.Write([]byte(`{"returnCode":"SUCCESS"}`))
	}))
	defer server.Close()

	svc, logRepo := setupNotifyService(t)
	ctx := context.Background()
	err := svc.NotifyRefund(ctx, server.URL, &models.RefundOrder{
		RefundNo:      "R001",
		TransactionID: "TX001",
		OutRefundNo:   "REFUND_OUT_TRADENO_1",
		RefundAmount:  400,
		RefundStatus:  models.RefundStatusSuccess,
	})
	require.NoError(t, err)

	logs, err := logRepo.ListByBizNo(ctx, models.NotifyTypeRefund, "R001")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, `{"returnCode":"SUCCESS"}`, logs[0].Response)
}
