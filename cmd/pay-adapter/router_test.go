package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/config"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/oss"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/tbsg"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.ContextPath = "/pay-adapter"
	cfg.Pay.SignEnabled = false
	cfg.Pay.CashierURL = "https://cashier.example.com/pay.html"
	cfg.Bill.StoragePath = ""
	cfg.Metrics.Enabled = false
	cfg.Login.ConsumerSecret = "test-secret"
	cfg.Login.AllowedMobiles = []string{"13800138000"}
	return cfg
}

func TestNewSigner(t *testing.T) {
	t.Run("关闭验签", func(t *testing.T) {
		signer, err := newSigner(&config.PayConfig{SignEnabled: false}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, tbsg.NoopSigner{}, signer)
	})

	t.Run("密钥非法", func(t *testing.T) {
		_, err := newSigner(&config.PayConfig{SignEnabled: true, PlatformPublicKey: "bad"}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "解析平台公钥失败")
	})
}

func TestNewStorage(t *testing.T) {
	storage, err := newStorage(&config.OSSConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &oss.MockUploader{}, storage)

	_, err = newStorage(&config.OSSConfig{Provider: "s3"})
	assert.Error(t, err)
}

func TestSetupRouter(t *testing.T) {
	cfg := testConfig()
	cfg.Bill.StoragePath = t.TempDir()
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	a, err := newApp(cfg, zap.NewNop(), db, nil, nil)
	require.NoError(t, err)

	r := gin.New()
	setupRouter(r, cfg, zap.NewNop(), db, nil, nil, a)

	t.Run("健康检查挂在根路径", func(t *testing.T) {
		w, body := serve(r, "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("业务路由挂在 contextPath 下", func(t *testing.T) {
		form := url.Values{
			"transactionId": {"TX001"},
			"payAmount":     {"1000"},
			"subject":       {"测试商品"},
		}
		req := httptest.NewRequest(http.MethodPost, "/pay-adapter/tbsg/channel/pay", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), cfg.Pay.CashierURL))
	})

	t.Run("未加 contextPath 返回 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tbsg/channel/queryPay", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSetupScheduler(t *testing.T) {
	cfg := testConfig()
	cfg.Bill.Enabled = false
	sched, err := setupScheduler(cfg, zap.NewNop(), &app{})
	require.NoError(t, err)
	assert.Nil(t, sched)

	cfg.Bill.Enabled = true
	cfg.Bill.Cron = "bad spec"
	_, err = setupScheduler(cfg, zap.NewNop(), &app{})
	assert.Error(t, err)
}
