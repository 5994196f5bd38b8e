package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func serve(r *gin.Engine, path string) (*httptest.ResponseRecorder, HealthResponse) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)

	w, body := serve(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body.Status)
	assert.NotZero(t, body.Timestamp)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
}

func TestReadyHandler(t *testing.T) {
	t.Run("未启用 Redis", func(t *testing.T) {
		r := gin.New()
		r.GET("/ready", readyHandler(setupTestDB(t), nil))

		w, body := serve(r, "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ready", body.Status)
		assert.Equal(t, "ok", body.Checks["database"])
		assert.Equal(t, "disabled", body.Checks["redis"])
	})

	t.Run("Redis 正常", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		r := gin.New()
		r.GET("/ready", readyHandler(setupTestDB(t), client))

		w, body := serve(r, "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", body.Checks["redis"])
	})

	t.Run("Redis 不可用", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		mr.Close()

		r := gin.New()
		r.GET("/ready", readyHandler(setupTestDB(t), client))

		w, body := serve(r, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "not ready", body.Status)
		assert.Contains(t, body.Checks["redis"], "error")
	})

	t.Run("数据库已关闭", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		r := gin.New()
		r.GET("/ready", readyHandler(db, nil))

		w, body := serve(r, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, body.Checks["database"], "error")
	})
}
