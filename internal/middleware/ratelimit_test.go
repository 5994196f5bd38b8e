package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.POST("/login", LoginRateLimit(client, 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	login := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w
	}

	t.Run("窗口内放行", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, login().Code)
		w := login()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("超过限制返回 429", func(t *testing.T) {
		w := login()
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "请求过于频繁")
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("窗口过期后恢复", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		assert.Equal(t, http.StatusOK, login().Code)
	})

	t.Run("Redis 不可用时放行", func(t *testing.T) {
		mr.Close()
		assert.Equal(t, http.StatusOK, login().Code)
	})
}
