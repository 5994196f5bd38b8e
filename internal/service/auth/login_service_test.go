package auth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/crypto"
	appErrors "github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/jwt"
)

const testSecret = "consumer-secret-for-test"

func newLoginService(t *testing.T, expire time.Duration, hashes map[string]string) *LoginService {
	t.Helper()
	manager := jwt.NewManager(&jwt.Config{Secret: testSecret, ExpireTime: expire})
	return NewLoginService(manager, Config{
		OpenSiteSourceCode: "OPEN_SITE",
		From:               "channel_demo",
		Welfare3pp:         "welfare",
		AllowedMobiles:     []string{"13800000000", " 13900000000 "},
		PasswordHashes:     hashes,
		RefreshThreshold:   time.Hour,
	}, nil)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("白名单手机号登录成功", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		result, err := svc.Login(ctx, &LoginRequest{Mobile: "13800000000"})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(result.JWT, BearerPrefix))

		manager := jwt.NewManager(&jwt.Config{Secret: testSecret, ExpireTime: time.Hour})
		claims, err := manager.Parse(strings.TrimPrefix(result.JWT, BearerPrefix))
		require.NoError(t, err)
		assert.Equal(t, "13800000000", claims.Mobile)
		assert.Equal(t, DefaultOpenID, claims.OpenID)
		assert.Equal(t, "OPEN_SITE", claims.Source)
	})

	t.Run("白名单条目去除空白", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		_, err := svc.Login(ctx, &LoginRequest{Mobile: "13900000000"})
		assert.NoError(t, err)
	})

	t.Run("非白名单手机号", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		_, err := svc.Login(ctx, &LoginRequest{Mobile: "13700000000"})
		assert.ErrorIs(t, err, appErrors.ErrMobileNotAuthorized)
	})

	t.Run("手机号为空", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		_, err := svc.Login(ctx, &LoginRequest{Mobile: "  "})
		assert.ErrorIs(t, err, appErrors.ErrInvalidParams)
	})

	t.Run("配置了密码哈希时校验密码", func(t *testing.T) {
		hash, err := crypto.HashPassword("s3cret")
		require.NoError(t, err)
		svc := newLoginService(t, 24*time.Hour, map[string]string{"13800000000": hash})

		_, err = svc.Login(ctx, &LoginRequest{Mobile: "13800000000", Password: "wrong"})
		assert.ErrorIs(t, err, appErrors.ErrPasswordError)

		_, err = svc.Login(ctx, &LoginRequest{Mobile: "13800000000", Password: "s3cret"})
		assert.NoError(t, err)

		// 未配置哈希的手机号不校验密码
		_, err = svc.Login(ctx, &LoginRequest{Mobile: "13900000000"})
		assert.NoError(t, err)
	})
}

func TestGetTbsgH5URL(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc *LoginService) string {
		result, err := svc.Login(ctx, &LoginRequest{Mobile: "13800000000"})
		require.NoError(t, err)
		return result.JWT
	}

	t.Run("生产环境链接", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		bearer := login(t, svc)

		result, err := svc.GetTbsgH5URL(ctx, bearer, EnvProd)
		require.NoError(t, err)
		assert.False(t, result.Refreshed)
		assert.Equal(t, bearer, result.JWT)

		token := strings.TrimPrefix(bearer, BearerPrefix)
		assert.Equal(t, "https://h5.ele.me/minisite/?from=channel_demo&opensite_source=OPEN_SITE"+
			"&welfare_3pp=welfare&latitude=22.123025&longitude=113.562928&jwt="+url.QueryEscape(token), result.URL)
	})

	t.Run("预发环境追加 env=ppe", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		result, err := svc.GetTbsgH5URL(ctx, login(t, svc), EnvPPE)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.URL, "https://ppe-h5.ele.me/minisite/?from="))
		assert.True(t, strings.HasSuffix(result.URL, "&env=ppe"))
	})

	t.Run("临近过期时换发令牌", func(t *testing.T) {
		svc := newLoginService(t, 30*time.Minute, nil)
		result, err := svc.GetTbsgH5URL(ctx, login(t, svc), EnvProd)
		require.NoError(t, err)
		assert.True(t, result.Refreshed)
		assert.True(t, strings.HasPrefix(result.JWT, BearerPrefix))
	})

	t.Run("缺少 Bearer 前缀", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		_, err := svc.GetTbsgH5URL(ctx, "", EnvProd)
		assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

		_, err = svc.GetTbsgH5URL(ctx, "Token abc", EnvProd)
		assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	})

	t.Run("令牌无效", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		_, err := svc.GetTbsgH5URL(ctx, BearerPrefix+"not-a-jwt", EnvProd)
		assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

		other := jwt.NewManager(&jwt.Config{Secret: "another-secret", ExpireTime: time.Hour})
		token, _, err := other.Generate("13800000000", DefaultOpenID, "OPEN_SITE")
		require.NoError(t, err)
		_, err = svc.GetTbsgH5URL(ctx, BearerPrefix+token, EnvProd)
		assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
	})

	t.Run("未知环境", func(t *testing.T) {
		svc := newLoginService(t, 24*time.Hour, nil)
		_, err := svc.GetTbsgH5URL(ctx, login(t, svc), "DAILY")
		assert.ErrorIs(t, err, appErrors.ErrUnknownEnv)
	})
}
