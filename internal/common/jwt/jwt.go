// Package jwt 提供淘宝闪购免登令牌的签发与校验
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience 淘宝闪购要求的令牌受众
const Audience = "ele.me"

// Claims 免登令牌声明
type Claims struct {
	Mobile string `json:"mobile"`
	OpenID string `json:"open_id"`
	Source string `json:"source"`
	jwt.RegisteredClaims
}

// Config JWT 配置
type Config struct {
	Secret     string
	ExpireTime time.Duration
}

// Manager JWT 管理器
type Manager struct {
	config *Config
	now    func() time.Time
}

// 预定义错误
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// NewManager 创建 JWT 管理器
func NewManager(config *Config) *Manager {
	return &Manager{
		config: config,
		now:    time.Now,
	}
}

// Generate 签发令牌，返回令牌与过期时间
func (m *Manager) Generate(mobile, openID, source string) (string, time.Time, error) {
	now := m.now()
	expireAt := now.Add(m.config.ExpireTime)

	claims := &Claims{
		Mobile: mobile,
		OpenID: openID,
		Source: source,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expireAt, nil
}

// Parse 校验签名、受众和有效期并返回声明
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(m.config.Secret), nil
	},
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RefreshIfExpiring 剩余有效期不超过 threshold 时按原声明重新签发
// 返回的 refreshed 表示是否换发了新令牌
func (m *Manager) RefreshIfExpiring(tokenString string, claims *Claims, threshold time.Duration) (token string, refreshed bool, err error) {
	if claims.ExpiresAt != nil && claims.ExpiresAt.Sub(m.now()) > threshold {
		return tokenString, false, nil
	}
	token, _, err = m.Generate(claims.Mobile, claims.OpenID, claims.Source)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}
