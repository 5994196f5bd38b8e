// Package auth 提供白名单登录与淘宝闪购 H5 免登链接服务
package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/crypto"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/jwt"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/utils"
)

// BearerPrefix Authorization 头前缀
const BearerPrefix = "Bearer "

// DefaultOpenID 未配置时写入令牌的 open_id
const DefaultOpenID = "20882322569256751123888"

// H5 环境
const (
	EnvProd = "PROD"
	EnvPPE  = "PPE"
)

// H5 入口地址
const (
	prodH5BaseURL = "https://h5.ele.me/minisite/?"
	ppeH5BaseURL  = "https://ppe-h5.ele.me/minisite/?"
)

// 默认经纬度
const (
	defaultLatitude  = "22.123025"
	defaultLongitude = "113.562928"
)

// Config 登录配置
type Config struct {
	OpenSiteSourceCode string
	From               string
	Welfare3pp         string
	OpenID             string
	AllowedMobiles     []string
	// PasswordHashes 手机号到 bcrypt 哈希，未配置的手机号不校验密码
	PasswordHashes   map[string]string
	RefreshThreshold time.Duration
}

// LoginRequest 登录请求
type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password"`
}

// LoginResult 登录结果
type LoginResult struct {
	JWT      string
	ExpireAt time.Time
}

// H5URLResult H5 链接结果
type H5URLResult struct {
	URL       string
	JWT       string
	Refreshed bool
}

// LoginService 登录服务
type LoginService struct {
	jwtManager *jwt.Manager
	config     Config
	allowed    []string
	logger     *zap.Logger
}

// NewLoginService 创建登录服务
func NewLoginService(jwtManager *jwt.Manager, config Config, log *zap.Logger) *LoginService {
	if config.OpenID == "" {
		config.OpenID = DefaultOpenID
	}
	if config.RefreshThreshold <= 0 {
		config.RefreshThreshold = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	allowed := make([]string, 0, len(config.AllowedMobiles))
	for _, m := range config.AllowedMobiles {
		if m = strings.TrimSpace(m); m != "" {
			allowed = append(allowed, m)
		}
	}
	return &LoginService{
		jwtManager: jwtManager,
		config:     config,
		allowed:    allowed,
		logger:     log,
	}
}

// Login 白名单登录，签发带 Bearer 前缀的令牌
func (s *LoginService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	mobile := strings.TrimSpace(req.Mobile)
	if mobile == "" {
		return nil, errors.ErrInvalidParams.WithMessage("手机号不能为空")
	}

	if !utils.Contains(s.allowed, mobile) {
		s.logger.Warn("非授权账户尝试登录", logger.Mobile(crypto.MaskPhone(mobile)))
		return nil, errors.ErrMobileNotAuthorized
	}

	if hash, ok := s.config.PasswordHashes[mobile]; ok && hash != "" {
		if !crypto.VerifyPassword(req.Password, hash) {
			s.logger.Warn("登录密码错误", logger.Mobile(crypto.MaskPhone(mobile)))
			return nil, errors.ErrPasswordError
		}
	}

	token, expireAt, err := s.jwtManager.Generate(mobile, s.config.OpenID, s.config.OpenSiteSourceCode)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	s.logger.Info("登录成功", logger.Mobile(crypto.MaskPhone(mobile)))
	return &LoginResult{
		JWT:      BearerPrefix + token,
		ExpireAt: expireAt,
	}, nil
}

// GetTbsgH5URL 校验令牌并生成指定环境的 H5 链接，令牌临近过期时换发
func (s *LoginService) GetTbsgH5URL(ctx context.Context, authorization, env string) (*H5URLResult, error) {
	if !strings.HasPrefix(authorization, BearerPrefix) {
		return nil, errors.ErrUnauthorized
	}
	token := strings.TrimPrefix(authorization, BearerPrefix)

	claims, err := s.jwtManager.Parse(token)
	if err != nil {
		s.logger.Warn("JWT 校验失败", zap.Error(err))
		return nil, errors.ErrTokenInvalid
	}

	finalToken, refreshed, err := s.jwtManager.RefreshIfExpiring(token, claims, s.config.RefreshThreshold)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	if refreshed {
		s.logger.Info("令牌即将过期，已换发", logger.Mobile(crypto.MaskPhone(claims.Mobile)))
	}

	var base string
	switch env {
	case EnvProd:
		base = prodH5BaseURL
	case EnvPPE:
		base = ppeH5BaseURL
	default:
		s.logger.Warn("未知的环境参数", zap.String("env", env))
		return nil, errors.ErrUnknownEnv
	}

	params := []utils.Param{
		{Key: "from", Value: s.config.From},
		{Key: "opensite_source", Value: s.config.OpenSiteSourceCode},
		{Key: "welfare_3pp", Value: s.config.Welfare3pp},
		{Key: "latitude", Value: defaultLatitude},
		{Key: "longitude", Value: defaultLongitude},
		{Key: "jwt", Value: finalToken},
	}
	if env == EnvPPE {
		params = append(params, utils.Param{Key: "env", Value: "ppe"})
	}

	return &H5URLResult{
		URL:       utils.BuildURL(base, params...),
		JWT:       BearerPrefix + finalToken,
		Refreshed: refreshed,
	}, nil
}
