// Package tbsg 淘宝闪购支付渠道协议：参数签名、请求解析与回调客户端
package tbsg

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// 签名相关参数名
const (
	ParamSign     = "sign"
	ParamNonceStr = "nonceStr"
)

var (
	// ErrMissingSign 请求未携带签名
	ErrMissingSign = errors.New("tbsg: missing sign")
	// ErrBadSign 签名校验不通过
	ErrBadSign = errors.New("tbsg: signature mismatch")
)

// Signer 请求验签与响应加签
type Signer interface {
	VerifyRequestSignature(params map[string]string) error
	SignResponse(params map[string]string) (map[string]string, error)
}

// Canonicalize 生成待签名串：去掉 sign 与空值，按键名排序后以 k=v&k=v 拼接
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == ParamSign || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}

// RSASigner RSA2 (SHA256withRSA) 签名器
// 平台公钥用于验签，机构私钥用于加签
type RSASigner struct {
	platformKey *rsa.PublicKey
	merchantKey *rsa.PrivateKey
}

// NewRSASigner 创建 RSA2 签名器
func NewRSASigner(platformKey *rsa.PublicKey, merchantKey *rsa.PrivateKey) *RSASigner {
	return &RSASigner{platformKey: platformKey, merchantKey: merchantKey}
}

// Sign 对参数签名，返回 base64 编码的签名
func (s *RSASigner) Sign(params map[string]string) (string, error) {
	digest := sha256.Sum256([]byte(Canonicalize(params)))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.merchantKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyRequestSignature 校验平台请求签名
func (s *RSASigner) VerifyRequestSignature(params map[string]string) error {
	sign := params[ParamSign]
	if sign == "" {
		return ErrMissingSign
	}
	sig, err := base64.StdEncoding.DecodeString(sign)
	if err != nil {
		return ErrBadSign
	}
	digest := sha256.Sum256([]byte(Canonicalize(params)))
	if err := rsa.VerifyPKCS1v15(s.platformKey, crypto.SHA256, digest[:], sig); err != nil {
		return ErrBadSign
	}
	return nil
}

// SignResponse 为响应参数添加 nonceStr 与 sign，不修改入参
func (s *RSASigner) SignResponse(params map[string]string) (map[string]string, error) {
	out := withNonce(params)
	sign, err := s.Sign(out)
	if err != nil {
		return nil, err
	}
	out[ParamSign] = sign
	return out, nil
}

// NoopSigner 关闭验签时使用，只补充 nonceStr
type NoopSigner struct{}

// VerifyRequestSignature 不校验
func (NoopSigner) VerifyRequestSignature(map[string]string) error { return nil }

// SignResponse 只补充 nonceStr
func (NoopSigner) SignResponse(params map[string]string) (map[string]string, error) {
	return withNonce(params), nil
}

func withNonce(params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out[ParamNonceStr] = strings.ReplaceAll(uuid.New().String(), "-", "")
	return out
}
