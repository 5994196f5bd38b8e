// Package crypto 提供密码哈希、密钥解析与脱敏工具
package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// 预定义错误
var (
	ErrInvalidKey    = errors.New("invalid key: expected PEM or base64 DER")
	ErrNotRSAKey     = errors.New("key is not an RSA key")
	ErrEmptyPassword = errors.New("password is empty")
)

// HashPassword 对密码进行哈希
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword 验证密码
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ParseRSAPrivateKey 解析 RSA 私钥，支持 PKCS#1 / PKCS#8，PEM 或裸 base64
func ParseRSAPrivateKey(key string) (*rsa.PrivateKey, error) {
	der, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if pk, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return pk, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	pk, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return pk, nil
}

// ParseRSAPublicKey 解析 RSA 公钥，支持 PKIX / PKCS#1，PEM 或裸 base64
func ParseRSAPublicKey(key string) (*rsa.PublicKey, error) {
	der, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if parsed, err := x509.ParsePKIXPublicKey(der); err == nil {
		pub, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, ErrNotRSAKey
		}
		return pub, nil
	}
	return x509.ParsePKCS1PublicKey(der)
}

func decodeKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidKey
	}
	if block, _ := pem.Decode([]byte(key)); block != nil {
		return block.Bytes, nil
	}
	// 平台控制台导出的密钥通常是去掉头尾的单行 base64
	der, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(key), ""))
	if err != nil {
		return nil, ErrInvalidKey
	}
	return der, nil
}

// MaskPhone 手机号脱敏
func MaskPhone(phone string) string {
	if len(phone) != 11 {
		return phone
	}
	return phone[:3] + "****" + phone[7:]
}
