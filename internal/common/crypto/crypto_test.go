// Package crypto 加密工具单元测试
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("tbsg@2024")
	require.NoError(t, err)
	assert.NotEqual(t, "tbsg@2024", hash)

	t.Run("正确密码", func(t *testing.T) {
		assert.True(t, VerifyPassword("tbsg@2024", hash))
	})

	t.Run("错误密码", func(t *testing.T) {
		assert.False(t, VerifyPassword("wrong", hash))
	})

	t.Run("非法哈希", func(t *testing.T) {
		assert.False(t, VerifyPassword("tbsg@2024", "not-a-hash"))
	})

	t.Run("空密码", func(t *testing.T) {
		_, err := HashPassword("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestParseRSAKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkcs1 := x509.MarshalPKCS1PrivateKey(key)
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	t.Run("PKCS1 PEM 私钥", func(t *testing.T) {
		pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: pkcs1}))
		parsed, err := ParseRSAPrivateKey(pemKey)
		require.NoError(t, err)
		assert.True(t, key.Equal(parsed))
	})

	t.Run("PKCS8 裸 base64 私钥", func(t *testing.T) {
		parsed, err := ParseRSAPrivateKey(base64.StdEncoding.EncodeToString(pkcs8))
		require.NoError(t, err)
		assert.True(t, key.Equal(parsed))
	})

	t.Run("PKIX 公钥", func(t *testing.T) {
		pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix}))
		parsed, err := ParseRSAPublicKey(pemKey)
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(parsed))

		parsed, err = ParseRSAPublicKey(base64.StdEncoding.EncodeToString(pkix))
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(parsed))
	})

	t.Run("非法输入", func(t *testing.T) {
		_, err := ParseRSAPrivateKey("")
		assert.ErrorIs(t, err, ErrInvalidKey)

		_, err = ParseRSAPublicKey("!!not base64!!")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "138****0000", MaskPhone("13812340000"))
	assert.Equal(t, "12345", MaskPhone("12345"))
}
