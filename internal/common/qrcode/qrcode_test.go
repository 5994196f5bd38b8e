// Package qrcode 二维码生成单元测试
package qrcode

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cashierLink = "http://localhost:8080/cashier/pay.html?transactionId=TX001&payAmount=1000"

func TestPNG(t *testing.T) {
	g := NewGenerator(WithSize(200))

	data, err := g.PNG(cashierLink)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestPNG_Empty(t *testing.T) {
	_, err := NewGenerator().PNG("")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestDataURL(t *testing.T) {
	url, err := NewGenerator(WithHighRecovery()).DataURL(cashierLink)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, DefaultSize, ClampSize(0))
	assert.Equal(t, MinSize, ClampSize(10))
	assert.Equal(t, MaxSize, ClampSize(4096))
	assert.Equal(t, 300, ClampSize(300))
}
