// Package qrcode 将收银台链接渲染为二维码，供扫码支付演示使用
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// 尺寸限制（像素）
const (
	DefaultSize = 256
	MinSize     = 128
	MaxSize     = 1024
)

// ErrEmptyContent 内容为空
var ErrEmptyContent = errors.New("qrcode content is empty")

// Generator 二维码生成器
type Generator struct {
	size  int
	level qrcode.RecoveryLevel
}

// Option 生成器选项
type Option func(*Generator)

// WithSize 设置二维码尺寸，超出范围时取边界值
func WithSize(size int) Option {
	return func(g *Generator) {
		g.size = ClampSize(size)
	}
}

// WithHighRecovery 使用 25% 纠错级别，适合印刷后可能被遮挡的场景
func WithHighRecovery() Option {
	return func(g *Generator) {
		g.level = qrcode.High
	}
}

// NewGenerator 创建二维码生成器
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		size:  DefaultSize,
		level: qrcode.Medium,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ClampSize 将尺寸限制在允许范围内，非正数返回默认值
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}

// PNG 生成 PNG 格式二维码
func (g *Generator) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	data, err := qrcode.Encode(content, g.level, g.size)
	if err != nil {
		return nil, fmt.Errorf("创建二维码失败: %w", err)
	}
	return data, nil
}

// DataURL 生成 data:image/png;base64 格式的二维码
func (g *Generator) DataURL(content string) (string, error) {
	data, err := g.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
