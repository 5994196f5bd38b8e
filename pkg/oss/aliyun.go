// Package oss 对象存储服务
package oss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// Uploader 账单对象存储接口
type Uploader interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error)
	UploadFile(ctx context.Context, objectKey, filePath string) (string, error)
	Exists(ctx context.Context, objectKey string) (bool, error)
	Delete(ctx context.Context, objectKey string) error
	GetURL(objectKey string) string
	GetSignedURL(objectKey string, expires time.Duration) (string, error)
}

// AliyunConfig 阿里云 OSS 配置
type AliyunConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	Domain          string // 自定义域名（可选）
	BasePath        string
}

// AliyunUploader 阿里云 OSS 上传器
type AliyunUploader struct {
	bucket *oss.Bucket
	config *AliyunConfig
}

// NewAliyunUploader 创建阿里云 OSS 上传器
func NewAliyunUploader(config *AliyunConfig) (*AliyunUploader, error) {
	client, err := oss.New(config.Endpoint, config.AccessKeyID, config.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("创建 OSS 客户端失败: %w", err)
	}

	bucket, err := client.Bucket(config.BucketName)
	if err != nil {
		return nil, fmt.Errorf("获取 Bucket 失败: %w", err)
	}

	return &AliyunUploader{bucket: bucket, config: config}, nil
}

// Upload 上传数据流
func (u *AliyunUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	if err := u.bucket.PutObject(u.getFullKey(objectKey), reader, oss.WithContext(ctx), oss.ContentType(GetContentType(objectKey))); err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}
	return u.GetURL(objectKey), nil
}

// UploadFile 上传本地文件
func (u *AliyunUploader) UploadFile(ctx context.Context, objectKey, filePath string) (string, error) {
	if err := u.bucket.PutObjectFromFile(u.getFullKey(objectKey), filePath, oss.WithContext(ctx), oss.ContentType(GetContentType(objectKey))); err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}
	return u.GetURL(objectKey), nil
}

// Exists 判断对象是否存在
func (u *AliyunUploader) Exists(ctx context.Context, objectKey string) (bool, error) {
	ok, err := u.bucket.IsObjectExist(u.getFullKey(objectKey), oss.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("查询对象失败: %w", err)
	}
	return ok, nil
}

// Delete 删除对象
func (u *AliyunUploader) Delete(ctx context.Context, objectKey string) error {
	return u.bucket.DeleteObject(u.getFullKey(objectKey), oss.WithContext(ctx))
}

// GetURL 获取对象公开地址
func (u *AliyunUploader) GetURL(objectKey string) string {
	fullKey := u.getFullKey(objectKey)
	if u.config.Domain != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(u.config.Domain, "/"), fullKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, fullKey)
}

// GetSignedURL 获取带签名的临时下载地址
func (u *AliyunUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return u.bucket.SignURL(u.getFullKey(objectKey), oss.HTTPGet, int64(expires.Seconds()))
}

func (u *AliyunUploader) getFullKey(objectKey string) string {
	if u.config.BasePath == "" {
		return objectKey
	}
	return path.Join(u.config.BasePath, objectKey)
}

// GetContentType 根据扩展名返回 Content-Type
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// MockUploader 内存上传器（开发/测试）
type MockUploader struct {
	mu    sync.RWMutex
	Files map[string][]byte
	// UploadErr 非空时上传返回该错误
	UploadErr error
}

// NewMockUploader 创建内存上传器
func NewMockUploader() *MockUploader {
	return &MockUploader{Files: make(map[string][]byte)}
}

// Upload 保存数据流
func (u *MockUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	if u.UploadErr != nil {
		return "", u.UploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	u.Files[objectKey] = data
	u.mu.Unlock()
	return u.GetURL(objectKey), nil
}

// UploadFile 读取本地文件内容保存
func (u *MockUploader) UploadFile(ctx context.Context, objectKey, filePath string) (string, error) {
	if u.UploadErr != nil {
		return "", u.UploadErr
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return u.Upload(ctx, objectKey, bytes.NewReader(data))
}

// Exists 判断对象是否存在
func (u *MockUploader) Exists(ctx context.Context, objectKey string) (bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.Files[objectKey]
	return ok, nil
}

// Delete 删除对象
func (u *MockUploader) Delete(ctx context.Context, objectKey string) error {
	u.mu.Lock()
	delete(u.Files, objectKey)
	u.mu.Unlock()
	return nil
}

// Get 读取对象内容
func (u *MockUploader) Get(objectKey string) ([]byte, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	data, ok := u.Files[objectKey]
	return data, ok
}

// GetURL 获取模拟地址
func (u *MockUploader) GetURL(objectKey string) string {
	return fmt.Sprintf("https://mock-oss.example.com/%s", objectKey)
}

// GetSignedURL 获取模拟签名地址
func (u *MockUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("%s?Expires=%d", u.GetURL(objectKey), time.Now().Add(expires).Unix()), nil
}
