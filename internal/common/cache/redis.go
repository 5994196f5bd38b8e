// Package cache 提供 Redis 连接与分布式锁
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/config"
)

var rdb *redis.Client

// Init 初始化 Redis 连接
func Init(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	rdb = client
	return rdb, nil
}

// GetClient 获取 Redis 客户端，未启用时为 nil
func GetClient() *redis.Client {
	return rdb
}

// Ping 检查 Redis 连通性
func Ping(ctx context.Context) error {
	if rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	return rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func Close() error {
	if rdb != nil {
		return rdb.Close()
	}
	return nil
}

// 锁键前缀
const (
	KeyPrefixPayLock    = "lock:pay:"
	KeyPrefixRefundLock = "lock:refund:"
)

// PayLockKey 支付订单锁键
func PayLockKey(transactionID string) string {
	return KeyPrefixPayLock + transactionID
}

// RefundLockKey 退款订单锁键
func RefundLockKey(refundNo string) string {
	return KeyPrefixRefundLock + refundNo
}
