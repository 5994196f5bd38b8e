// Package main 是淘宝闪购支付适配服务入口
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/cache"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/config"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/database"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/metrics"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/tracing"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting TBSG Pay Adapter",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Mode),
		zap.String("pay_code", cfg.Pay.Code),
	)

	shutdownTracing, err := tracing.Init(&cfg.Tracing)
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}

	// 初始化数据库连接
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, models.All()...); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Redis 仅用于并发锁，未启用时依赖唯一索引
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.Init(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("Redis connected successfully")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.Init(cfg.Metrics.Namespace, cfg.Metrics.Path)
	}

	// 设置 Gin 模式
	switch {
	case cfg.IsRelease():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsDebug():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.TestMode)
	}

	a, err := newApp(cfg, log, db, redisClient, m)
	if err != nil {
		log.Fatal("Failed to build services", zap.Error(err))
	}

	engine := gin.New()
	setupRouter(engine, cfg, log, db, redisClient, m, a)

	sched, err := setupScheduler(cfg, log, a)
	if err != nil {
		log.Fatal("Failed to setup scheduler", zap.Error(err))
	}
	if sched != nil {
		sched.Start()
	}

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}

	log.Info("Server exited")
}
