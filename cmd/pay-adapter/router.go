package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/dumeirei/tbsg-pay-adapter/docs"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/cache"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/config"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/crypto"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/jwt"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/metrics"
	authHandler "github.com/dumeirei/tbsg-pay-adapter/internal/handler/auth"
	cashierHandler "github.com/dumeirei/tbsg-pay-adapter/internal/handler/cashier"
	platformHandler "github.com/dumeirei/tbsg-pay-adapter/internal/handler/platform"
	"github.com/dumeirei/tbsg-pay-adapter/internal/middleware"
	"github.com/dumeirei/tbsg-pay-adapter/internal/repository"
	"github.com/dumeirei/tbsg-pay-adapter/internal/scheduler"
	authService "github.com/dumeirei/tbsg-pay-adapter/internal/service/auth"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/bill"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/notify"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/payment"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/oss"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/tbsg"
)

// app 组装好的服务
type app struct {
	signer        tbsg.Signer
	orderService  *payment.OrderService
	billService   *bill.BillService
	notifyService *notify.NotifyService
	loginService  *authService.LoginService
}

// newApp 按配置组装服务
func newApp(cfg *config.Config, log *zap.Logger, db *gorm.DB, redisClient *redis.Client, m *metrics.Metrics) (*app, error) {
	signer, err := newSigner(&cfg.Pay, log)
	if err != nil {
		return nil, err
	}
	storage, err := newStorage(&cfg.OSS)
	if err != nil {
		return nil, err
	}

	// 初始化仓储
	orderRepo := repository.NewPaymentOrderRepository(db)
	refundRepo := repository.NewRefundOrderRepository(db)
	billRepo := repository.NewBillRecordRepository(db)
	notifyLogRepo := repository.NewNotifyLogRepository(db)

	billSvc := bill.NewBillService(billRepo, storage, bill.Config{
		PayCode:      cfg.Pay.Code,
		StoragePath:  cfg.Bill.StoragePath,
		ObjectPrefix: cfg.Bill.ObjectPrefix,
		URLExpire:    cfg.Bill.URLExpireDuration(),
		MaxAgeDays:   cfg.Bill.MaxAgeDays,
	}, m, log.Named("bill"))

	var locker payment.Locker
	if redisClient != nil {
		locker = cache.NewLocker(redisClient)
	}
	orderSvc := payment.NewOrderService(db, orderRepo, refundRepo, billSvc, locker, payment.Config{
		PayCode:    cfg.Pay.Code,
		CashierURL: cfg.Pay.CashierURL,
		LockTTL:    cfg.Pay.LockTTLDuration(),
	}, m, log.Named("payment"))

	client := tbsg.NewClient(signer, cfg.Pay.NotifyTimeoutDuration())
	notifySvc := notify.NewNotifyService(client, notifyLogRepo, cfg.Pay.Code, m, log.Named("notify"))
	orderSvc.SetRefundNotifier(notifySvc)

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:     cfg.Login.ConsumerSecret,
		ExpireTime: cfg.Login.TokenDuration(),
	})
	loginSvc := authService.NewLoginService(jwtManager, authService.Config{
		OpenSiteSourceCode: cfg.Login.OpenSiteSourceCode,
		From:               cfg.Login.From,
		Welfare3pp:         cfg.Login.Welfare3pp,
		OpenID:             cfg.Login.OpenID,
		AllowedMobiles:     cfg.Login.AllowedMobiles,
		PasswordHashes:     cfg.Login.PasswordHashes,
		RefreshThreshold:   cfg.Login.RefreshThresholdDuration(),
	}, log.Named("auth"))

	return &app{
		signer:        signer,
		orderService:  orderSvc,
		billService:   billSvc,
		notifyService: notifySvc,
		loginService:  loginSvc,
	}, nil
}

// newSigner 关闭验签时使用 NoopSigner
func newSigner(cfg *config.PayConfig, log *zap.Logger) (tbsg.Signer, error) {
	if !cfg.SignEnabled {
		log.Warn("平台验签已关闭，仅用于联调环境")
		return tbsg.NoopSigner{}, nil
	}
	platformKey, err := crypto.ParseRSAPublicKey(cfg.PlatformPublicKey)
	if err != nil {
		return nil, fmt.Errorf("解析平台公钥失败: %w", err)
	}
	merchantKey, err := crypto.ParseRSAPrivateKey(cfg.MerchantPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("解析商户私钥失败: %w", err)
	}
	return tbsg.NewRSASigner(platformKey, merchantKey), nil
}

// newStorage 按 provider 创建对象存储
func newStorage(cfg *config.OSSConfig) (oss.Uploader, error) {
	switch cfg.Provider {
	case "aliyun":
		return oss.NewAliyunUploader(&oss.AliyunConfig{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			BucketName:      cfg.Bucket,
			Domain:          cfg.CustomDomain,
		})
	case "mock", "":
		return oss.NewMockUploader(), nil
	default:
		return nil, fmt.Errorf("unsupported oss provider: %s", cfg.Provider)
	}
}

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	m *metrics.Metrics,
	a *app,
) {
	platformH := platformHandler.NewHandler(a.orderService, a.billService, a.signer, logger.Named("platform"))
	cashierH := cashierHandler.NewHandler(a.orderService, a.notifyService, cashierHandler.Config{
		PageURL:         cfg.Pay.CashierURL,
		IntermediateURL: cfg.Pay.IntermediateURL,
		ContextPath:     cfg.Server.ContextPath,
	}, logger.Named("cashier"))
	authH := authHandler.NewHandler(a.loginService)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName, "/health", "/ping", "/ready", cfg.Metrics.Path))
	}
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.AccessLog(logger))

	// 健康检查
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	if m != nil {
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	base := r.Group(cfg.Server.ContextPath)
	{
		channel := base.Group("/tbsg/channel")
		platformH.RegisterRoutes(channel)
		var loginGuards []gin.HandlerFunc
		if redisClient != nil && cfg.Login.RateLimit > 0 {
			loginGuards = append(loginGuards, middleware.LoginRateLimit(redisClient, cfg.Login.RateLimit, time.Minute))
		}
		authH.RegisterRoutes(channel, loginGuards...)

		cashierH.RegisterRoutes(base)
	}
}

// setupScheduler 注册每日账单任务，未启用时返回 nil
func setupScheduler(cfg *config.Config, log *zap.Logger, a *app) (*scheduler.Scheduler, error) {
	if !cfg.Bill.Enabled {
		return nil, nil
	}
	sched := scheduler.NewScheduler(log.Named("scheduler"), 0)
	billTask := scheduler.NewBillTask(a.billService, log.Named("bill_task"))
	if err := sched.AddTask("daily_bill", cfg.Bill.Cron, billTask.Run); err != nil {
		return nil, err
	}
	return sched, nil
}
