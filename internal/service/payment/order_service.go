// Package payment 淘宝闪购支付订单状态引擎
package payment

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/cache"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/database"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/metrics"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/tracing"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/utils"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
	"github.com/dumeirei/tbsg-pay-adapter/internal/repository"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/bill"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/tbsg"
)

// Locker 按业务键互斥
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// RefundNotifier 退款成功后通知平台
type RefundNotifier interface {
	NotifyRefund(ctx context.Context, notifyURL string, refund *models.RefundOrder) error
}

// Config 订单服务配置
type Config struct {
	PayCode    string
	CashierURL string
	LockTTL    time.Duration
}

// OrderService 支付与退款订单服务
type OrderService struct {
	db         *gorm.DB
	orderRepo  *repository.PaymentOrderRepository
	refundRepo *repository.RefundOrderRepository
	bills      *bill.BillService
	locker     Locker
	notifier   RefundNotifier
	config     Config
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrderService 创建订单服务，locker 为 nil 时只依赖唯一索引
func NewOrderService(
	db *gorm.DB,
	orderRepo *repository.PaymentOrderRepository,
	refundRepo *repository.RefundOrderRepository,
	bills *bill.BillService,
	locker Locker,
	config Config,
	m *metrics.Metrics,
	log *zap.Logger,
) *OrderService {
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		db:         db,
		orderRepo:  orderRepo,
		refundRepo: refundRepo,
		bills:      bills,
		locker:     locker,
		config:     config,
		metrics:    m,
		logger:     log,
		now:        time.Now,
	}
}

// SetRefundNotifier 设置退款通知
func (s *OrderService) SetRefundNotifier(n RefundNotifier) {
	s.notifier = n
}

// PayResult 下单结果
type PayResult struct {
	CashierURL string
	Order      *models.PaymentOrder
	Replayed   bool
}

// QueryPayResult 支付查询结果
type QueryPayResult struct {
	TransactionID string
	OutTradeNo    string
	PayAmount     int64
	PayStatus     string
}

// RefundResult 退款结果
type RefundResult struct {
	RefundNo     string
	OutRefundNo  string
	RefundAmount int64
	RefundStatus string
	Replayed     bool
}

// QueryRefundResult 退款查询结果
type QueryRefundResult struct {
	RefundNo     string
	OutRefundNo  string
	RefundAmount int64
	RefundStatus string
}

// CashierURL 拼接收银台地址
func (s *OrderService) CashierURL(order *models.PaymentOrder) string {
	return utils.BuildURL(s.config.CashierURL,
		utils.Param{Key: "transactionId", Value: order.TransactionID},
		utils.Param{Key: "payAmount", Value: strconv.FormatInt(order.PayAmount, 10)},
		utils.Param{Key: "subject", Value: order.Subject},
		utils.Param{Key: "body", Value: order.Body},
		utils.Param{Key: "uid", Value: order.UID},
		utils.Param{Key: "redirectUrl", Value: order.RedirectURL},
		utils.Param{Key: "notifyUrl", Value: order.NotifyURL},
	)
}

// ProcessPay 创建支付订单或重放已有订单，返回收银台地址
func (s *OrderService) ProcessPay(ctx context.Context, req *tbsg.PayRequest) (result *PayResult, err error) {
	ctx, span := tracing.Start(ctx, "payment.ProcessPay", tracing.WithTransactionID(req.TransactionID))
	defer func() {
		s.metrics.RecordPayment(outcome(err, result != nil && result.Replayed))
		tracing.End(span, err)
	}()

	unlock, err := s.lock(ctx, cache.PayLockKey(req.TransactionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, err = s.processPay(ctx, req)
	if database.IsDuplicateKey(err) {
		// 并发首写落败，按已存在订单重放一次
		s.logger.Info("支付订单并发创建，重放", logger.TransactionID(req.TransactionID))
		result, err = s.processPay(ctx, req)
	}
	if err != nil {
		return nil, wrapDB(err)
	}

	s.logger.Info("支付订单就绪",
		logger.TransactionID(req.TransactionID),
		logger.OutTradeNo(result.Order.OutTradeNo),
		logger.Amount("pay_amount", result.Order.PayAmount),
		zap.Bool("replayed", result.Replayed),
	)
	return result, nil
}

func (s *OrderService) processPay(ctx context.Context, req *tbsg.PayRequest) (*PayResult, error) {
	var result *PayResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.orderRepo.GetByTransactionIDForUpdate(ctx, tx, req.TransactionID)
		if err == nil {
			if err := checkReplay(existing, req.PayAmount); err != nil {
				return err
			}
			result = &PayResult{CashierURL: s.CashierURL(existing), Order: existing, Replayed: true}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.now()
		order := &models.PaymentOrder{
			TransactionID: req.TransactionID,
			OutTradeNo:    utils.GenerateSerialNo(utils.PayTradeNoPrefix, now),
			PayAmount:     req.PayAmount,
			Subject:       req.Subject,
			Body:          req.Body,
			UID:           req.UID,
			PayStatus:     models.PayStatusNotPay,
			NotifyURL:     req.NotifyURL,
			RedirectURL:   req.RedirectURL,
			RequestTime:   now,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		result = &PayResult{CashierURL: s.CashierURL(order), Order: order}
		return nil
	})
	return result, err
}

// checkReplay 已有订单的重放校验，顺序：金额、已支付、已关闭
func checkReplay(order *models.PaymentOrder, payAmount int64) error {
	if order.PayAmount != payAmount {
		return errors.ErrAmountMismatch
	}
	switch order.PayStatus {
	case models.PayStatusSuccess:
		return errors.ErrAlreadyPaid
	case models.PayStatusClosed:
		return errors.ErrOrderClosed
	}
	return nil
}

// GetOrder 按平台交易号读取支付订单
func (s *OrderService) GetOrder(ctx context.Context, transactionID string) (*models.PaymentOrder, error) {
	order, err := s.orderRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return order, nil
}

// QueryPay 查询支付订单
func (s *OrderService) QueryPay(ctx context.Context, transactionID string) (*QueryPayResult, error) {
	order, err := s.GetOrder(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &QueryPayResult{
		TransactionID: order.TransactionID,
		OutTradeNo:    order.OutTradeNo,
		PayAmount:     order.PayAmount,
		PayStatus:     order.PayStatus,
	}, nil
}

// ProcessRefund 退款，同一退款单号重复请求返回首次结果
func (s *OrderService) ProcessRefund(ctx context.Context, req *tbsg.RefundRequest) (result *RefundResult, err error) {
	ctx, span := tracing.Start(ctx, "payment.ProcessRefund",
		tracing.WithRefundNo(req.RefundNo),
		tracing.WithTransactionID(req.TransactionID),
	)
	defer func() {
		s.metrics.RecordRefund(outcome(err, result != nil && result.Replayed))
		tracing.End(span, err)
	}()

	unlock, err := s.lock(ctx, cache.RefundLockKey(req.RefundNo))
	if err != nil {
		return nil, err
	}
	defer unlock()

	refund, replayed, err := s.processRefund(ctx, req)
	if database.IsDuplicateKey(err) {
		s.logger.Info("退款单并发创建，重放", logger.RefundNo(req.RefundNo))
		refund, replayed, err = s.processRefund(ctx, req)
	}
	if err != nil {
		return nil, wrapDB(err)
	}

	s.logger.Info("退款完成",
		logger.RefundNo(refund.RefundNo),
		logger.OutRefundNo(refund.OutRefundNo),
		logger.Amount("refund_amount", refund.RefundAmount),
		zap.Bool("replayed", replayed),
	)

	if !replayed && refund.NotifyURL != "" && s.notifier != nil {
		if nErr := s.notifier.NotifyRefund(ctx, refund.NotifyURL, refund); nErr != nil {
			s.logger.Error("退款结果通知失败", logger.RefundNo(refund.RefundNo), logger.NotifyURL(refund.NotifyURL), zap.Error(nErr))
		}
	}

	return &RefundResult{
		RefundNo:     refund.RefundNo,
		OutRefundNo:  refund.OutRefundNo,
		RefundAmount: refund.RefundAmount,
		RefundStatus: refund.RefundStatus,
		Replayed:     replayed,
	}, nil
}

func (s *OrderService) processRefund(ctx context.Context, req *tbsg.RefundRequest) (*models.RefundOrder, bool, error) {
	var (
		refund   *models.RefundOrder
		replayed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.refundRepo.GetByRefundNoInTx(ctx, tx, req.RefundNo)
		if err == nil {
			refund, replayed = existing, true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 锁住原订单，同一订单的退款串行
		order, err := s.orderRepo.GetByTransactionIDForUpdate(ctx, tx, req.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrOrderNotFound.WithMessage("原支付订单不存在")
			}
			return err
		}
		if req.RefundAmount > order.PayAmount {
			return errors.ErrRefundExceedsPayment
		}

		now := s.now()
		refund = &models.RefundOrder{
			RefundNo:      req.RefundNo,
			TransactionID: req.TransactionID,
			OutRefundNo:   utils.GenerateSerialNo(utils.RefundTradeNoPrefix, now),
			PayAmount:     order.PayAmount,
			RefundAmount:  req.RefundAmount,
			RefundStatus:  models.RefundStatusSuccess,
			NotifyURL:     req.NotifyURL,
			RequestTime:   now,
			SuccessTime:   &now,
		}
		if err := s.refundRepo.Create(ctx, tx, refund); err != nil {
			return err
		}
		return s.bills.AppendRefundRecord(ctx, tx, refund, order)
	})
	return refund, replayed, err
}

// QueryRefund 查询退款单
func (s *OrderService) QueryRefund(ctx context.Context, refundNo string) (*QueryRefundResult, error) {
	refund, err := s.refundRepo.GetByRefundNo(ctx, refundNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRefundNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &QueryRefundResult{
		RefundNo:     refund.RefundNo,
		OutRefundNo:  refund.OutRefundNo,
		RefundAmount: refund.RefundAmount,
		RefundStatus: refund.RefundStatus,
	}, nil
}

// CloseOrder 关闭未支付订单，已关闭的订单重复关闭视为成功
func (s *OrderService) CloseOrder(ctx context.Context, transactionID string) (err error) {
	ctx, span := tracing.Start(ctx, "payment.CloseOrder", tracing.WithTransactionID(transactionID))
	defer func() { tracing.End(span, err) }()

	unlock, err := s.lock(ctx, cache.PayLockKey(transactionID))
	if err != nil {
		return err
	}
	defer unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByTransactionIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrOrderNotFound
			}
			return err
		}
		switch order.PayStatus {
		case models.PayStatusSuccess:
			return errors.ErrAlreadyPaid.WithMessage("订单已支付成功，不允许关闭")
		case models.PayStatusClosed:
			return nil
		}
		if !order.CanTransitTo(models.PayStatusClosed) {
			return errors.ErrInvalidStatusTransition
		}
		return s.transit(ctx, tx, order, models.PayStatusClosed, nil)
	})
	if err != nil {
		return wrapDB(err)
	}

	s.logger.Info("订单已关闭", logger.TransactionID(transactionID))
	return nil
}

// UpdateOrderStatus 更新支付状态，返回最新订单
// 已成功的订单直接返回；置为成功时记录成功时间并写入支付账单明细
func (s *OrderService) UpdateOrderStatus(ctx context.Context, transactionID, status string) (order *models.PaymentOrder, err error) {
	ctx, span := tracing.Start(ctx, "payment.UpdateOrderStatus",
		tracing.WithTransactionID(transactionID),
		tracing.WithPayStatus(status),
	)
	defer func() { tracing.End(span, err) }()

	unlock, err := s.lock(ctx, cache.PayLockKey(transactionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err = s.orderRepo.GetByTransactionIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrOrderNotFound
			}
			return err
		}

		switch order.PayStatus {
		case models.PayStatusSuccess:
			return nil
		case models.PayStatusClosed:
			return errors.ErrOrderClosed
		}
		if !order.CanTransitTo(status) {
			return errors.ErrInvalidStatusTransition
		}

		var successTime *time.Time
		if status == models.PayStatusSuccess {
			now := s.now()
			successTime = &now
		}
		if err := s.transit(ctx, tx, order, status, successTime); err != nil {
			return err
		}
		if status == models.PayStatusSuccess {
			return s.bills.AppendPayRecord(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB(err)
	}

	s.logger.Info("订单状态已更新", logger.TransactionID(transactionID), logger.PayStatus(order.PayStatus))
	return order, nil
}

// transit 条件更新状态并同步内存中的订单
func (s *OrderService) transit(ctx context.Context, tx *gorm.DB, order *models.PaymentOrder, to string, successTime *time.Time) error {
	rows, err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.PayStatus, to, successTime)
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.ErrConcurrentRequest
	}
	order.PayStatus = to
	if successTime != nil {
		order.SuccessTime = successTime
	}
	return nil
}

// lock 获取业务锁，未配置 locker 时直接放行
func (s *OrderService) lock(ctx context.Context, key string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	token, ok, err := s.locker.TryLock(ctx, key, s.config.LockTTL)
	if err != nil {
		return nil, errors.ErrCacheError.WithError(err)
	}
	if !ok {
		return nil, errors.ErrConcurrentRequest
	}
	return func() {
		// 请求上下文可能已取消，释放锁使用独立上下文
		unlockCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.locker.Unlock(unlockCtx, key, token); err != nil {
			s.logger.Warn("释放锁失败", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// wrapDB 非业务错误归为数据库错误
func wrapDB(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.ErrDatabaseError.WithError(err)
}

func outcome(err error, replayed bool) string {
	switch {
	case err != nil:
		return metrics.ResultFail
	case replayed:
		return metrics.ResultReplay
	default:
		return metrics.ResultSuccess
	}
}
