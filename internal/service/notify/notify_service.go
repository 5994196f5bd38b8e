// Package notify 向淘宝闪购发送支付/退款结果通知并留存记录
package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/metrics"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
	"github.com/dumeirei/tbsg-pay-adapter/internal/repository"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/tbsg"
)

// 记录中保存的响应体上限
const maxLoggedResponse = 2000

// NotifyService 平台通知服务
type NotifyService struct {
	client  *tbsg.Client
	logRepo *repository.NotifyLogRepository
	payCode string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewNotifyService 创建通知服务
func NewNotifyService(
	client *tbsg.Client,
	logRepo *repository.NotifyLogRepository,
	payCode string,
	m *metrics.Metrics,
	log *zap.Logger,
) *NotifyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotifyService{
		client:  client,
		logRepo: logRepo,
		payCode: payCode,
		metrics: m,
		logger:  log,
	}
}

// NotifyPay 通知平台支付成功，不重试
func (s *NotifyService) NotifyPay(ctx context.Context, notifyURL string, order *models.PaymentOrder) error {
	req := &tbsg.PayCallbackRequest{
		PayCode:       s.payCode,
		TransactionID: order.TransactionID,
		OutTradeNo:    order.OutTradeNo,
		PayAmount:     order.PayAmount,
		PayStatus:     models.PayStatusSuccess,
	}
	result, err := s.client.PayCallback(ctx, notifyURL, req)
	return s.finish(ctx, models.NotifyTypePay, order.TransactionID, notifyURL, req.Params(), result, err)
}

// NotifyRefund 通知平台退款结果，不重试
func (s *NotifyService) NotifyRefund(ctx context.Context, notifyURL string, refund *models.RefundOrder) error {
	req := &tbsg.RefundCallbackRequest{
		PayCode:       s.payCode,
		TransactionID: refund.TransactionID,
		RefundNo:      refund.RefundNo,
		OutRefundNo:   refund.OutRefundNo,
		RefundAmount:  refund.RefundAmount,
		RefundStatus:  refund.RefundStatus,
	}
	result, err := s.client.RefundCallback(ctx, notifyURL, req)
	return s.finish(ctx, models.NotifyTypeRefund, refund.RefundNo, notifyURL, req.Params(), result, err)
}

// finish 写通知记录、打点，并把失败转换为 ErrNotifyFailed
func (s *NotifyService) finish(
	ctx context.Context,
	notifyType, bizNo, notifyURL string,
	params map[string]string,
	result *tbsg.CallbackResult,
	callErr error,
) error {
	entry := &models.NotifyLog{
		NotifyType: notifyType,
		BizNo:      bizNo,
		NotifyURL:  notifyURL,
		Status:     models.NotifyStatusSuccess,
	}
	if result != nil {
		params = result.Params
		entry.HTTPStatus = result.HTTPStatus
		entry.Response = tbsg.Truncate(result.Body, maxLoggedResponse)
	}
	if raw, err := json.Marshal(params); err == nil {
		entry.Request = datatypes.JSON(raw)
	}
	if callErr != nil {
		entry.Status = models.NotifyStatusFailed
		entry.ErrorMessage = tbsg.Truncate(callErr.Error(), 512)
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("保存通知记录失败", zap.String("biz_no", bizNo), zap.Error(err))
	}
	s.metrics.RecordNotify(notifyType, callErr == nil)

	fields := []zap.Field{
		zap.String("notify_type", notifyType),
		zap.String("biz_no", bizNo),
		logger.NotifyURL(notifyURL),
		zap.Int("http_status", entry.HTTPStatus),
	}
	if callErr != nil {
		s.logger.Error("通知淘宝闪购失败", append(fields, zap.Error(callErr))...)
		return errors.ErrNotifyFailed.WithError(callErr)
	}
	s.logger.Info("通知淘宝闪购成功", fields...)
	return nil
}
