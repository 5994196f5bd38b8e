// Package platform 提供淘宝闪购平台调用的支付网关接口
package platform

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/handler"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/response"
	"github.com/dumeirei/tbsg-pay-adapter/internal/middleware"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/bill"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/payment"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/tbsg"
)

// 失败消息前缀
const (
	prefixQuery    = "查询失败: "
	prefixRefund   = "退款失败: "
	prefixClose    = "关闭失败: "
	prefixDownload = "下载账单失败: "
)

// Handler 平台网关处理器
type Handler struct {
	orderService *payment.OrderService
	billService  *bill.BillService
	signer       tbsg.Signer
	logger       *zap.Logger
}

// NewHandler 创建平台网关处理器
func NewHandler(
	orderSvc *payment.OrderService,
	billSvc *bill.BillService,
	signer tbsg.Signer,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		orderService: orderSvc,
		billService:  billSvc,
		signer:       signer,
		logger:       log,
	}
}

// RegisterRoutes 注册平台网关路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/pay", h.Pay)
	r.POST("/pay", h.Pay)
	r.POST("/queryPay", h.QueryPay)
	r.POST("/refund", h.Refund)
	r.POST("/queryRefund", h.QueryRefund)
	r.POST("/close", h.Close)
	r.POST("/downloadBill", h.DownloadBill)
}

// Pay 支付下单，重定向到收银台
// @Summary 支付下单
// @Description 验签后创建或重放支付订单，302 跳转到收银台
// @Tags 平台网关
// @Accept x-www-form-urlencoded
// @Param transactionId formData string true "平台交易号"
// @Param payAmount formData int true "支付金额（分）"
// @Param subject formData string true "商品标题"
// @Param body formData string false "商品描述"
// @Param uid formData string false "用户 ID"
// @Param notifyUrl formData string false "支付结果通知地址"
// @Param redirectUrl formData string false "支付完成跳转地址"
// @Param sign formData string true "签名"
// @Success 302
// @Failure 400 {object} response.PlatformResult
// @Router /tbsg/channel/pay [post]
func (h *Handler) Pay(c *gin.Context) {
	params, ok := h.verify(c)
	if !ok {
		return
	}

	req, err := tbsg.ParsePayRequest(params)
	if handler.HandleError(c, paramError(err)) {
		return
	}

	result, err := h.orderService.ProcessPay(c.Request.Context(), req)
	if handler.HandleError(c, err) {
		return
	}

	h.logger.Info("重定向到收银台",
		logger.RequestID(middleware.GetRequestID(c)),
		logger.TransactionID(req.TransactionID),
		zap.String("cashier_url", result.CashierURL),
	)
	c.Redirect(http.StatusFound, result.CashierURL)
}

// QueryPay 查询支付结果
// @Summary 查询支付结果
// @Tags 平台网关
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param transactionId formData string true "平台交易号"
// @Param sign formData string true "签名"
// @Success 200 {object} map[string]string
// @Router /tbsg/channel/queryPay [post]
func (h *Handler) QueryPay(c *gin.Context) {
	params, ok := h.verify(c)
	if !ok {
		return
	}

	req, err := tbsg.ParseQueryPayRequest(params)
	if err != nil {
		h.fail(c, prefixQuery, paramError(err))
		return
	}

	result, err := h.orderService.QueryPay(c.Request.Context(), req.TransactionID)
	if err != nil {
		h.fail(c, prefixQuery, err)
		return
	}

	h.reply(c, tbsg.QueryPayResponse{
		Result:        tbsg.SuccessResult(),
		TransactionID: result.TransactionID,
		OutTradeNo:    result.OutTradeNo,
		PayAmount:     result.PayAmount,
		PayStatus:     result.PayStatus,
	}.Params())
}

// Refund 申请退款
// @Summary 申请退款
// @Description 同一 refundNo 重复请求返回首次结果
// @Tags 平台网关
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param refundNo formData string true "平台退款单号"
// @Param transactionId formData string true "平台交易号"
// @Param refundAmount formData int true "退款金额（分）"
// @Param notifyUrl formData string false "退款结果通知地址"
// @Param sign formData string true "签名"
// @Success 200 {object} map[string]string
// @Router /tbsg/channel/refund [post]
func (h *Handler) Refund(c *gin.Context) {
	params, ok := h.verify(c)
	if !ok {
		return
	}

	req, err := tbsg.ParseRefundRequest(params)
	if err != nil {
		h.fail(c, prefixRefund, paramError(err))
		return
	}

	result, err := h.orderService.ProcessRefund(c.Request.Context(), req)
	if err != nil {
		h.fail(c, prefixRefund, err)
		return
	}

	h.reply(c, tbsg.RefundResponse{
		Result:       tbsg.SuccessResult(),
		RefundNo:     result.RefundNo,
		OutRefundNo:  result.OutRefundNo,
		RefundAmount: result.RefundAmount,
		RefundStatus: result.RefundStatus,
	}.Params())
}

// QueryRefund 查询退款结果
// @Summary 查询退款结果
// @Tags 平台网关
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param refundNo formData string true "平台退款单号"
// @Param sign formData string true "签名"
// @Success 200 {object} map[string]string
// @Router /tbsg/channel/queryRefund [post]
func (h *Handler) QueryRefund(c *gin.Context) {
	params, ok := h.verify(c)
	if !ok {
		return
	}

	req, err := tbsg.ParseQueryRefundRequest(params)
	if err != nil {
		h.fail(c, prefixQuery, paramError(err))
		return
	}

	result, err := h.orderService.QueryRefund(c.Request.Context(), req.RefundNo)
	if err != nil {
		h.fail(c, prefixQuery, err)
		return
	}

	h.reply(c, tbsg.RefundResponse{
		Result:       tbsg.SuccessResult(),
		RefundNo:     result.RefundNo,
		OutRefundNo:  result.OutRefundNo,
		RefundAmount: result.RefundAmount,
		RefundStatus: result.RefundStatus,
	}.Params())
}

// Close 关闭订单
// @Summary 关闭订单
// @Tags 平台网关
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param transactionId formData string true "平台交易号"
// @Param sign formData string true "签名"
// @Success 200 {object} map[string]string
// @Router /tbsg/channel/close [post]
func (h *Handler) Close(c *gin.Context) {
	params, ok := h.verify(c)
	if !ok {
		return
	}

	req, err := tbsg.ParseCloseRequest(params)
	if err != nil {
		h.fail(c, prefixClose, paramError(err))
		return
	}

	if err := h.orderService.CloseOrder(c.Request.Context(), req.TransactionID); err != nil {
		h.fail(c, prefixClose, err)
		return
	}
	h.reply(c, tbsg.SuccessResult().Params())
}

// DownloadBill 获取对账单下载地址
// @Summary 获取对账单下载地址
// @Description 只能下载 T-1 及之前 30 天内的账单，文件不存在时即时生成
// @Tags 平台网关
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param billDate formData string true "账单日期 yyyy-MM-dd"
// @Param sign formData string true "签名"
// @Success 200 {object} map[string]string
// @Router /tbsg/channel/downloadBill [post]
func (h *Handler) DownloadBill(c *gin.Context) {
	params, ok := h.verify(c)
	if !ok {
		return
	}

	req := tbsg.ParseDownloadBillRequest(params)
	if err := h.billService.ValidateBillDate(req.BillDate); err != nil {
		h.fail(c, "", err)
		return
	}

	url, err := h.billService.DownloadBill(c.Request.Context(), req.BillDate)
	if err != nil {
		h.fail(c, prefixDownload, err)
		return
	}

	h.reply(c, tbsg.DownloadBillResponse{
		Result:  tbsg.SuccessResult(),
		BillURL: url,
	}.Params())
}

// verify 收集参数并验签，失败时已写出响应
func (h *Handler) verify(c *gin.Context) (map[string]string, bool) {
	params, err := collectParams(c)
	if err != nil {
		handler.HandleError(c, errors.ErrInvalidParams.WithError(err))
		return nil, false
	}
	if err := h.signer.VerifyRequestSignature(params); err != nil {
		h.logger.Warn("平台请求验签失败",
			logger.RequestID(middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		handler.HandleError(c, errors.ErrInvalidSignature.WithError(err))
		return nil, false
	}
	return params, true
}

// reply 签名后输出
func (h *Handler) reply(c *gin.Context, params map[string]string) {
	signed, err := h.signer.SignResponse(params)
	if err != nil {
		h.logger.Error("响应签名失败", logger.RequestID(middleware.GetRequestID(c)), zap.Error(err))
		response.SystemError(c)
		return
	}
	c.JSON(http.StatusOK, signed)
}

// fail 输出带前缀的 FAIL 响应
func (h *Handler) fail(c *gin.Context, prefix string, err error) {
	appErr := errors.GetAppError(err)
	fields := []zap.Field{
		logger.RequestID(middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("code", appErr.Code),
		zap.Error(err),
	}
	if appErr.Kind == errors.KindSystem || appErr.Kind == errors.KindDependency {
		h.logger.Error("平台请求处理失败", fields...)
	} else {
		h.logger.Warn("平台请求处理失败", fields...)
	}
	h.reply(c, tbsg.FailResult(handler.PrefixedMessage(prefix, err)).Params())
}

// paramError 将协议解析错误转换为参数错误
func paramError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, tbsg.ErrMissingParam):
		return errors.ErrIncompleteParam.WithError(err)
	default:
		return errors.ErrInvalidParams.WithError(err)
	}
}
