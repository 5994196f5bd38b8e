// Package cashier 提供模拟收银台的跳转、二维码与支付回调接口
package cashier

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/handler"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/qrcode"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/response"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/utils"
	"github.com/dumeirei/tbsg-pay-adapter/internal/middleware"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
	"github.com/dumeirei/tbsg-pay-adapter/internal/service/payment"
)

// PayNotifier 支付成功后通知平台
type PayNotifier interface {
	NotifyPay(ctx context.Context, notifyURL string, order *models.PaymentOrder) error
}

// Config 收银台配置
type Config struct {
	// PageURL 收银台页面地址
	PageURL string
	// IntermediateURL 支付完成后的中间页地址
	IntermediateURL string
	ContextPath     string
}

// CallbackRequest 收银台支付回调
type CallbackRequest struct {
	Status        string `json:"status" example:"SUCCESS"`
	NotifyURL     string `json:"notifyUrl"`
	TransactionID string `json:"transactionId"`
	PayAmount     string `json:"payAmount" example:"1000"`
	RedirectURL   string `json:"redirectUrl"`
}

// CallbackResponse 回调成功响应
type CallbackResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// Handler 收银台处理器
type Handler struct {
	orderService *payment.OrderService
	notifier     PayNotifier
	config       Config
	logger       *zap.Logger
}

// NewHandler 创建收银台处理器
func NewHandler(orderSvc *payment.OrderService, notifier PayNotifier, config Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		orderService: orderSvc,
		notifier:     notifier,
		config:       config,
		logger:       log,
	}
}

// RegisterRoutes 注册收银台路由，r 为 contextPath 分组
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/cashier", h.Cashier)
	r.GET("/cashier/qrcode", h.QRCode)
	r.POST("/tbsg/channel/notify/paycallback", h.PayCallback)
}

// Cashier 收银台入口，校验参数后跳转到收银台页面
// @Summary 收银台入口
// @Tags 收银台
// @Param transactionId query string true "平台交易号"
// @Param payAmount query string true "支付金额（分）"
// @Param subject query string true "商品标题"
// @Param notifyUrl query string true "支付结果通知地址"
// @Param redirectUrl query string true "支付完成跳转地址"
// @Param uid query string false "用户 ID"
// @Param body query string false "商品描述"
// @Success 302
// @Failure 400 {string} string "参数不完整"
// @Router /cashier [get]
func (h *Handler) Cashier(c *gin.Context) {
	required := []string{"transactionId", "payAmount", "subject", "notifyUrl", "redirectUrl"}
	params := make([]utils.Param, 0, len(required)+3)
	for _, key := range required {
		value := strings.TrimSpace(c.Query(key))
		if value == "" {
			h.logger.Warn("收银台参数不完整", zap.String("missing", key))
			c.String(http.StatusBadRequest, "参数不完整")
			return
		}
		params = append(params, utils.Param{Key: key, Value: value})
	}
	params = append(params,
		utils.Param{Key: "uid", Value: c.Query("uid")},
		utils.Param{Key: "body", Value: c.Query("body")},
		utils.Param{Key: "contextPath", Value: h.config.ContextPath},
	)

	location := utils.BuildURL(h.config.PageURL, params...)
	h.logger.Info("跳转收银台页面",
		logger.RequestID(middleware.GetRequestID(c)),
		logger.TransactionID(c.Query("transactionId")),
		zap.String("location", location),
	)
	c.Redirect(http.StatusFound, location)
}

// QRCode 生成订单收银台链接的二维码
// @Summary 收银台二维码
// @Tags 收银台
// @Produce png
// @Param transactionId query string true "平台交易号"
// @Param size query int false "尺寸（像素）"
// @Success 200 {file} binary
// @Failure 400 {object} response.PlatformResult
// @Router /cashier/qrcode [get]
func (h *Handler) QRCode(c *gin.Context) {
	transactionID := c.Query("transactionId")
	if transactionID == "" {
		handler.HandleError(c, errors.ErrIncompleteParam)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), transactionID)
	if handler.HandleError(c, err) {
		return
	}
	switch order.PayStatus {
	case models.PayStatusSuccess:
		handler.HandleError(c, errors.ErrAlreadyPaid)
		return
	case models.PayStatusClosed:
		handler.HandleError(c, errors.ErrOrderClosed)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	png, err := qrcode.NewGenerator(qrcode.WithSize(size)).PNG(h.orderService.CashierURL(order))
	if handler.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// PayCallback 收银台支付回调：更新订单、通知平台并返回中间页地址
// @Summary 收银台支付回调
// @Tags 收银台
// @Accept json
// @Produce json
// @Param request body CallbackRequest true "回调参数"
// @Success 200 {object} CallbackResponse
// @Failure 400 {object} response.MessageResult
// @Failure 500 {object} response.MessageResult
// @Router /tbsg/channel/notify/paycallback [post]
func (h *Handler) PayCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if req.Status != response.ReturnSuccess {
		h.logger.Warn("收银台回调支付失败", logger.TransactionID(req.TransactionID), zap.String("status", req.Status))
		handler.HandleMessageError(c, errors.ErrPaymentFailed)
		return
	}

	if req.TransactionID == "" {
		response.Message(c, http.StatusBadRequest, "参数错误: transactionId 不能为空")
		return
	}
	payAmount, err := strconv.ParseInt(strings.TrimSpace(req.PayAmount), 10, 64)
	if err != nil || payAmount < 0 {
		response.Message(c, http.StatusBadRequest, "参数错误: payAmount 格式错误")
		return
	}

	ctx := c.Request.Context()
	existing, err := h.orderService.GetOrder(ctx, req.TransactionID)
	if err != nil {
		h.callbackFailed(c, req.TransactionID, err)
		return
	}
	if existing.PayAmount != payAmount {
		h.callbackFailed(c, req.TransactionID, errors.ErrAmountMismatch.WithMessage("支付金额与订单不一致"))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, req.TransactionID, models.PayStatusSuccess)
	if err != nil {
		h.callbackFailed(c, req.TransactionID, err)
		return
	}

	notifyURL := req.NotifyURL
	if notifyURL == "" {
		notifyURL = order.NotifyURL
	}
	if err := h.notifier.NotifyPay(ctx, notifyURL, order); err != nil {
		handler.HandleMessageError(c, errors.ErrNotifyFailed.WithError(err))
		return
	}

	redirectURL := utils.BuildURL(h.config.IntermediateURL,
		utils.Param{Key: "notifyUrl", Value: notifyURL},
		utils.Param{Key: "transactionId", Value: req.TransactionID},
		utils.Param{Key: "payAmount", Value: req.PayAmount},
		utils.Param{Key: "redirectUrl", Value: req.RedirectURL},
	)
	h.logger.Info("支付回调处理完成",
		logger.RequestID(middleware.GetRequestID(c)),
		logger.TransactionID(req.TransactionID),
		logger.OutTradeNo(order.OutTradeNo),
	)
	response.JSON(c, http.StatusOK, CallbackResponse{RedirectURL: redirectURL})
}

// callbackFailed 业务错误返回 400，其余返回 500
func (h *Handler) callbackFailed(c *gin.Context, transactionID string, err error) {
	appErr := errors.GetAppError(err)
	if appErr.Kind == errors.KindSystem || appErr.Kind == errors.KindDependency {
		h.logger.Error("处理支付回调失败", logger.TransactionID(transactionID), zap.Error(err))
		response.Message(c, http.StatusInternalServerError, "处理回调失败: "+response.SystemErrorMessage)
		return
	}
	h.logger.Warn("支付回调参数与订单不符", logger.TransactionID(transactionID), zap.Error(err))
	response.Message(c, appErr.HTTPStatus(), "处理回调失败: "+appErr.Message)
}
