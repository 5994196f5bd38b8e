// Package handler 提供 API Handler 的通用辅助函数
// 统一错误到 HTTP 响应的转换，业务错误对外只暴露简短消息
package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/response"
	"github.com/dumeirei/tbsg-pay-adapter/internal/middleware"
)

// HandleError 处理错误并发送 {returnCode: FAIL, returnMsg} 响应
// 如果 err 为 nil，返回 false；否则发送响应并返回 true，调用方应该 return
//
// 业务错误按类别映射状态码，其余错误一律 500 且只返回通用提示
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.IsAppError(err) {
		appErr := errors.GetAppError(err)
		logFailure(c, appErr)
		response.Fail(c, appErr.HTTPStatus(), appErr.Message)
		return true
	}
	logger.Error("未处理的系统异常",
		logger.RequestID(middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	response.SystemError(c)
	return true
}

// HandleMessageError 与 HandleError 相同，但响应体为 {"message": ...}
func HandleMessageError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	appErr := errors.GetAppError(err)
	logFailure(c, appErr)
	response.Message(c, appErr.HTTPStatus(), appErr.Message)
	return true
}

// PrefixedMessage 生成带操作前缀的失败消息，例如 "查询失败: 订单不存在"
// 非业务错误使用通用提示，避免泄漏内部细节
func PrefixedMessage(prefix string, err error) string {
	if err == nil {
		return ""
	}
	msg := response.SystemErrorMessage
	if errors.IsAppError(err) {
		msg = errors.GetAppError(err).Message
	}
	if prefix == "" {
		return msg
	}
	return strings.TrimSpace(prefix) + " " + msg
}

func logFailure(c *gin.Context, appErr *errors.AppError) {
	fields := []zap.Field{
		logger.RequestID(middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("code", appErr.Code),
		zap.String("kind", appErr.Kind.String()),
		zap.Error(appErr),
	}
	switch appErr.Kind {
	case errors.KindDependency, errors.KindSystem:
		logger.Error(appErr.Message, fields...)
	default:
		logger.Warn(appErr.Message, fields...)
	}
}
