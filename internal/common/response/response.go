// Package response 提供统一的 API 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 淘宝闪购协议返回码
const (
	ReturnSuccess = "SUCCESS"
	ReturnFail    = "FAIL"
)

// SystemErrorMessage 对外暴露的通用系统异常提示
const SystemErrorMessage = "系统异常，请稍后重试"

// PlatformResult 平台协议响应结构
type PlatformResult struct {
	ReturnCode string `json:"returnCode,omitempty"`
	ReturnMsg  string `json:"returnMsg"`
}

// MessageResult 收银台回调响应结构
type MessageResult struct {
	Message string `json:"message"`
}

// JSON 以指定状态码输出任意结构
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Fail 平台协议失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, PlatformResult{
		ReturnCode: ReturnFail,
		ReturnMsg:  message,
	})
}

// SystemError 系统异常，不暴露内部细节
func SystemError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, PlatformResult{ReturnMsg: SystemErrorMessage})
}

// Message 以 {"message": ...} 形式输出
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResult{Message: message})
}
