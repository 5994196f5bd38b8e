// Package auth 提供登录与 H5 免登链接的 HTTP Handler
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/response"
	authService "github.com/dumeirei/tbsg-pay-adapter/internal/service/auth"
)

// LoginResponse 登录响应
type LoginResponse struct {
	JWT        string `json:"jwt"`
	Status     string `json:"status"`
	ErrMessage string `json:"errMessage,omitempty"`
}

// TbsgH5URLRequest H5 链接请求
type TbsgH5URLRequest struct {
	Env string `json:"env" binding:"required" example:"PROD"`
}

// TbsgH5URLResponse H5 链接响应
type TbsgH5URLResponse struct {
	TbsgH5URL  string `json:"tbsgH5Url"`
	Status     string `json:"status"`
	JWT        string `json:"jwt"`
	ErrMessage string `json:"errMessage,omitempty"`
}

// Handler 登录处理器
type Handler struct {
	loginService *authService.LoginService
}

// NewHandler 创建登录处理器
func NewHandler(loginSvc *authService.LoginService) *Handler {
	return &Handler{loginService: loginSvc}
}

// RegisterRoutes 注册登录路由，guards 仅作用于登录接口
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guards ...gin.HandlerFunc) {
	r.POST("/login", append(guards, h.Login)...)
	r.POST("/getTbsgH5Url", h.GetTbsgH5URL)
}

// Login 白名单登录
// @Summary 白名单登录
// @Tags 登录
// @Accept json
// @Produce json
// @Param request body authService.LoginRequest true "请求参数"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} LoginResponse
// @Router /tbsg/channel/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Status: response.ReturnFail, ErrMessage: "手机号不能为空"})
		return
	}

	result, err := h.loginService.Login(c.Request.Context(), &req)
	if err != nil {
		status, msg := failure(err)
		c.JSON(status, LoginResponse{Status: response.ReturnFail, ErrMessage: msg})
		return
	}
	c.JSON(http.StatusOK, LoginResponse{JWT: result.JWT, Status: response.ReturnSuccess})
}

// GetTbsgH5URL 生成淘宝闪购 H5 链接
// @Summary 生成淘宝闪购 H5 链接
// @Description 令牌剩余有效期不足阈值时返回换发后的令牌
// @Tags 登录
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer 令牌"
// @Param request body TbsgH5URLRequest true "请求参数"
// @Success 200 {object} TbsgH5URLResponse
// @Failure 400 {object} TbsgH5URLResponse
// @Router /tbsg/channel/getTbsgH5Url [post]
func (h *Handler) GetTbsgH5URL(c *gin.Context) {
	var req TbsgH5URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, TbsgH5URLResponse{Status: response.ReturnFail, ErrMessage: "环境参数不能为空"})
		return
	}

	result, err := h.loginService.GetTbsgH5URL(c.Request.Context(), c.GetHeader("Authorization"), req.Env)
	if err != nil {
		status, msg := failure(err)
		c.JSON(status, TbsgH5URLResponse{Status: response.ReturnFail, ErrMessage: msg})
		return
	}
	c.JSON(http.StatusOK, TbsgH5URLResponse{
		TbsgH5URL: result.URL,
		Status:    response.ReturnSuccess,
		JWT:       result.JWT,
	})
}

func failure(err error) (int, string) {
	if errors.IsAppError(err) {
		appErr := errors.GetAppError(err)
		if appErr.Kind == errors.KindSystem {
			return http.StatusInternalServerError, response.SystemErrorMessage
		}
		return appErr.HTTPStatus(), appErr.Message
	}
	return http.StatusInternalServerError, response.SystemErrorMessage
}
