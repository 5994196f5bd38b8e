// Package errors 定义业务错误码和错误处理
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	// KindSystem 未预期的系统异常
	KindSystem Kind = iota
	// KindValidation 参数缺失或格式错误
	KindValidation
	// KindNotFound 交易号或退款单号不存在
	KindNotFound
	// KindConflict 与现有订单状态冲突
	KindConflict
	// KindDependency 下游依赖失败（回调、上传）
	KindDependency
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	default:
		return "system"
	}
}

// HTTPStatus 返回类别对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindNotFound, KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"-"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配，使 WithMessage/WithError 派生出的错误仍可被 errors.Is 识别
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 返回错误对应的 HTTP 状态码
func (e *AppError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// New 创建新的应用错误
func New(code int, message string, kind Kind) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    kind,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, kind Kind, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Kind:    e.Kind,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Kind:    e.Kind,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "系统异常，请稍后重试", KindSystem)
	ErrInvalidParams   = New(1001, "参数错误", KindValidation)
	ErrIncompleteParam = New(1002, "参数不完整", KindValidation)
	ErrDatabaseError   = New(1004, "数据库错误", KindSystem)
	ErrCacheError      = New(1005, "缓存错误", KindDependency)
	ErrInternalError   = New(1006, "内部错误", KindSystem)
	ErrExternalService = New(1007, "外部服务错误", KindDependency)
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized        = New(2000, "Authorization 头缺失或格式不正确", KindValidation)
	ErrTokenInvalid        = New(2002, "JWT令牌已失效，请重新登录", KindValidation)
	ErrMobileNotAuthorized = New(2004, "该账户未授权，请联系管理员", KindValidation)
	ErrPasswordError       = New(2007, "密码错误", KindValidation)
	ErrUnknownEnv          = New(2010, "未知的环境参数", KindValidation)
)

// 支付错误码 (6000-6999)
var (
	ErrOrderNotFound           = New(6000, "订单不存在", KindNotFound)
	ErrRefundNotFound          = New(6003, "退款订单不存在", KindNotFound)
	ErrAmountMismatch          = New(6004, "订单已存在但金额不一致", KindConflict)
	ErrRefundExceedsPayment    = New(6005, "退款金额超过支付金额", KindConflict)
	ErrAlreadyPaid             = New(6006, "订单已支付成功，请勿重复支付", KindConflict)
	ErrOrderClosed             = New(6007, "订单已关闭", KindConflict)
	ErrInvalidStatusTransition = New(6009, "订单状态不允许变更", KindConflict)
	ErrConcurrentRequest       = New(6010, "订单正在处理中，请稍后重试", KindConflict)
	ErrInvalidSignature        = New(6011, "签名验证失败", KindValidation)
	ErrPaymentFailed           = New(6012, "支付失败", KindValidation)
)

// 账单错误码 (7000-7999)
var (
	ErrInvalidBillDate    = New(7000, "账单日期格式错误，正确格式：yyyy-MM-dd", KindValidation)
	ErrBillDateNotSettled = New(7001, "只能下载 T-1 及之前的账单", KindValidation)
	ErrBillDateExpired    = New(7002, "账单日期超出可下载范围", KindValidation)
	ErrBillGenerateFailed = New(7003, "生成账单失败", KindSystem)
	ErrBillUploadFailed   = New(7004, "上传账单失败", KindDependency)
)

// 通知错误码 (8000-8999)
var (
	ErrNotifyFailed = New(8000, "回调淘宝闪购失败", KindDependency)
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError 获取应用错误，非应用错误归为系统异常
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}

// Is 是 errors.Is 的别名，方便调用方只引入本包
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
