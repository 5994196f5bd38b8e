package tbsg

import (
	"errors"
	"fmt"
	"strconv"
)

// 返回码
const (
	ReturnCodeSuccess = "SUCCESS"
	ReturnCodeFail    = "FAIL"
)

var (
	// ErrMissingParam 缺少必填参数
	ErrMissingParam = errors.New("tbsg: missing required param")
	// ErrInvalidAmount 金额不是非负整数
	ErrInvalidAmount = errors.New("tbsg: invalid amount")
)

// PayRequest 支付请求
type PayRequest struct {
	TransactionID string
	PayAmount     int64
	Subject       string
	Body          string
	UID           string
	NotifyURL     string
	RedirectURL   string
}

// ParsePayRequest 从平台参数解析支付请求
func ParsePayRequest(params map[string]string) (*PayRequest, error) {
	if err := requireParams(params, "transactionId", "payAmount", "subject"); err != nil {
		return nil, err
	}
	amount, err := parseAmount(params, "payAmount")
	if err != nil {
		return nil, err
	}
	return &PayRequest{
		TransactionID: params["transactionId"],
		PayAmount:     amount,
		Subject:       params["subject"],
		Body:          params["body"],
		UID:           params["uid"],
		NotifyURL:     params["notifyUrl"],
		RedirectURL:   params["redirectUrl"],
	}, nil
}

// QueryPayRequest 支付查询请求
type QueryPayRequest struct {
	TransactionID string
}

// ParseQueryPayRequest 解析支付查询请求
func ParseQueryPayRequest(params map[string]string) (*QueryPayRequest, error) {
	if err := requireParams(params, "transactionId"); err != nil {
		return nil, err
	}
	return &QueryPayRequest{TransactionID: params["transactionId"]}, nil
}

// RefundRequest 退款请求
type RefundRequest struct {
	RefundNo      string
	TransactionID string
	RefundAmount  int64
	NotifyURL     string
}

// ParseRefundRequest 解析退款请求
func ParseRefundRequest(params map[string]string) (*RefundRequest, error) {
	if err := requireParams(params, "refundNo", "transactionId", "refundAmount"); err != nil {
		return nil, err
	}
	amount, err := parseAmount(params, "refundAmount")
	if err != nil {
		return nil, err
	}
	return &RefundRequest{
		RefundNo:      params["refundNo"],
		TransactionID: params["transactionId"],
		RefundAmount:  amount,
		NotifyURL:     params["notifyUrl"],
	}, nil
}

// QueryRefundRequest 退款查询请求
type QueryRefundRequest struct {
	RefundNo string
}

// ParseQueryRefundRequest 解析退款查询请求
func ParseQueryRefundRequest(params map[string]string) (*QueryRefundRequest, error) {
	if err := requireParams(params, "refundNo"); err != nil {
		return nil, err
	}
	return &QueryRefundRequest{RefundNo: params["refundNo"]}, nil
}

// CloseRequest 关单请求
type CloseRequest struct {
	TransactionID string
}

// ParseCloseRequest 解析关单请求
func ParseCloseRequest(params map[string]string) (*CloseRequest, error) {
	if err := requireParams(params, "transactionId"); err != nil {
		return nil, err
	}
	return &CloseRequest{TransactionID: params["transactionId"]}, nil
}

// DownloadBillRequest 下载账单请求
type DownloadBillRequest struct {
	BillDate string
}

// ParseDownloadBillRequest 解析下载账单请求，日期格式由账单服务校验
func ParseDownloadBillRequest(params map[string]string) *DownloadBillRequest {
	return &DownloadBillRequest{BillDate: params["billDate"]}
}

// Result 平台响应公共部分
type Result struct {
	ReturnCode string
	ReturnMsg  string
}

// Params 转为待签名参数
func (r Result) Params() map[string]string {
	return map[string]string{"returnCode": r.ReturnCode, "returnMsg": r.ReturnMsg}
}

// SuccessResult 成功响应
func SuccessResult() Result {
	return Result{ReturnCode: ReturnCodeSuccess, ReturnMsg: ReturnCodeSuccess}
}

// FailResult 失败响应
func FailResult(msg string) Result {
	return Result{ReturnCode: ReturnCodeFail, ReturnMsg: msg}
}

// QueryPayResponse 支付查询响应
type QueryPayResponse struct {
	Result
	TransactionID string
	OutTradeNo    string
	PayAmount     int64
	PayStatus     string
}

// Params 转为待签名参数
func (r QueryPayResponse) Params() map[string]string {
	p := r.Result.Params()
	p["transactionId"] = r.TransactionID
	p["outTradeNo"] = r.OutTradeNo
	p["payAmount"] = strconv.FormatInt(r.PayAmount, 10)
	p["payStatus"] = r.PayStatus
	return p
}

// RefundResponse 退款及退款查询响应
type RefundResponse struct {
	Result
	RefundNo     string
	OutRefundNo  string
	RefundAmount int64
	RefundStatus string
}

// Params 转为待签名参数
func (r RefundResponse) Params() map[string]string {
	p := r.Result.Params()
	p["refundNo"] = r.RefundNo
	p["outRefundNo"] = r.OutRefundNo
	p["refundAmount"] = strconv.FormatInt(r.RefundAmount, 10)
	p["refundStatus"] = r.RefundStatus
	return p
}

// DownloadBillResponse 下载账单响应
type DownloadBillResponse struct {
	Result
	BillURL string
}

// Params 转为待签名参数
func (r DownloadBillResponse) Params() map[string]string {
	p := r.Result.Params()
	p["billUrl"] = r.BillURL
	return p
}

// PayCallbackRequest 支付结果通知
type PayCallbackRequest struct {
	PayCode       string
	TransactionID string
	OutTradeNo    string
	PayAmount     int64
	PayStatus     string
}

// Params 转为待签名参数
func (r PayCallbackRequest) Params() map[string]string {
	return map[string]string{
		"payCode":       r.PayCode,
		"transactionId": r.TransactionID,
		"outTradeNo":    r.OutTradeNo,
		"payAmount":     strconv.FormatInt(r.PayAmount, 10),
		"payStatus":     r.PayStatus,
	}
}

// RefundCallbackRequest 退款结果通知
type RefundCallbackRequest struct {
	PayCode       string
	TransactionID string
	RefundNo      string
	OutRefundNo   string
	RefundAmount  int64
	RefundStatus  string
}

// Params 转为待签名参数
func (r RefundCallbackRequest) Params() map[string]string {
	return map[string]string{
		"payCode":       r.PayCode,
		"transactionId": r.TransactionID,
		"refundNo":      r.RefundNo,
		"outRefundNo":   r.OutRefundNo,
		"refundAmount":  strconv.FormatInt(r.RefundAmount, 10),
		"refundStatus":  r.RefundStatus,
	}
}

func requireParams(params map[string]string, keys ...string) error {
	for _, k := range keys {
		if params[k] == "" {
			return fmt.Errorf("%w: %s", ErrMissingParam, k)
		}
	}
	return nil
}

func parseAmount(params map[string]string, key string) (int64, error) {
	v, err := strconv.ParseInt(params[key], 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidAmount, key, params[key])
	}
	return v, nil
}
