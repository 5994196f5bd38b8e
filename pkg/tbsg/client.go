package tbsg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrCallbackRejected 平台未确认回调
var ErrCallbackRejected = errors.New("tbsg: callback not acknowledged")

// 响应体最多读取的字节数
const maxResponseBody = 64 << 10

// CallbackResult 一次回调的请求与应答
type CallbackResult struct {
	Params     map[string]string
	HTTPStatus int
	Body       string
}

// Client 向平台发送支付/退款结果通知
type Client struct {
	httpClient *http.Client
	signer     Signer
}

// NewClient 创建回调客户端
func NewClient(signer Signer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		signer:     signer,
	}
}

// PayCallback 通知平台支付结果
func (c *Client) PayCallback(ctx context.Context, notifyURL string, req *PayCallbackRequest) (*CallbackResult, error) {
	return c.post(ctx, notifyURL, req.Params())
}

// RefundCallback 通知平台退款结果
func (c *Client) RefundCallback(ctx context.Context, notifyURL string, req *RefundCallbackRequest) (*CallbackResult, error) {
	return c.post(ctx, notifyURL, req.Params())
}

// post 以表单提交签名后的参数，result 在请求发出后总是非空
func (c *Client) post(ctx context.Context, notifyURL string, params map[string]string) (*CallbackResult, error) {
	if notifyURL == "" {
		return nil, fmt.Errorf("%w: notifyUrl", ErrMissingParam)
	}

	signed, err := c.signer.SignResponse(params)
	if err != nil {
		return nil, fmt.Errorf("签名失败: %w", err)
	}

	form := url.Values{}
	for k, v := range signed {
		form.Set(k, v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, notifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("构造回调请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	result := &CallbackResult{Params: signed}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("发送回调失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	result.HTTPStatus = resp.StatusCode
	result.Body = string(body)
	if err != nil {
		return result, fmt.Errorf("读取回调响应失败: %w", err)
	}

	if !Acknowledged(resp.StatusCode, body) {
		return result, fmt.Errorf("%w: status=%d body=%q", ErrCallbackRejected, resp.StatusCode, Truncate(result.Body, 256))
	}
	return result, nil
}

// Acknowledged 判断平台是否确认：2xx 且应答为 SUCCESS 或 returnCode=SUCCESS 的 JSON
func Acknowledged(status int, body []byte) bool {
	if status < 200 || status >= 300 {
		return false
	}
	text := strings.TrimSpace(string(body))
	if strings.EqualFold(text, ReturnCodeSuccess) {
		return true
	}
	var ack struct {
		ReturnCode string `json:"returnCode"`
	}
	if err := json.Unmarshal([]byte(text), &ack); err != nil {
		return false
	}
	return ack.ReturnCode == ReturnCodeSuccess
}

// Truncate 截断到最多 n 字节，不拆分多字节字符
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
