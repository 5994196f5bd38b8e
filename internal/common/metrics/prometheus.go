// Package metrics 提供 Prometheus 指标收集
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 业务结果标签
const (
	ResultSuccess = "success"
	ResultReplay  = "replay"
	ResultFail    = "fail"
)

// Metrics 指标收集器，nil 接收者上的记录方法为空操作
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	paymentsTotal        *prometheus.CounterVec
	refundsTotal         *prometheus.CounterVec
	notifyTotal          *prometheus.CounterVec
	billGenerationsTotal *prometheus.CounterVec
	billRecordsExported  prometheus.Counter
	path                 string
}

// Init 在默认注册表上初始化指标
func Init(namespace, path string) *Metrics {
	return NewWithRegistry(namespace, path, prometheus.DefaultRegisterer)
}

// NewWithRegistry 在指定注册表上创建指标
func NewWithRegistry(namespace, path string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "tbsg_pay"
	}
	if path == "" {
		path = "/metrics"
	}
	factory := promauto.With(reg)

	return &Metrics{
		path: path,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		paymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Payment requests by result",
			},
			[]string{"result"},
		),
		refundsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refunds_total",
				Help:      "Refund requests by result",
			},
			[]string{"result"},
		),
		notifyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "platform_notify_total",
				Help:      "Notifications sent to the platform",
			},
			[]string{"type", "result"},
		),
		billGenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bill_generations_total",
				Help:      "Bill file generations by result",
			},
			[]string{"result"},
		),
		billRecordsExported: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bill_records_exported_total",
				Help:      "Bill lines written to exported files",
			},
		),
	}
}

// Middleware 返回 Gin 中间件
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == m.path {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()
		defer m.httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 返回 Prometheus HTTP 处理器
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordPayment 记录支付下单结果
func (m *Metrics) RecordPayment(result string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(result).Inc()
}

// RecordRefund 记录退款结果
func (m *Metrics) RecordRefund(result string) {
	if m == nil {
		return
	}
	m.refundsTotal.WithLabelValues(result).Inc()
}

// RecordNotify 记录平台回调结果
func (m *Metrics) RecordNotify(notifyType string, ok bool) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(notifyType, boolResult(ok)).Inc()
}

// RecordBillGeneration 记录账单生成结果与导出行数
func (m *Metrics) RecordBillGeneration(ok bool, lines int) {
	if m == nil {
		return
	}
	m.billGenerationsTotal.WithLabelValues(boolResult(ok)).Inc()
	if ok {
		m.billRecordsExported.Add(float64(lines))
	}
}

func boolResult(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFail
}
