// Package metrics 提供转发服务的 Prometheus 指标
//
// 指标:
//   - <ns>_http_requests_total: 按路由和状态码统计的请求数
//   - <ns>_http_request_duration_seconds: 请求耗时
//   - <ns>_upstream_requests_total: 按模型和结果统计的上游调用数
//   - <ns>_upstream_duration_seconds: 上游调用耗时
//
// 所有方法对 nil 接收者安全，未启用指标时传 nil 即可。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 上游调用结果
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector 持有独立的指标注册表
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewCollector 创建并注册全部指标
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		upstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of completion API calls",
			},
			[]string{"model", "outcome"},
		),

		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "duration_seconds",
				Help:      "Duration of completion API calls in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"model"},
		),
	}

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.upstreamTotal,
		c.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry 返回底层注册表
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRequest 记录一次 HTTP 请求
func (c *Collector) ObserveRequest(route, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveUpstream 记录一次上游调用
func (c *Collector) ObserveUpstream(model string, err error, duration time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.upstreamTotal.WithLabelValues(model, outcome).Inc()
	c.upstreamDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// Handler 返回 Prometheus 抓取接口
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
