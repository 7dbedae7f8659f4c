// Package metrics records handler outcomes. The Prometheus collector is
// used in production; NoopRecorder keeps tests and tools free of a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder interface {
	RecordPayment(operation, result string)
	RecordVerification(result string)
	RecordReward(status string, alreadyProcessed bool)
	RecordCredit(amount float64)
	RecordError(operation, errType string)
}

type NoopRecorder struct{}

func (NoopRecorder) RecordPayment(string, string) {}
func (NoopRecorder) RecordVerification(string)    {}
func (NoopRecorder) RecordReward(string, bool)    {}
func (NoopRecorder) RecordCredit(float64)         {}
func (NoopRecorder) RecordError(string, string)   {}

type Prometheus struct {
	registry      *prometheus.Registry
	payments      *prometheus.CounterVec
	verifications *prometheus.CounterVec
	rewards       *prometheus.CounterVec
	credited      prometheus.Counter
	errors        *prometheus.CounterVec
	requests      *prometheus.CounterVec
	durations     *prometheus.HistogramVec
}

func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "droppay"
	}
	registry := prometheus.NewRegistry()

	p := &Prometheus{
		registry: registry,
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_operations_total",
			Help:      "Approve and complete calls by outcome.",
		}, []string{"operation", "result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Blockchain verifications by outcome.",
		}, []string{"result"}),
		rewards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_rewards_total",
			Help:      "Ad reward verifications by stored status.",
		}, []string{"status", "already_processed"}),
		credited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merchant_credit_pi_total",
			Help:      "Pi credited to merchant balances.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by operation and type.",
		}, []string{"operation", "type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	registry.MustRegister(p.payments, p.verifications, p.rewards, p.credited, p.errors, p.requests, p.durations)
	return p
}

func (p *Prometheus) RecordPayment(operation, result string) {
	p.payments.WithLabelValues(operation, result).Inc()
}

func (p *Prometheus) RecordVerification(result string) {
	p.verifications.WithLabelValues(result).Inc()
}

func (p *Prometheus) RecordReward(status string, alreadyProcessed bool) {
	already := "false"
	if alreadyProcessed {
		already = "true"
	}
	p.rewards.WithLabelValues(status, already).Inc()
}

func (p *Prometheus) RecordCredit(amount float64) {
	p.credited.Add(amount)
}

func (p *Prometheus) RecordError(operation, errType string) {
	p.errors.WithLabelValues(operation, errType).Inc()
}

// ObserveRequest records one finished HTTP request. route is the matched
// route pattern, not the raw path.
func (p *Prometheus) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	p.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.durations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
