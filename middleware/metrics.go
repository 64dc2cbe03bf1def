package middleware

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool
	// Registerer receives the collectors (default: prometheus.DefaultRegisterer)
	Registerer prometheus.Registerer
	// Namespace prefixes metric names (default: "wirekit")
	Namespace string
	// Buckets for the duration histogram (default: prometheus.DefBuckets)
	Buckets []float64
}

// HTTPMetrics holds the request collectors. They are labeled by method,
// route pattern and status.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

var metricLabels = []string{"method", "route", "status"}

// NewHTTPMetrics creates and registers the collectors. Collectors already
// registered under the same names are reused.
func NewHTTPMetrics(cfg MetricsConfig) (*HTTPMetrics, error) {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "wirekit"
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}

	m := &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled requests.",
		}, metricLabels),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Handler latency.",
			Buckets:   cfg.Buckets,
		}, metricLabels),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests being handled.",
		}),
	}

	var err error
	if m.Requests, err = register(cfg.Registerer, m.Requests); err != nil {
		return nil, err
	}
	if m.Duration, err = register(cfg.Registerer, m.Duration); err != nil {
		return nil, err
	}
	if m.InFlight, err = register(cfg.Registerer, m.InFlight); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Middleware observes every request passing through it.
func (m *HTTPMetrics) Middleware(skip func(ctx *handler.Context) bool) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			if skip != nil && skip(ctx) {
				return next(ctx)
			}

			m.InFlight.Inc()
			defer m.InFlight.Dec()

			start := time.Now()
			resp, err := next(ctx)

			labels := prometheus.Labels{
				"method": ctx.Request().Method.String(),
				"route":  ctx.Pattern(),
				"status": strconv.Itoa(statusOf(resp, err)),
			}
			m.Requests.With(labels).Inc()
			m.Duration.With(labels).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// Metrics registers collectors from cfg and returns their middleware.
// Panics if registration fails.
func Metrics(cfg MetricsConfig) handler.Middleware {
	m, err := NewHTTPMetrics(cfg)
	if err != nil {
		panic("metrics middleware: " + err.Error())
	}
	return m.Middleware(cfg.Skip)
}

// MetricsHandler serves gatherer in the Prometheus text format.
func MetricsHandler(gatherer prometheus.Gatherer) handler.HandlerFunc {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return func(*handler.Context) (*message.Response, error) {
		families, err := gatherer.Gather()
		if err != nil && len(families) == 0 {
			return nil, response.ErrInternalServerError.WithError(err)
		}

		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, format)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return nil, response.ErrInternalServerError.WithError(err)
			}
		}
		return response.Bytes(buf.Bytes(), string(format)), nil
	}
}
