package postal

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels recorded on the requests counter.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// Metrics groups the lookup collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics registers the lookup collectors on reg. Collectors already
// registered by another client are reused, so every session scope can share
// one set of series.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contractform",
		Subsystem: "postal",
		Name:      "requests_total",
		Help:      "Postal lookup requests sent to the remote service by kind and result",
	}, []string{"kind", "result"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contractform",
		Subsystem: "postal",
		Name:      "cache_hits_total",
		Help:      "Postal lookups answered from the session cache",
	}, []string{"kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contractform",
		Subsystem: "postal",
		Name:      "request_duration_seconds",
		Help:      "Latency of postal lookup requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if cacheHits, err = register(reg, cacheHits); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{requests: requests, cacheHits: cacheHits, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, fmt.Errorf("postal: register metrics: %w", err)
	}
	return collector, nil
}

// Requests exposes the requests counter for inspection.
func (m *Metrics) Requests() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.requests
}

// CacheHits exposes the cache hit counter for inspection.
func (m *Metrics) CacheHits() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.cacheHits
}

func (m *Metrics) observeRequest(kind, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, result).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCacheHit(kind string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(kind).Inc()
}
