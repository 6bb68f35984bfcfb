package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	directoryLatency *prometheus.HistogramVec
	resolutions      *prometheus.CounterVec
	calendarExports  *prometheus.CounterVec
	documentExports  *prometheus.CounterVec

	cacheHitCount          uint64
	cacheMissCount         uint64
	requestCount           uint64
	requestDurationTotal   uint64
	directoryCount         uint64
	directoryDurationTotal uint64
	calendarExportCount    uint64
}

// NewMetricsService registers the service collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	directoryLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directory_query_duration_seconds",
		Help:    "Duration of directory lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identifier_resolutions_total",
		Help: "Identifier resolutions by outcome",
	}, []string{"outcome"})

	calendarExports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_exports_total",
		Help: "Calendar exports by outcome",
	}, []string{"outcome"})

	documentExports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_exports_total",
		Help: "Printable timetable exports by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses,
		directoryLatency, resolutions, calendarExports, documentExports, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		directoryLatency: directoryLatency,
		resolutions:      resolutions,
		calendarExports:  calendarExports,
		documentExports:  documentExports,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
		return
	}
	m.cacheMisses.Inc()
	atomic.AddUint64(&m.cacheMissCount, 1)
}

// ObserveDirectoryQuery records the timing of one directory lookup.
func (m *MetricsService) ObserveDirectoryQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.directoryLatency.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.directoryCount, 1)
	atomic.AddUint64(&m.directoryDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordResolution counts an identifier resolution outcome.
func (m *MetricsService) RecordResolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// RecordCalendarExport counts a calendar export attempt.
func (m *MetricsService) RecordCalendarExport(success bool) {
	if m == nil {
		return
	}
	if !success {
		m.calendarExports.WithLabelValues("error").Inc()
		return
	}
	m.calendarExports.WithLabelValues("ok").Inc()
	atomic.AddUint64(&m.calendarExportCount, 1)
}

// RecordTimetableExport counts a printable export by format.
func (m *MetricsService) RecordTimetableExport(format string) {
	if m == nil {
		return
	}
	m.documentExports.WithLabelValues(format).Inc()
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dirCount := atomic.LoadUint64(&m.directoryCount)
	dirDuration := atomic.LoadUint64(&m.directoryDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDirMs float64
	if dirCount > 0 {
		avgDirMs = float64(dirDuration) / float64(dirCount) / float64(time.Millisecond)
	}

	return models.MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		CacheHits:                hits,
		CacheMisses:              misses,
		CacheHitRatio:            cacheRatio,
		DirectoryQueries:         dirCount,
		AverageDirectoryQueryMs:  avgDirMs,
		CalendarExports:          atomic.LoadUint64(&m.calendarExportCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
