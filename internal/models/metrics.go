package models

import "time"

// MetricsSnapshot summarises process level counters for the metrics summary endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	DirectoryQueries         uint64    `json:"directory_queries"`
	AverageDirectoryQueryMs  float64   `json:"average_directory_query_ms"`
	CalendarExports          uint64    `json:"calendar_exports"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
