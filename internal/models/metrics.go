package models

import "time"

// SystemMetrics is a point-in-time summary of runtime counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DirectoryQueries         uint64    `json:"directory_queries"`
	DirectoryEmptyResults    uint64    `json:"directory_empty_results"`
	Signups                  uint64    `json:"signups"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
