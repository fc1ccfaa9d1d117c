package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/activities", 200, 10*time.Millisecond)
	m.RecordDirectoryQuery("sports", "weekend", true)
	m.RecordDirectoryQuery("", "", false)
	m.RecordSignup("ok")
	m.RecordSignup("full")

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.Equal(t, uint64(2), snap.DirectoryQueries)
	assert.Equal(t, uint64(1), snap.DirectoryEmptyResults)
	assert.Equal(t, uint64(1), snap.Signups)
}

func TestMetricsServiceHandlerExposesDirectoryCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordDirectoryQuery("arts", "", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `activity_directory_queries_total{category="arts",time_range="any"} 1`))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordSignup("ok")
	m.RecordDirectoryQuery("all", "", true)
	assert.Equal(t, uint64(0), m.Snapshot().Signups)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
