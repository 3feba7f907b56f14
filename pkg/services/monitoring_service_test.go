package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggingMiddlewareRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewMonitoringService(MustNewMetrics(prometheus.NewRegistry()), zap.NewNop())

	r := gin.New()
	r.Use(svc.LoggingMiddleware())
	r.GET("/api/v1/assessment/submission/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/api/v1/admin/health-status", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/assessment/submission/a", "/api/v1/assessment/submission/b", "/api/v1/admin/health-status"} {
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	data := svc.GetDashboardData(1)
	assert.Equal(t, map[string]int{"/api/v1/assessment/submission/:id": 2}, data.Endpoints)
	assert.Contains(t, data.StatusCodes, StatusCount{Name: "4xx Client Error", Value: 2})
}

func TestLoggingMiddlewareCollapsesUnmatchedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := MustNewMetrics(prometheus.NewRegistry())
	svc := NewMonitoringService(metrics, zap.NewNop())

	r := gin.New()
	r.Use(svc.LoggingMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/random-%d", i), nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.httpDuration))
	assert.Equal(t, map[string]int{UnmatchedRoute: 50}, svc.GetDashboardData(1).Endpoints)
}

func TestGetDashboardDataBuckets(t *testing.T) {
	svc := NewMonitoringService(nil, zap.NewNop())
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Minute), Path: "/a", StatusCode: 200, ResponseTime: 20 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-70 * time.Minute), Path: "/a", StatusCode: 500, ResponseTime: 40 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-30 * time.Hour), Path: "/old", StatusCode: 200})

	data := svc.GetDashboardData(24)
	require.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, HourlyCount{Time: "12:00", Requests: 1}, data.RequestsOverTime[23])
	assert.Equal(t, HourlyCount{Time: "11:00", Requests: 1}, data.RequestsOverTime[22])

	assert.Equal(t, map[string]int{"/a": 2}, data.Endpoints)
	assert.Equal(t, []EndpointLatency{{Endpoint: "/a", ResponseTime: 30}}, data.AvgResponseTimes)
	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, 500, data.RecentErrors[0].StatusCode)
}

func TestLogRequestRetentionCap(t *testing.T) {
	svc := NewMonitoringService(nil, zap.NewNop())
	for i := 0; i < maxLogEntries+5; i++ {
		svc.LogRequest(LogEntry{Path: "/x"})
	}
	assert.Len(t, svc.logs, maxLogEntries)
}
