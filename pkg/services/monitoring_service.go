package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxLogEntries を超えた古いログは破棄されます。
const maxLogEntries = 10000

// UnmatchedRoute はどのルートにも一致しなかったリクエストをまとめる集計キーです。
const UnmatchedRoute = "unmatched"

// 記録対象外のパスプレフィックス
var unloggedPrefixes = []string{"/api/v1/admin", "/api/v1/monitoring", "/metrics"}

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	mu      sync.RWMutex
	logs    []LogEntry
	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService(metrics *Metrics, logger *zap.Logger) *MonitoringService {
	return &MonitoringService{
		logs:    make([]LogEntry, 0),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if over := len(s.logs) - maxLogEntries; over > 0 {
		s.logs = append(s.logs[:0:0], s.logs[over:]...)
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
// ルートのパターン（例: /submission/:id）単位で集計します。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = UnmatchedRoute
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("client_ip", c.ClientIP()))

		for _, prefix := range unloggedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		s.metrics.ObserveRequest(c.Request.Method, path, status, elapsed)
		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   status,
			ResponseTime: elapsed,
		})
	}
}

// HourlyCount は1時間ごとのリクエスト数
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// StatusCount はステータスクラスごとの件数
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EndpointLatency はエンドポイントごとの平均応答時間（ミリ秒）
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	RequestsOverTime []HourlyCount     `json:"requestsOverTime"`
	Endpoints        map[string]int    `json:"endpoints"`
	StatusCodes      []StatusCount     `json:"statusCodes"`
	AvgResponseTimes []EndpointLatency `json:"avgResponseTimes"`
	RecentErrors     []LogEntry        `json:"recentErrors"`
}

// GetDashboardData は直近 periodHours 時間のログを集計します（時刻はUTC）。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}

	s.mu.RLock()
	now := s.now().UTC()
	since := now.Add(-time.Duration(periodHours) * time.Hour)
	recent := make([]LogEntry, 0)
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			recent = append(recent, entry)
		}
	}
	s.mu.RUnlock()

	// 過去から現在へ向かう順序で時間バケットを用意
	currentHour := now.Truncate(time.Hour)
	overTime := make([]HourlyCount, periodHours)
	bucketIndex := make(map[time.Time]int, periodHours)
	for i := 0; i < periodHours; i++ {
		hour := currentHour.Add(-time.Duration(periodHours-1-i) * time.Hour)
		overTime[i] = HourlyCount{Time: hour.Format("15:00")}
		bucketIndex[hour] = i
	}

	statusClasses := []string{"2xx Success", "4xx Client Error", "5xx Server Error"}
	statusCounts := make(map[string]int, len(statusClasses))
	endpoints := make(map[string]int)
	latencySum := make(map[string]time.Duration)
	for _, entry := range recent {
		if idx, ok := bucketIndex[entry.Timestamp.UTC().Truncate(time.Hour)]; ok {
			overTime[idx].Requests++
		}
		endpoints[entry.Path]++
		latencySum[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 500:
			statusCounts[statusClasses[2]]++
		case entry.StatusCode >= 400:
			statusCounts[statusClasses[1]]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCounts[statusClasses[0]]++
		}
	}

	statuses := make([]StatusCount, 0, len(statusClasses))
	for _, name := range statusClasses {
		statuses = append(statuses, StatusCount{Name: name, Value: statusCounts[name]})
	}

	latencies := make([]EndpointLatency, 0, len(latencySum))
	for path, total := range latencySum {
		latencies = append(latencies, EndpointLatency{
			Endpoint:     path,
			ResponseTime: total.Milliseconds() / int64(endpoints[path]),
		})
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i].Endpoint < latencies[j].Endpoint })

	recentErrors := make([]LogEntry, 0)
	for i := len(recent) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if recent[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, recent[i])
		}
	}

	return DashboardData{
		RequestsOverTime: overTime,
		Endpoints:        endpoints,
		StatusCodes:      statuses,
		AvgResponseTimes: latencies,
		RecentErrors:     recentErrors,
	}
}
