package handlers

import (
	"net/http"

	"trajectory-assessment-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// 集計期間（クエリ値→時間）
var dashboardPeriods = map[string]int{
	"1h":  1,
	"24h": 24,
	"7d":  24 * 7,
}

// MonitoringHandler はモニタリング関連の操作のハンドラです。
type MonitoringHandler struct {
	service *services.MonitoringService
}

// NewMonitoringHandler は新しいMonitoringHandlerを生成します。
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: service}
}

// GetLogs は集計されたログデータを返します。
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	hours, ok := dashboardPeriods[c.DefaultQuery("period", "24h")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be one of 1h, 24h, 7d"})
		return
	}
	c.JSON(http.StatusOK, h.service.GetDashboardData(hours))
}
