package handlers

import (
	"net/http"

	"trajectory-assessment-api/pkg/lanediag"
	"trajectory-assessment-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// LaneDiagnostic はレーン診断の回答を採点して結果を返します（保存しません）。
func (h *AssessmentHandler) LaneDiagnostic(c *gin.Context) {
	var req models.LaneDiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	result, err := h.service.DiagnoseLane(req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LaneRoadmap は現在のレーンから目標のレーンへ移るためのステップを返します。
func (h *AssessmentHandler) LaneRoadmap(c *gin.Context) {
	current, err := lanediag.ParseLane(c.Query("current"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current: " + err.Error()})
		return
	}
	target, err := lanediag.ParseLane(c.Query("target"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current": current,
		"target":  target,
		"steps":   lanediag.TransitionRoadmap(current, target),
	})
}
