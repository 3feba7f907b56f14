package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	config "trajectory-assessment-api/configs"
	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"
	"trajectory-assessment-api/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AssessmentHandler はアセスメント関連のハンドラです。
type AssessmentHandler struct {
	service       *services.AssessmentService
	exporter      *services.ExportService
	questionsFile string
	logger        *zap.Logger
}

// NewAssessmentHandler は新しいAssessmentHandlerを生成します。
func NewAssessmentHandler(service *services.AssessmentService, exporter *services.ExportService, questionsFile string, logger *zap.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:       service,
		exporter:      exporter,
		questionsFile: questionsFile,
		logger:        logger,
	}
}

// Submit は回答を採点・保存して結果を返します。
func (h *AssessmentHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	sub, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSubmitResponse(sub))
}

// Score は保存せずに採点結果だけを返します。
func (h *AssessmentHandler) Score(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	sub, err := h.service.Score(req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := models.NewSubmitResponse(sub)
	resp.ID = ""
	c.JSON(http.StatusOK, resp)
}

// GetSubmission は保存済みの提出を返します。
func (h *AssessmentHandler) GetSubmission(c *gin.Context) {
	sub, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// GetSimilar はドメインスコアのプロファイルが近い提出を返します。
func (h *AssessmentHandler) GetSimilar(c *gin.Context) {
	limit := 5
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 || n > services.MaxSimilarResults {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", services.MaxSimilarResults)})
			return
		}
		limit = n
	}

	matches, err := h.service.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": matches})
}

// GetActions は指定された2つのドメインに対するおすすめアクションを返します。
func (h *AssessmentHandler) GetActions(c *gin.Context) {
	primary, err := scoring.ParseDomain(c.Query("primary"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "primary: " + err.Error()})
		return
	}
	secondary, err := scoring.ParseDomain(c.Query("secondary"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "secondary: " + err.Error()})
		return
	}
	if primary == secondary {
		c.JSON(http.StatusBadRequest, gin.H{"error": "primary and secondary must differ"})
		return
	}

	c.JSON(http.StatusOK, scoring.SuggestedActions([2]scoring.Domain{primary, secondary}))
}

// ValidateQuestions は質問カタログが採点ロジックと整合しているかを確認します。
func (h *AssessmentHandler) ValidateQuestions(c *gin.Context) {
	catalog, err := config.LoadQuestionCatalog(h.questionsFile)
	if err != nil {
		h.logger.Error("failed to load question catalog", zap.String("path", h.questionsFile), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "server_error"})
		return
	}

	if err := catalog.Validate(); err != nil {
		code := err.Error()
		switch {
		case errors.Is(err, config.ErrMissingQuestions):
			code = config.ErrMissingQuestions.Error()
		case errors.Is(err, config.ErrPlaceholderQuestions):
			code = config.ErrPlaceholderQuestions.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": code})
		return
	}

	summary := catalog.Summary()
	c.JSON(http.StatusOK, gin.H{"ok": true, "scored": summary.Scored, "reflective": summary.Reflective})
}

// ExportXLSX は保存済みの提出をExcelファイルとしてダウンロードさせます。
func (h *AssessmentHandler) ExportXLSX(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	subs, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteSubmissionsXLSX(&buf, subs); err != nil {
		h.logger.Error("xlsx export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("submissions-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// respondError はサービス層のエラーをHTTPレスポンスに変換します。
func (h *AssessmentHandler) respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verr.Fields})
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
	default:
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process submission"})
	}
}
