// Package server は設定・サービス・ハンドラを組み立ててGinエンジンを生成します。
// 常駐サーバーとサーバーレスのエントリーポイントの両方がここでルーターを作ります。
package server

import (
	"context"
	"errors"
	"net/http"

	config "trajectory-assessment-api/configs"
	"trajectory-assessment-api/pkg/handlers"
	"trajectory-assessment-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App はルーターと、終了時にクローズが必要なものを保持します。
type App struct {
	Router    *gin.Engine
	store     services.ResultStore
	publisher services.EventPublisher
}

// NewApp は cfg からサービス一式を組み立てます。
// Qdrant・Kafkaは設定されている場合のみ使用し、未設定時はメモリ保存とログ出力になります。
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.MustNewMetrics(registry)

	var store services.ResultStore
	if cfg.QdrantURL != "" {
		qs, err := services.NewQdrantResultStore(ctx, cfg.QdrantURL, cfg.QdrantAPIKey, logger)
		if err != nil {
			return nil, err
		}
		store = qs
		logger.Info("using qdrant result store", zap.String("url", cfg.QdrantURL))
	} else {
		store = services.NewMemoryResultStore()
		logger.Warn("QDRANT_URL not set; submissions are kept in memory")
	}

	var publisher services.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	} else {
		publisher = services.NewLogPublisher(logger)
	}

	assessment := services.NewAssessmentService(store, publisher, metrics, logger, cfg.DefaultModuleID)
	// 質問カタログが読めない環境（サーバーレス等）では自由記述IDの検証を行わない
	if catalog, err := config.LoadQuestionCatalog(cfg.QuestionsFile); err != nil {
		logger.Warn("question catalog not loaded; reflective ids are not checked", zap.String("path", cfg.QuestionsFile), zap.Error(err))
	} else {
		assessment.SetReflectiveIDs(catalog.ReflectiveIDs())
	}
	router := NewRouter(Dependencies{
		Config:     cfg,
		Logger:     logger,
		Assessment: assessment,
		Exporter:   services.NewExportService(),
		Monitoring: services.NewMonitoringService(metrics, logger),
		Gatherer:   registry,
	})

	return &App{Router: router, store: store, publisher: publisher}, nil
}

// Close は保存先とPublisherの接続を解放します。
func (a *App) Close() error {
	return errors.Join(a.publisher.Close(), a.store.Close())
}

// Dependencies は NewRouter が必要とする依存関係です。
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Assessment *services.AssessmentService
	Exporter   *services.ExportService
	Monitoring *services.MonitoringService
	Gatherer   prometheus.Gatherer
}

// NewRouter はすべてのルートを登録します。
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(d.Monitoring.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-API-KEY", "Authorization")
	r.Use(cors.New(corsConfig))

	assessmentHandler := handlers.NewAssessmentHandler(d.Assessment, d.Exporter, d.Config.QuestionsFile, d.Logger)
	adminHandler := handlers.NewAdminHandler(d.Config, d.Logger)
	monitoringHandler := handlers.NewMonitoringHandler(d.Monitoring)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	v1.Use(apiKeyAuth(d.Config.APIKey))
	{
		assessment := v1.Group("/assessment")
		{
			assessment.POST("/submit", handlers.MaintenanceGuard(), assessmentHandler.Submit)
			assessment.POST("/score", handlers.MaintenanceGuard(), assessmentHandler.Score)
			assessment.GET("/submission/:id", assessmentHandler.GetSubmission)
			assessment.GET("/submission/:id/similar", assessmentHandler.GetSimilar)
			assessment.GET("/actions", assessmentHandler.GetActions)
			assessment.GET("/validate-questions", assessmentHandler.ValidateQuestions)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
			admin.GET("/export.xlsx", adminHandler.RequireAdmin(), assessmentHandler.ExportXLSX)
		}

		lane := v1.Group("/lane-diagnostic")
		{
			lane.POST("/score", handlers.MaintenanceGuard(), assessmentHandler.LaneDiagnostic)
			lane.GET("/roadmap", assessmentHandler.LaneRoadmap)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	return r
}

// apiKeyAuth はX-API-KEYヘッダーを検証します。apiKeyが空の場合は検証しません。
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
