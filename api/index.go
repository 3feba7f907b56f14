package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	config "trajectory-assessment-api/configs"
	"trajectory-assessment-api/pkg/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	app     *server.App
	initErr error
	once    sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() (*server.App, error) {
	once.Do(func() {
		// 環境変数はプラットフォーム側の設定から読み込まれるため、godotenvは呼び出しません。
		cfg := config.LoadConfig()
		gin.SetMode(gin.ReleaseMode)

		logger, err := zap.NewProduction()
		if err != nil {
			initErr = err
			return
		}
		app, initErr = server.NewApp(context.Background(), cfg, logger)
	})
	return app, initErr
}

// Handler はサーバーレス関数のエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	a, err := setupApp()
	if err != nil {
		log.Printf("failed to initialize application: %v", err)
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	a.Router.ServeHTTP(w, r)
}
