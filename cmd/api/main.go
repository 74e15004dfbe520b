package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cocktail-ingest/internal/api"
	"cocktail-ingest/internal/api/handlers/health"
	"cocktail-ingest/internal/core/cocktail"
	"cocktail-ingest/internal/core/docsource"
	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/core/queue"
	"cocktail-ingest/internal/core/refdata"
	"cocktail-ingest/internal/core/review"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("document_source", cfg.DocumentSource.Enabled),
		zap.String("document_source_url", cfg.DocumentSource.BaseURL),
		zap.Bool("review", cfg.Review.Enabled),
		zap.String("reference_path", cfg.Reference.Path),
	)

	// 參考資料：杯型與 OCR 修正表
	refs, err := refdata.Load(cfg.Reference.Path)
	if err != nil {
		common.LogFatal("Failed to load reference data", zap.Error(err))
	}

	parser := extract.NewParser(
		extract.WithTags(extract.TagConfig{
			StructuredJSON: cfg.Tags.StructuredJSON,
			Encyclopedia:   cfg.Tags.Encyclopedia,
			Handbook:       cfg.Tags.Handbook,
		}),
		extract.WithOCRFixes(refs.OCRFixes),
		extract.WithLogger(common.Logger),
	)

	queueManager := queue.NewManager(cfg.Queue, parser)
	defer queueManager.Close()

	var source cocktail.DocumentSource
	if cfg.DocumentSource.Enabled {
		source = docsource.NewClient(cfg.DocumentSource)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	sink, err := review.NewSink(startCtx, cfg.Review)
	cancelStart()
	if err != nil {
		// 只在審核交付開啟但無法連線時才 Fatal
		common.LogFatal("Failed to initialize review sink", zap.Error(err))
	}

	var pinger health.Pinger
	if redisSink, ok := sink.(*review.RedisSink); ok {
		pinger = redisSink
	}

	service := cocktail.NewService(parser, queueManager, source, sink, refs)
	defer func() {
		if err := service.Close(); err != nil {
			common.LogError("Failed to close service", zap.Error(err))
		}
	}()

	// 設置路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Service: service,
		Queue:   queueManager,
		Pinger:  pinger,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
