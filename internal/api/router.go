package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cocktailHandler "cocktail-ingest/internal/api/handlers/cocktail"
	"cocktail-ingest/internal/api/handlers/health"
	"cocktail-ingest/internal/api/middleware"
	"cocktail-ingest/internal/core/cocktail"
	"cocktail-ingest/internal/core/queue"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 未設定時的請求體大小限制 (10MB)
	defaultMaxBodySize = 10 << 20
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Service *cocktail.Service
	Queue   *queue.Manager
	Pinger  health.Pinger // 可為 nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 全局中間件：設置超時與注入依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set(health.ConfigKey, cfg)
		if deps.Queue != nil {
			c.Set(health.QueueKey, deps.Queue)
		}
		if deps.Pinger != nil {
			c.Set(health.PingerKey, deps.Pinger)
		}

		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	router.NoRoute(func(c *gin.Context) {
		status, body := common.ToResponse(common.ErrNotFound, false)
		c.JSON(status, body)
	})
	router.NoMethod(func(c *gin.Context) {
		status, body := common.ToResponse(common.ErrMethodNotAllowed, false)
		c.JSON(status, body)
	})

	// API 路由組
	api := router.Group("/api/v1")
	{
		h := cocktailHandler.NewHandler(deps.Service, cfg.App.Debug)

		cocktailGroup := api.Group("/cocktails")
		cocktailGroup.Use(middleware.Deduplication(cfg.DedupWindow))
		{
			// 直接解析呼叫端提供的文件
			cocktailGroup.POST("/parse", h.HandleParse)

			// 從文件來源拉取、解析並交付審核
			cocktailGroup.POST("/ingest", h.HandleIngest)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
	)

	return router
}
