package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cocktail-ingest/internal/core/queue"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

// context 鍵
const (
	ConfigKey = "config"
	QueueKey  = "queue_manager"
	PingerKey = "readiness_pinger"
)

// readinessTimeout 就緒檢查中單一依賴的逾時
const readinessTimeout = 2 * time.Second

// Pinger 就緒檢查用的外部依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.Get(ConfigKey)
	appCfg, typeOK := cfg.(*config.Config)
	if !ok || !typeOK {
		common.LogError("Configuration not found in context")
		status, body := common.ToResponse(common.ErrInternalError, false)
		c.JSON(status, body)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   appCfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if q, ok := c.Get(QueueKey); ok {
		if manager, ok := q.(*queue.Manager); ok {
			response.Queue = manager.GetQueueStatus()
			if response.Queue.Closed {
				response.Status = "degraded"
			}
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：解析隊列可用且外部依賴可連線
func ReadinessCheck(c *gin.Context) {
	if q, ok := c.Get(QueueKey); ok {
		if manager, ok := q.(*queue.Manager); ok && manager.GetQueueStatus().Closed {
			status, body := common.ToResponse(common.ErrQueueClosed, false)
			c.JSON(status, body)
			return
		}
	}

	if p, ok := c.Get(PingerKey); ok {
		if pinger, ok := p.(Pinger); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				common.LogWarn("Readiness check failed", zap.Error(err))
				status, body := common.ToResponse(common.ErrReviewSink.Wrap(err), false)
				c.JSON(status, body)
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
