package cocktail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cocktail-ingest/internal/core/cocktail"
	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/pkg/common"
)

// Service 處理器需要的匯入服務
type Service interface {
	Parse(ctx context.Context, docs []extract.Document, glassRefs []extract.GlassTypeRef) (*cocktail.ParseResult, error)
	Ingest(ctx context.Context, tagNames []string) (*cocktail.IngestResult, error)
}

// ParseRequest 直接解析呼叫端提供的文件
type ParseRequest struct {
	Documents  []extract.Document     `json:"documents" binding:"required"`
	GlassTypes []extract.GlassTypeRef `json:"glass_types,omitempty"` // 省略時使用參考資料檔
}

// IngestRequest 從文件來源拉取並交付審核
type IngestRequest struct {
	Tags []string `json:"tags,omitempty"` // 省略時使用格式分派的標籤
}

// Handler 雞尾酒匯入處理程序
type Handler struct {
	service Service
	debug   bool
}

// NewHandler 創建處理程序
func NewHandler(service Service, debug bool) *Handler {
	return &Handler{
		service: service,
		debug:   debug,
	}
}

// HandleParse POST /api/v1/cocktails/parse
func (h *Handler) HandleParse(c *gin.Context) {
	requestID := requestid.Get(c)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.writeError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if err := validateDocuments(req.Documents); err != nil {
		h.writeError(c, err)
		return
	}

	common.LogInfo("開始解析文件",
		zap.String("request_id", requestID),
		zap.Int("documents", len(req.Documents)),
		zap.Bool("glass_types_supplied", req.GlassTypes != nil),
	)

	result, err := h.service.Parse(c.Request.Context(), req.Documents, req.GlassTypes)
	if err != nil {
		common.LogError("文件解析失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleIngest POST /api/v1/cocktails/ingest
func (h *Handler) HandleIngest(c *gin.Context) {
	requestID := requestid.Get(c)

	var req IngestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogWarn("請求格式無效",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			h.writeError(c, common.ErrInvalidRequest.Wrap(err))
			return
		}
	}

	result, err := h.service.Ingest(c.Request.Context(), req.Tags)
	if err != nil {
		common.LogError("匯入批次失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = common.ErrGatewayTimeout.Wrap(err)
	case errors.Is(err, context.Canceled):
		err = common.ErrRequestTimeout.Wrap(err)
	}
	status, body := common.ToResponse(err, h.debug)
	c.AbortWithStatusJSON(status, body)
}

// validateDocuments 每份文件都需要 ID，且 ID 不可重複
func validateDocuments(docs []extract.Document) error {
	seen := make(map[string]bool, len(docs))
	for i, doc := range docs {
		id := strings.TrimSpace(doc.ID)
		if id == "" {
			return common.ErrInvalidDocument.Wrap(fmt.Errorf("documents[%d]: id is required", i))
		}
		if seen[id] {
			return common.ErrInvalidDocument.Wrap(fmt.Errorf("documents[%d]: duplicate id %q", i, id))
		}
		seen[id] = true
	}
	return nil
}
