// Package review 將解析出的候選交給後續的人工審核流程（狀態為 pending）。
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

// StatusPending 待審核
const StatusPending = "pending"

// Envelope 交付給審核佇列的單筆紀錄
type Envelope struct {
	BatchID     string                    `json:"batch_id"`
	Status      string                    `json:"status"`
	SubmittedAt time.Time                 `json:"submitted_at"`
	Candidate   extract.CocktailCandidate `json:"candidate"`
}

// Sink 審核交付介面
type Sink interface {
	Submit(ctx context.Context, batchID string, candidates []extract.CocktailCandidate) (int, error)
	Close() error
}

// NewEnvelopes 以同一批次 ID 與時間包裝候選
func NewEnvelopes(batchID string, candidates []extract.CocktailCandidate, now time.Time) []Envelope {
	out := make([]Envelope, len(candidates))
	for i, c := range candidates {
		out[i] = Envelope{
			BatchID:     batchID,
			Status:      StatusPending,
			SubmittedAt: now.UTC(),
			Candidate:   c,
		}
	}
	return out
}

// encodeEnvelopes 序列化為 JSON 字串列表
func encodeEnvelopes(envelopes []Envelope) ([]interface{}, error) {
	values := make([]interface{}, len(envelopes))
	for i, env := range envelopes {
		data, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal candidate %q: %w", env.Candidate.Slug, err)
		}
		values[i] = string(data)
	}
	return values, nil
}

// LogSink 未設定審核佇列時使用：只記錄摘要
type LogSink struct{}

// Submit 記錄每筆候選的摘要
func (LogSink) Submit(_ context.Context, batchID string, candidates []extract.CocktailCandidate) (int, error) {
	for _, c := range candidates {
		common.LogInfo("候選待審核",
			zap.String("batch_id", batchID),
			zap.String("slug", c.Slug),
			zap.String("source_document_id", c.SourceDocumentID),
			zap.String("source_format", string(c.SourceFormat)),
			zap.Int("ingredients", len(c.Ingredients)),
		)
	}
	return len(candidates), nil
}

// Close 無資源需要釋放
func (LogSink) Close() error { return nil }

// NewSink 依設定建立審核交付目的地
func NewSink(ctx context.Context, cfg config.ReviewConfig) (Sink, error) {
	if !cfg.Enabled {
		return LogSink{}, nil
	}
	return NewRedisSink(ctx, cfg)
}
