// Package cocktail 串接文件來源、解析隊列與審核交付。
package cocktail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/core/queue"
	"cocktail-ingest/internal/core/refdata"
	"cocktail-ingest/internal/core/review"
	"cocktail-ingest/internal/pkg/common"
)

// DocumentSource 文件來源
type DocumentSource interface {
	FetchDocuments(ctx context.Context, tagNames []string) ([]extract.Document, error)
}

// ParseResult 解析結果
type ParseResult struct {
	Candidates     []extract.CocktailCandidate `json:"candidates"`
	DocumentCount  int                         `json:"document_count"`
	CandidateCount int                         `json:"candidate_count"`
}

// IngestResult 匯入批次結果
type IngestResult struct {
	BatchID    string `json:"batch_id"`
	Documents  int    `json:"documents"`
	Candidates int    `json:"candidates"`
	Submitted  int    `json:"submitted"`
}

// Service 雞尾酒匯入服務
type Service struct {
	parser *extract.Parser
	queue  *queue.Manager
	source DocumentSource
	sink   review.Sink
	refs   *refdata.Data
	newID  func() string
}

// NewService 創建匯入服務；source 為 nil 時 Ingest 回傳 ErrSourceDisabled
func NewService(parser *extract.Parser, q *queue.Manager, source DocumentSource, sink review.Sink, refs *refdata.Data) *Service {
	if refs == nil {
		refs = refdata.Default()
	}
	if sink == nil {
		sink = review.LogSink{}
	}
	return &Service{
		parser: parser,
		queue:  q,
		source: source,
		sink:   sink,
		refs:   refs,
		newID:  common.GenerateUUID,
	}
}

// Parser 使用中的解析器
func (s *Service) Parser() *extract.Parser {
	return s.parser
}

// GlassRefs 參考資料中的杯型清單
func (s *Service) GlassRefs() []extract.GlassTypeRef {
	return s.refs.GlassRefs()
}

// Parse 並行解析文件；glassRefs 為 nil 時使用參考資料中的杯型
func (s *Service) Parse(ctx context.Context, docs []extract.Document, glassRefs []extract.GlassTypeRef) (*ParseResult, error) {
	if glassRefs == nil {
		glassRefs = s.refs.GlassRefs()
	}

	results, err := s.queue.ParseAll(ctx, docs, glassRefs)
	if err != nil {
		return nil, err
	}

	candidates := []extract.CocktailCandidate{}
	for _, res := range results {
		candidates = append(candidates, res.Candidates...)
	}
	return &ParseResult{
		Candidates:     candidates,
		DocumentCount:  len(docs),
		CandidateCount: len(candidates),
	}, nil
}

// Ingest 拉取文件、解析並交付審核；tagNames 為空時使用解析器設定的標籤
func (s *Service) Ingest(ctx context.Context, tagNames []string) (result *IngestResult, err error) {
	start := time.Now()
	result = &IngestResult{BatchID: s.newID()}
	defer func() {
		common.LogBatch(result.BatchID, result.Documents, result.Candidates, result.Submitted, time.Since(start), err)
	}()

	if s.source == nil {
		return result, common.ErrSourceDisabled
	}
	if len(tagNames) == 0 {
		tagNames = s.parser.Tags().Names()
	}

	docs, err := s.source.FetchDocuments(ctx, tagNames)
	if err != nil {
		return result, fmt.Errorf("fetch documents: %w", err)
	}
	result.Documents = len(docs)

	parsed, err := s.Parse(ctx, docs, nil)
	if err != nil {
		return result, fmt.Errorf("parse documents: %w", err)
	}
	result.Candidates = parsed.CandidateCount

	submitted, err := s.sink.Submit(ctx, result.BatchID, parsed.Candidates)
	result.Submitted = submitted
	if err != nil {
		return result, fmt.Errorf("submit candidates: %w", err)
	}

	common.LogDebug("匯入批次明細",
		zap.String("batch_id", result.BatchID),
		zap.Strings("tags", tagNames),
	)
	return result, nil
}

// Close 釋放審核交付資源
func (s *Service) Close() error {
	return s.sink.Close()
}
