// Package queue 以有界隊列與固定數量的 worker 並行解析文件，結果依輸入順序回收。
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

// Request 隊列請求：單一文件
type Request struct {
	Context   context.Context
	Document  extract.Document
	GlassRefs []extract.GlassTypeRef
	Result    chan Result
}

// Result 處理結果
type Result struct {
	Parsed extract.Result
	Error  error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int  `json:"queue_length"`
	ProcessedCount int  `json:"processed_count"`
	MaxQueueSize   int  `json:"max_queue_size"`
	Workers        int  `json:"workers"`
	Closed         bool `json:"closed"`
}

// Manager 隊列管理器
type Manager struct {
	config    config.QueueConfig
	parser    *extract.Parser
	queue     chan *Request
	done      chan struct{}
	processed int64
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig, parser *extract.Parser) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = cfg.Workers
	}
	m := &Manager{
		config: cfg,
		parser: parser,
		queue:  make(chan *Request, cfg.MaxSize),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	return m
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.process(req)
		}
	}
}

func (m *Manager) process(req *Request) {
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}
	parsed := m.parser.ParseDocument(req.Document, req.GlassRefs)
	m.IncrementProcessed()
	req.Result <- Result{Parsed: parsed}
}

// Enqueue 將單一文件加入隊列
func (m *Manager) Enqueue(ctx context.Context, doc extract.Document, glassRefs []extract.GlassTypeRef) (chan Result, error) {
	select {
	case <-m.done:
		return nil, common.ErrQueueClosed
	default:
	}

	queueReq := &Request{
		Context:   ctx,
		Document:  doc,
		GlassRefs: glassRefs,
		Result:    make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("Document enqueued",
			zap.String("document_id", doc.ID),
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.ErrQueueClosed
	}
}

// ParseAll 並行解析整批文件；回傳的結果與輸入一一對應、順序相同
func (m *Manager) ParseAll(ctx context.Context, docs []extract.Document, glassRefs []extract.GlassTypeRef) ([]extract.Result, error) {
	results := make([]extract.Result, len(docs))

	// 隊列滿時 Enqueue 會等待 worker 消化，因此邊送邊收
	var (
		wg       sync.WaitGroup
		firstErr error
		errOnce  sync.Once
	)
	setErr := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for i, doc := range docs {
		ch, err := m.Enqueue(ctx, doc, glassRefs)
		if err != nil {
			setErr(err)
			break
		}
		wg.Add(1)
		go func(i int, ch chan Result) {
			defer wg.Done()
			select {
			case res := <-ch:
				if res.Error != nil {
					setErr(res.Error)
					return
				}
				results[i] = res.Parsed
			case <-ctx.Done():
				setErr(ctx.Err())
			case <-m.done:
				setErr(common.ErrQueueClosed)
			}
		}(i, ch)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	closed := false
	select {
	case <-m.done:
		closed = true
	default:
	}
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
		Closed:         closed,
	}
}

// IncrementProcessed 增加處理計數
func (m *Manager) IncrementProcessed() {
	atomic.AddInt64(&m.processed, 1)
}

// Close 停止 worker；尚在隊列中的請求不再處理
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
