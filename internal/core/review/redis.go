package review

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

// RedisSink 以 RPUSH 將候選推入 Redis 審核佇列
type RedisSink struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisSink 創建 Redis 審核交付並測試連線
func NewRedisSink(ctx context.Context, cfg config.ReviewConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, common.ErrReviewSink.Wrap(fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return newRedisSink(client, cfg.Key), nil
}

func newRedisSink(client *redis.Client, key string) *RedisSink {
	return &RedisSink{
		client: client,
		key:    key,
		now:    time.Now,
	}
}

// Submit 一次推入整批候選；回傳推入筆數
func (s *RedisSink) Submit(ctx context.Context, batchID string, candidates []extract.CocktailCandidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	values, err := encodeEnvelopes(NewEnvelopes(batchID, candidates, s.now()))
	if err != nil {
		return 0, common.ErrReviewSink.Wrap(err)
	}

	if err := s.client.RPush(ctx, s.key, values...).Err(); err != nil {
		return 0, common.ErrReviewSink.Wrap(fmt.Errorf("failed to push candidates: %w", err))
	}

	common.LogInfo("候選已推入審核佇列",
		zap.String("batch_id", batchID),
		zap.String("key", s.key),
		zap.Int("count", len(values)),
	)
	return len(values), nil
}

// Ping 檢查連線（readiness 使用）
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisSink) Close() error {
	return s.client.Close()
}
