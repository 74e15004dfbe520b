// Package docsource 從上游文件管理系統（Paperless-ngx 相容 API）拉取已 OCR 的文件與標籤。
package docsource

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

// maxPages 單次拉取的分頁上限
const maxPages = 1000

// Tag 上游標籤
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tagPage struct {
	Next    *string `json:"next"`
	Results []Tag   `json:"results"`
}

type documentItem struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    []int  `json:"tags"`
}

type documentPage struct {
	Next    *string        `json:"next"`
	Results []documentItem `json:"results"`
}

// Client 文件來源客戶端
type Client struct {
	config config.DocumentSourceConfig
	client *resty.Client
}

// NewClient 創建文件來源客戶端
func NewClient(cfg config.DocumentSourceConfig) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Token %s", cfg.Token))
	}

	return &Client{
		config: cfg,
		client: client,
	}
}

// ListTags 取得所有標籤
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	next := fmt.Sprintf("/api/tags/?page_size=%d", c.config.PageSize)
	for page := 0; next != "" && page < maxPages; page++ {
		var result tagPage
		if err := c.get(ctx, next, &result); err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		tags = append(tags, result.Results...)
		next = nextURL(result.Next)
	}
	return tags, nil
}

// FetchDocuments 拉取帶有任一指定標籤的文件；tagNames 為空時拉取全部文件。
// 回傳文件的 Tags 為標籤名稱，供格式分派使用。
func (c *Client) FetchDocuments(ctx context.Context, tagNames []string) ([]extract.Document, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	var ids []string
	for _, want := range tagNames {
		for _, t := range tags {
			if strings.EqualFold(strings.TrimSpace(t.Name), strings.TrimSpace(want)) {
				ids = append(ids, strconv.Itoa(t.ID))
			}
		}
	}
	if len(tagNames) > 0 && len(ids) == 0 {
		common.LogWarn("文件來源沒有對應的標籤", zap.Strings("tags", tagNames))
		return []extract.Document{}, nil
	}

	next := fmt.Sprintf("/api/documents/?page_size=%d", c.config.PageSize)
	if len(ids) > 0 {
		next += "&tags__id__in=" + strings.Join(ids, ",")
	}

	docs := []extract.Document{}
	for page := 0; next != "" && page < maxPages; page++ {
		var result documentPage
		if err := c.get(ctx, next, &result); err != nil {
			return nil, fmt.Errorf("fetch documents: %w", err)
		}
		for _, item := range result.Results {
			docs = append(docs, toDocument(item, names))
		}
		next = nextURL(result.Next)
	}

	common.LogInfo("已從文件來源取得文件",
		zap.Int("documents", len(docs)),
		zap.Strings("tags", tagNames),
	)
	return docs, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return common.ErrDocumentSource.Wrap(fmt.Errorf("request %s: %w", url, err))
	}
	if resp.StatusCode() != http.StatusOK {
		return common.ErrDocumentSource.Wrap(fmt.Errorf("request %s: status %d", url, resp.StatusCode()))
	}
	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return common.ErrDocumentSource.Wrap(fmt.Errorf("decode %s: %w", url, err))
	}
	return nil
}

func toDocument(item documentItem, tagNames map[int]string) extract.Document {
	tags := make([]string, 0, len(item.Tags))
	for _, id := range item.Tags {
		if name, ok := tagNames[id]; ok {
			tags = append(tags, name)
		}
	}
	return extract.Document{
		ID:      strconv.Itoa(item.ID),
		Content: item.Content,
		Tags:    tags,
	}
}

func nextURL(next *string) string {
	if next == nil {
		return ""
	}
	return strings.TrimSpace(*next)
}
