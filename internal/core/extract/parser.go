package extract

import (
	"strings"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/textnorm"
)

// TagConfig 各格式對應的文件標籤名稱（比對時不分大小寫）
type TagConfig struct {
	StructuredJSON string `mapstructure:"structured_json" json:"structured_json"`
	Encyclopedia   string `mapstructure:"encyclopedia" json:"encyclopedia"`
	Handbook       string `mapstructure:"handbook" json:"handbook"`
}

// DefaultTags 預設標籤
func DefaultTags() TagConfig {
	return TagConfig{
		StructuredJSON: "json",
		Encyclopedia:   "encyclopedia",
		Handbook:       "handbook",
	}
}

// Names 依分派優先序列出已設定的標籤
func (t TagConfig) Names() []string {
	var names []string
	for _, n := range []string{t.StructuredJSON, t.Encyclopedia, t.Handbook} {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Parser 格式分派器；建立後唯讀
type Parser struct {
	normalizer *textnorm.Normalizer
	tags       TagConfig
	log        *zap.Logger
}

// Option Parser 選項
type Option func(*Parser)

// WithLogger 注入診斷日誌
func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithTags 覆寫分派用的標籤名稱；空字串沿用預設
func WithTags(tags TagConfig) Option {
	return func(p *Parser) {
		if tags.StructuredJSON != "" {
			p.tags.StructuredJSON = tags.StructuredJSON
		}
		if tags.Encyclopedia != "" {
			p.tags.Encyclopedia = tags.Encyclopedia
		}
		if tags.Handbook != "" {
			p.tags.Handbook = tags.Handbook
		}
	}
}

// WithOCRFixes 替換 OCR 混淆修正表
func WithOCRFixes(fixes []textnorm.Replacement) Option {
	return func(p *Parser) {
		p.normalizer = textnorm.NewNormalizer(fixes)
	}
}

// NewParser 建立 Parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		normalizer: textnorm.NewNormalizer(nil),
		tags:       DefaultTags(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tags 目前使用的標籤設定
func (p *Parser) Tags() TagConfig {
	return p.tags
}

// Route 依固定優先序決定文件格式：structured_json → encyclopedia → handbook
func (p *Parser) Route(tags []string) (SourceFormat, bool) {
	has := func(want string) bool {
		if want == "" {
			return false
		}
		for _, t := range tags {
			if strings.EqualFold(strings.TrimSpace(t), want) {
				return true
			}
		}
		return false
	}

	switch {
	case has(p.tags.StructuredJSON):
		return FormatStructuredJSON, true
	case has(p.tags.Encyclopedia):
		return FormatEncyclopedia, true
	case has(p.tags.Handbook):
		return FormatHandbook, true
	}
	return "", false
}

// ParseDocument 解析單一文件，不回傳錯誤
func (p *Parser) ParseDocument(doc Document, glassRefs []GlassTypeRef) Result {
	res := Result{DocumentID: doc.ID, Candidates: []CocktailCandidate{}}

	format, ok := p.Route(doc.Tags)
	if !ok {
		res.Dropped = []string{"no recognized tag"}
		p.log.Debug("文件沒有可辨識的標籤",
			zap.String("document_id", doc.ID),
			zap.Strings("tags", doc.Tags))
		return res
	}
	res.Format = format

	var candidates []CocktailCandidate
	switch format {
	case FormatStructuredJSON:
		candidates, res.Dropped = p.parseStructured(doc, glassRefs)
	case FormatEncyclopedia:
		candidates, res.Dropped = p.parseEncyclopedia(doc, glassRefs)
	case FormatHandbook:
		candidates, res.Dropped = p.parseHandbook(doc)
	}
	if len(candidates) > 0 {
		res.Candidates = candidates
	}

	if len(res.Candidates) == 0 {
		p.log.Debug("文件未產生候選",
			zap.String("document_id", doc.ID),
			zap.String("format", string(format)),
			zap.Strings("reasons", res.Dropped))
	}
	return res
}

// ParseDocuments 依輸入順序解析整批文件並串接候選
func (p *Parser) ParseDocuments(docs []Document, glassRefs []GlassTypeRef) []CocktailCandidate {
	out := make([]CocktailCandidate, 0, len(docs))
	for _, doc := range docs {
		out = append(out, p.ParseDocument(doc, glassRefs).Candidates...)
	}
	return out
}

// ParseDocuments 以預設設定解析整批文件
func ParseDocuments(docs []Document, glassRefs []GlassTypeRef) []CocktailCandidate {
	return NewParser().ParseDocuments(docs, glassRefs)
}
