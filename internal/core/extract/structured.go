package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/measure"
	"cocktail-ingest/internal/core/textnorm"
	"cocktail-ingest/internal/pkg/common"
)

var jsonFencePattern = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n(.*?)```")

// jsonCocktail 內嵌 JSON 的單一雞尾酒
type jsonCocktail struct {
	Name         string            `json:"name"`
	Glass        string            `json:"glass"`
	Instructions json.RawMessage   `json:"instructions"`
	Ingredients  []json.RawMessage `json:"ingredients"`
}

// jsonIngredient 物件形式的材料 {quantity, ingredient}
type jsonIngredient struct {
	Quantity   json.RawMessage `json:"quantity"`
	Ingredient string          `json:"ingredient"`
}

// parseStructured 解析文件中第一個 ```json 區塊
func (p *Parser) parseStructured(doc Document, glassRefs []GlassTypeRef) ([]CocktailCandidate, []string) {
	m := jsonFencePattern.FindStringSubmatch(doc.Content)
	if m == nil {
		p.log.Warn("找不到 JSON 區塊", zap.String("document_id", doc.ID))
		return nil, []string{"structured_json: missing json fence"}
	}

	items, err := decodeCocktailItems(strings.TrimSpace(m[1]))
	if err != nil {
		p.log.Warn("JSON 區塊解析失敗",
			zap.String("document_id", doc.ID),
			zap.Error(err))
		return nil, []string{"structured_json: malformed json"}
	}

	var (
		candidates []CocktailCandidate
		dropped    []string
	)
	for i, raw := range items {
		var item jsonCocktail
		if err := common.ParseJSONBytes(raw, &item); err != nil {
			dropped = append(dropped, fmt.Sprintf("structured_json: item %d: %v", i, err))
			continue
		}
		c, reasons, ok := p.buildStructuredCandidate(doc.ID, item, glassRefs)
		dropped = append(dropped, reasons...)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("structured_json: item %d without name or ingredients", i))
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, dropped
}

// decodeCocktailItems 接受單一物件或物件陣列；失敗時補上鍵的雙引號再試一次
func decodeCocktailItems(block string) ([]json.RawMessage, error) {
	items, err := decodeItems(block)
	if err == nil {
		return items, nil
	}
	if retried, retryErr := decodeItems(common.QuoteJSONKeys(block)); retryErr == nil {
		return retried, nil
	}
	return nil, err
}

func decodeItems(block string) ([]json.RawMessage, error) {
	var top json.RawMessage
	if err := common.ParseJSON(block, &top); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(top)
	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("empty json block")
	case trimmed[0] == '[':
		var items []json.RawMessage
		if err := common.ParseJSONBytes(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case trimmed[0] == '{':
		return []json.RawMessage{trimmed}, nil
	}
	return nil, fmt.Errorf("json block is neither an object nor an array")
}

func (p *Parser) buildStructuredCandidate(docID string, item jsonCocktail, glassRefs []GlassTypeRef) (CocktailCandidate, []string, bool) {
	name := textnorm.CollapseSpaces(item.Name)
	if name == "" {
		return CocktailCandidate{}, nil, false
	}

	var (
		ingredients ingredientList
		dropped     []string
	)
	for _, entry := range item.Ingredients {
		if reason := p.addStructuredIngredient(&ingredients, entry); reason != "" {
			dropped = append(dropped, "structured_json: "+reason)
		}
	}
	if ingredients.len() == 0 {
		return CocktailCandidate{}, dropped, false
	}

	c := CocktailCandidate{
		SourceDocumentID: docID,
		SourceFormat:     FormatStructuredJSON,
		Name:             name,
		Slug:             textnorm.Slugify(name),
		Instructions:     decodeText(item.Instructions),
		Ingredients:      ingredients.items,
	}
	applyGlass(&c, item.Glass, glassRefs)
	return c, dropped, true
}

// addStructuredIngredient 新增一筆材料；略過時回傳原因
func (p *Parser) addStructuredIngredient(list *ingredientList, entry json.RawMessage) string {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 {
		return "empty ingredient entry"
	}

	switch trimmed[0] {
	case '"':
		var line string
		if err := json.Unmarshal(trimmed, &line); err != nil {
			return "ingredient string: " + err.Error()
		}
		text := stripBullet(p.normalizer.Normalize(line))
		if text == "" || !list.addLine(text) {
			return "unrecognized ingredient string"
		}
		return ""

	case '{':
		var obj jsonIngredient
		if err := common.ParseJSONBytes(trimmed, &obj); err != nil {
			return "ingredient object: " + err.Error()
		}
		name := textnorm.CollapseSpaces(obj.Ingredient)
		if name == "" {
			return "ingredient object without name"
		}
		quantity := p.normalizer.Normalize(decodeText(obj.Quantity))
		if quantity == "" {
			list.add(nil, measure.SuggestUnit(name), name)
			return ""
		}
		amount, unit, ok := measure.ParseAmount(quantity)
		if !ok {
			return fmt.Sprintf("unparseable quantity %q", quantity)
		}
		list.add(&amount, unit, name)
		return ""
	}
	return "unsupported ingredient entry"
}

// decodeText 將字串、數字或字串陣列轉為單一字串；陣列以空白連接
func decodeText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return strings.TrimSpace(s)
		}
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(trimmed, &parts); err == nil {
			texts := make([]string, 0, len(parts))
			for _, part := range parts {
				if t := decodeText(part); t != "" {
					texts = append(texts, t)
				}
			}
			return strings.Join(texts, " ")
		}
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return n.String()
		}
	}
	return ""
}
