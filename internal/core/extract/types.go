// Package extract 將 OCR、百科 markdown 與內嵌 JSON 三種來源文字轉為結構化的雞尾酒候選紀錄。
//
// 解析路徑不回傳錯誤：無法辨識的行、區段或文件一律靜默略過（僅記錄診斷日誌），
// 最壞結果是該文件產生零筆候選。Parser 建立後不再變動，可同時供多個 goroutine 使用。
package extract

import (
	"cocktail-ingest/internal/core/measure"
)

// SourceFormat 來源格式
type SourceFormat string

const (
	FormatHandbook       SourceFormat = "handbook"
	FormatEncyclopedia   SourceFormat = "encyclopedia"
	FormatStructuredJSON SourceFormat = "structured_json"
)

// Document 外部文件來源提供的輸入，解析過程中不會被修改
type Document struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// GlassTypeRef 杯型參考資料
type GlassTypeRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ParsedIngredient 結構化的單一材料
type ParsedIngredient struct {
	Order  int          `json:"order"`
	Amount *float64     `json:"amount,omitempty"`
	Unit   measure.Unit `json:"unit,omitempty"`
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
}

// CocktailCandidate 待審核的雞尾酒候選紀錄；只在名稱非空且至少有一項材料時產生
type CocktailCandidate struct {
	SourceDocumentID string             `json:"source_document_id"`
	SourceFormat     SourceFormat       `json:"source_format"`
	Name             string             `json:"name"`
	Slug             string             `json:"slug"`
	Instructions     string             `json:"instructions"`
	Ingredients      []ParsedIngredient `json:"ingredients"`
	GlassID          string             `json:"glass_id,omitempty"`
	GlassName        string             `json:"glass_name,omitempty"`
}

// Result 單一文件的解析結果
type Result struct {
	DocumentID string              `json:"document_id"`
	Format     SourceFormat        `json:"format,omitempty"`
	Candidates []CocktailCandidate `json:"candidates"`
	Dropped    []string            `json:"dropped,omitempty"` // 被略過的區段/項目原因，僅供診斷
}
