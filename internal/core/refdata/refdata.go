// Package refdata 讀取解析時使用的參考資料：杯型清單與 OCR 混淆修正表。
package refdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/core/textnorm"
)

// Data 參考資料檔內容
type Data struct {
	Glasses  []extract.GlassTypeRef `yaml:"glasses"`
	OCRFixes []textnorm.Replacement `yaml:"ocr_fixes"`
}

// Default 未指定參考資料檔時使用：無杯型、預設 OCR 表
func Default() *Data {
	return &Data{
		OCRFixes: append([]textnorm.Replacement(nil), textnorm.DefaultOCRFixes...),
	}
}

// Load 讀取 YAML 參考資料檔；path 為空時回傳 Default()
func Load(path string) (*Data, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse 解析 YAML 參考資料；未提供 ocr_fixes 時沿用預設表
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	if data.OCRFixes == nil {
		data.OCRFixes = Default().OCRFixes
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate 檢查必要欄位
func (d *Data) Validate() error {
	seen := make(map[string]bool, len(d.Glasses))
	for i, g := range d.Glasses {
		if strings.TrimSpace(g.ID) == "" {
			return fmt.Errorf("glasses[%d]: id is required", i)
		}
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("glasses[%d]: name is required", i)
		}
		if seen[g.ID] {
			return fmt.Errorf("glasses[%d]: duplicate id %q", i, g.ID)
		}
		seen[g.ID] = true
	}
	for i, r := range d.OCRFixes {
		if r.From == "" {
			return fmt.Errorf("ocr_fixes[%d]: from is required", i)
		}
	}
	return nil
}

// GlassRefs 回傳杯型清單副本
func (d *Data) GlassRefs() []extract.GlassTypeRef {
	return append([]extract.GlassTypeRef(nil), d.Glasses...)
}
