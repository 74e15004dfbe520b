// Package textnorm 提供配方文字的正規化、slug 產生與指示句判斷。
// 所有函式皆為純函式，不持有可變狀態。
package textnorm

import (
	"strings"
)

// Replacement 一條字面替換規則
type Replacement struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// DefaultOCRFixes 預設 OCR 易混字表（字面子字串替換，依序套用）
var DefaultOCRFixes = []Replacement{
	{From: "02", To: "oz"},
	{From: "0z", To: "oz"},
	{From: "mI", To: "ml"},
}

// vulgarFractions unicode 分數字元對應的小數字串
var vulgarFractions = []Replacement{
	{From: "¼", To: ".25"},
	{From: "½", To: ".5"},
	{From: "¾", To: ".75"},
	{From: "⅓", To: ".333"},
	{From: "⅔", To: ".667"},
	{From: "⅕", To: ".2"},
	{From: "⅖", To: ".4"},
	{From: "⅗", To: ".6"},
	{From: "⅘", To: ".8"},
	{From: "⅙", To: ".167"},
	{From: "⅚", To: ".833"},
	{From: "⅛", To: ".125"},
	{From: "⅜", To: ".375"},
	{From: "⅝", To: ".625"},
	{From: "⅞", To: ".875"},
}

// VulgarFractions 回傳分數字元對照表的副本
func VulgarFractions() []Replacement {
	out := make([]Replacement, len(vulgarFractions))
	copy(out, vulgarFractions)
	return out
}

// Normalizer 文字正規化器，OCR 表可注入
type Normalizer struct {
	fractions *strings.Replacer
	ocr       []Replacement
}

// NewNormalizer 以指定的 OCR 表建立正規化器；nil 時使用 DefaultOCRFixes
func NewNormalizer(ocrFixes []Replacement) *Normalizer {
	if ocrFixes == nil {
		ocrFixes = DefaultOCRFixes
	}
	pairs := make([]string, 0, len(vulgarFractions)*2)
	for _, f := range vulgarFractions {
		pairs = append(pairs, f.From, f.To)
	}
	ocr := make([]Replacement, 0, len(ocrFixes))
	for _, r := range ocrFixes {
		if r.From == "" {
			continue
		}
		ocr = append(ocr, r)
	}
	return &Normalizer{
		fractions: strings.NewReplacer(pairs...),
		ocr:       ocr,
	}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize 以預設 OCR 表正規化一行文字
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize 去頭尾空白、分數轉小數、OCR 修正、轉小寫並合併空白。
// OCR 表在轉小寫前後各套用一次：前一次讓 "mI" 這類區分大小寫的條目命中，
// 後一次讓 "0Z" 轉小寫後仍被修正。
func (n *Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = n.fractions.Replace(s)
	s = n.fixOCR(s)
	s = n.fixOCR(strings.ToLower(s))
	return CollapseSpaces(s)
}

func (n *Normalizer) fixOCR(s string) string {
	for _, r := range n.ocr {
		s = strings.ReplaceAll(s, r.From, r.To)
	}
	return s
}

// CollapseSpaces 將連續空白合併為單一空格並去頭尾空白
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
