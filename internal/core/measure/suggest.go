package measure

import "strings"

// suggestRule 關鍵字規則：all 中每一組至少命中一個字詞
type suggestRule struct {
	all  [][]string
	unit Unit
}

// suggestRules 依優先序排列，第一條命中者勝出
var suggestRules = []suggestRule{
	{all: [][]string{{"bitters"}}, unit: UnitDash},
	{all: [][]string{{"sugar", "salt"}}, unit: UnitPinch},
	{all: [][]string{{"lime", "lemon", "orange"}, {"twist", "peel"}}, unit: UnitTwist},
	{all: [][]string{{"lime", "lemon", "orange"}, {"wedge", "slice"}}, unit: UnitWedge},
	{all: [][]string{{"mint", "herb"}}, unit: UnitSprig},
	{all: [][]string{{"olive", "cherry"}}, unit: UnitPiece},
	{all: [][]string{{"garnish", "decor"}}, unit: UnitPiece},
	{all: [][]string{{"juice", "soda", "tonic", "vermouth", "wine", "water"}}, unit: UnitOz},
}

// SuggestUnit 在無法解析份量時，依名稱關鍵字推測單位；只給單位，不給數量。
func SuggestUnit(ingredientName string) Unit {
	name := strings.ToLower(ingredientName)
	for _, rule := range suggestRules {
		if rule.matches(name) {
			return rule.unit
		}
	}
	return UnitOz
}

func (r suggestRule) matches(name string) bool {
	for _, group := range r.all {
		if !containsAny(name, group) {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
