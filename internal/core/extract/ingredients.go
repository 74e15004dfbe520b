package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"cocktail-ingest/internal/core/measure"
	"cocktail-ingest/internal/core/textnorm"
)

// minRecoveredNameLen 啟發式回收的材料名稱最短長度（不含）
const minRecoveredNameLen = 2

var numericToken = regexp.MustCompile(`^[\d./\-–,()]+$`)

// ingredientList 依文件順序累積材料並指派 order
type ingredientList struct {
	items []ParsedIngredient
}

func (l *ingredientList) add(amount *float64, unit measure.Unit, name string) {
	name = textnorm.CollapseSpaces(name)
	l.items = append(l.items, ParsedIngredient{
		Order:  len(l.items),
		Amount: amount,
		Unit:   unit,
		Name:   name,
		Slug:   textnorm.Slugify(name),
	})
}

func (l *ingredientList) addMeasurement(m measure.Measurement) {
	l.add(m.Amount, m.Unit, m.Name)
}

// addLine 以份量文法解析一行；失敗時回收裸材料名並推測單位。回報是否有新增。
func (l *ingredientList) addLine(normalized string) bool {
	if m, ok := measure.ParseLine(normalized); ok {
		l.addMeasurement(m)
		return true
	}
	name, ok := recoverName(normalized)
	if !ok {
		return false
	}
	l.add(nil, measure.SuggestUnit(name), name)
	return true
}

func (l *ingredientList) len() int {
	return len(l.items)
}

// stripBullet 去除行首的清單符號
func stripBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "*•-"))
}

// recoverName 去除份量形狀的雜訊字詞，取回裸材料名
func recoverName(line string) (string, bool) {
	tokens := strings.Fields(line)

	for len(tokens) > 0 && isLeadingNoise(tokens[0]) {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if isNumeric(last) {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		if len(tokens) >= 2 && measure.IsUnitAlias(last) && isNumeric(tokens[len(tokens)-2]) {
			tokens = tokens[:len(tokens)-2]
			continue
		}
		break
	}

	name := strings.TrimFunc(strings.Join(tokens, " "), func(r rune) bool {
		return unicode.IsPunct(r) && r != ')'
	})
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= minRecoveredNameLen {
		return "", false
	}
	return name, true
}

func isNumeric(token string) bool {
	return numericToken.MatchString(token)
}

func isLeadingNoise(token string) bool {
	return isNumeric(token) || measure.IsUnitAlias(token) || token == "of" || token == "or"
}
