package measure

import (
	"regexp"
	"strconv"
	"strings"
)

// Measurement 一行文字解析出的份量
type Measurement struct {
	Amount *float64 // nil 表示無數量
	Unit   Unit
	Name   string
}

// quantity 文法：帶分數、區間/或、分數、小數、整數。先長後短，第一個命中者勝出。
const quantityExpr = `(?:` +
	`\d+\s+\d+/\d+` + // 1 1/2
	`|\d+\s+\.\d+` + // 1 .5（由 "1 ½" 正規化而來）
	`|\d*\.?\d+\s+or\s+\d*\.?\d+` + // 2 or 3
	`|\d*\.?\d+\s*[-–]\s*\d*\.?\d+` + // 1-2
	`|\d+/\d+` + // 1/2
	`|\d*\.\d+` + // .25、1.5
	`|\d+` +
	`)`

var (
	numberExpr = `(\d*\.?\d+)`

	partPattern    = regexp.MustCompile(`^` + numberExpr + `\s+parts?\b\.?\s*(.*)$`)
	toTastePattern = regexp.MustCompile(`^to taste\s+(.+)$`)
	juiceOfPattern = regexp.MustCompile(`^juice of\s+(` + quantityExpr + `)\s+(lemon|lime|orange|grapefruit)(?:e?s)?\b`)
	generalPattern = regexp.MustCompile(`^(` + quantityExpr + `)\s*([a-z]+)([.,:]?)(?:\s+(.*))?$`)
	quantityOnly   = regexp.MustCompile(`^(` + quantityExpr + `)$`)

	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	mixedDecPattern = regexp.MustCompile(`^(\d+)\s+(\.\d+)$`)
	orPattern       = regexp.MustCompile(`^(\d*\.?\d+)\s+or\s+\d*\.?\d+$`)
	rangePattern    = regexp.MustCompile(`^(\d*\.?\d+)\s*[-–]\s*\d*\.?\d+$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// ParseLine 依固定優先序解析一行已正規化的文字：
// part → to taste → juice of → 一般份量。都不命中時回傳 ok=false。
func ParseLine(line string) (Measurement, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Measurement{}, false
	}

	if m := partPattern.FindStringSubmatch(line); m != nil {
		amount, err := strconv.ParseFloat(m[1], 64)
		name := cleanName(m[2])
		if err == nil && name != "" {
			return Measurement{Amount: &amount, Unit: UnitPart, Name: name}, true
		}
	}

	if m := toTastePattern.FindStringSubmatch(line); m != nil {
		if name := cleanName(m[1]); name != "" {
			zero := 0.0
			return Measurement{Amount: &zero, Unit: UnitToTaste, Name: name}, true
		}
	}

	if m := juiceOfPattern.FindStringSubmatch(line); m != nil {
		if amount, ok := ParseQuantity(m[1]); ok {
			return Measurement{Amount: &amount, Unit: UnitWhole, Name: m[2] + " (juiced)"}, true
		}
	}

	if m := generalPattern.FindStringSubmatch(line); m != nil {
		amount, ok := ParseQuantity(m[1])
		if !ok {
			return Measurement{}, false
		}
		unit, known := lookup(m[2])
		rest := cleanName(m[4])
		name := rest
		if !known {
			// 無法辨識的單位字詞保留在名稱前端
			name = strings.TrimSpace(m[2] + " " + rest)
		}
		if name == "" {
			return Measurement{}, false
		}
		return Measurement{Amount: &amount, Unit: unit, Name: name}, true
	}

	return Measurement{}, false
}

// ParseAmount 解析只含份量（可無名稱）的欄位，如 JSON 的 quantity："1 1/2 oz"、"2"、"to taste"。
func ParseAmount(text string) (float64, Unit, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", false
	}
	if text == "to taste" {
		return 0, UnitToTaste, true
	}
	if m := quantityOnly.FindStringSubmatch(text); m != nil {
		amount, ok := ParseQuantity(m[1])
		if !ok {
			return 0, "", false
		}
		return amount, UnitWhole, true
	}
	if m := partPattern.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[2]) == "" {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, "", false
		}
		return amount, UnitPart, true
	}
	if m := generalPattern.FindStringSubmatch(text); m != nil {
		amount, ok := ParseQuantity(m[1])
		if !ok {
			return 0, "", false
		}
		unit := Canonicalize(m[2] + m[3] + " " + m[4])
		if unit == UnitOther {
			unit = Canonicalize(m[2])
		}
		return amount, unit, true
	}
	return 0, "", false
}

// ParseQuantity 計算份量字串的數值；"a or b" 與 "a-b" 取下界
func ParseQuantity(q string) (float64, bool) {
	q = strings.TrimSpace(q)
	if m := mixedPattern.FindStringSubmatch(q); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, ok := divide(m[2], m[3])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	}
	if m := mixedDecPattern.FindStringSubmatch(q); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		return whole + frac, true
	}
	if m := orPattern.FindStringSubmatch(q); m != nil {
		return ParseQuantity(m[1])
	}
	if m := rangePattern.FindStringSubmatch(q); m != nil {
		return ParseQuantity(m[1])
	}
	if m := fractionPattern.FindStringSubmatch(q); m != nil {
		return divide(m[1], m[2])
	}
	v, err := strconv.ParseFloat(q, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func divide(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// cleanName 去除名稱開頭殘留的句點、"s"、"of"
func cleanName(rest string) string {
	s := strings.TrimSpace(rest)
	s = strings.TrimSpace(strings.TrimLeft(s, "."))
	if s == "s" {
		return ""
	}
	s = strings.TrimPrefix(s, "s ")
	s = strings.TrimPrefix(s, "of ")
	if s == "of" {
		return ""
	}
	return strings.TrimSpace(s)
}
