// Package measure 解析配方行中的份量：單位分類與別名表、份量文法、單位推測。
package measure

import "strings"

// Unit 標準計量單位（封閉列舉）
type Unit string

const (
	UnitOz      Unit = "oz"
	UnitML      Unit = "ml"
	UnitDash    Unit = "dash"
	UnitPinch   Unit = "pinch"
	UnitPiece   Unit = "piece"
	UnitSlice   Unit = "slice"
	UnitSprig   Unit = "sprig"
	UnitTwist   Unit = "twist"
	UnitWedge   Unit = "wedge"
	UnitTsp     Unit = "tsp"
	UnitTbsp    Unit = "tbsp"
	UnitSplash  Unit = "splash"
	UnitPart    Unit = "part"
	UnitToTaste Unit = "to_taste"
	UnitWhole   Unit = "whole"
	UnitOther   Unit = "other"
)

// Units 所有標準單位，依宣告順序
var Units = []Unit{
	UnitOz, UnitML, UnitDash, UnitPinch, UnitPiece, UnitSlice, UnitSprig, UnitTwist,
	UnitWedge, UnitTsp, UnitTbsp, UnitSplash, UnitPart, UnitToTaste, UnitWhole, UnitOther,
}

// Valid 是否為列舉成員
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func (u Unit) String() string {
	return string(u)
}

// aliases 單數、小寫、無句點形式 → 標準單位
var aliases = map[string]Unit{
	"oz":          UnitOz,
	"ounce":       UnitOz,
	"fl oz":       UnitOz,
	"fluid ounce": UnitOz,
	"ml":          UnitML,
	"milliliter":  UnitML,
	"millilitre":  UnitML,
	"dash":        UnitDash,
	"pinch":       UnitPinch,
	"piece":       UnitPiece,
	"pc":          UnitPiece,
	"slice":       UnitSlice,
	"sprig":       UnitSprig,
	"twist":       UnitTwist,
	"wedge":       UnitWedge,
	"tsp":         UnitTsp,
	"teaspoon":    UnitTsp,
	"tbsp":        UnitTbsp,
	"tbs":         UnitTbsp,
	"tablespoon":  UnitTbsp,
	"splash":      UnitSplash,
	"part":        UnitPart,
	"to taste":    UnitToTaste,
	"whole":       UnitWhole,
}

// Aliases 回傳別名表副本（測試與文件用）
func Aliases() map[string]Unit {
	out := make(map[string]Unit, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// Canonicalize 將單位字詞轉為標準單位；無法辨識時回傳 UnitOther
func Canonicalize(token string) Unit {
	u, _ := lookup(token)
	return u
}

// IsUnitAlias 字詞（含複數與句點形式）是否為已知單位別名
func IsUnitAlias(token string) bool {
	_, ok := lookup(token)
	return ok
}

// lookup 同 Canonicalize，另回報是否命中別名表
func lookup(token string) (Unit, bool) {
	t := strings.ToLower(strings.Join(strings.Fields(token), " "))
	t = strings.TrimSuffix(t, ".")
	if t == "" {
		return UnitOther, false
	}
	if u, ok := aliases[t]; ok {
		return u, true
	}
	if u, ok := aliases[Singularize(t)]; ok {
		return u, true
	}
	return UnitOther, false
}

// Singularize 以英文常見規則去除複數字尾（dashes→dash、pinches→pinch、slices→slice）
func Singularize(word string) string {
	switch {
	case len(word) <= 2:
		return word
	case strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "xes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}
	return word
}
