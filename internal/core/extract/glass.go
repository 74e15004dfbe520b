package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"cocktail-ingest/internal/core/textnorm"
)

// foldGlassName 比對用的杯型名稱：去頭尾空白、小寫、去重音、合併空白
func foldGlassName(name string) string {
	// transform.Chain 帶內部狀態，每次呼叫各自建立
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return textnorm.CollapseSpaces(strings.ToLower(folded))
}

// matchGlass 以不分大小寫的名稱比對杯型參考資料；第一筆命中者勝出
func matchGlass(name string, refs []GlassTypeRef) (GlassTypeRef, bool) {
	key := foldGlassName(name)
	if key == "" {
		return GlassTypeRef{}, false
	}
	for _, ref := range refs {
		if foldGlassName(ref.Name) == key {
			return ref, true
		}
	}
	return GlassTypeRef{}, false
}

// applyGlass 杯型名稱命中參考資料時寫入候選；未命中則保持未設定
func applyGlass(c *CocktailCandidate, glass string, refs []GlassTypeRef) bool {
	ref, ok := matchGlass(glass, refs)
	if !ok {
		return false
	}
	c.GlassID = ref.ID
	c.GlassName = ref.Name
	return true
}
