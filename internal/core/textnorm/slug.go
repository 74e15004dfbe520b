package textnorm

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 將名稱轉為 URL 安全識別碼：轉寫為 ASCII、小寫、非英數連續字元換成單一連字號、去除首尾連字號。
// 冪等：Slugify(Slugify(x)) == Slugify(x)。
func Slugify(name string) string {
	s := strings.ToLower(unidecode.Unidecode(name))
	s = nonSlugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
