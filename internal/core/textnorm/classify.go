package textnorm

import "regexp"

// InstructionVerbs 判斷指示句用的動詞集合
var InstructionVerbs = []string{"pour", "add", "stir", "strain", "shake", "into", "fill", "serve", "squeeze"}

// 以單字邊界比對動詞及其常見變化，避免 "preserved"、"fillet" 之類誤判
var instructionPattern = regexp.MustCompile(`(?i)\b(` +
	`pour(s|ed|ing)?|` +
	`add(s|ed|ing)?|` +
	`stir(s|red|ring)?|` +
	`strain(s|ed|ing)?|` +
	`shak(e|es|en|ing)|` +
	`into|` +
	`fill(s|ed|ing)?|` +
	`serv(e|es|ed|ing)|` +
	`squeez(e|es|ed|ing)` +
	`)\b`)

// IsInstruction 回報一行（已正規化的）文字是否為調製指示
func IsInstruction(line string) bool {
	return instructionPattern.MatchString(line)
}
