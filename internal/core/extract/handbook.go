package extract

import (
	"strings"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/textnorm"
)

// minHandbookLines 名稱行 + 至少一行內容
const minHandbookLines = 2

// parseHandbook 逐行格式：第一行為名稱，其餘為材料或作法
func (p *Parser) parseHandbook(doc Document) ([]CocktailCandidate, []string) {
	lines := p.normalizedLines(doc.Content)
	if len(lines) < minHandbookLines {
		return nil, []string{"handbook: fewer than 2 non-blank lines"}
	}

	name := lines[0]
	var (
		ingredients  ingredientList
		instructions []string
		dropped      []string
	)
	for _, line := range lines[1:] {
		if textnorm.IsInstruction(line) {
			instructions = append(instructions, line)
			continue
		}
		text := stripBullet(line)
		if text == "" {
			continue
		}
		if !ingredients.addLine(text) {
			dropped = append(dropped, "handbook: unrecognized line")
			p.log.Debug("略過無法辨識的行",
				zap.String("document_id", doc.ID),
				zap.String("line", text))
		}
	}

	if ingredients.len() == 0 {
		return nil, append(dropped, "handbook: no ingredients")
	}

	return []CocktailCandidate{{
		SourceDocumentID: doc.ID,
		SourceFormat:     FormatHandbook,
		Name:             name,
		Slug:             textnorm.Slugify(name),
		Instructions:     strings.Join(instructions, " "),
		Ingredients:      ingredients.items,
	}}, dropped
}

// normalizedLines 正規化每一行並濾除空白行
func (p *Parser) normalizedLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if n := p.normalizer.Normalize(line); n != "" {
			lines = append(lines, n)
		}
	}
	return lines
}
