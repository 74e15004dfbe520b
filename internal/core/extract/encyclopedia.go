package extract

import (
	"strings"

	"go.uber.org/zap"

	"cocktail-ingest/internal/core/measure"
	"cocktail-ingest/internal/core/textnorm"
)

const sectionDelimiter = "---"

type sectionMode int

const (
	modeNone sectionMode = iota
	modeIngredients
	modeInstructions
)

// encyclopediaSection 單一區段的狀態機
type encyclopediaSection struct {
	name         string
	glass        string
	mode         sectionMode
	ingredients  ingredientList
	instructions []string
	dropped      int
}

// parseEncyclopedia 以 --- 切分區段，每個區段至多產生一筆候選
func (p *Parser) parseEncyclopedia(doc Document, glassRefs []GlassTypeRef) ([]CocktailCandidate, []string) {
	var (
		candidates []CocktailCandidate
		dropped    []string
	)
	for i, body := range strings.Split(doc.Content, sectionDelimiter) {
		sec := p.scanSection(body)
		if sec.dropped > 0 {
			p.log.Debug("區段內有無法解析的材料行",
				zap.String("document_id", doc.ID),
				zap.Int("section", i),
				zap.Int("dropped_lines", sec.dropped))
		}
		if sec.name == "" || sec.ingredients.len() == 0 {
			if strings.TrimSpace(body) != "" {
				dropped = append(dropped, "encyclopedia: section without name or ingredients")
			}
			continue
		}

		c := CocktailCandidate{
			SourceDocumentID: doc.ID,
			SourceFormat:     FormatEncyclopedia,
			Name:             sec.name,
			Slug:             textnorm.Slugify(sec.name),
			Instructions:     strings.Join(sec.instructions, " "),
			Ingredients:      sec.ingredients.items,
		}
		if sec.glass != "" {
			applyGlass(&c, sec.glass, glassRefs)
		}
		candidates = append(candidates, c)
	}
	return candidates, dropped
}

func (p *Parser) scanSection(body string) *encyclopediaSection {
	sec := &encyclopediaSection{}
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "### "):
			sec.name = textnorm.CollapseSpaces(strings.TrimPrefix(line, "### "))
		case strings.HasPrefix(line, "#"):
			// 其他層級的標題不是名稱，也不屬於材料或步驟
			continue
		case isMarker(line, "Ingredients"):
			sec.mode = modeIngredients
		case isMarker(line, "Instructions"):
			sec.mode = modeInstructions
		case strings.HasPrefix(line, "**Glass:**"):
			sec.glass = strings.TrimSpace(strings.TrimPrefix(line, "**Glass:**"))
		case sec.mode == modeIngredients:
			if !strings.HasPrefix(line, "-") {
				continue
			}
			text := p.normalizer.Normalize(strings.TrimPrefix(line, "-"))
			if m, ok := measure.ParseLine(text); ok {
				sec.ingredients.addMeasurement(m)
			} else {
				sec.dropped++
			}
		case sec.mode == modeInstructions:
			sec.instructions = append(sec.instructions, textnorm.CollapseSpaces(line))
		}
	}
	return sec
}

// isMarker 比對 **Ingredients:** 這類固定標記（容許冒號位於粗體外）
func isMarker(line, label string) bool {
	return line == "**"+label+":**" || line == "**"+label+"**:"
}
