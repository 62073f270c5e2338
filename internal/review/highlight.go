package review

import (
	"fmt"
	"sort"
	"strings"
)

var highlightColors = map[string]string{
	"high":   "#ffcdd2",
	"medium": "#ffe0b2",
	"low":    "#f3e5f5",
}

// HighlightRisks wraps each risk's text in a colored <mark> span. Risks are
// applied in descending order of their first occurrence so earlier
// replacements do not shift the offsets of later ones; risks whose text does
// not appear verbatim are skipped.
func HighlightRisks(text string, risks []RiskItem) string {
	sorted := make([]RiskItem, len(risks))
	copy(sorted, risks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.Index(text, sorted[i].Text) > strings.Index(text, sorted[j].Text)
	})

	highlighted := text
	for _, risk := range sorted {
		if risk.Text == "" || !strings.Contains(highlighted, risk.Text) {
			continue
		}
		color, ok := highlightColors[risk.RiskLevel]
		if !ok {
			color = highlightColors["low"]
		}
		span := fmt.Sprintf(`<mark style="background-color: %s; padding: 2px 4px; border-radius: 3px;">%s</mark>`, color, risk.Text)
		highlighted = strings.ReplaceAll(highlighted, risk.Text, span)
	}
	return highlighted
}
