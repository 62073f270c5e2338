package review

import "strings"

// Fallback records used when the model responds but no risk lines parse, and
// when the model call itself fails.
var (
	genericRisk = RiskItem{
		Text:       "General contract review",
		Issue:      "Contract requires detailed legal review",
		Suggestion: "Have this contract reviewed by qualified legal counsel",
		RiskLevel:  "medium",
	}
	errorRisk = RiskItem{
		Text:       "Contract analysis error",
		Issue:      "Unable to complete automated analysis",
		Suggestion: "Please review this contract manually with legal counsel",
		RiskLevel:  "medium",
	}
)

// parseRiskList scans a model response for `Risk N: ...` records. A record
// starts at a line beginning with "Risk" that contains a colon and runs until
// the next such line. Fields are delimited by " - " with Issue:, Suggestion:
// and Level: labels in positions one to three; the labels are optional.
func parseRiskList(response string) []RiskItem {
	if strings.TrimSpace(response) == "" {
		return []RiskItem{}
	}
	if strings.Contains(strings.ToLower(response), "no significant risks") {
		return []RiskItem{}
	}

	var risks []RiskItem
	var record []string
	flush := func() {
		if len(record) == 0 {
			return
		}
		if item, ok := parseRiskRecord(strings.Join(record, " ")); ok {
			risks = append(risks, item)
		}
		record = nil
	}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "Risk") && strings.Contains(trimmed, ":") {
			flush()
			record = append(record, trimmed[strings.Index(trimmed, ":")+1:])
			continue
		}
		if len(record) > 0 {
			record = append(record, trimmed)
		}
	}
	flush()

	if len(risks) == 0 {
		return []RiskItem{genericRisk}
	}
	return risks
}

func parseRiskRecord(body string) (RiskItem, bool) {
	parts := strings.Split(body, " - ")
	text := strings.TrimSpace(parts[0])
	if text == "" {
		return RiskItem{}, false
	}
	item := RiskItem{
		Text:      text,
		RiskLevel: "medium",
	}
	if len(parts) > 1 {
		item.Issue = stripLabel(parts[1], "Issue:")
	}
	if len(parts) > 2 {
		item.Suggestion = stripLabel(parts[2], "Suggestion:")
	}
	if len(parts) > 3 {
		item.RiskLevel = coerceRiskLevel(stripLabel(parts[3], "Level:"))
	}
	return item, true
}

func stripLabel(field, label string) string {
	field = strings.TrimSpace(field)
	if strings.HasPrefix(field, label) {
		field = field[len(label):]
	}
	return strings.TrimSpace(field)
}

func coerceRiskLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}
