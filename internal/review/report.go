package review

import (
	"sort"
	"time"
)

// BuildReport assembles the downloadable analysis report.
func BuildReport(fileName string, result AnalysisResult, risks []RiskItem, analysisDate time.Time) map[string]any {
	clauseTypes := make([]string, 0, len(result.Clauses))
	for clauseType := range result.Clauses {
		clauseTypes = append(clauseTypes, clauseType)
	}
	sort.Strings(clauseTypes)

	counts := map[string]int{}
	for _, risk := range risks {
		counts[risk.RiskLevel]++
	}

	riskPayload := make([]map[string]any, 0, len(risks))
	for _, risk := range risks {
		riskPayload = append(riskPayload, map[string]any{
			"text":       risk.Text,
			"issue":      risk.Issue,
			"suggestion": risk.Suggestion,
			"risk_level": risk.RiskLevel,
		})
	}

	return map[string]any{
		"contract_analysis": map[string]any{
			"filename":      fileName,
			"contract_type": result.ContractType,
			"governing_law": result.GoverningLaw,
			"key_clauses":   clauseTypes,
			"analysis_date": analysisDate.UTC().Format(time.RFC3339),
		},
		"risks": riskPayload,
		"summary": map[string]any{
			"total_risks":       len(risks),
			"high_risk_count":   counts["high"],
			"medium_risk_count": counts["medium"],
			"low_risk_count":    counts["low"],
		},
	}
}
