package review

import (
	"context"
	"strings"

	"contract-backend/internal/llm"
	"contract-backend/internal/shared/telemetry"
)

const (
	typeDetectionCap   = 4000
	governingLawCap    = 4000
	clauseExtractCap   = 6000
	riskReviewCap      = 8000
	clauseRiskMinChars = 100
)

// DefaultContractType is used when type detection fails or returns a value
// outside the known set.
const DefaultContractType = "Commercial"

var knownContractTypes = map[string]bool{
	"NDA":        true,
	"DPA":        true,
	"Employment": true,
	"MSA":        true,
	"SLA":        true,
	"License":    true,
	"Purchase":   true,
	"Lease":      true,
	"Commercial": true,
}

// defaultClauseRisk stands in for a clause whose risk response did not decode.
var defaultClauseRisk = RiskAssessment{
	RiskLevel:       "medium",
	Issues:          []string{"Unable to parse detailed risk assessment"},
	Recommendations: []string{"Review this clause manually"},
	Explanation:     "Automated risk assessment failed",
}

// Analyzer runs the staged contract analysis. Each stage is an independent
// model call with no shared conversation state.
type Analyzer struct {
	LLM llm.Client
}

// Analyze runs all four stages sequentially over the normalized text.
func (a *Analyzer) Analyze(ctx context.Context, text string) AnalysisResult {
	result := AnalysisResult{
		ContractType: a.DetectContractType(ctx, text),
		ClauseRisks:  map[string]RiskAssessment{},
	}
	result.GoverningLaw = a.DetectGoverningLaw(ctx, text)
	result.Clauses = a.ExtractKeyClauses(ctx, text)
	for clauseType, clause := range result.Clauses {
		if len(clause.Text) <= clauseRiskMinChars {
			continue
		}
		assessment, err := a.AssessClauseRisk(ctx, clause.Text, result.ContractType, result.GoverningLaw)
		if err != nil {
			telemetry.Warn("review.stage", map[string]any{
				"stage":       "clause_risk",
				"clause_type": clauseType,
				"error":       err.Error(),
			})
			continue
		}
		result.ClauseRisks[clauseType] = assessment
	}
	return result
}

// DetectContractType classifies the contract against the known type set.
// Anything unexpected, including a provider error, yields the default type.
func (a *Analyzer) DetectContractType(ctx context.Context, text string) string {
	response, err := a.LLM.Complete(ctx, llm.TypeDetectionPrompt(truncate(text, typeDetectionCap)))
	if err != nil {
		telemetry.Warn("review.stage", map[string]any{
			"stage": "type_detection",
			"error": err.Error(),
		})
		return DefaultContractType
	}
	candidate := strings.TrimSpace(response)
	if knownContractTypes[candidate] {
		return candidate
	}
	telemetry.Warn("review.stage", map[string]any{
		"stage":    "type_detection",
		"outcome":  "unknown_type",
		"response": telemetry.TruncateForLog(response, 120),
	})
	return DefaultContractType
}

// DetectGoverningLaw returns the governing jurisdiction as free text.
// Negative answers and provider errors normalize to "Unknown".
func (a *Analyzer) DetectGoverningLaw(ctx context.Context, text string) string {
	response, err := a.LLM.Complete(ctx, llm.GoverningLawPrompt(truncate(text, governingLawCap)))
	if err != nil {
		telemetry.Warn("review.stage", map[string]any{
			"stage": "governing_law",
			"error": err.Error(),
		})
		return "Unknown"
	}
	law := strings.TrimSpace(response)
	switch strings.ToLower(law) {
	case "", "unknown", "not specified", "not mentioned", "none":
		return "Unknown"
	}
	return law
}

// ExtractKeyClauses asks for a clause_type -> {text, summary} JSON object.
// Entries that are not objects or lack text are dropped; a response that does
// not decode at all yields an empty map, never an error.
func (a *Analyzer) ExtractKeyClauses(ctx context.Context, text string) map[string]ClauseInfo {
	clauses := map[string]ClauseInfo{}
	response, err := a.LLM.Complete(ctx, llm.ClauseExtractionPrompt(truncate(text, clauseExtractCap)))
	if err != nil {
		telemetry.Warn("review.stage", map[string]any{
			"stage": "clause_extraction",
			"error": err.Error(),
		})
		return clauses
	}

	var raw map[string]any
	if err := decodeEmbeddedJSON(response, &raw); err != nil {
		telemetry.Warn("review.stage", map[string]any{
			"stage":    "clause_extraction",
			"outcome":  "decode_failed",
			"response": telemetry.TruncateForLog(response, 200),
		})
		return clauses
	}
	for clauseType, value := range raw {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}
		clauseText, ok := entry["text"].(string)
		if !ok || clauseText == "" {
			continue
		}
		summary, _ := entry["summary"].(string)
		clauses[clauseType] = ClauseInfo{
			ClauseType: clauseType,
			Text:       clauseText,
			Summary:    summary,
		}
	}
	return clauses
}

// AssessClauseRisk asks for a structured risk verdict on one clause. A decode
// failure returns the default assessment; only the model call itself can fail.
func (a *Analyzer) AssessClauseRisk(ctx context.Context, clauseText, contractType, governingLaw string) (RiskAssessment, error) {
	response, err := a.LLM.Complete(ctx, llm.ClauseRiskPrompt(clauseText, contractType, governingLaw))
	if err != nil {
		return RiskAssessment{}, err
	}
	var assessment RiskAssessment
	if err := decodeEmbeddedJSON(response, &assessment); err != nil {
		telemetry.Warn("review.stage", map[string]any{
			"stage":    "clause_risk",
			"outcome":  "decode_failed",
			"response": telemetry.TruncateForLog(response, 200),
		})
		return defaultClauseRisk, nil
	}
	assessment.RiskLevel = coerceRiskLevel(assessment.RiskLevel)
	return assessment, nil
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
