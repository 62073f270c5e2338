package review

import (
	"context"

	"contract-backend/internal/llm"
	"contract-backend/internal/review/hints"
	"contract-backend/internal/shared/telemetry"
)

// ReviewRisks runs the whole-document risk pass: one model call over a capped
// slice of the text with the contract type, governing law and regulatory hints
// interpolated, parsed with the line-oriented risk grammar. A provider error
// yields the single error-fallback item rather than failing the review.
func (a *Analyzer) ReviewRisks(ctx context.Context, text, contractType, governingLaw string) []RiskItem {
	prompt := llm.RiskReviewPrompt(truncate(text, riskReviewCap), contractType, governingLaw, hints.For(contractType, governingLaw))
	response, err := a.LLM.Complete(ctx, prompt)
	if err != nil {
		telemetry.Warn("review.stage", map[string]any{
			"stage": "risk_review",
			"error": err.Error(),
		})
		return []RiskItem{errorRisk}
	}
	return parseRiskList(response)
}
