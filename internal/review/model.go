package review

import "time"

// ClauseInfo holds one extracted clause with its summary.
type ClauseInfo struct {
	ClauseType string `json:"clause_type"`
	Text       string `json:"text"`
	Summary    string `json:"summary"`
}

// RiskAssessment is the structured risk verdict for a single clause.
type RiskAssessment struct {
	RiskLevel       string   `json:"risk_level"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	Explanation     string   `json:"explanation"`
}

// RiskItem is one finding from the whole-document risk review.
type RiskItem struct {
	Text       string `json:"text"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	RiskLevel  string `json:"risk_level"`
}

// AnalysisResult aggregates the staged analysis of one contract.
type AnalysisResult struct {
	ContractType string                    `json:"contract_type"`
	GoverningLaw string                    `json:"governing_law"`
	Clauses      map[string]ClauseInfo     `json:"clauses"`
	ClauseRisks  map[string]RiskAssessment `json:"clause_risks"`
}

// Review represents one contract review job.
type Review struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"documentId"`
	UserID       string          `json:"userId"`
	Status       string          `json:"status"`
	Provider     string          `json:"provider"`
	Model        string          `json:"model"`
	ContractType string          `json:"contractType,omitempty"`
	GoverningLaw string          `json:"governingLaw,omitempty"`
	Analysis     *AnalysisResult `json:"analysis,omitempty"`
	Risks        []RiskItem      `json:"risks,omitempty"`
	Report       map[string]any  `json:"report,omitempty"`
	ErrorCode    string          `json:"errorCode,omitempty"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	StartedAt    *time.Time      `json:"startedAt,omitempty"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}
