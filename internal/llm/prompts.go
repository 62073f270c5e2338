package llm

import (
	"fmt"
	"strings"
)

const typeDetectionTemplate = `You are an expert contract analyst. Analyze the following contract text and determine its type.

Contract types to consider:
- NDA (Non-Disclosure Agreement)
- DPA (Data Processing Agreement)
- Employment (Employment Contract)
- MSA (Master Service Agreement)
- SLA (Service Level Agreement)
- License (License Agreement)
- Purchase (Purchase Agreement)
- Lease (Lease Agreement)
- Commercial (General Commercial Contract)

Return only the contract type from the list above, nothing else.

Contract text:
%s

Contract type:`

const governingLawTemplate = `You are an expert contract analyst. Analyze the following contract text and identify the governing law or jurisdiction.

Look for phrases like:
- "governed by the laws of"
- "subject to the laws of"
- "jurisdiction of"
- "courts of"

Return only the country or jurisdiction name (e.g., "United States", "United Kingdom", "California", "Delaware"). If no governing law is mentioned, return "Unknown".

Contract text:
%s

Governing law:`

const clauseExtractionTemplate = `You are an expert contract analyst. Analyze the following contract text and extract key clauses.

Identify and extract the following types of clauses if present:
1. Termination clauses
2. Liability/Limitation of liability clauses
3. Indemnification clauses
4. Confidentiality clauses
5. Governing law clauses
6. Payment terms clauses
7. Intellectual property clauses
8. Force majeure clauses
9. Dispute resolution clauses
10. Non-compete/Non-solicitation clauses

For each clause type found, provide:
- The exact text of the clause
- A brief summary of what it covers

Return your response as a JSON object with this structure:
{
    "clause_type": {
        "text": "exact clause text",
        "summary": "brief summary of the clause"
    }
}

If no clauses of a particular type are found, omit that clause type from the response.

Contract text:
%s

Key clauses (JSON format):`

const clauseRiskTemplate = `You are an expert contract attorney. Analyze the following contract clause and assess its risk level and potential issues.

Consider:
- Unusual or one-sided terms
- Missing standard protections
- Overly broad language
- Compliance issues
- Industry best practices

Clause text:
%s

Contract type: %s
Governing law: %s

Provide your assessment in JSON format:
{
    "risk_level": "high|medium|low",
    "issues": ["list of specific issues"],
    "recommendations": ["list of recommended changes"],
    "explanation": "detailed explanation of the assessment"
}

Risk assessment:`

const riskReviewTemplate = `You are an expert contract attorney. Analyze the following contract text and identify potential risks and issues.

Contract Type: %s
Governing Law: %s
Regulatory Hints: %s

Contract Text:
%s

Please identify specific risks in the contract. For each risk, provide:
1. The exact problematic text from the contract
2. A clear description of the issue
3. A specific suggestion for improvement
4. A risk level (high, medium, or low)

Focus on:
- Unusual or one-sided terms
- Missing standard protections
- Overly broad language
- Compliance issues with the governing law
- Industry best practices

Return your analysis as a structured list of risks. If no significant risks are found, return an empty list.

Example format:
Risk 1: [problematic text] - Issue: [description] - Suggestion: [improvement] - Level: [high/medium/low]`

// TypeDetectionPrompt builds the closed-list contract-type classification prompt.
func TypeDetectionPrompt(text string) string {
	return fmt.Sprintf(typeDetectionTemplate, text)
}

// GoverningLawPrompt builds the governing-law detection prompt.
func GoverningLawPrompt(text string) string {
	return fmt.Sprintf(governingLawTemplate, text)
}

// ClauseExtractionPrompt builds the key-clause extraction prompt.
func ClauseExtractionPrompt(text string) string {
	return fmt.Sprintf(clauseExtractionTemplate, text)
}

// ClauseRiskPrompt builds the per-clause risk assessment prompt.
func ClauseRiskPrompt(clauseText, contractType, governingLaw string) string {
	return fmt.Sprintf(clauseRiskTemplate, clauseText, contractType, governingLaw)
}

// RiskReviewPrompt builds the whole-document risk review prompt.
func RiskReviewPrompt(text, contractType, governingLaw string, hints []string) string {
	lines := make([]string, 0, len(hints))
	for _, hint := range hints {
		lines = append(lines, "- "+hint)
	}
	return fmt.Sprintf(riskReviewTemplate, contractType, governingLaw, strings.Join(lines, "\n"), text)
}
