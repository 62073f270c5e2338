// Package hints provides static regulatory pointers for a contract type and
// governing jurisdiction.
package hints

import "strings"

const maxHints = 5

var typeHints = map[string][]string{
	"NDA": {
		"Ensure confidentiality period is reasonable and enforceable",
		"Consider mutual vs unilateral disclosure obligations",
		"Include proper exceptions for publicly available information",
	},
	"Employment": {
		"Verify compliance with local employment laws",
		"Check non-compete clause enforceability",
		"Ensure proper termination procedures",
	},
	"MSA": {
		"Include clear scope of work definitions",
		"Specify payment terms and dispute resolution",
		"Address intellectual property ownership",
	},
}

var generalHints = []string{
	"Review limitation of liability clauses for reasonableness",
	"Ensure termination clauses are clearly defined",
	"Consider force majeure provisions",
}

// For returns up to five hints for the given contract type and governing law.
// It never fails; unknown inputs fall through to the general hints.
func For(contractType, governingLaw string) []string {
	hints := append([]string{}, typeHints[contractType]...)

	switch {
	case strings.Contains(governingLaw, "California") || strings.Contains(governingLaw, "United States"):
		hints = append(hints,
			"Consider California's strict non-compete restrictions",
			"Ensure compliance with US data privacy laws",
			"Review indemnification clause enforceability",
		)
	case strings.Contains(governingLaw, "United Kingdom") || strings.Contains(governingLaw, "UK"):
		hints = append(hints,
			"Consider GDPR compliance requirements",
			"Review unfair contract terms regulations",
			"Ensure proper governing law clauses",
		)
	}

	hints = append(hints, generalHints...)
	if len(hints) > maxHints {
		hints = hints[:maxHints]
	}
	return hints
}
