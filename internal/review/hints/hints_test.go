package hints

import "testing"

func TestForTypeAndJurisdiction(t *testing.T) {
	got := For("NDA", "California")
	if len(got) != 5 {
		t.Fatalf("expected 5 hints, got %d", len(got))
	}
	if got[0] != "Ensure confidentiality period is reasonable and enforceable" {
		t.Fatalf("expected NDA hints first, got %q", got[0])
	}
	if got[3] != "Consider California's strict non-compete restrictions" {
		t.Fatalf("expected jurisdiction hints after type hints, got %q", got[3])
	}
}

func TestForUnknownInputsFallBackToGeneral(t *testing.T) {
	got := For("Commercial", "Unknown")
	if len(got) != 3 {
		t.Fatalf("expected 3 general hints, got %d", len(got))
	}
	if got[0] != "Review limitation of liability clauses for reasonableness" {
		t.Fatalf("unexpected hint: %q", got[0])
	}
}

func TestForUKJurisdiction(t *testing.T) {
	got := For("SLA", "United Kingdom")
	if len(got) == 0 || got[0] != "Consider GDPR compliance requirements" {
		t.Fatalf("expected GDPR hint first, got %v", got)
	}
}

func TestForCapsAtFive(t *testing.T) {
	for _, law := range []string{"California", "United States", "UK", "Unknown"} {
		if got := For("Employment", law); len(got) > 5 {
			t.Fatalf("hints for %q exceed cap: %d", law, len(got))
		}
	}
}
