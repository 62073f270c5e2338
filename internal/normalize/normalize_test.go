package normalize

import (
	"strings"
	"testing"
)

func TestNormalizeRules(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "  \n\t ", want: ""},
		{
			name: "whitespace collapse",
			in:   "This   is \t a    clause",
			want: "This is a clause",
		},
		{
			name: "form feed becomes paragraph boundary input",
			in:   "page one\fpage two",
			want: "page one page two",
		},
		{
			name: "lower upper boundary repaired",
			in:   "terminationClause applies",
			want: "termination Clause applies",
		},
		{
			name: "period upper repaired",
			in:   "ends here.Next sentence",
			want: "ends here. Next sentence",
		},
		{
			name: "paragraph breaks preserved",
			in:   "first paragraph\n\n\n\nsecond paragraph",
			want: "first paragraph\n\nsecond paragraph",
		},
		{
			name: "internal newlines collapse within paragraph",
			in:   "one\ntwo\n\nthree",
			want: "one two\n\nthree",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"SOME   HEADING\n\n\nbody text.More text\fnext page",
		"a\nb\n\nc\n\n\n\nd",
		"already clean text\n\nsecond paragraph",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestToMarkdownHeadingPromotion(t *testing.T) {
	text := "TERMINATION\n\nEither party may terminate this agreement with 30 days notice."
	md := ToMarkdown(text, "")
	if !strings.Contains(md, "## Termination\n") {
		t.Fatalf("expected level-2 heading, got %q", md)
	}
	if !strings.Contains(md, "Either party may terminate") {
		t.Fatalf("body paragraph missing: %q", md)
	}
}

func TestToMarkdownNumberedSection(t *testing.T) {
	md := ToMarkdown("1. Confidentiality obligations survive termination", "")
	if !strings.HasPrefix(md, "### 1. Confidentiality") {
		t.Fatalf("expected level-3 heading, got %q", md)
	}
}

func TestToMarkdownTitleAndSkips(t *testing.T) {
	md := ToMarkdown("ALL CAPS BUT ENDS WITH A PERIOD.", "Contract Analysis: nda.pdf")
	if !strings.HasPrefix(md, "# Contract Analysis: nda.pdf\n\n") {
		t.Fatalf("expected title line, got %q", md)
	}
	if strings.Contains(md, "##") {
		t.Fatalf("sentence-final caps line must not be promoted: %q", md)
	}
	if ToMarkdown("   ", "ignored") != "" {
		t.Fatal("expected empty output for blank text")
	}
}
