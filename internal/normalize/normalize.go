// Package normalize cleans extracted contract text into a consistent plain
// form suitable for prompting and display.
package normalize

import (
	"regexp"
	"strings"
)

var (
	pageBreakRe   = regexp.MustCompile(`[\f\r]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	paragraphRe   = regexp.MustCompile(`\n[ \t]*\n+`)
	lowerUpperRe  = regexp.MustCompile(`([a-z])([A-Z])`)
	periodUpperRe = regexp.MustCompile(`(\.)([A-Z])`)
)

// Normalize cleans raw extracted text: page breaks become newlines, whitespace
// runs collapse to single spaces, OCR-mangled word boundaries are repaired,
// and paragraph breaks are reduced to exactly one blank line.
//
// Paragraph boundaries are split off before the whitespace collapse and
// re-joined with a single blank line afterwards. Idempotent.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = pageBreakRe.ReplaceAllString(text, "\n")

	paragraphs := paragraphRe.Split(text, -1)
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = whitespaceRe.ReplaceAllString(p, " ")
		p = lowerUpperRe.ReplaceAllString(p, "$1 $2")
		p = periodUpperRe.ReplaceAllString(p, "$1 $2")
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return strings.Join(out, "\n\n")
}
