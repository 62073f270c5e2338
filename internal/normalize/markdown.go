package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	numberedRe = regexp.MustCompile(`^\d+\.?\s+[A-Z]`)
	titleCaser = cases.Title(language.English)
)

// ToMarkdown renders normalized text as Markdown with heuristic heading
// promotion: short ALL-CAPS lines become level-2 headings and numbered
// section openers become level-3 headings.
func ToMarkdown(text string, title string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var b strings.Builder
	if title != "" {
		b.WriteString("# " + title + "\n\n")
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		switch {
		case looksLikeHeading(paragraph):
			b.WriteString("## " + titleCaser.String(paragraph) + "\n\n")
		case numberedRe.MatchString(paragraph):
			b.WriteString("### " + paragraph + "\n\n")
		default:
			b.WriteString(paragraph + "\n\n")
		}
	}

	return b.String()
}

// looksLikeHeading reports whether a paragraph is a short ALL-CAPS line that
// doesn't end a sentence.
func looksLikeHeading(paragraph string) bool {
	if len(paragraph) >= 100 || strings.HasSuffix(paragraph, ".") {
		return false
	}
	hasLetter := false
	for _, r := range paragraph {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
