package extract

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFPagewise walks pages in order and concatenates their plain text.
// Page-by-page extraction keeps page ordering faithful and skips only the
// pages that fail, rather than losing the whole document.
func extractPDFPagewise(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// extractPDFPlainText pulls the whole document's text in one pass.
func extractPDFPlainText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractPDFRawSalvage scavenges text-show operands straight out of content
// streams, inflating compressed ones. It ignores the cross-reference table
// entirely, so it can still recover something from files whose structure is
// too broken for a real parser. Output ordering follows stream order, not
// layout.
func extractPDFRawSalvage(data []byte) (string, error) {
	if !bytes.Contains(data, []byte("%PDF")) {
		return "", fmt.Errorf("no PDF marker")
	}

	var b strings.Builder
	rest := data
	for {
		start := bytes.Index(rest, []byte("stream"))
		if start < 0 {
			break
		}
		body := rest[start+len("stream"):]
		body = bytes.TrimLeft(body, "\r\n")
		end := bytes.Index(body, []byte("endstream"))
		if end < 0 {
			break
		}
		salvageTextOperands(inflateStream(body[:end]), &b)
		rest = body[end+len("endstream"):]
	}

	// Uncompressed page content sometimes sits outside stream markers too.
	if b.Len() == 0 {
		salvageTextOperands(data, &b)
	}
	return b.String(), nil
}

// inflateStream tries zlib then raw deflate, returning the input unchanged
// when neither applies.
func inflateStream(raw []byte) []byte {
	if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
		if out, err := io.ReadAll(zr); err == nil && len(out) > 0 {
			zr.Close()
			return out
		}
		zr.Close()
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	if out, err := io.ReadAll(fr); err == nil && len(out) > 0 {
		fr.Close()
		return out
	}
	fr.Close()
	return raw
}

// salvageTextOperands collects parenthesized string literals from content
// that contains a BT (begin text) operator.
func salvageTextOperands(content []byte, b *strings.Builder) {
	if !bytes.Contains(content, []byte("BT")) {
		return
	}
	depth := 0
	escaped := false
	var current strings.Builder
	for i := 0; i < len(content); i++ {
		ch := content[i]
		if depth == 0 {
			if ch == '(' {
				depth = 1
				current.Reset()
			}
			continue
		}
		if escaped {
			switch ch {
			case 'n':
				current.WriteByte('\n')
			case 't':
				current.WriteByte('\t')
			case '(', ')', '\\':
				current.WriteByte(ch)
			}
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '(':
			depth++
			current.WriteByte(ch)
		case ')':
			depth--
			if depth == 0 {
				if s := current.String(); strings.TrimSpace(s) != "" {
					if b.Len() > 0 {
						b.WriteByte(' ')
					}
					b.WriteString(s)
				}
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}
}
