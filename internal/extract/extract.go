package extract

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"contract-backend/internal/shared/metrics"
	"contract-backend/internal/shared/telemetry"
)

// Supported document format tags, derived from the uploaded file extension.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatTXT  = "txt"
)

// ErrUnsupportedFormat is returned when the file extension maps to no known format.
var ErrUnsupportedFormat = fmt.Errorf("unsupported document format")

// FormatFromFileName maps a file name to a format tag.
func FormatFromFileName(name string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "txt":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// method is one extraction backend in a format's fallback chain.
type method struct {
	name string
	fn   func(data []byte) (string, error)
}

// chains lists extraction backends per format, most layout-faithful first,
// most tolerant last.
var chains = map[string][]method{
	FormatPDF: {
		{name: "pdf-pagewise", fn: extractPDFPagewise},
		{name: "pdf-plaintext", fn: extractPDFPlainText},
		{name: "pdf-raw-salvage", fn: extractPDFRawSalvage},
	},
	FormatDOCX: {
		{name: "docx-library", fn: extractDOCXLibrary},
		{name: "docx-zip-xml", fn: extractDOCXZipXML},
	},
	FormatTXT: {
		{name: "txt-utf8", fn: extractTXTUTF8},
		{name: "txt-latin1", fn: extractTXTLatin1},
	},
}

// Extract pulls plain text from a document stream using the format's ordered
// fallback chain. The stream is rewound before every attempt so no method
// observes partial consumption by a prior failed one. An empty result with a
// nil error means every backend failed; callers must treat that as a terminal
// extraction failure.
func Extract(ctx context.Context, r io.ReadSeeker, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	format, err := FormatFromFileName(fileName)
	if err != nil {
		return "", err
	}

	for i, m := range chains[format] {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("extract %s: rewind: %w", fileName, err)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("extract %s: read: %w", fileName, err)
		}

		text, err := runMethod(m, data)
		outcome := "success"
		switch {
		case err != nil:
			outcome = "error"
		case strings.TrimSpace(text) == "":
			outcome = "empty"
		}
		fields := map[string]any{
			"method":  m.name,
			"format":  format,
			"file":    fileName,
			"outcome": outcome,
		}
		if err != nil {
			fields["error"] = err.Error()
		}

		if outcome == "success" {
			telemetry.Info("extract.attempt", fields)
			return text, nil
		}
		telemetry.Warn("extract.attempt", fields)
		if i < len(chains[format])-1 {
			metrics.IncExtractionFallback()
		}
	}

	return "", nil
}

// runMethod shields the chain from panicking backends; some PDF parsers panic
// on structurally broken files.
func runMethod(m method, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%s panicked: %v", m.name, rec)
		}
	}()
	return m.fn(data)
}

func extractTXTUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8")
	}
	return string(data), nil
}

func extractTXTLatin1(data []byte) (string, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
