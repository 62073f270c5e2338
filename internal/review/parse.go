package review

import (
	"encoding/json"
	"strings"

	"contract-backend/internal/shared/metrics"
)

// decodeEmbeddedJSON unmarshals raw into out. When direct unmarshaling fails
// and raw contains both braces, it retries on the slice between the first `{`
// and the last `}` so JSON wrapped in prose or code fences still decodes.
func decodeEmbeddedJSON(raw string, out any) error {
	raw = stripCodeFences(raw)
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return json.Unmarshal([]byte(raw), out)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), out); err != nil {
		return err
	}
	metrics.IncParseRecovery()
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without a
// language tag, leaving other text untouched.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return raw
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || isFenceTag(first) {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return len(s) > 0
}
