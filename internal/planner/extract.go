package planner

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// errNoJSON is returned when a reply contains no JSON object at all.
// Callers treat it as a signal to fall back to the raw text.
var errNoJSON = fmt.Errorf("no JSON object in reply")

// extractJSON pulls a JSON object out of a model reply that may wrap it in
// prose or a fenced code block. Extraction is first '{' to last '}'.
func extractJSON(reply string, v any) error {
	s := stripFences(reply)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return errNoJSON
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("parse reply JSON: %w", err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
