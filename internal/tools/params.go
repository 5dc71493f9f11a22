package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// Params is the loosely-typed parameter bag a tool receives. Planner output
// is inconsistent about parameter names (app_name vs application_name,
// query vs q), so lookups accept a list of aliases tried in order.
type Params map[string]any

// String returns the first non-empty string value found under any of the
// given keys. Numeric values are stringified.
func (p Params) String(keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case int:
			return strconv.Itoa(s)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

// Int returns the first numeric value found under any of the given keys,
// or def when none parses.
func (p Params) Int(def int, keys ...string) int {
	for _, k := range keys {
		v, ok := p[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return parsed
			}
		}
	}
	return def
}

// Bool returns the first boolean value found under any of the given keys.
func (p Params) Bool(keys ...string) bool {
	for _, k := range keys {
		v, ok := p[k]
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed
			}
		}
	}
	return false
}

// Require returns the string under any of the given keys or an error naming
// the canonical (first) key.
func (p Params) Require(keys ...string) (string, error) {
	if s := p.String(keys...); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("missing required parameter %q", keys[0])
}
