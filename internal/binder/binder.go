// Package binder resolves variable references in planned step parameters
// against previously recorded step outputs.
package binder

import (
	"regexp"
	"strconv"

	"github.com/glowdesk/glow/pkg/models"
)

// Planners reference prior outputs in several equivalent surface syntaxes:
// $step1_result, {step 1 result}, {result from step 1}, <step 1 result>,
// and a desktop_path alias. All are matched loosely; literal text that
// happens to look like a reference will be substituted too.
var (
	dollarRef  = regexp.MustCompile(`\$([a-zA-Z0-9_]+)`)
	curlyRef   = regexp.MustCompile(`\{(?:result from step |step )?(\d+)(?: result)?\}`)
	angleRef   = regexp.MustCompile(`<(?:result from step |step )?(\d+)(?: result)?>`)
	desktopRef = regexp.MustCompile(`[<{$]desktop_path[>}]?`)
)

// desktopPathTool is the registry tool whose output the desktop_path alias
// resolves to.
const desktopPathTool = "get_desktop_path"

// Bind returns a copy of parameters with resolvable variable references
// replaced by values from priorResults. Unresolvable references are left
// verbatim so downstream tool execution fails visibly instead of silently
// substituting an empty value. Non-string values pass through unchanged.
func Bind(parameters map[string]any, priorResults map[string]string) map[string]any {
	if len(parameters) == 0 {
		return parameters
	}

	bound := make(map[string]any, len(parameters))
	for key, value := range parameters {
		s, ok := value.(string)
		if !ok {
			bound[key] = value
			continue
		}

		s = dollarRef.ReplaceAllStringFunc(s, func(match string) string {
			name := dollarRef.FindStringSubmatch(match)[1]
			if v, ok := priorResults[name]; ok {
				return v
			}
			return match
		})

		s = replaceStepRef(curlyRef, s, priorResults)
		s = replaceStepRef(angleRef, s, priorResults)

		s = desktopRef.ReplaceAllStringFunc(s, func(match string) string {
			if v, ok := latestDesktopPath(priorResults); ok {
				return v
			}
			return match
		})

		bound[key] = s
	}

	return bound
}

// replaceStepRef substitutes {step N result} / <step N result> style
// references using the stepN_result keys in priorResults.
func replaceStepRef(re *regexp.Regexp, s string, priorResults map[string]string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		n, err := strconv.Atoi(re.FindStringSubmatch(match)[1])
		if err != nil {
			return match
		}
		if v, ok := priorResults[models.StepResultKey(n)]; ok {
			return v
		}
		return match
	})
}

var stepResultKey = regexp.MustCompile(`^step(\d+)_result$`)

// latestDesktopPath finds the most recent successful get_desktop_path output.
func latestDesktopPath(priorResults map[string]string) (string, bool) {
	// Step indices are 1-based; scan from the highest recorded step down.
	max := 0
	for key := range priorResults {
		m := stepResultKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	for n := max; n >= 1; n-- {
		if priorResults[models.StepToolKey(n)] == desktopPathTool {
			if v, ok := priorResults[models.StepResultKey(n)]; ok {
				return v, true
			}
		}
	}
	return "", false
}
