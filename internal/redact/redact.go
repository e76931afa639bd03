// Package redact masks cipher keys and other secrets before values reach
// logs, the audit trail or the history journal.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Masked stands in for any value that must not be written out.
const Masked = "[REDACTED_KEY]"

// neverPersist lets callers name extra fields to mask. The entry itself is
// dropped from the output.
const neverPersist = "never_persist"

var keyParams = []string{"key", "keyword", "matrix", "secret", "password"}

type rule struct {
	re   *regexp.Regexp
	repl string
}

var rules = []rule{
	// name=value and name: 'value' pairs, keeping the name and quotes.
	{regexp.MustCompile(`(?i)\b((?:key|keyword|matrix|secret|password|token)\s*[:=]\s*)(['"]?)([^'"\s;}]+)(['"]?)`), `${1}${2}` + Masked + `${4}`},
	// Long opaque tokens such as full substitution alphabets.
	{regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`), Masked},
}

// IsKeyMaterial reports whether a parameter name carries key material.
func IsKeyMaterial(name string) bool {
	name = strings.TrimSpace(name)
	for _, k := range keyParams {
		if strings.EqualFold(name, k) {
			return true
		}
	}
	return false
}

// String masks inline key assignments and long opaque tokens.
func String(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	for _, r := range rules {
		in = r.re.ReplaceAllString(in, r.repl)
	}
	return in
}

// Interface walks strings, slices and maps and applies String to the leaves.
func Interface(value any) any {
	switch v := value.(type) {
	case string:
		return String(v)
	case fmt.Stringer:
		return String(v.String())
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, String(s))
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, elem := range v {
			out = append(out, Interface(elem))
		}
		return out
	case map[string]any:
		return Map(v)
	}
	return value
}

// Map returns a copy of in with key parameters and never_persist fields
// replaced by Masked. Everything else goes through Interface. The input is
// not modified.
func Map(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	hidden := map[string]bool{}
	for k, v := range in {
		if strings.EqualFold(k, neverPersist) {
			for _, name := range fieldNames(v) {
				if name = strings.TrimSpace(name); name != "" {
					hidden[name] = true
				}
			}
		}
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		switch {
		case strings.EqualFold(k, neverPersist):
		case hidden[k], IsKeyMaterial(k):
			out[k] = Masked
		default:
			out[k] = Interface(v)
		}
	}
	return out
}

func fieldNames(value any) []string {
	switch v := value.(type) {
	case string:
		return strings.Split(v, ",")
	case []string:
		return v
	case []any:
		names := make([]string, len(v))
		for i, elem := range v {
			names[i] = fmt.Sprint(elem)
		}
		return names
	}
	return nil
}
