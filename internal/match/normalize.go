package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier to lower case without separators,
// so "ShapeID", "shape_id" and "shape-id" all become "shapeid".
func NormalizeIdent(s string) string {
	var b strings.Builder
	for _, tok := range tokenizeCamelCase(s) {
		b.WriteString(strings.ToLower(tok))
	}

	return b.String()
}

// tokenizeCamelCase splits an identifier at separators and case changes:
//   - "ShapeID" -> ["Shape", "ID"]
//   - "employeeTitle" -> ["employee", "Title"]
//   - "XMLParser" -> ["XML", "Parser"]
func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}
		current = append(current, r)
	}
	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports a lower-to-upper transition ("shapeID" before I) or
// the last capital of an acronym followed by lower case ("XMLParser" before P).
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
