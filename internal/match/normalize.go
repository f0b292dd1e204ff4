package match

import (
	"strings"
	"unicode"
)

// NormalizeHeader folds a column header for fuzzy comparison: CamelCase
// and separators are collapsed and the result is lower-cased, so that
// "Patient_ID", "patient id" and "PatientId" all normalize to "patientid".
func NormalizeHeader(s string) string {
	return strings.Join(TokenizeHeader(s), "")
}

// TokenizeHeader splits a header into lower-case tokens.
// Examples:
//   - "PatientID" -> ["patient", "id"]
//   - "issue_date" -> ["issue", "date"]
//   - "NHSNumber" -> ["nhs", "number"]
func TokenizeHeader(s string) []string {
	tokens := tokenize(strings.TrimSpace(s))
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

// startsToken reports a lower-to-upper transition ("patientID") or the end
// of an acronym ("NHSNumber" splits before 'N' of "Number").
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	if unicode.IsUpper(r) && unicode.IsLower(prev) {
		return true
	}

	if unicode.IsDigit(r) != unicode.IsDigit(prev) && !isSeparator(prev) {
		return true
	}

	nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return unicode.IsUpper(r) && unicode.IsUpper(prev) && nextLower
}
