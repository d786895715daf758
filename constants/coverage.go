package constants

import "strings"

// CoverageTerms is the closed set of Norwegian coverage names that may
// appear in the coverage column of a vehicle row.
var CoverageTerms = []string{
	"Kasko", "Delkasko", "Ansvar", "Brann", "Tyveri", "Glass", "Redning",
}

// IsCoverageTerm reports whether val contains one of the known coverage
// terms. Label lines from table headers do not count as coverage values.
func IsCoverageTerm(val string) bool {
	if val == "" {
		return false
	}
	lowered := strings.ToLower(val)
	for _, term := range CoverageTerms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
