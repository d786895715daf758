package constants

import "strings"

// Provider is the canonical identifier for an insurer whose renewal
// documents we can parse.
type Provider string

// Stable values (used in config, CLI flags and log events).
const (
	ProviderAuto       Provider = "auto"
	ProviderGjensidige Provider = "gjensidige"
	ProviderIf         Provider = "if"
	ProviderTryg       Provider = "tryg"
	ProviderLy         Provider = "ly"
)

var allProviders = []Provider{
	ProviderGjensidige,
	ProviderIf,
	ProviderTryg,
	ProviderLy,
}

// Providers returns the known insurer identifiers (excluding "auto").
func Providers() []Provider {
	out := make([]Provider, len(allProviders))
	copy(out, allProviders)
	return out
}

// CanonicalizeProvider maps user-facing spellings to a Provider.
// Empty input and "auto-detect" both mean auto-detection.
func CanonicalizeProvider(input string) (Provider, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Provider{
		"":                   ProviderAuto,
		"auto":               ProviderAuto,
		"auto-detect":        ProviderAuto,
		"gjensidige":         ProviderGjensidige,
		"if":                 ProviderIf,
		"if skadeforsikring": ProviderIf,
		"tryg":               ProviderTryg,
		"tryg forsikring":    ProviderTryg,
		"ly":                 ProviderLy,
		"ly forsikring":      ProviderLy,
	}

	p, ok := synonyms[normalized]
	if !ok {
		return ProviderAuto, false
	}
	return p, true
}
