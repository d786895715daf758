// Package textnorm canonicalizes OCR output from Norwegian insurance
// documents before pattern matching. Renewal PDFs arrive with the letters
// æøå in several broken encodings (Latin-1 round trips, double-encoded
// UTF-8), so every comparison and key goes through the fold table here.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reAllSpace   = regexp.MustCompile(`\s+`)
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9]`)
)

// folder maps every known rendering of æøå (and a couple of adjacent
// umlauts) to ASCII. Longest sequences first: the double-encoded variants
// contain the single-encoded ones as suffixes.
var folder = strings.NewReplacer(
	// double-encoded twice (UTF-8 read as Latin-1, twice)
	"ÃƒÆ’Ã‚Â¥", "a", // ÃƒÆ’Ã‚Â¥
	"ÃƒÆ’Ã‚Â¸", "o", // ÃƒÆ’Ã‚Â¸
	"ÃƒÆ’Ã‚Â¦", "ae", // ÃƒÆ’Ã‚Â¦
	// double-encoded once
	"ÃƒÂ¥", "a", // ÃƒÂ¥
	"ÃƒÂ¸", "o", // ÃƒÂ¸
	"ÃƒÂ¦", "ae", // ÃƒÂ¦
	// UTF-8 bytes read as Latin-1. The uppercase letters come in two
	// renderings: cp1252 turns the second byte into a printable character
	// (…, ˜, †), plain Latin-1 keeps it as a C1 control character.
	"Ã¥", "a", // Ã¥
	"Ã¸", "o", // Ã¸
	"Ã¦", "ae", // Ã¦
	"Ã…", "A", // Ã… (cp1252)
	"\u00c3\u0085", "A", // Å, 0x85 kept as control char
	"Ã˜", "O", // Ã˜ (cp1252)
	"\u00c3\u0098", "O", // Ø, 0x98 kept as control char
	"Ã†", "AE", // Ã† (cp1252)
	"\u00c3\u0086", "AE", // Æ, 0x86 kept as control char
	// the letters themselves
	"å", "a", "ø", "o", "æ", "ae",
	"Å", "A", "Ø", "O", "Æ", "AE",
	"ö", "o", "ü", "u", "Ö", "O", "Ü", "U",
	// non-breaking space
	" ", " ",
)

// Fold transliterates Norwegian letters (every known garbled encoding
// included) to ASCII and converts CRLF to LF. Case-preserving, pure,
// total, idempotent: the output contains only ASCII, which the fold
// table never rewrites again.
func Fold(s string) string {
	if s == "" {
		return s
	}
	return reCRLF.ReplaceAllString(folder.Replace(s), "\n")
}

// Normalize lowercases, folds and collapses every whitespace run
// (newlines included) to a single space. Use it for fingerprint checks
// and anchors that tolerate line loss; extractors with line-oriented
// anchors must fold per line instead.
func Normalize(s string) string {
	s = strings.ToLower(Fold(s))
	return strings.TrimSpace(reAllSpace.ReplaceAllString(s, " "))
}

// CleanLines collapses noisy whitespace while keeping line breaks:
// tabs and space runs become one space, trailing spaces go, more than
// one consecutive blank line becomes a single blank line. Conservative
// on purpose so line-anchored extractors still see their anchors.
func CleanLines(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

// Key folds a label down to lowercase alphanumerics so that
// "Forsikringssum kr:", "forsikringssum  kr" and the mojibake variants
// all compare equal.
func Key(s string) string {
	return reNonAlnum.ReplaceAllString(Normalize(s), "")
}

// CollapseSpaces trims and squeezes internal whitespace runs to single
// spaces without folding letters.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(reAllSpace.ReplaceAllString(s, " "))
}
