package textnorm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reDigits      = regexp.MustCompile(`\D`)
	reLetters     = regexp.MustCompile(`[a-z\x{00e6}\x{00f8}\x{00e5}]`)
	reAmountToken = regexp.MustCompile(`\d{1,3}(?:[ .]\d{3})+|\d{3,7}`)
)

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	return reDigits.ReplaceAllString(s, "")
}

// YearLike reports whether a numeric string is plausibly a model year.
// The 1900–2100 window keeps years out of monetary fields and monetary
// values out of year fields.
func YearLike(digits string) bool {
	if len(digits) != 4 {
		return false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2100
}

// Amount extracts a monetary/numeric value from a raw token like
// "24 741", "kr 6.000" or "20 000 kr" and returns it as digits only.
// It returns "" when the token holds no number, contains letters other
// than a currency marker, is all zeros (absent, not zero) or sits in the
// year window 1900–2100.
func Amount(raw string) string {
	if raw == "" {
		return ""
	}
	tmp := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(Fold(raw)), "kr", ""))
	if reLetters.MatchString(tmp) {
		return ""
	}
	token := reAmountToken.FindString(tmp)
	if token == "" {
		return ""
	}
	digits := Digits(token)
	if digits == "" || strings.Count(digits, "0") == len(digits) {
		return ""
	}
	if YearLike(digits) {
		return ""
	}
	return digits
}

// AmountInt is Amount projected to an int for numeric spreadsheet cells.
// The bool is false when no valid amount is present.
func AmountInt(raw string) (int, bool) {
	digits := Amount(raw)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
