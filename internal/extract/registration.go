package extract

import (
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// Norwegian plates are two letters and four or five digits. OCR may
// insert spaces between the digits ("BU 21 895"), so token patterns
// tolerate them and normalizeReg strips them before the token is used as
// a key.
const regTokenPattern = `[A-Z]{2}\s*\d(?:\s?\d){3,4}`

var reRegDigits = regexp.MustCompile(`\D`)

// normalizeReg uppercases a matched plate token and removes internal
// whitespace.
func normalizeReg(token string) string {
	return strings.ToUpper(strings.Join(strings.Fields(token), ""))
}

// yearShapedReg reports whether a normalized plate token is really a
// 2-letter code followed by a model year ("KW 2022" from OCR). Uses the
// same 1900–2100 window as amount extraction.
func yearShapedReg(reg string) bool {
	return textnorm.YearLike(reRegDigits.ReplaceAllString(reg, ""))
}

// window slices [center-before, center+after) clamped to the text.
func window(text string, center, before, after int) string {
	start := center - before
	if start < 0 {
		start = 0
	}
	end := center + after
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
