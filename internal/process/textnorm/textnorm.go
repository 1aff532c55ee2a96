// Package textnorm canonicalizes post text for pattern matching.
//
// Normalize folds emoji digits, compatibility forms, currency pictograms,
// case and room-layout separators, then strips everything outside a small
// whitelist. The result is stable: Normalize(Normalize(s)) == Normalize(s).
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LayoutToken is the canonical separator in room layouts such as "2+1".
const LayoutToken = "+"

var (
	keycapDigitRe  = regexp.MustCompile(`([0-9])\x{FE0F}?\x{20E3}`)
	layoutSepRe    = regexp.MustCompile(`(\d)(?:\s*[xх×•]\s*|\s+\+\s*|\+\s+)(\d)`)
	nonWhitelistRe = regexp.MustCompile(`[^\p{L}\p{N}_+#\s-]+`)
	spaceRunRe     = regexp.MustCompile(`\s+`)

	currencyReplacer = strings.NewReplacer(
		"💵", " $ ",
		"💲", " $ ",
		"₾", " GEL ",
	)
)

// FoldCurrency replaces emoji digits, applies NFKC and turns currency
// pictograms into space-padded tokens. Digit grouping is left intact.
func FoldCurrency(raw string) string {
	if raw == "" {
		return ""
	}

	s := foldEmojiDigits(raw)
	s = norm.NFKC.String(s)

	return currencyReplacer.Replace(s)
}

// Normalize returns the canonical matching form of raw.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := FoldCurrency(raw)
	s = norm.NFKC.String(strings.ToLower(s))
	s = joinLayout(s)
	s = nonWhitelistRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))

	return joinLayout(s)
}

func foldEmojiDigits(s string) string {
	s = strings.ReplaceAll(s, "🔟", "10")

	if !strings.ContainsRune(s, '\u20e3') {
		return s
	}

	return keycapDigitRe.ReplaceAllString(s, "$1")
}

// joinLayout rewrites digit-separator-digit runs to "d+d" until nothing changes.
// Matches do not overlap, so "1 x 1 x 1" needs a second round. A canonical
// "d+d" never matches, so every round either folds a separator or stops.
func joinLayout(s string) string {
	for {
		next := layoutSepRe.ReplaceAllString(s, "${1}"+LayoutToken+"${2}")
		if next == s {
			return s
		}

		s = next
	}
}
