// Package price extracts a monthly rent amount from post text and converts it to USD.
package price

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lueurxax/tg-rent-finder/internal/process/textnorm"
)

// Currency codes understood by the extractor and the oracle stage.
const (
	CurrencyUSD = "USD"
	CurrencyGEL = "GEL"
)

// numberPattern captures an amount that does not start inside another number.
// Alternatives, in order: space-grouped thousands, dot-grouped thousands with
// two or more groups or a comma decimal, comma-grouped thousands, plain decimal.
const (
	numberPattern = `(?:^|[^\d.,]|[^\d][.,])(` +
		`\d{1,3}(?:[ \x{00A0}]\d{3})+(?:[.,]\d+)?|` +
		`\d{1,3}(?:\.\d{3}){2,}(?:,\d+)?|` +
		`\d{1,3}\.\d{3},\d+|` +
		`\d{1,3}(?:,\d{3})+(?:\.\d+)?|` +
		`\d+(?:[.,]\d+)?` +
		`)\s*`
	tokenEnd = `(?:$|[^\p{L}\p{N}_])`
)

var (
	usdRe = regexp.MustCompile(numberPattern + `(?:\$|(?i:usd)` + tokenEnd + `)`)
	gelRe = regexp.MustCompile(numberPattern + `(?i:gel|lari|лари|ლარი|ლ)` + tokenEnd)

	commaGroupedRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// Extractor finds the first USD or GEL amount in a text.
type Extractor struct {
	GELPerUSD float64
}

// New returns an Extractor using the given fixed GEL/USD rate.
func New(gelPerUSD float64) *Extractor {
	return &Extractor{GELPerUSD: gelPerUSD}
}

// Extract returns the amount in USD rounded to cents. USD mentions win over GEL.
// A text without a recognizable amount yields (0, false).
func (e *Extractor) Extract(raw string) (float64, bool) {
	text := textnorm.FoldCurrency(raw)
	if text == "" {
		return 0, false
	}

	if m := usdRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return Round2(v), true
		}
	}

	if m := gelRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return ToUSD(v, CurrencyGEL, e.GELPerUSD), true
		}
	}

	return 0, false
}

// ToUSD converts amount to USD. Unknown or empty currencies are taken as USD.
func ToUSD(amount float64, currency string, gelPerUSD float64) float64 {
	if strings.EqualFold(strings.TrimSpace(currency), CurrencyGEL) && gelPerUSD > 0 {
		return Round2(amount / gelPerUSD)
	}

	return Round2(amount)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseAmount reads "1 300", "1,500", "12.345,50", "1.234.567" or "1234.5678".
// With both separators present the last one is decimal. A lone comma
// followed by groups of three digits groups thousands; otherwise a single
// separator is decimal and repeated dots group thousands.
func parseAmount(s string) (float64, bool) {
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0, false
	}

	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalAt := max(lastDot, lastComma)
		s = strings.NewReplacer(".", "", ",", "").Replace(s[:decimalAt]) + "." + s[decimalAt+1:]
	case lastComma >= 0:
		if commaGroupedRe.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}

	return v, true
}
