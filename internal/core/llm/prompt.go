package llm

import (
	"fmt"
	"strconv"
	"strings"
)

// SystemPrompt asks for exactly one minified JSON object.
const SystemPrompt = "Ты детерминированный экстрактор JSON. Отдавай ровно ОДИН minified JSON."

// responseSchema lists every key with its placeholder value, in prompt order.
const responseSchema = `{"accept":false,"reason":"","price_value":null,"price_currency":"USD","price_usd":null,` +
	`"period":"unknown","term_months":null,"bedrooms_count":null,"two_separate_bedrooms":null,` +
	`"inner_bedroom":false,"excluded_building":false,"excluded_location":false,"priority_bonus":0,"score_10":0}`

// Policy carries the selection rules stated to the oracle and used for price conversion.
type Policy struct {
	USDMin        float64
	USDMax        float64
	GELPerUSD     float64
	TermMinMonths int
}

// BuildPrompt renders the user prompt for one post.
func BuildPrompt(text string, p Policy) string {
	minUSD := formatAmount(p.USDMin)
	maxUSD := formatAmount(p.USDMax)

	var sb strings.Builder

	sb.WriteString("Strict selection for long-term rent in Batumi. Output ONE-LINE MINIFIED JSON with EXACT keys:\n")
	sb.WriteString(responseSchema)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "NEVER accept: price_usd > %s, студия/studio, daily/сутки, the excluded building (excluded_building=true), outside Batumi,\n", maxUSD)
	sb.WriteString(`"1+1" (ONE bedroom), 2к unless EXPLICIT "2 спальни"/"two bedrooms".` + "\n")
	fmt.Fprintf(&sb, `ACCEPT only if: period="month", %s ≤ price_usd ≤ %s, bedrooms_count ≥ 2, no inner bedroom,`+"\n", minUSD, maxUSD)
	fmt.Fprintf(&sb, "excluded_location=false, excluded_building=false, (term_months is null or ≥ %d).\n", p.TermMinMonths)
	fmt.Fprintf(&sb, "price_currency is USD or GEL; convert GEL at %s GEL per USD.\n", formatAmount(p.GELPerUSD))
	sb.WriteString("Reason must be short Russian. Output ONE minified JSON only.\n")
	sb.WriteString("Text:\n")
	sb.WriteString(text)

	return sb.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncateRunes cuts s to at most limit runes.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}

		count++
	}

	return s
}
