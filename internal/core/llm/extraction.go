package llm

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/lueurxax/tg-rent-finder/internal/process/price"
)

// Score bounds for Extraction.Score10.
const (
	minScore10 = 0
	maxScore10 = 10
)

// Extraction is the oracle's structured reading of a post.
// Pointer fields are nil when the oracle omitted them or sent the wrong type.
type Extraction struct {
	Accept              *bool
	Reason              string
	PriceValue          *float64
	PriceCurrency       string
	PriceUSD            *float64
	Period              string
	TermMonths          *int
	BedroomsCount       *int
	TwoSeparateBedrooms *bool
	InnerBedroom        *bool
	ExcludedBuilding    *bool
	ExcludedLocation    *bool
	PriorityBonus       int
	Score10             *int
}

// UnmarshalJSON decodes leniently: an unexpected type for one key never fails
// the whole object.
func (e *Extraction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Extraction{
		Accept:              rawBool(raw["accept"]),
		Reason:              rawString(raw["reason"]),
		PriceValue:          rawFloat(raw["price_value"]),
		PriceCurrency:       strings.ToUpper(strings.TrimSpace(rawString(raw["price_currency"]))),
		PriceUSD:            rawFloat(raw["price_usd"]),
		Period:              strings.ToLower(strings.TrimSpace(rawString(raw["period"]))),
		TermMonths:          rawInt(raw["term_months"]),
		BedroomsCount:       rawInt(raw["bedrooms_count"]),
		TwoSeparateBedrooms: rawBool(raw["two_separate_bedrooms"]),
		InnerBedroom:        rawBool(raw["inner_bedroom"]),
		ExcludedBuilding:    rawBool(firstPresent(raw, "excluded_building", "is_magnolia")),
		ExcludedLocation:    rawBool(raw["excluded_location"]),
	}

	if bonus := rawInt(raw["priority_bonus"]); bonus != nil && *bonus > 0 {
		e.PriorityBonus = *bonus
	}

	if score := rawInt(raw["score_10"]); score != nil {
		clamped := min(max(*score, minScore10), maxScore10)
		e.Score10 = &clamped
	}

	return nil
}

// fillPriceUSD derives PriceUSD from PriceValue when the oracle left it empty.
// A missing currency means USD.
func (e *Extraction) fillPriceUSD(gelPerUSD float64) {
	if e.PriceUSD != nil || e.PriceValue == nil {
		return
	}

	currency := e.PriceCurrency
	if currency == "" {
		currency = price.CurrencyUSD
	}

	usd := price.ToUSD(*e.PriceValue, currency, gelPerUSD)
	e.PriceUSD = &usd
}

func firstPresent(raw map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := raw[k]; ok && !isNull(v) {
			return v
		}
	}

	return nil
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func rawBool(v json.RawMessage) *bool {
	if isNull(v) {
		return nil
	}

	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return nil
	}

	return &b
}

func rawString(v json.RawMessage) string {
	if isNull(v) {
		return ""
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}

	return s
}

func rawFloat(v json.RawMessage) *float64 {
	if isNull(v) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(v, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}

// rawInt accepts any JSON number and truncates fractions.
func rawInt(v json.RawMessage) *int {
	f := rawFloat(v)
	if f == nil || math.Abs(*f) > math.MaxInt32 {
		return nil
	}

	i := int(math.Trunc(*f))

	return &i
}
