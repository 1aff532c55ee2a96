package pipeline

import (
	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/core/llm"
	"github.com/lueurxax/tg-rent-finder/internal/process/filters"
)

// PriceBand is an inclusive USD range.
type PriceBand struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the band, bounds included.
func (b PriceBand) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// LocalFindings are the results computed without the oracle.
type LocalFindings struct {
	Heuristics filters.Result
	PriceUSD   *float64
}

// Merge combines local findings with an optional oracle reading.
// The oracle price wins when present; the oracle's own accept flag is not consulted.
// Score is left to the caller.
func Merge(local LocalFindings, oracle *llm.Extraction, band PriceBand) domain.Decision {
	dec := domain.Decision{Accept: true}

	for _, reason := range local.Heuristics.Reasons() {
		dec.Reject(reason)
	}

	dec.PriceUSD = local.PriceUSD

	if oracle != nil {
		dec.OracleUsed = true
		dec.OracleScore = oracle.Score10

		if oracle.PriceUSD != nil {
			dec.PriceUSD = oracle.PriceUSD
		}
	}

	switch {
	case dec.PriceUSD == nil:
		dec.Reject(domain.ReasonPriceUnknown)
	case !band.Contains(*dec.PriceUSD):
		dec.Reject(domain.ReasonPriceOutOfBand)
	}

	return dec
}
