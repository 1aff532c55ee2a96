package sink

import (
	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

// Filter returns the listings matching q, preserving order.
func Filter(listings []domain.Listing, q domain.ListingQuery) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))

	for _, l := range listings {
		if Matches(l, q) {
			out = append(out, l)
		}
	}

	return out
}

// Matches reports whether a single listing passes q. Bounds are inclusive.
func Matches(l domain.Listing, q domain.ListingQuery) bool {
	if q.MinPrice != nil && l.PriceUSD < *q.MinPrice {
		return false
	}

	if q.MaxPrice != nil && l.PriceUSD > *q.MaxPrice {
		return false
	}

	if q.MinScore != nil && l.Score < *q.MinScore {
		return false
	}

	if q.MaxScore != nil && l.Score > *q.MaxScore {
		return false
	}

	if q.OnlyWithURL && l.URL == "" {
		return false
	}

	if !q.Since.IsZero() && l.PostedAt.Before(q.Since) {
		return false
	}

	if q.Pattern != nil && !q.Pattern.MatchString(l.Text) {
		return false
	}

	return true
}
