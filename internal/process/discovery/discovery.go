// Package discovery selects channels to scan by keyword search.
package discovery

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/platform/observability"
)

// Searcher finds public channels for a query. Subscribers must be filled in.
type Searcher interface {
	SearchChannels(ctx context.Context, query string, limit int) ([]domain.Channel, error)
}

// Options controls a discovery pass.
type Options struct {
	LimitPerQuery  int
	MinSubscribers int
	MaxChannels    int
}

// Discover runs every keyword search in order and keeps channels with at least
// MinSubscribers, deduplicated by ID, stopping once MaxChannels are collected.
// A failed search is logged and skipped.
func Discover(ctx context.Context, s Searcher, keywords []string, opts Options, logger *zerolog.Logger) []domain.Channel {
	seen := make(map[int64]struct{})
	selected := make([]domain.Channel, 0, max(opts.MaxChannels, 0))

	for _, kw := range keywords {
		if ctx.Err() != nil || reachedLimit(selected, opts.MaxChannels) {
			break
		}

		found, err := s.SearchChannels(ctx, kw, opts.LimitPerQuery)
		if err != nil {
			logger.Warn().Err(err).Str("keyword", kw).Msg("channel search failed")
			continue
		}

		for _, ch := range found {
			if reachedLimit(selected, opts.MaxChannels) {
				break
			}

			if ch.Subscribers < opts.MinSubscribers {
				continue
			}

			if _, dup := seen[ch.ID]; dup {
				continue
			}

			seen[ch.ID] = struct{}{}
			selected = append(selected, ch)
		}
	}

	observability.ChannelsDiscovered.Set(float64(len(selected)))

	logger.Info().
		Int("selected", len(selected)).
		Int("min_subscribers", opts.MinSubscribers).
		Msg("Channel discovery finished")

	return selected
}

func reachedLimit(selected []domain.Channel, maxChannels int) bool {
	return maxChannels > 0 && len(selected) >= maxChannels
}
