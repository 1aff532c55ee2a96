package sink

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/platform/observability"
)

// Appender is anything that accepts listings.
type Appender interface {
	Append(ctx context.Context, listing domain.Listing) error
}

// Named labels a secondary sink for logs and metrics.
type Named struct {
	Name string
	Appender
}

// Fanout writes to a primary sink and then to secondaries. Only the primary
// error is returned; secondary failures are logged and counted.
type Fanout struct {
	primary     Named
	secondaries []Named
	logger      *zerolog.Logger
}

func NewFanout(primary Named, logger *zerolog.Logger, secondaries ...Named) *Fanout {
	return &Fanout{primary: primary, secondaries: secondaries, logger: logger}
}

func (f *Fanout) Append(ctx context.Context, l domain.Listing) error {
	if err := f.primary.Append(ctx, l); err != nil {
		observability.SinkErrors.WithLabelValues(f.primary.Name).Inc()
		return err
	}

	for _, s := range f.secondaries {
		if err := s.Append(ctx, l); err != nil {
			observability.SinkErrors.WithLabelValues(s.Name).Inc()
			f.logger.Warn().Err(err).
				Str("sink", s.Name).
				Str("channel", l.Channel).
				Int64("message_id", l.MessageID).
				Msg("secondary sink failed")
		}
	}

	return nil
}
