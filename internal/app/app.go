// Package app wires the collector together and exposes its run modes:
//
//   - Collect: discover channels, evaluate their recent posts, append matches
//   - Discover: print the channels a collect run would scan
//   - Export: filter stored listings and write them as CSV
package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
	"github.com/lueurxax/tg-rent-finder/internal/core/llm"
	"github.com/lueurxax/tg-rent-finder/internal/ingest/reader"
	"github.com/lueurxax/tg-rent-finder/internal/output/notifier"
	"github.com/lueurxax/tg-rent-finder/internal/output/sink"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
	"github.com/lueurxax/tg-rent-finder/internal/platform/observability"
	"github.com/lueurxax/tg-rent-finder/internal/process/discovery"
	"github.com/lueurxax/tg-rent-finder/internal/process/pipeline"
	"github.com/lueurxax/tg-rent-finder/internal/storage"
)

// Export sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

const (
	sinkNameCSV      = "csv"
	sinkNamePostgres = "postgres"
	sinkNameNotifier = "notifier"
)

// App holds configuration and the logger shared by all modes.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{cfg: cfg, logger: logger}
}

func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// RunCollect performs one collection run. The health server, when enabled,
// lives exactly as long as the run.
func (a *App) RunCollect(ctx context.Context) error {
	if err := a.cfg.ValidateTelegram(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := a.logger.With().Str("run_id", runID).Logger()

	store, err := a.openStore(ctx, &logger)
	if err != nil {
		return err
	}

	if store != nil {
		defer store.Close()
	}

	out, err := a.buildSink(store, &logger)
	if err != nil {
		return err
	}

	oracle, err := a.buildOracle(&logger)
	if err != nil {
		return err
	}

	p := pipeline.New(a.cfg, oracle, out, runID, &logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	if a.cfg.HealthPort > 0 {
		var pinger observability.Pinger
		if store != nil {
			pinger = store
		}

		srv := observability.NewServer(pinger, a.cfg.HealthPort, &logger)

		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	g.Go(func() error {
		defer cancel()

		return reader.New(a.cfg, &logger).Run(gctx, func(ctx context.Context, s *reader.Session) error {
			channels := discovery.Discover(ctx, s, a.cfg.Keywords.Discover, a.discoveryOptions(), &logger)
			p.Run(ctx, s, channels)

			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("collect run %s: %w", runID, err)
	}

	return nil
}

// RunDiscover prints the selected channels as a table.
func (a *App) RunDiscover(ctx context.Context, w io.Writer) error {
	if err := a.cfg.ValidateTelegram(); err != nil {
		return err
	}

	return reader.New(a.cfg, a.logger).Run(ctx, func(ctx context.Context, s *reader.Session) error {
		channels := discovery.Discover(ctx, s, a.cfg.Keywords.Discover, a.discoveryOptions(), a.logger)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CHANNEL\tSUBSCRIBERS\tTITLE")

		for _, ch := range channels {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", ch.Label(), ch.Subscribers, ch.Title)
		}

		return tw.Flush()
	})
}

// RunExport loads listings from source, filters them and writes CSV to w.
func (a *App) RunExport(ctx context.Context, source string, q domain.ListingQuery, w io.Writer) error {
	listings, err := a.loadListings(ctx, source, q)
	if err != nil {
		return err
	}

	view := sink.Filter(listings, q)

	a.logger.Info().
		Str("source", source).
		Int("stored", len(listings)).
		Int("matched", len(view)).
		Msg("Export finished")

	return sink.WriteCSV(w, view, a.cfg.TextLimit)
}

func (a *App) loadListings(ctx context.Context, source string, q domain.ListingQuery) ([]domain.Listing, error) {
	switch source {
	case "", SourceCSV:
		return sink.NewCSV(a.cfg.CSVPath, a.cfg.TextLimit, a.cfg.Location()).Load(ctx)
	case SourcePostgres:
		store, err := a.openStore(ctx, a.logger)
		if err != nil {
			return nil, err
		}

		if store == nil {
			return nil, fmt.Errorf("%w: POSTGRES_DSN is not set", apperrors.ErrStoreDisabled)
		}

		defer store.Close()

		return store.FindListings(ctx, q)
	default:
		return nil, fmt.Errorf("%w: unknown export source %q", apperrors.ErrInvalidConfig, source)
	}
}

// openStore returns nil without error when no DSN is configured.
func (a *App) openStore(ctx context.Context, logger *zerolog.Logger) (*storage.DB, error) {
	if a.cfg.PostgresDSN == "" {
		return nil, nil //nolint:nilnil // the mirror is optional
	}

	store, err := storage.New(ctx, a.cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return store, nil
}

func (a *App) buildSink(store *storage.DB, logger *zerolog.Logger) (pipeline.Sink, error) {
	csvSink := sink.NewCSV(a.cfg.CSVPath, a.cfg.TextLimit, a.cfg.Location())
	if err := csvSink.EnsureHeader(); err != nil {
		return nil, err
	}

	logger.Debug().Str("path", csvSink.Path()).Msg("CSV sink ready")

	var secondaries []sink.Named

	if store != nil {
		secondaries = append(secondaries, sink.Named{Name: sinkNamePostgres, Appender: store})
	}

	if a.cfg.NotifierEnabled() {
		n, err := notifier.New(a.cfg.BotToken, a.cfg.TargetChatID, logger)
		if err != nil {
			return nil, err
		}

		secondaries = append(secondaries, sink.Named{Name: sinkNameNotifier, Appender: n})
	}

	return sink.NewFanout(sink.Named{Name: sinkNameCSV, Appender: csvSink}, logger, secondaries...), nil
}

// buildOracle returns a nil interface when the oracle is disabled.
func (a *App) buildOracle(logger *zerolog.Logger) (pipeline.Oracle, error) {
	provider, err := llm.NewProvider(a.cfg, logger)
	if err != nil {
		return nil, err
	}

	if provider == nil {
		return nil, nil //nolint:nilnil // local heuristics only
	}

	logger.Info().Str("provider", string(provider.Name())).Msg("LLM oracle enabled")

	return llm.NewExtractor(provider, llm.Policy{
		USDMin:        a.cfg.USDMin,
		USDMax:        a.cfg.USDMax,
		GELPerUSD:     a.cfg.GELPerUSD,
		TermMinMonths: a.cfg.TermMinMonths,
	}, llm.Options{
		Timeout:       a.cfg.LLMTimeout,
		RPS:           a.cfg.LLMRPS,
		MaxInputChars: a.cfg.LLMMaxInputChars,
	}, logger), nil
}

func (a *App) discoveryOptions() discovery.Options {
	return discovery.Options{
		LimitPerQuery:  a.cfg.DiscoverLimitPerQuery,
		MinSubscribers: a.cfg.DiscoverMinSubs,
		MaxChannels:    a.cfg.DiscoverMaxChannels,
	}
}
