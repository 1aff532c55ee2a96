package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/lueurxax/tg-rent-finder/internal/app"
	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
	"github.com/lueurxax/tg-rent-finder/internal/platform/worker"
)

const (
	modeCollect  = "collect"
	modeDiscover = "discover"
	modeExport   = "export"
)

type exportFlags struct {
	source   string
	minPrice *float64
	maxPrice *float64
	minScore *int
	maxScore *int
	query    string
	onlyURL  bool
	since    string
	out      string
}

func main() {
	mode := flag.String("mode", modeCollect, "Run mode (collect, discover, export)")

	var ef exportFlags

	flag.StringVar(&ef.source, "source", app.SourceCSV, "Export source (csv, postgres)")
	flag.Func("min-price", "Minimum price in USD", floatFlag(&ef.minPrice))
	flag.Func("max-price", "Maximum price in USD", floatFlag(&ef.maxPrice))
	flag.Func("min-score", "Minimum score (0-10)", intFlag(&ef.minScore))
	flag.Func("max-score", "Maximum score (0-10)", intFlag(&ef.maxScore))
	flag.StringVar(&ef.query, "query", "", "Case-insensitive regex matched against listing text")
	flag.BoolVar(&ef.onlyURL, "only-url", false, "Only listings with a post URL")
	flag.StringVar(&ef.since, "since", "", "Only listings posted at or after this date")
	flag.StringVar(&ef.out, "out", "", "Export file (default stdout)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, &logger)

	if err := runMode(ctx, application, cfg, *mode, ef); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, cfg *config.Config, mode string, ef exportFlags) error {
	switch mode {
	case modeCollect:
		// A periodic loop would retry missing credentials forever.
		if err := cfg.ValidateTelegram(); err != nil {
			return err
		}

		if cfg.CollectInterval <= 0 {
			return application.RunCollect(ctx)
		}

		return worker.Loop(ctx, worker.Config{
			Name:     modeCollect,
			Interval: cfg.CollectInterval,
			Run:      application.RunCollect,
			Logger:   application.Logger(),
		})
	case modeDiscover:
		if err := cfg.ValidateTelegram(); err != nil {
			return err
		}

		return application.RunDiscover(ctx, os.Stdout)
	case modeExport:
		q, err := ef.listingQuery(cfg.Location())
		if err != nil {
			return err
		}

		w, closeOut, err := openOutput(ef.out)
		if err != nil {
			return err
		}
		defer closeOut()

		return application.RunExport(ctx, ef.source, q, w)
	default:
		log.Fatalf("Usage: %s --mode=[collect|discover|export]", os.Args[0])

		return nil
	}
}

func (ef exportFlags) listingQuery(loc *time.Location) (domain.ListingQuery, error) {
	q := domain.ListingQuery{
		MinPrice:    ef.minPrice,
		MaxPrice:    ef.maxPrice,
		MinScore:    ef.minScore,
		MaxScore:    ef.maxScore,
		OnlyWithURL: ef.onlyURL,
	}

	if ef.query != "" {
		re, err := regexp.Compile("(?i)" + ef.query)
		if err != nil {
			return q, fmt.Errorf("invalid --query: %w", err)
		}

		q.Pattern = re
	}

	if ef.since != "" {
		t, err := dateparse.ParseIn(ef.since, loc)
		if err != nil {
			return q, fmt.Errorf("invalid --since %q: %w", ef.since, err)
		}

		q.Since = t
	}

	return q, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}

	return f, func() { _ = f.Close() }, nil
}

func floatFlag(dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}

		*dst = &v

		return nil
	}
}

func intFlag(dst **int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}

		*dst = &v

		return nil
	}
}
