// Package pipeline evaluates channel posts and appends accepted listings.
//
// Per message: photo/text gate, local price and heuristics, optional oracle,
// merge, score. Channels and messages are processed strictly in order.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/core/llm"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
	"github.com/lueurxax/tg-rent-finder/internal/platform/observability"
	"github.com/lueurxax/tg-rent-finder/internal/process/filters"
	"github.com/lueurxax/tg-rent-finder/internal/process/price"
	"github.com/lueurxax/tg-rent-finder/internal/process/scoring"
)

// Oracle is the optional LLM stage.
type Oracle interface {
	Extract(ctx context.Context, text string) (*llm.Extraction, bool)
}

// Sink receives accepted listings.
type Sink interface {
	Append(ctx context.Context, listing domain.Listing) error
}

// MessageSource yields a channel's messages newest first until fn returns false.
type MessageSource interface {
	IterMessages(ctx context.Context, ch domain.Channel, limit int, fn func(domain.RawMessage) bool) error
}

// ChannelStats summarizes one channel pass.
type ChannelStats struct {
	Processed int
	Kept      int
}

type Pipeline struct {
	classifier   *filters.Classifier
	prices       *price.Extractor
	scorer       *scoring.Scorer
	oracle       Oracle
	sink         Sink
	band         PriceBand
	lookback     time.Duration
	historyLimit int
	location     *time.Location
	runID        string
	logger       *zerolog.Logger
	now          func() time.Time
}

// New builds a pipeline. oracle may be nil to run on local findings only.
func New(cfg *config.Config, oracle Oracle, sink Sink, runID string, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		classifier:   filters.New(cfg.Keywords),
		prices:       price.New(cfg.GELPerUSD),
		scorer:       scoring.New(cfg.Keywords.Priority),
		oracle:       oracle,
		sink:         sink,
		band:         PriceBand{Min: cfg.USDMin, Max: cfg.USDMax},
		lookback:     cfg.Lookback(),
		historyLimit: cfg.HistoryLimit,
		location:     cfg.Location(),
		runID:        runID,
		logger:       logger,
		now:          time.Now,
	}
}

// Evaluate decides one message. Gate failures never reach any extractor.
func (p *Pipeline) Evaluate(ctx context.Context, msg domain.RawMessage) domain.Decision {
	if !msg.HasPhoto {
		return rejected(domain.ReasonNoPhoto)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return rejected(domain.ReasonEmptyText)
	}

	local := LocalFindings{Heuristics: p.classifier.Classify(text)}
	if v, ok := p.prices.Extract(text); ok {
		local.PriceUSD = &v
	}

	var extraction *llm.Extraction

	if p.oracle != nil {
		if ext, ok := p.oracle.Extract(ctx, text); ok {
			extraction = ext
			p.logOracleDisagreement(msg, ext, local)
		}
	}

	dec := Merge(local, extraction, p.band)
	if dec.Accept {
		dec.Score = p.scorer.Score(dec.OracleScore, text)
	}

	return dec
}

// ProcessChannel evaluates messages until one predates cutoff, appending accepted listings.
// Transport and sink errors are logged; the caller's run continues.
func (p *Pipeline) ProcessChannel(ctx context.Context, src MessageSource, ch domain.Channel, cutoff time.Time) ChannelStats {
	var stats ChannelStats

	label := ch.Label()

	err := src.IterMessages(ctx, ch, p.historyLimit, func(msg domain.RawMessage) bool {
		if msg.Date.Before(cutoff) {
			return false
		}

		observability.MessagesScanned.WithLabelValues(label).Inc()

		dec := p.Evaluate(ctx, msg)
		if !isGateReject(dec) {
			stats.Processed++
		}

		if !dec.Accept {
			for _, reason := range dec.Reasons {
				observability.DropsTotal.WithLabelValues(reason).Inc()
			}

			return true
		}

		if p.emit(ctx, ch, msg, dec) {
			stats.Kept++
		}

		return ctx.Err() == nil
	})
	if err != nil {
		observability.ChannelErrors.WithLabelValues(label).Inc()
		p.logger.Warn().Err(err).Str("channel", label).Msg("failed to read channel history")
	}

	p.logger.Info().
		Str("channel", label).
		Int("processed", stats.Processed).
		Int("kept", stats.Kept).
		Msg("Channel processed")

	return stats
}

// Run processes channels one after another with cutoff = now - lookback.
func (p *Pipeline) Run(ctx context.Context, src MessageSource, channels []domain.Channel) ChannelStats {
	start := p.now()
	cutoff := start.Add(-p.lookback)

	p.logger.Info().
		Str("run_id", p.runID).
		Int("channels", len(channels)).
		Dur("lookback", p.lookback).
		Msg("Starting collection, photo posts only")

	var total ChannelStats

	for _, ch := range channels {
		if ctx.Err() != nil {
			break
		}

		stats := p.ProcessChannel(ctx, src, ch, cutoff)
		total.Processed += stats.Processed
		total.Kept += stats.Kept
	}

	observability.RunDurationSeconds.Observe(p.now().Sub(start).Seconds())

	p.logger.Info().
		Str("run_id", p.runID).
		Int("processed", total.Processed).
		Int("kept", total.Kept).
		Msg("Collection finished")

	return total
}

func (p *Pipeline) emit(ctx context.Context, ch domain.Channel, msg domain.RawMessage, dec domain.Decision) bool {
	listing := domain.Listing{
		RunID:     p.runID,
		Channel:   ch.Label(),
		URL:       ch.Permalink(msg.ID),
		MessageID: msg.ID,
		PostedAt:  msg.Date,
		DateLocal: msg.Date.In(p.location).Format(domain.DateLocalLayout),
		PriceUSD:  *dec.PriceUSD,
		Score:     dec.Score,
		Text:      strings.TrimSpace(msg.Text),
	}

	if err := p.sink.Append(ctx, listing); err != nil {
		p.logger.Error().Err(err).
			Str("channel", listing.Channel).
			Int64("message_id", msg.ID).
			Msg("failed to append listing")

		return false
	}

	observability.ListingsAccepted.WithLabelValues(listing.Channel).Inc()

	return true
}

func (p *Pipeline) logOracleDisagreement(msg domain.RawMessage, ext *llm.Extraction, local LocalFindings) {
	if ext.Accept == nil || *ext.Accept == local.Heuristics.Passed() {
		return
	}

	p.logger.Debug().
		Int64("message_id", msg.ID).
		Bool("oracle_accept", *ext.Accept).
		Bool("heuristics_passed", local.Heuristics.Passed()).
		Str("oracle_reason", ext.Reason).
		Msg("oracle disagrees with heuristics")
}

func rejected(reason string) domain.Decision {
	dec := domain.Decision{Accept: true}
	dec.Reject(reason)

	return dec
}

func isGateReject(dec domain.Decision) bool {
	return len(dec.Reasons) == 1 &&
		(dec.Reasons[0] == domain.ReasonNoPhoto || dec.Reasons[0] == domain.ReasonEmptyText)
}
