package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
	"github.com/lueurxax/tg-rent-finder/internal/platform/observability"
)

// Options bounds oracle usage.
type Options struct {
	Timeout       time.Duration
	RPS           float64
	MaxInputChars int
}

// Extractor asks the oracle for a structured reading of a post.
// Every failure is reported as "no result"; nothing is retried.
type Extractor struct {
	provider    Provider
	policy      Policy
	opts        Options
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
	now         func() time.Time

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

// NewExtractor wraps provider. Zero options fall back to a 30s timeout,
// 6000 input runes and no rate limit.
func NewExtractor(provider Provider, policy Policy, opts Options, logger *zerolog.Logger) *Extractor {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = defaultMaxInputChars
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}

	return &Extractor{
		provider:    provider,
		policy:      policy,
		opts:        opts,
		logger:      logger,
		rateLimiter: rate.NewLimiter(limit, 1),
		now:         time.Now,
	}
}

// Extract returns the oracle's reading of text, or (nil, false) on any failure.
func (e *Extractor) Extract(ctx context.Context, text string) (*Extraction, bool) {
	providerName := string(e.provider.Name())

	if err := e.checkCircuit(); err != nil {
		observability.OracleRequests.WithLabelValues(providerName, observability.OracleStatusCircuitOpen).Inc()
		e.logger.Debug().Err(err).Str(logKeyProvider, providerName).Msg("LLM skip")

		return nil, false
	}

	reply, err := e.complete(ctx, text)
	if err != nil {
		e.recordFailure()
		observability.OracleRequests.WithLabelValues(providerName, observability.OracleStatusError).Inc()
		e.logger.Debug().Err(err).Str(logKeyProvider, providerName).Msg("LLM skip")

		return nil, false
	}

	e.recordSuccess()

	ext, err := ParseReply(reply, e.policy.GELPerUSD)
	if err != nil {
		observability.OracleRequests.WithLabelValues(providerName, observability.OracleStatusParseError).Inc()
		e.logger.Debug().Err(err).Str(logKeyProvider, providerName).
			Str(logKeyReply, truncateRunes(reply, replyLogLimit)).Msg("LLM skip")

		return nil, false
	}

	observability.OracleRequests.WithLabelValues(providerName, observability.OracleStatusOK).Inc()

	return ext, true
}

func (e *Extractor) complete(ctx context.Context, text string) (string, error) {
	if err := e.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf(errRateLimiter, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	prompt := BuildPrompt(truncateRunes(text, e.opts.MaxInputChars), e.policy)

	start := e.now()
	reply, err := e.provider.Complete(callCtx, SystemPrompt, prompt)
	elapsed := e.now().Sub(start)

	observability.OracleRequestDuration.WithLabelValues(string(e.provider.Name())).Observe(elapsed.Seconds())
	e.logger.Debug().Str(logKeyProvider, string(e.provider.Name())).Dur(logKeyDuration, elapsed).Msg("LLM call finished")

	return reply, err
}

// ParseReply decodes the first JSON object of a model reply and derives the
// USD price when only a value and currency were given.
func ParseReply(reply string, gelPerUSD float64) (*Extraction, error) {
	payload := jsonPayload(reply)
	if payload == "" {
		return nil, apperrors.ErrEmptyResponse
	}

	var ext Extraction
	if err := json.Unmarshal([]byte(payload), &ext); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNoJSONObject, err)
	}

	ext.fillPriceUSD(gelPerUSD)

	return &ext, nil
}

func (e *Extractor) checkCircuit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.now().Before(e.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", apperrors.ErrCircuitBreakerOpen, e.circuitOpenUntil)
	}

	return nil
}

func (e *Extractor) recordSuccess() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.consecutiveFailures = 0
}

func (e *Extractor) recordFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.consecutiveFailures++
	if e.consecutiveFailures >= circuitBreakerThreshold {
		e.circuitOpenUntil = e.now().Add(circuitBreakerTimeout)
		e.consecutiveFailures = 0
		e.logger.Debug().
			Int("consecutive_failures", circuitBreakerThreshold).
			Time("open_until", e.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}
