package llm

import "time"

// HTTP constants
const (
	contentTypeJSON     = "application/json"
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
)

// Error message templates
const (
	errFmtMarshalRequest = "marshal request: %w"
	errFmtCreateRequest  = "create request: %w"
	errFmtReadResponse   = "read response: %w"
	errFmtDecodeResponse = "decode response: %w"
	errFmtAPIWithMessage = "%w (%d): %s"
	errFmtAPIStatusOnly  = "%w: status %d"
	errRateLimiter       = "rate limiter error: %w"
)

// Log key strings
const (
	logKeyProvider = "provider"
	logKeyDuration = "duration"
	logKeyReply    = "reply"
)

// Oracle defaults
const (
	defaultTimeout       = 30 * time.Second
	defaultMaxInputChars = 6000
	ollamaNumCtx         = 4096
	replyLogLimit        = 200

	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
)
