package domain

import (
	"regexp"
	"strconv"
	"time"
)

// RawMessage represents a single post delivered by the Telegram transport.
type RawMessage struct {
	ID        int64
	ChannelID int64
	Date      time.Time
	Text      string
	HasPhoto  bool
}

// Channel is a Telegram channel selected for collection.
type Channel struct {
	ID          int64
	AccessHash  int64
	Username    string
	Title       string
	Subscribers int
}

// Label returns the human-readable channel name used in listings.
func (c Channel) Label() string {
	if c.Username != "" {
		return c.Username
	}

	if c.Title != "" {
		return c.Title
	}

	return strconv.FormatInt(c.ID, 10)
}

// Permalink returns the public post URL, or "" for channels without a username.
func (c Channel) Permalink(messageID int64) string {
	if c.Username == "" {
		return ""
	}

	return "https://t.me/" + c.Username + "/" + strconv.FormatInt(messageID, 10)
}

// Decision is the outcome of evaluating one message.
// Accept starts true and is never re-enabled once a stage rejects.
type Decision struct {
	Accept   bool
	PriceUSD *float64
	Score    int
	Reasons  []string

	// OracleUsed reports whether the LLM stage returned a usable result.
	OracleUsed bool
	// OracleScore is the oracle's quality score, if it supplied one.
	OracleScore *int
}

// Reject marks the decision as rejected and records why.
func (d *Decision) Reject(reason string) {
	d.Accept = false
	d.Reasons = append(d.Reasons, reason)
}

// Listing is an accepted post ready for the sinks. Listings are append-only.
type Listing struct {
	RunID     string
	Channel   string
	URL       string
	MessageID int64
	PostedAt  time.Time
	DateLocal string
	PriceUSD  float64
	Score     int
	Text      string
}

// ListingQuery narrows stored listings for export.
type ListingQuery struct {
	MinPrice    *float64
	MaxPrice    *float64
	MinScore    *int
	MaxScore    *int
	Pattern     *regexp.Regexp
	OnlyWithURL bool
	Since       time.Time
}

// Rejection reason codes.
const (
	ReasonNoPhoto          = "no_photo"
	ReasonEmptyText        = "empty_text"
	ReasonSingleBedroom    = "single_bedroom"
	ReasonStudio           = "studio"
	ReasonRoomsNotExplicit = "rooms_not_explicit"
	ReasonDailyRental      = "daily_rental"
	ReasonOutOfArea        = "out_of_area"
	ReasonExcludedBuilding = "excluded_building"
	ReasonPriceUnknown     = "price_unknown"
	ReasonPriceOutOfBand   = "price_out_of_band"
)

// DateLocalLayout is the layout of Listing.DateLocal.
const DateLocalLayout = "2006-01-02 15:04"
