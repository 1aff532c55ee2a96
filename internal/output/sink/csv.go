// Package sink persists accepted listings and reads them back for export.
package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

const (
	// MatchTypeStrict is the only match type the collector writes.
	MatchTypeStrict = "strict"

	// DefaultTextLimit is the text cap in runes.
	DefaultTextLimit = 1800

	filePerm = 0o644
)

// Header is the CSV column order.
var Header = []string{"match_type", "channel", "message_id", "date_local", "price_usd", "score", "url", "text"}

var lineBreakReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// CSV appends listings to a file, opening and closing it per record so every
// accepted row is on disk before the next message is evaluated.
type CSV struct {
	path      string
	textLimit int
	location  *time.Location
	mu        sync.Mutex
}

// NewCSV returns a CSV sink. textLimit <= 0 uses DefaultTextLimit.
// location is used to rebuild PostedAt on Load.
func NewCSV(path string, textLimit int, location *time.Location) *CSV {
	if textLimit <= 0 {
		textLimit = DefaultTextLimit
	}

	if location == nil {
		location = time.UTC
	}

	return &CSV{path: path, textLimit: textLimit, location: location}
}

func (c *CSV) Path() string {
	return c.path
}

// EnsureHeader writes the header when the file is missing or empty.
func (c *CSV) EnsureHeader() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.path, err)
	}

	if err := c.writeHeaderIfEmpty(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Append writes one row.
func (c *CSV) Append(_ context.Context, l domain.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.path, err)
	}

	if err := c.writeHeaderIfEmpty(f); err != nil {
		_ = f.Close()
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(c.row(l)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write row: %w", err)
	}

	w.Flush()

	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", c.path, err)
	}

	return f.Close()
}

func (c *CSV) writeHeaderIfEmpty(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.path, err)
	}

	if info.Size() > 0 {
		return nil
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	w.Flush()

	return w.Error()
}

func (c *CSV) row(l domain.Listing) []string {
	return []string{
		MatchTypeStrict,
		l.Channel,
		strconv.FormatInt(l.MessageID, 10),
		l.DateLocal,
		formatPrice(l.PriceUSD),
		strconv.Itoa(l.Score),
		l.URL,
		truncateRunes(lineBreakReplacer.Replace(l.Text), c.textLimit),
	}
}

// Load reads every row back. A missing file yields no listings.
func (c *CSV) Load(_ context.Context) ([]domain.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("open %s: %w", c.path, err)
	}
	defer f.Close()

	return ReadCSV(f, c.location)
}

// ReadCSV parses rows written by the CSV sink. Columns are located by header
// name; unknown columns are ignored and missing ones stay zero.
func ReadCSV(r io.Reader, location *time.Location) ([]domain.Listing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var listings []domain.Listing

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return listings, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		listings = append(listings, parseRecord(rec, cols, location))
	}
}

func parseRecord(rec []string, cols map[string]int, location *time.Location) domain.Listing {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}

		return rec[i]
	}

	l := domain.Listing{
		Channel:   field("channel"),
		DateLocal: field("date_local"),
		URL:       field("url"),
		Text:      field("text"),
	}

	l.MessageID, _ = strconv.ParseInt(field("message_id"), 10, 64)
	l.PriceUSD, _ = strconv.ParseFloat(field("price_usd"), 64)
	l.Score, _ = strconv.Atoi(field("score"))

	if t, err := time.ParseInLocation(domain.DateLocalLayout, l.DateLocal, location); err == nil {
		l.PostedAt = t
	}

	return l
}

// WriteCSV writes listings with the header to w.
func WriteCSV(w io.Writer, listings []domain.Listing, textLimit int) error {
	c := &CSV{textLimit: textLimit}
	if c.textLimit <= 0 {
		c.textLimit = DefaultTextLimit
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, l := range listings {
		if err := cw.Write(c.row(l)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}

	return s
}
