package storage

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

const listingsTable = "listings"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	listingColumns = []string{
		"run_id", "channel", "message_id", "date_local", "posted_at",
		"price_usd", "score", "url", "text",
	}
)

// Append inserts one listing. It implements the pipeline sink.
func (db *DB) Append(ctx context.Context, l domain.Listing) error {
	query, args, err := insertListing(l)
	if err != nil {
		return err
	}

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert listing %s/%d: %w", l.Channel, l.MessageID, err)
	}

	return nil
}

func insertListing(l domain.Listing) (string, []interface{}, error) {
	query, args, err := psql.Insert(listingsTable).
		Columns(listingColumns...).
		Values(
			toUUID(l.RunID),
			sanitizeUTF8(l.Channel),
			l.MessageID,
			l.DateLocal,
			l.PostedAt,
			l.PriceUSD,
			l.Score,
			l.URL,
			sanitizeUTF8(l.Text),
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}

	return query, args, nil
}

// FindListings returns stored listings newest first. The text pattern is
// applied by the caller, since Go and Postgres regex dialects differ.
func (db *DB) FindListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	query, args, err := selectListings(q)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var out []domain.Listing

	for rows.Next() {
		var (
			l     domain.Listing
			runID pgtype.UUID
		)

		if err := rows.Scan(&runID, &l.Channel, &l.MessageID, &l.DateLocal, &l.PostedAt,
			&l.PriceUSD, &l.Score, &l.URL, &l.Text); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}

		l.RunID = fromUUID(runID)
		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	return out, nil
}

func selectListings(q domain.ListingQuery) (string, []interface{}, error) {
	b := psql.Select(
		"run_id", "channel", "message_id", "date_local", "posted_at",
		"price_usd::float8", "score::int", "url", "text",
	).From(listingsTable)

	if q.MinPrice != nil {
		b = b.Where(sq.GtOrEq{"price_usd": *q.MinPrice})
	}

	if q.MaxPrice != nil {
		b = b.Where(sq.LtOrEq{"price_usd": *q.MaxPrice})
	}

	if q.MinScore != nil {
		b = b.Where(sq.GtOrEq{"score": *q.MinScore})
	}

	if q.MaxScore != nil {
		b = b.Where(sq.LtOrEq{"score": *q.MaxScore})
	}

	if q.OnlyWithURL {
		b = b.Where(sq.NotEq{"url": ""})
	}

	if !q.Since.IsZero() {
		b = b.Where(sq.GtOrEq{"posted_at": q.Since})
	}

	query, args, err := b.OrderBy("posted_at DESC", "id DESC").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}

	return query, args, nil
}

func toUUID(id string) pgtype.UUID {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}

	return pgtype.UUID{Bytes: u, Valid: true}
}

func fromUUID(uid pgtype.UUID) string {
	if !uid.Valid {
		return ""
	}

	return uuid.UUID(uid.Bytes).String()
}

func sanitizeUTF8(s string) string {
	if s == "" || utf8.ValidString(s) {
		return s
	}

	return strings.ToValidUTF8(s, "")
}
