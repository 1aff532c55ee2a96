package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

func TestSelectListings(t *testing.T) {
	minPrice, maxPrice := 400.0, 500.0
	minScore := 6
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		query       domain.ListingQuery
		wantWhere   []string
		wantArgs    []interface{}
		wantNoWhere bool
	}{
		{
			name:        "no filters",
			wantNoWhere: true,
		},
		{
			name:      "price band",
			query:     domain.ListingQuery{MinPrice: &minPrice, MaxPrice: &maxPrice},
			wantWhere: []string{"price_usd >= $1", "price_usd <= $2"},
			wantArgs:  []interface{}{400.0, 500.0},
		},
		{
			name:      "score url since",
			query:     domain.ListingQuery{MinScore: &minScore, OnlyWithURL: true, Since: since},
			wantWhere: []string{"score >= $1", "url <> $2", "posted_at >= $3"},
			wantArgs:  []interface{}{6, "", since},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := selectListings(tt.query)
			require.NoError(t, err)

			assert.Contains(t, sql, "FROM listings")
			assert.Contains(t, sql, "ORDER BY posted_at DESC, id DESC")

			if tt.wantNoWhere {
				assert.NotContains(t, sql, "WHERE")
				assert.Empty(t, args)

				return
			}

			for _, w := range tt.wantWhere {
				assert.Contains(t, sql, w)
			}

			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestInsertListing(t *testing.T) {
	l := domain.Listing{
		RunID:     "5f1d7c2e-8a4b-4c1e-9b0a-2d3e4f5a6b7c",
		Channel:   "batumi_rent",
		MessageID: 30,
		DateLocal: "2025-06-10 11:00",
		PostedAt:  time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC),
		PriceUSD:  450,
		Score:     6,
		Text:      "bad \xff utf8",
	}

	sql, args, err := insertListing(l)
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO listings")
	assert.Contains(t, sql, "$9")
	require.Len(t, args, 9)
	assert.Equal(t, "bad  utf8", args[8])
	assert.Equal(t, int64(30), args[2])
}

func TestUUIDConversion(t *testing.T) {
	id := "5f1d7c2e-8a4b-4c1e-9b0a-2d3e4f5a6b7c"

	assert.Equal(t, id, fromUUID(toUUID(id)))
	assert.False(t, toUUID("not-a-uuid").Valid)
	assert.Empty(t, fromUUID(toUUID("")))
}
