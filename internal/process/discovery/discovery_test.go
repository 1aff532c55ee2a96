package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

type mockSearcher struct {
	results map[string][]domain.Channel
	errs    map[string]error
	queries []string
	limits  []int
}

func (m *mockSearcher) SearchChannels(_ context.Context, query string, limit int) ([]domain.Channel, error) {
	m.queries = append(m.queries, query)
	m.limits = append(m.limits, limit)

	if err := m.errs[query]; err != nil {
		return nil, err
	}

	return m.results[query], nil
}

func ids(channels []domain.Channel) []int64 {
	out := make([]int64, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch.ID)
	}

	return out
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name        string
		results     map[string][]domain.Channel
		errs        map[string]error
		opts        Options
		wantIDs     []int64
		wantQueries []string
	}{
		{
			name: "filters by subscribers and dedups",
			results: map[string][]domain.Channel{
				"a": {{ID: 1, Subscribers: 500}, {ID: 2, Subscribers: 100}},
				"b": {{ID: 1, Subscribers: 500}, {ID: 3, Subscribers: 300}},
			},
			opts:        Options{LimitPerQuery: 30, MinSubscribers: 300, MaxChannels: 40},
			wantIDs:     []int64{1, 3},
			wantQueries: []string{"a", "b"},
		},
		{
			name: "failed search is skipped",
			results: map[string][]domain.Channel{
				"b": {{ID: 7, Subscribers: 1000}},
			},
			errs:        map[string]error{"a": errors.New("FLOOD_WAIT")},
			opts:        Options{LimitPerQuery: 30, MinSubscribers: 300, MaxChannels: 40},
			wantIDs:     []int64{7},
			wantQueries: []string{"a", "b"},
		},
		{
			name: "stops at max channels",
			results: map[string][]domain.Channel{
				"a": {{ID: 1, Subscribers: 900}, {ID: 2, Subscribers: 900}, {ID: 3, Subscribers: 900}},
				"b": {{ID: 4, Subscribers: 900}},
			},
			opts:        Options{LimitPerQuery: 30, MinSubscribers: 300, MaxChannels: 2},
			wantIDs:     []int64{1, 2},
			wantQueries: []string{"a"},
		},
		{
			name:        "nothing found",
			opts:        Options{LimitPerQuery: 30, MinSubscribers: 300, MaxChannels: 40},
			wantIDs:     []int64{},
			wantQueries: []string{"a", "b"},
		},
	}

	logger := zerolog.Nop()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{results: tt.results, errs: tt.errs}

			got := Discover(context.Background(), s, []string{"a", "b"}, tt.opts, &logger)

			assert.Equal(t, tt.wantIDs, ids(got))
			assert.Equal(t, tt.wantQueries, s.queries)

			for _, l := range s.limits {
				assert.Equal(t, tt.opts.LimitPerQuery, l)
			}
		})
	}
}

func TestDiscover_Deterministic(t *testing.T) {
	s := &mockSearcher{results: map[string][]domain.Channel{
		"a": {{ID: 5, Subscribers: 400}, {ID: 4, Subscribers: 400}},
		"b": {{ID: 3, Subscribers: 400}},
	}}
	logger := zerolog.Nop()
	opts := Options{LimitPerQuery: 30, MinSubscribers: 300, MaxChannels: 40}

	first := Discover(context.Background(), s, []string{"a", "b"}, opts, &logger)
	second := Discover(context.Background(), s, []string{"a", "b"}, opts, &logger)

	assert.Equal(t, first, second)
	assert.Equal(t, []int64{5, 4, 3}, ids(first))
}
