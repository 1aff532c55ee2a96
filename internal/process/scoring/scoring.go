// Package scoring ranks accepted listings on a 0..10 scale.
package scoring

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	MinScore     = 0
	MaxScore     = 10
	DefaultScore = 5

	priorityBonus = 1
)

// Scorer combines the oracle quality score with a priority keyword bonus.
type Scorer struct {
	caser    cases.Caser
	priority []string
}

// New creates a Scorer for the given priority streets and landmarks.
func New(priority []string) *Scorer {
	caser := cases.Fold()
	folded := make([]string, 0, len(priority))

	for _, p := range priority {
		if p = strings.TrimSpace(p); p != "" {
			folded = append(folded, caser.String(p))
		}
	}

	return &Scorer{caser: caser, priority: folded}
}

// Score returns the final score. A missing or zero oracle score falls back to
// DefaultScore; the priority bonus applies once and never exceeds MaxScore.
func (s *Scorer) Score(oracleScore *int, text string) int {
	score := DefaultScore
	if oracleScore != nil && *oracleScore > 0 {
		score = *oracleScore
	}

	score = clamp(score)

	if s.HasPriority(text) {
		score = clamp(score + priorityBonus)
	}

	return score
}

// HasPriority reports whether text mentions any priority keyword.
func (s *Scorer) HasPriority(text string) bool {
	folded := s.caser.String(text)

	for _, p := range s.priority {
		if strings.Contains(folded, p) {
			return true
		}
	}

	return false
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}

	if v > MaxScore {
		return MaxScore
	}

	return v
}
