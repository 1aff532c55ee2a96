// Package filters implements the local rental heuristics.
//
// The Classifier runs independent predicates over raw post text:
//   - Single-bedroom layout ("1+1")
//   - Studio wording
//   - Explicit two- or three-bedroom wording, with double-bed phrases masked
//   - Daily or nightly rental wording
//   - Out-of-area place names and excluded buildings (case-folded substring match)
//
// Keyword lists come from config, so locales can be extended without code change.
package filters

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
	"github.com/lueurxax/tg-rent-finder/internal/process/textnorm"
)

// Classifier applies the heuristic acceptance rules.
type Classifier struct {
	caser     cases.Caser
	outOfArea []string
	buildings []string
	daily     *keywordMatcher
	studio    *keywordMatcher
}

// New creates a Classifier from keyword lists.
func New(kw config.Keywords) *Classifier {
	caser := cases.Fold()

	return &Classifier{
		caser:     caser,
		outOfArea: foldAll(caser, kw.OutOfArea),
		buildings: foldAll(caser, kw.ExcludedBuildings),
		daily:     newKeywordMatcher(kw.Daily),
		studio:    newKeywordMatcher(kw.Studio),
	}
}

// Result holds the outcome of every predicate for one text.
type Result struct {
	SingleBedroom    bool
	Studio           bool
	MultiBedroom     bool
	Daily            bool
	OutOfArea        bool
	ExcludedBuilding bool
}

// Passed reports whether no exclusion fired and multiple bedrooms are explicit.
func (r Result) Passed() bool {
	return len(r.Reasons()) == 0
}

// Reasons lists the rejection codes in a fixed order.
func (r Result) Reasons() []string {
	var reasons []string

	if r.SingleBedroom {
		reasons = append(reasons, domain.ReasonSingleBedroom)
	}

	if r.Studio {
		reasons = append(reasons, domain.ReasonStudio)
	}

	if !r.MultiBedroom {
		reasons = append(reasons, domain.ReasonRoomsNotExplicit)
	}

	if r.Daily {
		reasons = append(reasons, domain.ReasonDailyRental)
	}

	if r.OutOfArea {
		reasons = append(reasons, domain.ReasonOutOfArea)
	}

	if r.ExcludedBuilding {
		reasons = append(reasons, domain.ReasonExcludedBuilding)
	}

	return reasons
}

// Classify runs all predicates. The text is normalized once.
func (c *Classifier) Classify(text string) Result {
	normalized := textnorm.Normalize(text)
	folded := c.caser.String(text)

	return Result{
		SingleBedroom:    hasSingleBedroom(normalized),
		Studio:           c.studio.match(normalized),
		MultiBedroom:     hasExplicitMultiBedroom(normalized),
		Daily:            c.daily.match(normalized),
		OutOfArea:        containsAny(folded, c.outOfArea),
		ExcludedBuilding: containsAny(folded, c.buildings),
	}
}

// HasSingleBedroom reports a "1+1" layout in any of its spellings.
func (c *Classifier) HasSingleBedroom(text string) bool {
	return hasSingleBedroom(textnorm.Normalize(text))
}

// IsStudio reports studio wording.
func (c *Classifier) IsStudio(text string) bool {
	return c.studio.match(textnorm.Normalize(text))
}

// HasExplicitMultiBedroom reports explicit three-room or two-bedroom wording.
// Ambiguous counts such as "2к" do not qualify.
func (c *Classifier) HasExplicitMultiBedroom(text string) bool {
	return hasExplicitMultiBedroom(textnorm.Normalize(text))
}

// IsDailyRental reports short-term rental wording.
func (c *Classifier) IsDailyRental(text string) bool {
	return c.daily.match(textnorm.Normalize(text))
}

// IsOutOfArea reports a place name outside the city.
// Substring match: a name inside a longer word also counts.
func (c *Classifier) IsOutOfArea(text string) bool {
	return containsAny(c.caser.String(text), c.outOfArea)
}

// IsExcludedBuilding reports a mention of an excluded residential complex.
func (c *Classifier) IsExcludedBuilding(text string) bool {
	return containsAny(c.caser.String(text), c.buildings)
}

func containsAny(folded string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(folded, n) {
			return true
		}
	}

	return false
}

func foldAll(caser cases.Caser, words []string) []string {
	out := make([]string, 0, len(words))

	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}

		out = append(out, caser.String(w))
	}

	return out
}
