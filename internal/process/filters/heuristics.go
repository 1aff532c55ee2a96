package filters

import (
	"regexp"
	"strings"

	"github.com/lueurxax/tg-rent-finder/internal/process/textnorm"
)

// Word boundaries for Cyrillic and Georgian; \b in RE2 only knows ASCII.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

var (
	singleBedroomRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_+])1\+1(?:$|[^\p{L}\p{N}_+])`)

	threeRoomRe = regexp.MustCompile(wordStart + `(?:` +
		`тр[её]х\s*комн\p{L}*|3-?х?-?\s*комн\p{L}*|3-?к|` +
		`3\s*rooms?|3\s*br|3\s*bedrooms?|three\s*bedrooms?|` +
		`3-?[хx]?-?\s*спальн\p{L}*|три\s*спальн\p{L}*` +
		`)` + wordEnd)

	twoBedroomRe = regexp.MustCompile(wordStart + `(?:` +
		`2-?[хx]?-?\s*спальн\p{L}*|две\s*спальн\p{L}*|двумя\s*спальн\p{L}*|` +
		`2\s*bed(?:room)?s?|two\s*bed(?:room)?s?|2\s*br` +
		`)` + wordEnd)

	// Bed sizes that look like bedroom counts: "двуспальная кровать", "2-спальная кровать", "double bed".
	doubleBedRe = regexp.MustCompile(
		`дв[уy]спальн\p{L}*\s*кроват\p{L}*|` +
			`2-?[хx]?-?\s*спальн(?:ая|ой|ую|ые|ых|ыми|ым)\s*кроват\p{L}*|` +
			`double\s*beds?|king\s*size\s*beds?`)
)

// keywordMatcher matches any keyword at a word start, so "посуточ" also
// catches "посуточно". Spaces inside a keyword match any whitespace run.
type keywordMatcher struct {
	re *regexp.Regexp
}

func newKeywordMatcher(words []string) *keywordMatcher {
	alts := make([]string, 0, len(words))

	for _, w := range words {
		fields := strings.Fields(textnorm.Normalize(w))
		if len(fields) == 0 {
			continue
		}

		for i, f := range fields {
			fields[i] = regexp.QuoteMeta(f)
		}

		alts = append(alts, strings.Join(fields, `\s*`))
	}

	if len(alts) == 0 {
		return &keywordMatcher{}
	}

	return &keywordMatcher{re: regexp.MustCompile(wordStart + `(?:` + strings.Join(alts, "|") + `)`)}
}

func (m *keywordMatcher) match(normalized string) bool {
	return m.re != nil && m.re.MatchString(normalized)
}

func hasSingleBedroom(normalized string) bool {
	return singleBedroomRe.MatchString(normalized)
}

func hasThreeRooms(normalized string) bool {
	return threeRoomRe.MatchString(normalized)
}

func hasExplicitMultiBedroom(normalized string) bool {
	if hasThreeRooms(normalized) {
		return true
	}

	masked := doubleBedRe.ReplaceAllString(normalized, " ")

	return twoBedroomRe.MatchString(masked)
}
