package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
)

const acceptedSample = "Аренда 2 спальни, Инасеридзе, 450$"

func newTestClassifier() *Classifier {
	return New(config.DefaultKeywords())
}

func TestClassifier_HasSingleBedroom(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "plain", text: "1+1 квартира, 450$", expected: true},
		{name: "cyrillic x", text: "Квартира 1 х 1 у моря", expected: true},
		{name: "latin x", text: "1x1 apartment", expected: true},
		{name: "bullet", text: "Планировка 1•1", expected: true},
		{name: "keycap digits", text: "1️⃣+1️⃣", expected: true},
		{name: "trailing punctuation", text: "квартира 1+1.", expected: true},
		{name: "two plus one", text: "квартира 2+1", expected: false},
		{name: "eleven plus one", text: "11+1", expected: false},
		{name: "one plus ten", text: "1+10", expected: false},
		{name: "no layout", text: "2 спальни", expected: false},
		{name: "chained layout", text: "1 x 1 x 1", expected: false},
		{name: "chained multiplication sign", text: "квартира 1×1×1", expected: false},
	}

	c := newTestClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HasSingleBedroom(tt.text); got != tt.expected {
				t.Errorf("HasSingleBedroom(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifier_HasExplicitMultiBedroom(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "two bedrooms russian", text: "2 спальни, гостиная", expected: true},
		{name: "two bedrooms words", text: "Две спальни и кухня", expected: true},
		{name: "two bedrooms english", text: "Apartment with 2 bedrooms", expected: true},
		{name: "two bedrooms spelled", text: "two bedrooms, sea view", expected: true},
		{name: "three room", text: "Сдается трехкомнатная квартира", expected: true},
		{name: "three room yo", text: "трёхкомнатная", expected: true},
		{name: "three room hyphen", text: "3-комнатная квартира", expected: true},
		{name: "three room short", text: "3-к квартира", expected: true},
		{name: "three room glued", text: "Сдаю 3к у моря", expected: true},
		{name: "three bedrooms english", text: "3 bedrooms", expected: true},
		{name: "ambiguous two room", text: "2к квартира", expected: false},
		{name: "double bed only", text: "Двуспальная кровать, 450$", expected: false},
		{name: "two sleeper bed", text: "Квартира, 2 спальная кровать", expected: false},
		{name: "double bed english", text: "double bed, balcony", expected: false},
		{name: "bedrooms and double bed", text: "2 спальни, двуспальная кровать", expected: true},
		{name: "nothing explicit", text: "Уютная квартира в центре", expected: false},
		{name: "keycap digit", text: "2️⃣ спальни", expected: true},
		{name: "two bedroom adjective", text: "2-х спальная квартира", expected: true},
		{name: "two bedroom adjective glued", text: "Сдаю 2х спальную квартиру", expected: true},
		{name: "three bedroom adjective", text: "3-х спальная квартира", expected: true},
		{name: "two sleeper bed with suffix", text: "2-х спальная кровать, 450$", expected: false},
	}

	c := newTestClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HasExplicitMultiBedroom(tt.text); got != tt.expected {
				t.Errorf("HasExplicitMultiBedroom(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifier_IsDailyRental(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "posutochno", text: "Посуточно, 2 спальни, 450$", expected: true},
		{name: "sutki", text: "50$ сутки", expected: true},
		{name: "per night", text: "40$ за ночь", expected: true},
		{name: "per day english", text: "60 usd per day", expected: true},
		{name: "daily", text: "Daily rent", expected: true},
		{name: "za den", text: "35 лари за  день", expected: true},
		{name: "monthly", text: "помесячно от 6 месяцев", expected: false},
		{name: "inside word", text: "непосредственно у моря", expected: false},
	}

	c := newTestClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsDailyRental(tt.text); got != tt.expected {
				t.Errorf("IsDailyRental(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifier_IsStudio(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "russian", text: "Студия в центре", expected: true},
		{name: "english", text: "Cozy STUDIO apartment", expected: true},
		{name: "georgian", text: "სტუდიო ბათუმში", expected: true},
		{name: "bedrooms", text: "2 спальни", expected: false},
	}

	c := newTestClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsStudio(tt.text); got != tt.expected {
				t.Errorf("IsStudio(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifier_Location(t *testing.T) {
	c := newTestClassifier()

	assert.True(t, c.IsOutOfArea("Квартира в Гонио, 2 спальни"))
	assert.True(t, c.IsOutOfArea("MAKHINJAURI / Махинджаури"))
	assert.True(t, c.IsOutOfArea("Сдаётся в Мaхинджаури"), "latin a inside a cyrillic name")
	assert.True(t, c.IsOutOfArea("Kobuleti beach"))
	assert.False(t, c.IsOutOfArea("Batumi, Inasaridze street"))

	// Substring policy: a name inside a longer word still counts.
	assert.True(t, c.IsOutOfArea("Kobuletiskhevi"))

	assert.True(t, c.IsExcludedBuilding("ЖК Magnolia, 2 спальни"))
	assert.True(t, c.IsExcludedBuilding("альянс МАГНОЛИЯ"))
	assert.False(t, c.IsExcludedBuilding("Orbi City"))
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantPassed  bool
		wantReasons []string
	}{
		{
			name:       "accepted",
			text:       acceptedSample,
			wantPassed: true,
		},
		{
			name:        "single bedroom",
			text:        "1+1 квартира, 450$",
			wantReasons: []string{domain.ReasonSingleBedroom, domain.ReasonRoomsNotExplicit},
		},
		{
			name:        "daily",
			text:        "Посуточно, 2 спальни, 450$",
			wantReasons: []string{domain.ReasonDailyRental},
		},
		{
			name:       "gel price text",
			text:       "2 спальни, 1300 GEL, Батуми",
			wantPassed: true,
		},
		{
			name:        "out of area and building",
			text:        "Гонио, Magnolia, 2 спальни",
			wantReasons: []string{domain.ReasonOutOfArea, domain.ReasonExcludedBuilding},
		},
		{
			name:        "studio",
			text:        "Студия, 450$",
			wantReasons: []string{domain.ReasonStudio, domain.ReasonRoomsNotExplicit},
		},
	}

	c := newTestClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.text)
			assert.Equal(t, tt.wantPassed, res.Passed())
			assert.Equal(t, tt.wantReasons, res.Reasons())
		})
	}
}

func TestClassifier_ExclusionIsMonotone(t *testing.T) {
	c := newTestClassifier()
	kw := config.DefaultKeywords()

	if !c.Classify(acceptedSample).Passed() {
		t.Fatalf("base sample %q must pass", acceptedSample)
	}

	appendix := []string{"студия", "посуточно", "1+1", "Гонио", "Magnolia"}
	appendix = append(appendix, kw.OutOfArea...)
	appendix = append(appendix, kw.ExcludedBuildings...)
	appendix = append(appendix, kw.Daily...)

	for _, extra := range appendix {
		text := acceptedSample + " " + extra
		if c.Classify(text).Passed() {
			t.Errorf("appending %q should reject, text %q passed", extra, text)
		}
	}
}

func TestClassifier_CustomKeywords(t *testing.T) {
	c := New(config.Keywords{
		OutOfArea:         []string{"Old Town"},
		ExcludedBuildings: []string{"Orbi"},
		Daily:             []string{"hourly"},
	})

	assert.True(t, c.IsOutOfArea("flat in OLD TOWN"))
	assert.True(t, c.IsExcludedBuilding("orbi city"))
	assert.True(t, c.IsDailyRental("hourly rent"))
	assert.False(t, c.IsDailyRental("посуточно"))
	assert.False(t, c.IsStudio("студия"))
}
