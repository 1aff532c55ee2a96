package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keywords holds the word lists that drive discovery, filtering and scoring.
// Defaults target long-term rentals in Batumi; a YAML file can replace any list.
type Keywords struct {
	Discover          []string `yaml:"discover"`
	OutOfArea         []string `yaml:"out_of_area"`
	ExcludedBuildings []string `yaml:"excluded_buildings"`
	Priority          []string `yaml:"priority"`
	Daily             []string `yaml:"daily"`
	Studio            []string `yaml:"studio"`
}

func DefaultKeywords() Keywords {
	return Keywords{
		Discover: []string{
			"Аренда Батуми", "Квартиры Батуми", "Сдать снять Батуми",
			"Batumi rent", "Batumi apartments", "Batumi real estate",
			"ქირავდება ბათუმი", "ბინების გაქირავება ბათუმში",
		},
		OutOfArea: []string{
			"махинджаури", "мaхинджаури", "მახინჯაური", "gonio", "гонио", "გონიო", "квариати", "kvariati",
			"сарпи", "sarpi", "чакви", "chakvi", "зеленый мыс", "mtsvane", "მცვანე", "mtsvane kontskhi",
			"кобулети", "kobulet", "ქობულეთი", "kobuleti", "khelvachauri", "ხელვაჩაური",
		},
		ExcludedBuildings: []string{"magnolia", "магнолия", "alliance magnolia", "альянс магнолия"},
		Priority: []string{
			"инасеридзе", "inasaridze", "ინასარიძე",
			"kobaladze", "кобаладзе", "კობალაძე",
			"angisa", "ангиса", "ანგის",
			"agmashenebeli", "агмашенебели",
			"vox", "вокс", "grand mall", "metro city", "метро сити",
		},
		Daily:  []string{"сутк", "суточ", "посуточ", "per day", "daily", "ночь", "ночи", "за день"},
		Studio: []string{"студи", "studio", "სტუდიო"},
	}
}

// LoadKeywords returns the defaults overlaid with the non-empty lists from path.
// An empty path yields the defaults.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("reading keywords file %s: %w", path, err)
	}

	var fileKW Keywords
	if err := yaml.Unmarshal(raw, &fileKW); err != nil {
		return Keywords{}, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}

	return mergeKeywords(kw, fileKW), nil
}

func mergeKeywords(base, override Keywords) Keywords {
	if len(override.Discover) > 0 {
		base.Discover = override.Discover
	}

	if len(override.OutOfArea) > 0 {
		base.OutOfArea = override.OutOfArea
	}

	if len(override.ExcludedBuildings) > 0 {
		base.ExcludedBuildings = override.ExcludedBuildings
	}

	if len(override.Priority) > 0 {
		base.Priority = override.Priority
	}

	if len(override.Daily) > 0 {
		base.Daily = override.Daily
	}

	if len(override.Studio) > 0 {
		base.Studio = override.Studio
	}

	return base
}
