package leagues

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/leaguefeed/internal/models"
)

var table = map[string]map[string]string{
	"England": {
		"Premier League": "1204",
		"Championship":   "1205",
		"League One":     "1206",
	},
	"Spain": {
		"La Liga":   "1399",
		"La Liga 2": "1398",
	},
	"Germany": {
		"Bundesliga":    "1229",
		"2. Bundesliga": "1225",
	},
	"Italy": {
		"Serie A": "1269",
		"Serie B": "1265",
	},
	"France": {
		"Ligue 1": "1221",
		"Ligue 2": "1217",
	},
	"Turkey":       {"Super Lig": "1425"},
	"UEFA":         {"Champions League": "1005", "Europa": "1007", "Conference": "18853"},
	"Holland":      {"Eredivisie": "1322"},
	"Portugal":     {"Liga": "1352"},
	"Argentina":    {"Liga Professional": "1081"},
	"Brazil":       {"SerieA": "1141"},
	"Saudi Arabia": {"Professional League": "1368"},
	"Poland":       {"Ekstraklasa": "1344"},
	"Scotland":     {"Premiership": "1370"},
	"Australia":    {"A League": "1086"},
	"USA":          {"MLS": "1440"},
	"Mexico":       {"MX Liga": "1308"},
	"Colombia":     {"Primera A": "1167"},
	"Japan":        {"J1 League": "1271"},
	"China":        {"Super League": "1163"},
	"Sweden":       {"Allsvenskan": "1407"},
	"Denmark":      {"Superliga": "1185"},
	"Belgium":      {"Pro Jupiler": "1104"},
	"South Korea":  {"K League": "1282"},
}

const similarityThreshold = 0.7

// Lookup returns the league for an exact country and league name.
func Lookup(country, league string) (models.LeagueRef, bool) {
	id, ok := table[country][league]
	if !ok {
		return models.LeagueRef{}, false
	}
	return models.LeagueRef{Country: country, League: league, ID: id}, true
}

func Countries() []string {
	countries := make([]string, 0, len(table))
	for country := range table {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

func Leagues(country string) []string {
	leagues := make([]string, 0, len(table[country]))
	for league := range table[country] {
		leagues = append(leagues, league)
	}
	sort.Strings(leagues)
	return leagues
}

// All returns every league in the table ordered by country then league.
func All() []models.LeagueRef {
	var refs []models.LeagueRef
	for _, country := range Countries() {
		for _, league := range Leagues(country) {
			refs = append(refs, models.LeagueRef{Country: country, League: league, ID: table[country][league]})
		}
	}
	return refs
}

// Find resolves loosely typed country and league names against the table.
func Find(country, league string) (models.LeagueRef, error) {
	c, ok := FindCountry(country)
	if !ok {
		return models.LeagueRef{}, fmt.Errorf("unknown country %q", country)
	}
	l, ok := closest(league, Leagues(c))
	if !ok {
		return models.LeagueRef{}, fmt.Errorf("unknown league %q in %s", league, c)
	}
	ref, _ := Lookup(c, l)
	return ref, nil
}

func FindCountry(query string) (string, bool) {
	return closest(query, Countries())
}

func closest(query string, candidates []string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	for _, candidate := range candidates {
		if strings.EqualFold(candidate, query) {
			return candidate, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target, true
	}

	best := ""
	bestSimilarity := 0.0
	for _, candidate := range candidates {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(query), strings.ToLower(candidate))
		maxLen := float64(max(len(query), len(candidate)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > similarityThreshold && similarity > bestSimilarity {
			best = candidate
			bestSimilarity = similarity
		}
	}
	return best, best != ""
}
