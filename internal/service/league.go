package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omarshaarawi/leaguefeed/internal/api/goalserve"
	"github.com/omarshaarawi/leaguefeed/internal/feed"
	"github.com/omarshaarawi/leaguefeed/internal/models"
)

const (
	PreviewSize        = 10
	FixturePreviewSize = 20
)

type LeagueService struct {
	api *goalserve.API
	now func() time.Time
}

func NewLeagueService(api *goalserve.API) *LeagueService {
	return &LeagueService{api: api, now: time.Now}
}

// FetchPlayerData fetches and normalizes a league's squads. Any failure is
// terminal for the call.
func (s *LeagueService) FetchPlayerData(ref models.LeagueRef, maxRetries int, timeout time.Duration) (models.PlayerSet, error) {
	doc, err := s.api.PlayersDocument(ref.ID, maxRetries, timeout)
	if err != nil {
		return models.PlayerSet{}, err
	}

	set, err := feed.NormalizePlayers(doc)
	if err != nil {
		return models.PlayerSet{}, fmt.Errorf("normalizing %s %s players: %w", ref.Country, ref.League, err)
	}

	slog.Info("Fetched player data", "country", ref.Country, "league", ref.League, "teams", len(set.TeamNames), "players", len(set.Players))
	return set, nil
}

// FetchFixtureData degrades to an empty set when the feed cannot be reached,
// leaving manual pairing to the caller.
func (s *LeagueService) FetchFixtureData(ref models.LeagueRef, maxRetries int, timeout time.Duration) models.FixtureSet {
	doc, err := s.api.FixturesDocument(ref.ID, maxRetries, timeout)
	if err != nil {
		slog.Warn("Fixture data unavailable", "country", ref.Country, "league", ref.League, "error", err)
		return models.FixtureSet{}
	}

	set := feed.NormalizeFixtures(doc)
	slog.Info("Fetched fixture data", "country", ref.Country, "league", ref.League, "fixtures", len(set.Fixtures), "skipped", set.Skipped)
	return set
}

// FetchLeague fetches players then fixtures, one after the other. Fixtures are
// not requested when the player fetch fails.
func (s *LeagueService) FetchLeague(ref models.LeagueRef, maxRetries int, timeout time.Duration) (models.Session, error) {
	players, err := s.FetchPlayerData(ref, maxRetries, timeout)
	if err != nil {
		return models.Session{}, err
	}

	fixtures := s.FetchFixtureData(ref, maxRetries, timeout)

	return models.Session{
		League:    ref,
		Players:   players.Players,
		TeamNames: players.TeamNames,
		Teams:     players.Teams,
		Fixtures:  fixtures.Fixtures,
		FetchedAt: s.now(),
	}, nil
}

func FilterByTeams(players []models.PlayerRecord, teams []string) []models.PlayerRecord {
	wanted := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		wanted[t] = struct{}{}
	}

	filtered := make([]models.PlayerRecord, 0, len(players))
	for _, p := range players {
		if _, ok := wanted[p.TeamName()]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// PairTeams builds a fixture by hand from two known team names.
func PairTeams(teamNames []string, home, away string) (models.FixtureRecord, error) {
	home, away = strings.TrimSpace(home), strings.TrimSpace(away)
	if home == away {
		return models.FixtureRecord{}, fmt.Errorf("a team cannot play itself: %q", home)
	}

	known := make(map[string]struct{}, len(teamNames))
	for _, name := range teamNames {
		known[name] = struct{}{}
	}
	for _, name := range []string{home, away} {
		if _, ok := known[name]; !ok {
			return models.FixtureRecord{}, fmt.Errorf("unknown team %q", name)
		}
	}

	return models.FixtureRecord{
		HomeTeam: home,
		AwayTeam: away,
		Date:     models.UnknownDate,
		Time:     models.UnknownTime,
		Venue:    models.UnknownVenue,
	}, nil
}

// Preview returns at most the first n records.
func Preview[T any](records []T, n int) []T {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
