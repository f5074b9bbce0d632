package feed

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/omarshaarawi/leaguefeed/internal/models"
)

var errUnresolvedTeams = errors.New("home or away team name not found")

var (
	homeTags = []string{"home", "localteam"}
	awayTags = []string{"away", "visitorteam"}
)

// NormalizeFixtures extracts every match it can resolve. It never fails: an
// unreadable or unrecognised document yields an empty set.
func NormalizeFixtures(doc []byte) models.FixtureSet {
	root, err := Parse(doc)
	if err != nil {
		slog.Warn("Could not parse fixture document", "error", err)
		return models.FixtureSet{}
	}
	return normalizeFixtures(root, FixtureChain)
}

func normalizeFixtures(root *Node, matches Chain) models.FixtureSet {
	strategy, matchNodes := matches.Resolve(root)
	slog.Debug("Resolved match elements", "selector", strategy, "count", len(matchNodes))

	var set models.FixtureSet
	for _, matchNode := range matchNodes {
		fixture, err := extractFixture(matchNode)
		if err != nil {
			set.Skipped++
			slog.Debug("Skipping match", "error", err)
			continue
		}
		set.Fixtures = append(set.Fixtures, fixture)
	}
	return set
}

func extractFixture(match *Node) (models.FixtureRecord, error) {
	home, away, ok := teamNames(match)
	if !ok {
		return models.FixtureRecord{}, errUnresolvedTeams
	}

	return models.FixtureRecord{
		HomeTeam: home,
		AwayTeam: away,
		Date:     attrOr(match, "date", models.UnknownDate),
		Time:     attrOr(match, "time", models.UnknownTime),
		Venue:    venue(match),
	}, nil
}

func teamNames(match *Node) (string, string, bool) {
	home, homeOK := nonEmptyAttr(match, "home_name")
	away, awayOK := nonEmptyAttr(match, "away_name")
	if homeOK && awayOK {
		return home, away, true
	}

	home, homeOK = sideName(match, homeTags)
	away, awayOK = sideName(match, awayTags)
	return home, away, homeOK && awayOK
}

// sideName reads the first matching side element's name attribute, falling
// back to the text of a nested name element.
func sideName(match *Node, tags []string) (string, bool) {
	for _, tag := range tags {
		side := match.Find(tag)
		if side == nil {
			continue
		}
		if name, ok := nonEmptyAttr(side, "name"); ok {
			return name, true
		}
		if nameNode := side.Find("name"); nameNode != nil && nameNode.Text() != "" {
			return nameNode.Text(), true
		}
	}
	return "", false
}

func venue(match *Node) string {
	if v, ok := nonEmptyAttr(match, "venue"); ok {
		return v
	}
	venueNode := match.Find("venue")
	if venueNode == nil {
		return models.UnknownVenue
	}
	if text := venueNode.Text(); text != "" {
		return text
	}
	if name, ok := nonEmptyAttr(venueNode, "name"); ok {
		return name
	}
	return models.UnknownVenue
}

func attrOr(n *Node, name, fallback string) string {
	if v, ok := nonEmptyAttr(n, name); ok {
		return v
	}
	return fallback
}

func nonEmptyAttr(n *Node, name string) (string, bool) {
	v, ok := n.Attr(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
