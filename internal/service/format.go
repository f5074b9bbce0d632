package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/leaguefeed/internal/models"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func FormatLeagues(countries []string, leaguesOf func(string) []string) string {
	var sb strings.Builder
	sb.WriteString("🌍 *Available Leagues*\n\n")
	for _, country := range countries {
		sb.WriteString(fmt.Sprintf("*%s*: %s\n", escape(country), escape(strings.Join(leaguesOf(country), ", "))))
	}
	return sb.String()
}

func FormatSummary(session models.Session) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ *%s - %s*\n\n", escape(session.League.Country), escape(session.League.League)))
	sb.WriteString(fmt.Sprintf("Teams: %d\n", len(session.TeamNames)))
	sb.WriteString(fmt.Sprintf("Players: %d\n", len(session.Players)))
	if len(session.Fixtures) == 0 {
		sb.WriteString("Fixtures: unavailable, use /pair to set up matches\n")
	} else {
		sb.WriteString(fmt.Sprintf("Fixtures: %d\n", len(session.Fixtures)))
	}
	return sb.String()
}

func FormatTeams(teamNames []string) string {
	var sb strings.Builder
	sb.WriteString("🛡 *Teams*\n\n")
	for i, name := range teamNames {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(name)))
	}
	return sb.String()
}

// FormatPlayers lists the first PreviewSize players and the total count.
func FormatPlayers(players []models.PlayerRecord) string {
	var sb strings.Builder
	sb.WriteString("👥 *Players*\n\n")
	for _, p := range Preview(players, PreviewSize) {
		name, ok := p.Attributes.Get("name")
		if !ok {
			name = models.UnknownTeam
		}
		line := escape(name)
		if pos, ok := p.Attributes.Get("position"); ok && pos != "" {
			line += fmt.Sprintf(" (%s)", escape(pos))
		}
		sb.WriteString(fmt.Sprintf("%s - %s\n", line, escape(p.TeamName())))
	}
	sb.WriteString(fmt.Sprintf("\nTotal players found: %d", len(players)))
	return sb.String()
}

// FormatFixtures lists the first FixturePreviewSize fixtures. A full season
// does not fit in one Telegram message, so the rest is left to /export.
func FormatFixtures(fixtures []models.FixtureRecord) string {
	if len(fixtures) == 0 {
		return "No fixtures available. Use /pair <home> | <away> to set up a match."
	}

	var sb strings.Builder
	sb.WriteString("📅 *Fixtures*\n\n")
	for _, f := range Preview(fixtures, FixturePreviewSize) {
		sb.WriteString(fmt.Sprintf("*%s* vs *%s*\n", escape(f.HomeTeam), escape(f.AwayTeam)))
		sb.WriteString(fmt.Sprintf("%s %s, %s\n\n", escape(f.Date), escape(f.Time), escape(f.Venue)))
	}
	if len(fixtures) > FixturePreviewSize {
		sb.WriteString(fmt.Sprintf("Showing %d of %d fixtures. Use /export for the full list.\n", FixturePreviewSize, len(fixtures)))
	} else {
		sb.WriteString(fmt.Sprintf("Total fixtures: %d\n", len(fixtures)))
	}
	return sb.String()
}
