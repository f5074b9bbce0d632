package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/omarshaarawi/leaguefeed/internal/models"
)

// Columns returns the union of attribute keys across players, in the order
// they were first seen.
func Columns(players []models.PlayerRecord) []string {
	rows := make([]models.Attributes, len(players))
	for i, p := range players {
		rows[i] = p.Attributes
	}
	return columns(rows)
}

func columns(rows []models.Attributes) []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, attrs := range rows {
		for _, key := range attrs.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			cols = append(cols, key)
		}
	}
	return cols
}

// WritePlayers writes one row per player. Keys a player lacks are left empty.
func WritePlayers(w io.Writer, players []models.PlayerRecord) error {
	columns := Columns(players)
	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(w))

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range players {
		row := make([]string, len(columns))
		for j, column := range columns {
			row[j], _ = p.Attributes.Get(column)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing player row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func WriteFixtures(w io.Writer, fixtures []models.FixtureRecord) error {
	if fixtures == nil {
		fixtures = []models.FixtureRecord{}
	}
	if err := gocsv.Marshal(fixtures, w); err != nil {
		return fmt.Errorf("writing fixtures: %w", err)
	}
	return nil
}

// FileName builds the download name, e.g. "England_Premier League_players.xlsx".
func FileName(ref models.LeagueRef, kind, ext string) string {
	name := fmt.Sprintf("%s_%s_%s.%s", ref.Country, ref.League, kind, ext)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '-'
		}
		return r
	}, name)
}
