package export

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/omarshaarawi/leaguefeed/internal/models"
	"github.com/xuri/excelize/v2"
)

func team(attrs ...string) models.TeamRecord {
	return models.TeamRecord{Attributes: player(attrs...).Attributes}
}

func TestWorkbookWritesAllSheets(t *testing.T) {
	wb := Workbook{
		Players: []models.PlayerRecord{
			player(models.TeamNameKey, "Arsenal", "name", "Saka", "number", "7"),
			player(models.TeamNameKey, "Chelsea", "name", "Palmer", "injured", "yes"),
		},
		Teams: []models.TeamRecord{
			team("name", "Arsenal", "id", "9002"),
			team("name", "Chelsea", "id", "9092", "coach", "Maresca"),
		},
		Fixtures: []models.FixtureRecord{
			{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Date: "17.08.2025", Time: "15:00", Venue: "Emirates, London"},
		},
	}

	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{PlayersSheet, TeamsSheet, FixturesSheet}) {
		t.Fatalf("unexpected sheets %v", got)
	}

	// GetRows drops trailing empty cells.
	tests := []struct {
		sheet string
		want  [][]string
	}{
		{
			sheet: PlayersSheet,
			want: [][]string{
				{models.TeamNameKey, "name", "number", "injured"},
				{"Arsenal", "Saka", "7"},
				{"Chelsea", "Palmer", "", "yes"},
			},
		},
		{
			sheet: TeamsSheet,
			want: [][]string{
				{"name", "id", "coach"},
				{"Arsenal", "9002"},
				{"Chelsea", "9092", "Maresca"},
			},
		},
		{
			sheet: FixturesSheet,
			want: [][]string{
				{"Home Team", "Away Team", "Date", "Time", "Venue"},
				{"Arsenal", "Chelsea", "17.08.2025", "15:00", "Emirates, London"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			rows, err := f.GetRows(tt.sheet)
			if err != nil {
				t.Fatalf("reading %s: %v", tt.sheet, err)
			}
			if !reflect.DeepEqual(rows, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, rows)
			}
		})
	}
}

func TestWorkbookSkipsEmptySections(t *testing.T) {
	wb := Workbook{
		Players: []models.PlayerRecord{player(models.TeamNameKey, "Arsenal", "name", "Saka")},
	}

	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{PlayersSheet}) {
		t.Fatalf("expected only the players sheet, got %v", got)
	}
}

func TestWorkbookRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if _, err := (Workbook{}).WriteTo(&buf); err == nil {
		t.Fatal("expected error for an empty workbook")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}
}
