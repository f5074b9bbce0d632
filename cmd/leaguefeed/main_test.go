package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/omarshaarawi/leaguefeed/internal/export"
	"github.com/xuri/excelize/v2"
)

func TestLeaguesCommand(t *testing.T) {
	var out bytes.Buffer
	if err := newApp(&out).Run([]string{"leaguefeed", "leagues", "--country", "italy"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Serie A") || !strings.Contains(got, "1269") {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if strings.Contains(got, "Bundesliga") {
		t.Fatalf("expected only Italy, got:\n%s", got)
	}
}

func TestLeaguesCommandUnknownCountry(t *testing.T) {
	var out bytes.Buffer
	if err := newApp(&out).Run([]string{"leaguefeed", "leagues", "--country", "zzzz"}); err == nil {
		t.Fatal("expected error for unknown country")
	}
}

func feedServer(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/key/soccerleague/1204"):
			_, _ = w.Write([]byte(`<league>
  <team name="Arsenal"><player name="Saka" number="7"/></team>
  <team name="Chelsea"><player name="Palmer" number="20"/></team>
</league>`))
		case strings.HasSuffix(r.URL.Path, "/key/soccerfixtures/leagueid/1204"):
			_, _ = w.Write([]byte(`<results><match home_name="Arsenal" away_name="Chelsea" date="17.08.2025" time="15:00"/></results>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("FEED_BASE_URL", srv.URL)
	t.Setenv("FEED_API_KEY", "key")
}

func TestPlayersCommandWritesExport(t *testing.T) {
	feedServer(t)
	path := filepath.Join(t.TempDir(), "players.csv")

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"leaguefeed", "players",
		"--country", "England", "--league", "Premier League",
		"--teams", "Chelsea", "--retries", "1", "--out", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Total players found: 1") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if string(data) != "Team-name,name,number\nChelsea,Palmer,20\n" {
		t.Fatalf("unexpected export %q", data)
	}
}

func TestPlayersCommandWritesWorkbook(t *testing.T) {
	feedServer(t)
	path := filepath.Join(t.TempDir(), "league.xlsx")

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"leaguefeed", "players",
		"-c", "England", "-l", "Premier League",
		"--teams", "Chelsea", "--retries", "1", "--out", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()

	players, err := f.GetRows(export.PlayersSheet)
	if err != nil {
		t.Fatalf("reading players: %v", err)
	}
	want := [][]string{{"Team-name", "name", "number"}, {"Chelsea", "Palmer", "20"}}
	if !reflect.DeepEqual(players, want) {
		t.Fatalf("expected %v, got %v", want, players)
	}
	teams, err := f.GetRows(export.TeamsSheet)
	if err != nil {
		t.Fatalf("reading teams: %v", err)
	}
	if !reflect.DeepEqual(teams, [][]string{{"name"}, {"Chelsea"}}) {
		t.Fatalf("expected only the filtered team, got %v", teams)
	}
}

func TestFixturesCommand(t *testing.T) {
	feedServer(t)

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"leaguefeed", "fixtures", "-c", "england", "-l", "premier league", "--retries", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Arsenal") || !strings.Contains(got, "Unknown venue") || !strings.Contains(got, "Total fixtures found: 1") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestPlayersCommandRequiresLeague(t *testing.T) {
	feedServer(t)

	var out bytes.Buffer
	if err := newApp(&out).Run([]string{"leaguefeed", "players", "--country", "England"}); err == nil {
		t.Fatal("expected missing league flag to fail")
	}
}
