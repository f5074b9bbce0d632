package bot

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/leaguefeed/internal/api/goalserve"
	"github.com/omarshaarawi/leaguefeed/internal/export"
	"github.com/omarshaarawi/leaguefeed/internal/feed"
	"github.com/omarshaarawi/leaguefeed/internal/leagues"
	"github.com/omarshaarawi/leaguefeed/internal/models"
	"github.com/omarshaarawi/leaguefeed/internal/repository/memory"
	"github.com/omarshaarawi/leaguefeed/internal/service"
)

const helpText = "Available commands:\n" +
	"/leagues [country] - List countries and leagues\n" +
	"/players <country> | <league> - Fetch squads and fixtures\n" +
	"/teams - List teams of the last fetch\n" +
	"/filter <team>, <team> - Players of the given teams\n" +
	"/fixtures - Show fixtures\n" +
	"/pair <home> | <away> - Add a match by hand\n" +
	"/export - Download players, teams and fixtures as a spreadsheet"

// LeagueFetcher is the part of the league service the bot needs.
type LeagueFetcher interface {
	FetchLeague(ref models.LeagueRef, maxRetries int, timeout time.Duration) (models.Session, error)
}

type Handler struct {
	leagueService LeagueFetcher
	repo          *memory.Repository
	maxRetries    int
	timeout       time.Duration
}

func NewHandler(leagueService LeagueFetcher, repo *memory.Repository, maxRetries int, timeout time.Duration) *Handler {
	return &Handler{
		leagueService: leagueService,
		repo:          repo,
		maxRetries:    maxRetries,
		timeout:       timeout,
	}
}

func (h *Handler) HandleCommand(update tgbotapi.Update) tgbotapi.Chattable {
	chatID := update.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to LeagueFeed! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "leagues":
		h.handleLeagues(&msg, args)
	case "players":
		h.handlePlayers(&msg, chatID, args)
	case "teams":
		h.handleTeams(&msg, chatID)
	case "filter":
		h.handleFilter(&msg, chatID, args)
	case "fixtures":
		h.handleFixtures(&msg, chatID)
	case "pair":
		h.handlePair(&msg, chatID, args)
	case "export":
		if doc, ok := h.exportLeague(&msg, chatID); ok {
			return doc
		}
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleLeagues(msg *tgbotapi.MessageConfig, args string) {
	countries := leagues.Countries()
	if args != "" {
		country, ok := leagues.FindCountry(args)
		if !ok {
			msg.Text = fmt.Sprintf("Unknown country %q. Use /leagues to list all.", args)
			return
		}
		countries = []string{country}
	}
	msg.Text = service.FormatLeagues(countries, leagues.Leagues)
}

func (h *Handler) handlePlayers(msg *tgbotapi.MessageConfig, chatID int64, args string) {
	country, league, ok := splitPair(args)
	if !ok {
		msg.Text = "Please provide a country and league. Usage: /players <country> | <league>"
		return
	}

	ref, err := leagues.Find(country, league)
	if err != nil {
		msg.Text = fmt.Sprintf("Error finding league: %v", err)
		return
	}

	session, err := h.leagueService.FetchLeague(ref, h.maxRetries, h.timeout)
	if err != nil {
		slog.Error("Error fetching player data", "country", ref.Country, "league", ref.League, "error", err)
		msg.Text = "Error fetching player data: " + fetchErrorText(err)
		return
	}

	h.repo.SaveSession(chatID, session)
	msg.Text = service.FormatSummary(session) + "\n" + service.FormatPlayers(session.Players)
}

func (h *Handler) handleTeams(msg *tgbotapi.MessageConfig, chatID int64) {
	session, ok := h.session(msg, chatID)
	if !ok {
		return
	}
	msg.Text = service.FormatTeams(session.TeamNames)
}

func (h *Handler) handleFilter(msg *tgbotapi.MessageConfig, chatID int64, args string) {
	if args == "" {
		msg.Text = "Please provide team names. Usage: /filter <team>, <team>"
		return
	}
	session, ok := h.session(msg, chatID)
	if !ok {
		return
	}

	var teams []string
	for _, t := range strings.Split(args, ",") {
		if t = strings.TrimSpace(t); t != "" {
			teams = append(teams, t)
		}
	}
	msg.Text = service.FormatPlayers(service.FilterByTeams(session.Players, teams))
}

func (h *Handler) handleFixtures(msg *tgbotapi.MessageConfig, chatID int64) {
	session, ok := h.session(msg, chatID)
	if !ok {
		return
	}
	if len(session.Fixtures) == 0 {
		msg.Text = service.FormatFixtures(nil) + "\n\n" + service.FormatTeams(session.TeamNames)
		return
	}
	msg.Text = service.FormatFixtures(session.Fixtures)
}

func (h *Handler) handlePair(msg *tgbotapi.MessageConfig, chatID int64, args string) {
	home, away, ok := splitPair(args)
	if !ok {
		msg.Text = "Please provide two teams. Usage: /pair <home> | <away>"
		return
	}
	session, ok := h.session(msg, chatID)
	if !ok {
		return
	}

	fixture, err := service.PairTeams(session.TeamNames, home, away)
	if err != nil {
		msg.Text = fmt.Sprintf("Error pairing teams: %v", err)
		return
	}
	h.repo.AddFixture(chatID, fixture)
	msg.Text = service.FormatFixtures([]models.FixtureRecord{fixture})
}

func (h *Handler) exportLeague(msg *tgbotapi.MessageConfig, chatID int64) (tgbotapi.Chattable, bool) {
	session, ok := h.session(msg, chatID)
	if !ok {
		return nil, false
	}

	wb := export.Workbook{Players: session.Players, Teams: session.Teams, Fixtures: session.Fixtures}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		slog.Error("Error exporting league", "chat_id", chatID, "error", err)
		msg.Text = fmt.Sprintf("Error exporting league: %v", err)
		return nil, false
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  export.FileName(session.League, "league", "xlsx"),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("%d players, %d teams, %d fixtures", len(session.Players), len(session.Teams), len(session.Fixtures))
	return doc, true
}

// fetchErrorText describes a fetch failure without the request URL, which
// carries the feed API key.
func fetchErrorText(err error) string {
	switch {
	case errors.Is(err, feed.ErrNoTeamsFound):
		return "no team data found for this league, try another one."
	case errors.Is(err, feed.ErrNoPlayersFound):
		return "no player data found for this league, try another one."
	}

	var reqErr *goalserve.RequestError
	if !errors.As(err, &reqErr) {
		return "unexpected error, please try again later."
	}

	var attempts string
	var fetchErr *goalserve.FetchError
	if errors.As(err, &fetchErr) {
		attempts = fmt.Sprintf(" after %d attempts", fetchErr.Attempts)
	}

	switch reqErr.Kind {
	case goalserve.KindTimeout:
		return "the feed did not respond in time" + attempts + "."
	case goalserve.KindHTTP:
		return fmt.Sprintf("the feed answered with status %d%s.", reqErr.StatusCode, attempts)
	default:
		return "could not reach the feed" + attempts + "."
	}
}

func (h *Handler) session(msg *tgbotapi.MessageConfig, chatID int64) (models.Session, bool) {
	session, ok := h.repo.GetSession(chatID)
	if !ok {
		msg.Text = "No league data yet. Use /players <country> | <league> first."
	}
	return session, ok
}

func splitPair(args string) (string, string, bool) {
	left, right, found := strings.Cut(args, "|")
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	return left, right, found && left != "" && right != ""
}
