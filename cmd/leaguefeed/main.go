package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/leaguefeed/internal/api/goalserve"
	"github.com/omarshaarawi/leaguefeed/internal/bot"
	"github.com/omarshaarawi/leaguefeed/internal/config"
	"github.com/omarshaarawi/leaguefeed/internal/export"
	"github.com/omarshaarawi/leaguefeed/internal/leagues"
	"github.com/omarshaarawi/leaguefeed/internal/models"
	"github.com/omarshaarawi/leaguefeed/internal/repository/memory"
	"github.com/omarshaarawi/leaguefeed/internal/scheduler"
	"github.com/omarshaarawi/leaguefeed/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	leagueFlags := []cli.Flag{
		&cli.StringFlag{Name: "country", Aliases: []string{"c"}, Required: true, Usage: "country name, e.g. England"},
		&cli.StringFlag{Name: "league", Aliases: []string{"l"}, Required: true, Usage: "league name, e.g. Premier League"},
		&cli.IntFlag{Name: "retries", Usage: "maximum attempts per request (overrides FEED_MAX_RETRIES)"},
		&cli.DurationFlag{Name: "timeout", Usage: "per attempt timeout (overrides FEED_TIMEOUT)"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write an export to this file, a spreadsheet when it ends in .xlsx, CSV otherwise"},
	}

	return &cli.App{
		Name:   "leaguefeed",
		Usage:  "fetch soccer squads and fixtures from the Goalserve feed",
		Writer: out,
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(); err != nil {
				slog.Debug("No .env file loaded", "error", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "leagues",
				Usage: "list supported countries and leagues",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "country", Aliases: []string{"c"}, Usage: "only list this country"},
				},
				Action: func(c *cli.Context) error {
					return listLeagues(c.App.Writer, c.String("country"))
				},
			},
			{
				Name:  "players",
				Usage: "fetch a league's squads",
				Flags: append(leagueFlags, &cli.StringSliceFlag{Name: "teams", Aliases: []string{"t"}, Usage: "only keep players of these teams"}),
				Action: func(c *cli.Context) error {
					env, err := setup(c)
					if err != nil {
						return err
					}

					set, err := env.svc.FetchPlayerData(env.ref, env.retries, env.timeout)
					if err != nil {
						return err
					}

					players, teams := set.Players, set.Teams
					if names := c.StringSlice("teams"); len(names) > 0 {
						players = service.FilterByTeams(players, names)
						teams = keepTeams(teams, names)
					}

					printPlayers(c.App.Writer, players)
					if path := c.String("out"); path != "" {
						return writeExport(path,
							func(w io.Writer) error { return export.WritePlayers(w, players) },
							export.Workbook{Players: players, Teams: teams})
					}
					return nil
				},
			},
			{
				Name:  "fixtures",
				Usage: "fetch a league's fixtures",
				Flags: leagueFlags,
				Action: func(c *cli.Context) error {
					env, err := setup(c)
					if err != nil {
						return err
					}

					set := env.svc.FetchFixtureData(env.ref, env.retries, env.timeout)
					printFixtures(c.App.Writer, set)
					if path := c.String("out"); path != "" {
						return writeExport(path,
							func(w io.Writer) error { return export.WriteFixtures(w, set.Fixtures) },
							export.Workbook{Fixtures: set.Fixtures})
					}
					return nil
				},
			},
			{
				Name:  "bot",
				Usage: "run the Telegram bot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Value: ":80", Usage: "health check listen address"},
				},
				Action: func(c *cli.Context) error {
					return runBot(c.String("listen"))
				},
			},
		},
	}
}

type environment struct {
	cfg     *config.Config
	svc     *service.LeagueService
	ref     models.LeagueRef
	retries int
	timeout time.Duration
}

func setup(c *cli.Context) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ref, err := leagues.Find(c.String("country"), c.String("league"))
	if err != nil {
		return nil, err
	}

	env := &environment{
		cfg:     cfg,
		svc:     newLeagueService(cfg),
		ref:     ref,
		retries: cfg.Feed.MaxRetries,
		timeout: cfg.Feed.Timeout,
	}
	if c.IsSet("retries") {
		env.retries = c.Int("retries")
	}
	if c.IsSet("timeout") {
		env.timeout = c.Duration("timeout")
	}
	return env, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	return cfg, nil
}

func newLeagueService(cfg *config.Config) *service.LeagueService {
	client := goalserve.NewClient(cfg.Feed)
	return service.NewLeagueService(goalserve.NewAPI(client))
}

func runBot(listen string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.TelegramBot.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required to run the bot")
	}

	leagueService := newLeagueService(cfg)
	repo := memory.NewRepository()
	handler := bot.NewHandler(leagueService, repo, cfg.Feed.MaxRetries, cfg.Feed.Timeout)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, handler)
	if err != nil {
		return err
	}

	if cfg.Schedule.Watching() {
		ref, err := leagues.Find(cfg.Schedule.WatchCountry, cfg.Schedule.WatchLeague)
		if err != nil {
			return fmt.Errorf("invalid watched league: %w", err)
		}

		sched, err := scheduler.NewScheduler(leagueService, repo, telegramBot.SendMessage, scheduler.Options{
			League:     ref,
			ChatID:     cfg.TelegramBot.ChatID,
			MaxRetries: cfg.Feed.MaxRetries,
			Timeout:    cfg.Feed.Timeout,
		})
		if err != nil {
			return err
		}
		if err := sched.Start(cfg.Schedule.RefreshCron); err != nil {
			return err
		}
		defer func() {
			err := sched.Stop()
			if err != nil {
				slog.Error("Error stopping scheduler", "error", err)
			}
		}()
	}

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(listen, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func listLeagues(w io.Writer, country string) error {
	countries := leagues.Countries()
	if country != "" {
		c, ok := leagues.FindCountry(country)
		if !ok {
			return fmt.Errorf("unknown country %q", country)
		}
		countries = []string{c}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNTRY\tLEAGUE\tID")
	for _, c := range countries {
		for _, l := range leagues.Leagues(c) {
			ref, _ := leagues.Lookup(c, l)
			fmt.Fprintf(tw, "%s\t%s\t%s\n", ref.Country, ref.League, ref.ID)
		}
	}
	return tw.Flush()
}

func printPlayers(w io.Writer, players []models.PlayerRecord) {
	preview := service.Preview(players, service.PreviewSize)
	columns := export.Columns(preview)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, p := range preview {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i], _ = p.Attributes.Get(column)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal players found: %d\n", len(players))
}

func printFixtures(w io.Writer, set models.FixtureSet) {
	if len(set.Fixtures) == 0 {
		fmt.Fprintln(w, "No fixtures available for this league.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HOME\tAWAY\tDATE\tTIME\tVENUE")
	for _, f := range set.Fixtures {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.HomeTeam, f.AwayTeam, f.Date, f.Time, f.Venue)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal fixtures found: %d\n", len(set.Fixtures))
}

// writeExport picks the format from the file extension.
func writeExport(path string, writeCSV func(io.Writer) error, wb export.Workbook) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeFile(path, func(w io.Writer) error {
			_, err := wb.WriteTo(w)
			return err
		})
	}
	return writeFile(path, writeCSV)
}

func keepTeams(teams []models.TeamRecord, names []string) []models.TeamRecord {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	var kept []models.TeamRecord
	for _, team := range teams {
		name, _ := team.Attributes.Get("name")
		if _, ok := wanted[name]; ok {
			kept = append(kept, team)
		}
	}
	return kept
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	slog.Info("Wrote export", "path", path)
	return nil
}
