package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/leaguefeed/internal/bot"
	"github.com/omarshaarawi/leaguefeed/internal/models"
	"github.com/omarshaarawi/leaguefeed/internal/repository/memory"
	"github.com/omarshaarawi/leaguefeed/internal/service"
)

type Scheduler struct {
	s             gocron.Scheduler
	leagueService bot.LeagueFetcher
	repo          *memory.Repository
	sendMessage   func(string) error

	league     models.LeagueRef
	chatID     int64
	maxRetries int
	timeout    time.Duration
}

type Options struct {
	League     models.LeagueRef
	ChatID     int64
	MaxRetries int
	Timeout    time.Duration
}

func NewScheduler(leagueService bot.LeagueFetcher, repo *memory.Repository, sendMessage func(string) error, opts Options) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		leagueService: leagueService,
		repo:          repo,
		sendMessage:   sendMessage,
		league:        opts.League,
		chatID:        opts.ChatID,
		maxRetries:    opts.MaxRetries,
		timeout:       opts.Timeout,
	}, nil
}

// Start schedules the league refresh with a standard five-field cron
// expression.
func (s *Scheduler) Start(crontab string) error {
	_, err := s.s.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(s.refresh),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	s.s.Start()
	slog.Info("Scheduled league refresh", "country", s.league.Country, "league", s.league.League, "cron", crontab)
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refresh() {
	session, err := s.leagueService.FetchLeague(s.league, s.maxRetries, s.timeout)
	if err != nil {
		slog.Error("Failed to refresh league", "country", s.league.Country, "league", s.league.League, "error", err)
		return
	}

	s.repo.SaveSession(s.chatID, session)
	if err := s.sendMessage(service.FormatSummary(session)); err != nil {
		slog.Error("Failed to send refresh summary", "error", err)
	}
}
