package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/playoffpurge/playoffpurge/internal/bot"
	"github.com/playoffpurge/playoffpurge/internal/service"
)

type Scheduler struct {
	s           gocron.Scheduler
	svc         *service.Service
	sendMessage func(string) error
	refreshSpec string
}

// New builds the scheduler. refreshSpec is a standard five-field cron
// expression and is rejected up front so a bad config fails at startup
// instead of silently never firing. sendMessage may be nil when no chat
// is configured; push jobs are skipped then.
func New(svc *service.Service, refreshSpec string, sendMessage func(string) error) (*Scheduler, error) {
	if _, err := cron.ParseStandard(refreshSpec); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", refreshSpec, err)
	}

	location, err := time.LoadLocation("America/Chicago")
	if err != nil {
		slog.Error("Failed to load location", "error", err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		svc:         svc,
		sendMessage: sendMessage,
		refreshSpec: refreshSpec,
	}, nil
}

func (s *Scheduler) Start() error {
	// Periodic cache refresh so the dashboard tracks sheet edits made
	// outside the app.
	_, err := s.s.NewJob(
		gocron.CronJob(s.refreshSpec, false),
		gocron.NewTask(s.refreshCache),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	if s.sendMessage != nil {
		// Standings push - Tuesday 9:00, once Monday night scores settle.
		_, err = s.s.NewJob(
			gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
			gocron.NewTask(s.sendStandings),
		)
		if err != nil {
			return fmt.Errorf("failed to create standings job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshCache() {
	s.svc.RefreshCache()
	s.svc.GetAllDraftData(context.Background(), false, false)
	slog.Info("Scheduled cache refresh complete")
}

func (s *Scheduler) sendStandings() {
	teams := s.svc.GetTeamsWithRosters(context.Background(), false)
	if len(teams) == 0 {
		slog.Error("Skipping standings push, no teams loaded")
		return
	}
	if err := s.sendMessage(bot.FormatStandings(teams)); err != nil {
		slog.Error("Failed to push standings", "error", err)
	}
}
