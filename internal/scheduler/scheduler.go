package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/clock"
	"github.com/example/wordcoach/pkg/models"
)

// Default reminder window
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Coach is the part of the drill service the scheduler drives
type Coach interface {
	ReconcileDay(ctx context.Context) (models.PenaltyReport, error)
	StatsSnapshot() models.Stats
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(ctx context.Context, text string) error
}

// Config holds the reminder window and the zone jobs run in
type Config struct {
	ReminderStartHour int
	ReminderEndHour   int
	Location          *time.Location
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		ReminderStartHour: DefaultReminderStartHour,
		ReminderEndHour:   DefaultReminderEndHour,
		Location:          time.Local,
	}
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	coach     Coach
	notifier  Notifier
	clock     clock.Clock
	cfg       Config
	logger    *zap.Logger
}

// New creates a new scheduler instance
func New(coach Coach, notifier Notifier, clk clock.Clock, cfg Config, logger *zap.Logger) *Scheduler {
	// jobs follow the zone of the system clock, which decides the date
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(cfg.Location),
		coach:     coach,
		notifier:  notifier,
		clock:     clk,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the midnight rollover and hourly reminder jobs and runs
// them in the background until Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.scheduler.Every(1).Day().At("00:00").Do(s.runRollover, ctx); err != nil {
		return errors.Wrap(err, "failed to schedule rollover")
	}
	if _, err := s.scheduler.Every(1).Hour().Do(s.runReminders, ctx); err != nil {
		return errors.Wrap(err, "failed to schedule reminders")
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runRollover(ctx context.Context) {
	report, err := s.coach.ReconcileDay(ctx)
	if err != nil {
		s.logger.Error("scheduled rollover failed", zap.Error(err))
		return
	}
	if report.RolledOver {
		s.logger.Info("scheduled rollover done", zap.Int("penalty", report.Total()))
	}
}

func (s *Scheduler) runReminders(ctx context.Context) {
	if _, err := s.CheckReminders(ctx); err != nil {
		s.logger.Error("sending reminder failed", zap.Error(err))
	}
}

// CheckReminders sends a reminder when the current hour is inside the window
// and today's goals are still open. It reports whether one was sent.
func (s *Scheduler) CheckReminders(ctx context.Context) (bool, error) {
	hour := s.clock.Now().In(s.cfg.Location).Hour()
	if hour < s.cfg.ReminderStartHour || hour > s.cfg.ReminderEndHour {
		s.logger.Debug("outside reminder hours, skipping",
			zap.Int("hour", hour),
			zap.Int("start", s.cfg.ReminderStartHour),
			zap.Int("end", s.cfg.ReminderEndHour))
		return false, nil
	}

	text, ok := ReminderText(s.coach.StatsSnapshot())
	if !ok {
		return false, nil
	}
	if err := s.notifier.SendReminder(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

// ReminderText describes the goals still open today; ok is false when all
// goals are met
func ReminderText(st models.Stats) (string, bool) {
	var lines []string
	if st.Today.WordsAdded < st.WordTarget {
		lines = append(lines, fmt.Sprintf("- add %d more words (%d/%d)",
			st.WordTarget-st.Today.WordsAdded, st.Today.WordsAdded, st.WordTarget))
	}
	if !st.GateOpen {
		answered := map[models.Mode]int{
			models.ModeDirect:  st.DirectAnswered,
			models.ModeReverse: st.ReverseAnswered,
			models.ModeReview:  st.ReviewAnswered,
		}
		for _, m := range models.PrimaryModes {
			if n := answered[m]; n < st.AnswerTarget {
				lines = append(lines, fmt.Sprintf("- answer %d more %s questions (%d/%d)",
					st.AnswerTarget-n, m, n, st.AnswerTarget))
			}
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return "⏰ Daily goals are still open:\n" + strings.Join(lines, "\n"), true
}
