// Package scheduler runs the production cycle on the configured send days.
package scheduler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
)

// Handler is the callback invoked when a send day fires. day carries the
// weekday name that triggered the run.
type Handler func(day string)

// Scheduler registers one cron entry per configured send day and fires the
// cycle handler through it.
type Scheduler struct {
	cfg     config.ScheduleConfig
	handler Handler
	logger  *slog.Logger
	cron    *cron.Cron
}

// New creates a scheduler over the schedule configuration. The handler runs
// once per send day at the cycle hour.
func New(cfg config.ScheduleConfig, handler Handler, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With("component", "scheduler"),
		cron:    cron.New(),
	}
}

// cycleHour is when the cycle fires on a send day, in the process's local
// timezone. Early enough to leave the day for human review.
const cycleHour = 8

var weekdays = map[string]string{
	"sunday":    "SUN",
	"monday":    "MON",
	"tuesday":   "TUE",
	"wednesday": "WED",
	"thursday":  "THU",
	"friday":    "FRI",
	"saturday":  "SAT",
}

// specForDay builds the cron expression for one send day.
func specForDay(day string) (string, error) {
	abbrev, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return "", fmt.Errorf("unknown send day %q", day)
	}
	return fmt.Sprintf("0 %d * * %s", cycleHour, abbrev), nil
}

// Start registers the send-day entries and starts the cron ticker. Days that
// fail to parse are skipped with a log line rather than aborting the rest.
func (s *Scheduler) Start() error {
	registered := 0
	for _, day := range s.cfg.SendDays {
		spec, err := specForDay(day)
		if err != nil {
			s.logger.Error("skipping send day", "day", day, "error", err)
			continue
		}
		day := day
		if _, err := s.cron.AddFunc(spec, func() {
			s.logger.Info("send day fired", "day", day)
			s.handler(day)
		}); err != nil {
			s.logger.Error("registering send day", "day", day, "error", err)
			continue
		}
		s.logger.Info("registered send day", "day", day, "spec", spec)
		registered++
	}
	if registered == 0 {
		return fmt.Errorf("no valid send days in schedule config")
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron ticker. Running handlers finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
