// Package scheduler runs unattended download passes on a daily wall-clock
// cadence. A pass is the same work a manual sweep does; the scheduler adds
// only the timing and never rotates artwork that already exists.
package scheduler

import (
	"fmt"
	"time"

	"github.com/artkeep/artkeep/internal/config"
)

var dayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Schedule is the parsed trigger: a daily wall-clock time restricted to a
// set of weekdays. An empty day set means every day.
type Schedule struct {
	Enabled bool
	Hour    int
	Minute  int
	Days    map[time.Weekday]bool
}

// Parse converts the config schedule into its runtime form.
func Parse(cfg config.ScheduleConfig) (Schedule, error) {
	at, err := time.Parse("15:04", cfg.Time)
	if err != nil {
		return Schedule{}, fmt.Errorf("parse schedule time %q: %w", cfg.Time, err)
	}

	s := Schedule{
		Enabled: cfg.Enabled,
		Hour:    at.Hour(),
		Minute:  at.Minute(),
	}
	if len(cfg.Days) > 0 {
		s.Days = make(map[time.Weekday]bool, len(cfg.Days))
		for _, name := range cfg.Days {
			day, ok := dayNames[name]
			if !ok {
				return Schedule{}, fmt.Errorf("unknown schedule day %q", name)
			}
			s.Days[day] = true
		}
	}
	return s, nil
}

// Due reports whether a pass should fire at now, given when the last pass
// ran. The trigger fires once per eligible day: when now has reached the
// trigger time and the last pass predates today's trigger.
func (s Schedule) Due(now, last time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.Days != nil && !s.Days[now.Weekday()] {
		return false
	}
	trigger := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
	if now.Before(trigger) {
		return false
	}
	return last.Before(trigger)
}
