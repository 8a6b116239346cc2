// Package event computes the live/upcoming state of the tracked conference
// from wall-clock time. The window is evaluated in one reference zone; the
// second zone exists only for display.
package event

import (
	"fmt"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
)

// Clock evaluates the event window. Status is a pure function of the injected
// instant, so tests can simulate any moment of the conference week.
type Clock struct {
	zone    *time.Location
	display *time.Location

	startDate time.Time
	endDate   time.Time

	startMinute  int // minutes after midnight, reference zone
	endMinute    int
	weekdaysOnly bool
}

func NewClock(cfg config.EventConfig) (*Clock, error) {
	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load event timezone: %w", err)
	}
	display, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("load display timezone: %w", err)
	}

	startDate, err := time.ParseInLocation("2006-01-02", cfg.StartDate, zone)
	if err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	endDate, err := time.ParseInLocation("2006-01-02", cfg.EndDate, zone)
	if err != nil {
		return nil, fmt.Errorf("parse end_date: %w", err)
	}

	startMinute, err := minuteOfDay(cfg.DailyStart)
	if err != nil {
		return nil, fmt.Errorf("parse daily_start: %w", err)
	}
	endMinute, err := minuteOfDay(cfg.DailyEnd)
	if err != nil {
		return nil, fmt.Errorf("parse daily_end: %w", err)
	}
	if endMinute <= startMinute {
		return nil, fmt.Errorf("daily_end must be after daily_start")
	}

	return &Clock{
		zone:         zone,
		display:      display,
		startDate:    startDate,
		endDate:      endDate,
		startMinute:  startMinute,
		endMinute:    endMinute,
		weekdaysOnly: cfg.WeekdaysOnly,
	}, nil
}

// Status reports the event state at the given instant.
func (c *Clock) Status(now time.Time) core.LiveStatus {
	local := now.In(c.zone)

	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.zone)
	inDates := !day.Before(c.startDate) && !day.After(c.endDate)
	weekdayOK := true
	if c.weekdaysOnly {
		wd := local.Weekday()
		weekdayOK = wd >= time.Monday && wd <= time.Friday
	}
	window := inDates && weekdayOK

	minute := local.Hour()*60 + local.Minute()
	live := window && minute >= c.startMinute && minute < c.endMinute

	status := core.LiveStatus{
		IsLive:        live,
		IsEventWindow: window,
		LocalTime:     local.Format("15:04"),
		PacificTime:   now.In(c.display).Format("3:04 PM"),
	}
	if window && minute < c.startMinute {
		status.MinutesUntilStart = c.startMinute - minute
	}
	if live {
		status.MinutesUntilEnd = c.endMinute - minute
	}
	return status
}

// IsLive is a convenience wrapper for callers that only branch on liveness.
func (c *Clock) IsLive(now time.Time) bool {
	return c.Status(now).IsLive
}

func minuteOfDay(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
