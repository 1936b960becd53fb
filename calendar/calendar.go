// Package calendar derives the booking availability view: a Monday-first
// month grid with days marked occupied by accepted service requests.
// Occupancy is informational only — the admin workflow resolves conflicts.
package calendar

import (
	"time"

	"SunPortal/entity"
)

// Grid cells use 0 for the leading blanks before the first day of the
// month; consumers render the flat list row-major in chunks of 7.
const EmptyCell = 0

// SelectFunc receives the chosen day at midnight local time.
type SelectFunc func(time.Time)

// Calendar is the month view state for one user's (or, for admins, all)
// service requests.
type Calendar struct {
	year  int
	month time.Month

	events   []entity.CalendarEvent
	now      func() time.Time
	onSelect SelectFunc
}

// New creates a calendar positioned on the current month.
func New(onSelect SelectFunc) *Calendar {
	now := time.Now()
	return &Calendar{
		year:     now.Year(),
		month:    now.Month(),
		now:      time.Now,
		onSelect: onSelect,
	}
}

// Year returns the displayed year.
func (c *Calendar) Year() int { return c.year }

// Month returns the displayed month.
func (c *Calendar) Month() time.Month { return c.month }

// SetRequests recomputes the event overlay from a fresh request list.
// Only accepted requests project onto the calendar.
func (c *Calendar) SetRequests(requests []entity.ServiceRequest) {
	c.events = ProjectEvents(requests)
}

// Events returns the current projection.
func (c *Calendar) Events() []entity.CalendarEvent { return c.events }

// NextMonth advances the view one month.
func (c *Calendar) NextMonth() {
	c.year, c.month = nextMonth(c.year, c.month)
}

// PrevMonth moves the view one month back.
func (c *Calendar) PrevMonth() {
	first := time.Date(c.year, c.month, 1, 0, 0, 0, 0, time.Local)
	prev := first.AddDate(0, -1, 0)
	c.year, c.month = prev.Year(), prev.Month()
}

// Grid returns the flat cell list for the displayed month: leading
// EmptyCell padding so weeks start on Monday, then one cell per day.
// Trailing cells are not padded.
func (c *Calendar) Grid() []int {
	return MonthGrid(c.year, c.month)
}

// IsOccupied reports whether at least one projected event falls on the
// given day of the displayed month.
func (c *Calendar) IsOccupied(day int) bool {
	date := time.Date(c.year, c.month, day, 0, 0, 0, 0, time.Local)
	for i := range c.events {
		if c.events[i].SameDay(date) {
			return true
		}
	}
	return false
}

// IsPast reports whether the given day of the displayed month lies
// strictly before today, midnight-truncated.
func (c *Calendar) IsPast(day int) bool {
	date := time.Date(c.year, c.month, day, 0, 0, 0, 0, time.Local)
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return date.Before(today)
}

// Select picks a day. Past days are rejected and the callback is not
// invoked; occupied future days remain selectable, the conflict decision
// belongs to the admin accept/reject/reschedule flow.
func (c *Calendar) Select(day int) bool {
	if day < 1 || day > daysIn(c.year, c.month) {
		return false
	}
	if c.IsPast(day) {
		return false
	}
	if c.onSelect != nil {
		c.onSelect(time.Date(c.year, c.month, day, 0, 0, 0, 0, time.Local))
	}
	return true
}

// MonthGrid computes the flat cell list for any year/month. Weeks start
// Monday: the first weekday is shifted by (weekday+6) mod 7 leading blanks.
func MonthGrid(year int, month time.Month) []int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	leading := (int(first.Weekday()) + 6) % 7
	days := daysIn(year, month)

	grid := make([]int, 0, leading+days)
	for i := 0; i < leading; i++ {
		grid = append(grid, EmptyCell)
	}
	for day := 1; day <= days; day++ {
		grid = append(grid, day)
	}
	return grid
}

// ProjectEvents builds calendar events from accepted service requests,
// merging the preferred date and time into one start timestamp. Requests
// in any other status never mark a day occupied.
func ProjectEvents(requests []entity.ServiceRequest) []entity.CalendarEvent {
	var events []entity.CalendarEvent
	for i := range requests {
		r := &requests[i]
		if r.Status != entity.StatusAccepted {
			continue
		}
		events = append(events, entity.CalendarEvent{
			ID:    r.ID,
			Start: mergeDateTime(r.PreferredDate, r.PreferredTime),
			Time:  r.PreferredTime,
			Type:  r.Type,
		})
	}
	return events
}

// mergeDateTime combines a date with an "HH:MM" time-of-day string.
// Unparseable times keep the midnight date; occupancy ignores time of day.
func mergeDateTime(date time.Time, timeOfDay string) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return day
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	next := first.AddDate(0, 1, 0)
	return next.Year(), next.Month()
}
