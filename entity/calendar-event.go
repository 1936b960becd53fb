package entity

import (
	"time"
)

// CalendarEvent is the client-side projection of an accepted service
// request onto the availability calendar. It is recomputed from the
// request list on every fetch, never stored.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	Time  string    `json:"time"`
	Type  string    `json:"type"`
}

// SameDay reports whether the event falls on the given calendar day,
// ignoring time of day.
func (e *CalendarEvent) SameDay(day time.Time) bool {
	ey, em, ed := e.Start.Date()
	dy, dm, dd := day.Date()
	return ey == dy && em == dm && ed == dd
}
