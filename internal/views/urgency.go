package views

import "time"

// Urgency is a derived, never-persisted label computed from the due
// date against the current wall-clock date.
type Urgency string

const (
	UrgencyNone    Urgency = ""
	UrgencyWarning Urgency = "warning"
	UrgencyOverdue Urgency = "overdue"
)

// ClassifyUrgency compares the calendar-day portion of the due date to
// the calendar day of now. Due today is a warning, due strictly before
// today is overdue, a future or absent due date carries no label.
func ClassifyUrgency(due *time.Time, now time.Time) Urgency {
	if due == nil {
		return UrgencyNone
	}

	// Both sides collapse to a calendar day in the observer's zone,
	// time-of-day is not meaningful to the domain.
	dueDay := truncateToDay(due.In(now.Location()))
	today := truncateToDay(now)

	switch {
	case dueDay.Equal(today):
		return UrgencyWarning
	case dueDay.Before(today):
		return UrgencyOverdue
	}
	return UrgencyNone
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
