// Package agenda derives display values from reminders and content:
// urgency, the upcoming selection, status filters and category counts.
package agenda

import (
	"sort"
	"time"

	"citadel/internal/model"
)

// Urgency is how pressing a reminder is relative to now.
type Urgency string

const (
	UrgencyNone     Urgency = "none"
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyNormal   Urgency = "normal"
)

const (
	criticalWindow = 2 * time.Hour
	warningWindow  = 24 * time.Hour

	// UpcomingLimit is how many reminders the dashboard widget shows.
	UpcomingLimit = 3
)

// Classify returns the urgency of a reminder due at due. Overdue counts as critical.
func Classify(due time.Time, completed bool, now time.Time) Urgency {
	if completed {
		return UrgencyNone
	}
	left := due.Sub(now)
	switch {
	case left < criticalWindow:
		return UrgencyCritical
	case left < warningWindow:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// Rank orders urgencies from most to least pressing.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyWarning:
		return 1
	case UrgencyNormal:
		return 2
	default:
		return 3
	}
}

// Classified pairs a reminder with its urgency at a point in time.
type Classified struct {
	model.Reminder
	Urgency Urgency `json:"urgency"`
}

// ClassifyAll tags every reminder with its urgency, keeping input order.
func ClassifyAll(reminders []model.Reminder, now time.Time) []Classified {
	out := make([]Classified, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, Classified{Reminder: r, Urgency: Classify(r.DueDate, r.IsCompleted, now)})
	}
	return out
}

// Upcoming returns up to n incomplete reminders, soonest due first. Equal
// due dates keep their input order.
func Upcoming(reminders []model.Reminder, n int) []model.Reminder {
	pending := make([]model.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !r.IsCompleted {
			pending = append(pending, r)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].DueDate.Before(pending[j].DueDate)
	})
	if n >= 0 && len(pending) > n {
		pending = pending[:n]
	}
	return pending
}

// SortByUrgency orders classified reminders most pressing first, then by due date.
func SortByUrgency(items []Classified) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].Urgency.Rank(), items[j].Urgency.Rank()
		if ri != rj {
			return ri < rj
		}
		return items[i].DueDate.Before(items[j].DueDate)
	})
}
