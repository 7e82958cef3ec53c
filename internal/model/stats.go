package model

import "time"

// UserStats holds one user's dashboard counters.
type UserStats struct {
	ID            int64     `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId"`
	TotalEntries  int       `db:"total_entries" json:"totalEntries"`
	HoursStudied  int       `db:"hours_studied" json:"hoursStudied"`
	ActiveRituals int       `db:"active_rituals" json:"activeRituals"`
	Connections   int       `db:"connections" json:"connections"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// UserStatsPatch overwrites the non-nil counters.
type UserStatsPatch struct {
	TotalEntries  *int
	HoursStudied  *int
	ActiveRituals *int
	Connections   *int
}

// UserStatsDelta is added to the stored counters.
type UserStatsDelta struct {
	TotalEntries  int
	HoursStudied  int
	ActiveRituals int
	Connections   int
}

type SubscriptionCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// SystemStats is the admin overview across all users.
type SystemStats struct {
	TotalUsers            int64               `json:"totalUsers"`
	TotalContent          int64               `json:"totalContent"`
	TotalReminders        int64               `json:"totalReminders"`
	TotalActivities       int64               `json:"totalActivities"`
	SubscriptionBreakdown []SubscriptionCount `json:"subscriptionBreakdown"`
}
