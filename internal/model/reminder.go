package model

import "time"

const (
	ReminderDaily   = "daily"
	ReminderWeekly  = "weekly"
	ReminderMonthly = "monthly"
	ReminderCustom  = "custom"
)

// Reminder is a due-dated task. Type is a label; nothing regenerates recurring reminders.
type Reminder struct {
	ID          int64     `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	DueDate     time.Time `db:"due_date" json:"dueDate"`
	IsCompleted bool      `db:"is_completed" json:"isCompleted"`
	Type        string    `db:"type" json:"type"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type ReminderPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	IsCompleted *bool
	Type        *string

	ClearDescription bool
}
