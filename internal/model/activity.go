package model

import "time"

const ActionContentCreated = "content_created"

// ActivityLog is an append-only feed row.
type ActivityLog struct {
	ID          int64     `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Action      string    `db:"action" json:"action"`
	Description *string   `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
