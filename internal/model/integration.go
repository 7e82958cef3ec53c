package model

import (
	"encoding/json"
	"time"
)

const (
	PlatformDiscord  = "discord"
	PlatformNotion   = "notion"
	PlatformObsidian = "obsidian"
)

var Platforms = []string{PlatformDiscord, PlatformNotion, PlatformObsidian}

// Integration is a per-user toggle for a third-party platform, unique per (user, platform).
type Integration struct {
	ID          int64           `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"userId"`
	Platform    string          `db:"platform" json:"platform"`
	IsConnected bool            `db:"is_connected" json:"isConnected"`
	Settings    json.RawMessage `db:"settings" json:"settings"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}
