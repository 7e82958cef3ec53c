package model

import (
	"encoding/json"
	"time"
)

// Session is a server-side browser session keyed by an opaque id. Data is
// typed as JSON so the simple query protocol sends it as text, not bytea.
type Session struct {
	SID    string          `db:"sid"`
	Data   json.RawMessage `db:"sess"`
	Expire time.Time       `db:"expire"`
}
