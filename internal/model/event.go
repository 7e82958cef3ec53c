package model

import "time"

const (
	EventContentCreated     = "content.created"
	EventIntegrationToggled = "integration.toggled"
)

// Event is published to the events topic after selected writes.
type Event struct {
	Type       string            `json:"type"`
	UserID     string            `json:"userId"`
	EntityID   int64             `json:"entityId"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}
