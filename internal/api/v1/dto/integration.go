package dto

import "encoding/json"

// IntegrationUpsertDTO toggles one platform. APIKey goes to the secret store only.
type IntegrationUpsertDTO struct {
	Platform    string          `json:"platform" validate:"required,oneof=discord notion obsidian"`
	IsConnected bool            `json:"isConnected"`
	Settings    json.RawMessage `json:"settings" swaggertype:"object"`
	APIKey      string          `json:"apiKey" validate:"omitempty,max=512"`
}
