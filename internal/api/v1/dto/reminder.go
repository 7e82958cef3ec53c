package dto

import (
	"encoding/json"
	"time"

	"citadel/internal/model"
)

type ReminderCreateDTO struct {
	Title       string    `json:"title" validate:"required,max=500"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	IsCompleted bool      `json:"isCompleted"`
	Type        string    `json:"type" validate:"required,oneof=daily weekly monthly custom"`
}

// ReminderUpdateDTO carries a partial update. An explicit null clears the
// description.
type ReminderUpdateDTO struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=500"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	IsCompleted *bool      `json:"isCompleted"`
	Type        *string    `json:"type" validate:"omitempty,oneof=daily weekly monthly custom"`

	nulls map[string]bool
}

func (d *ReminderUpdateDTO) UnmarshalJSON(data []byte) error {
	type plain ReminderUpdateDTO
	if err := json.Unmarshal(data, (*plain)(d)); err != nil {
		return err
	}
	nulls, err := explicitNulls(data, "description")
	if err != nil {
		return err
	}
	d.nulls = nulls
	return nil
}

func (d ReminderCreateDTO) ToModel(userID string) *model.Reminder {
	return &model.Reminder{
		UserID:      userID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		IsCompleted: d.IsCompleted,
		Type:        d.Type,
	}
}

func (d ReminderUpdateDTO) ToPatch() model.ReminderPatch {
	return model.ReminderPatch{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		IsCompleted: d.IsCompleted,
		Type:        d.Type,

		ClearDescription: d.nulls["description"],
	}
}
