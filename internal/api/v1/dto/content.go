package dto

import (
	"encoding/json"

	"citadel/internal/model"
)

// ContentCreateDTO is used for incoming create requests
type ContentCreateDTO struct {
	Title    string   `json:"title" validate:"required,max=500"`
	Content  *string  `json:"content"`
	Category string   `json:"category" validate:"required,oneof=literature rituals aesthetics music"`
	Tags     []string `json:"tags" validate:"omitempty,max=32,dive,required,max=64"`
	ImageURL *string  `json:"imageUrl" validate:"omitempty,url"`
}

// ContentUpdateDTO carries a partial update; absent fields are left untouched.
// An explicit null clears content or imageUrl.
type ContentUpdateDTO struct {
	Title    *string   `json:"title" validate:"omitempty,min=1,max=500"`
	Content  *string   `json:"content"`
	Category *string   `json:"category" validate:"omitempty,oneof=literature rituals aesthetics music"`
	Tags     *[]string `json:"tags"`
	ImageURL *string   `json:"imageUrl" validate:"omitempty,url"`

	nulls map[string]bool
}

func (d *ContentUpdateDTO) UnmarshalJSON(data []byte) error {
	type plain ContentUpdateDTO
	if err := json.Unmarshal(data, (*plain)(d)); err != nil {
		return err
	}
	nulls, err := explicitNulls(data, "content", "imageUrl")
	if err != nil {
		return err
	}
	d.nulls = nulls
	return nil
}

func (d ContentCreateDTO) ToModel(userID string) *model.ContentEntry {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.ContentEntry{
		UserID:   userID,
		Title:    d.Title,
		Content:  d.Content,
		Category: d.Category,
		Tags:     tags,
		ImageURL: d.ImageURL,
	}
}

func (d ContentUpdateDTO) ToPatch() model.ContentEntryPatch {
	return model.ContentEntryPatch{
		Title:    d.Title,
		Content:  d.Content,
		Category: d.Category,
		Tags:     d.Tags,
		ImageURL: d.ImageURL,

		ClearContent:  d.nulls["content"],
		ClearImageURL: d.nulls["imageUrl"],
	}
}
