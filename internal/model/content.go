package model

import "time"

const (
	CategoryLiterature = "literature"
	CategoryRituals    = "rituals"
	CategoryAesthetics = "aesthetics"
	CategoryMusic      = "music"
)

// Categories is the fixed set of content categories, in display order.
var Categories = []string{CategoryLiterature, CategoryRituals, CategoryAesthetics, CategoryMusic}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ContentEntry is a piece of user content filed under a category.
// Category is a free string in the database; only the API validates it.
type ContentEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Content   *string   `db:"content" json:"content"`
	Category  string    `db:"category" json:"category"`
	Tags      []string  `db:"tags" json:"tags"`
	ImageURL  *string   `db:"image_url" json:"imageUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ContentEntryPatch lists the fields an update may change. Nil means untouched;
// the Clear flags set the nullable columns to NULL.
type ContentEntryPatch struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	ImageURL *string

	ClearContent  bool
	ClearImageURL bool
}

// CategoryCount is the number of entries a user has in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
