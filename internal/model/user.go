package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"

	DefaultTheme = "dark-academia"
)

// Themes lists the UI themes a user may pick.
var Themes = []string{"dark-academia", "classical", "modern", "minimalist"}

// User is the identity-provider-synced account row. The ID is the provider's subject claim.
type User struct {
	ID                   string    `db:"id" json:"id"`
	Email                *string   `db:"email" json:"email"`
	FirstName            *string   `db:"first_name" json:"firstName"`
	LastName             *string   `db:"last_name" json:"lastName"`
	ProfileImageURL      *string   `db:"profile_image_url" json:"profileImageUrl"`
	StripeCustomerID     *string   `db:"stripe_customer_id" json:"stripeCustomerId"`
	StripeSubscriptionID *string   `db:"stripe_subscription_id" json:"stripeSubscriptionId"`
	SubscriptionStatus   string    `db:"subscription_status" json:"subscriptionStatus"`
	Role                 string    `db:"role" json:"role"`
	Theme                string    `db:"theme" json:"theme"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName joins the name parts, skipping empty ones.
func (u *User) DisplayName() string {
	var first, last string
	if u.FirstName != nil {
		first = *u.FirstName
	}
	if u.LastName != nil {
		last = *u.LastName
	}
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// UserUpsert carries the identity-provider fields written on login.
// Nil fields keep whatever is stored.
type UserUpsert struct {
	ID              string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	Theme           *string
}
