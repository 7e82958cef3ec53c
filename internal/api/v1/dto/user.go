package dto

// ThemeUpdateDTO is the body of PUT /api/theme.
type ThemeUpdateDTO struct {
	Theme string `json:"theme" validate:"required,oneof=dark-academia classical modern minimalist"`
}

type ThemeResponseDTO struct {
	Theme string `json:"theme"`
}

// RoleUpdateDTO is the body of PUT /api/admin/users/{id}/role.
type RoleUpdateDTO struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}
