package dto

// MessageResponse is the body of every non-validation error and of delete acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists the failing fields of a rejected body.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}
