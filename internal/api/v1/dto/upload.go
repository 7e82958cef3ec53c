package dto

// ImageUploadDTO asks for a presigned upload URL for one image file.
type ImageUploadDTO struct {
	Filename string `json:"filename" validate:"required,max=255"`
}
