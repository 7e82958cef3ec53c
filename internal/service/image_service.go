package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const imageUploadExpiry = 15 * time.Minute

var ErrUnsupportedImageType = errors.New("unsupported image type")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageUpload is a presigned PUT plus the public URL the object will have.
type ImageUpload struct {
	UploadURL   string    `json:"uploadUrl"`
	ImageURL    string    `json:"imageUrl"`
	Key         string    `json:"key"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ImageService interface {
	PresignUpload(ctx context.Context, userID, filename string) (*ImageUpload, error)
}

// PutObjectPresigner is the subset of *s3.PresignClient used for uploads.
type PutObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type imageService struct {
	presigner  PutObjectPresigner
	bucketName string
	publicBase string
	logger     zerolog.Logger
}

func NewImageService(presigner PutObjectPresigner, bucketName, publicBase string, logger zerolog.Logger) ImageService {
	return &imageService{
		presigner:  presigner,
		bucketName: bucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
		logger:     logger.With().Str("service", "ImageService").Logger(),
	}
}

func (s *imageService) PresignUpload(ctx context.Context, userID, filename string) (*ImageUpload, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !imageExtensions[ext] {
		return nil, ErrUnsupportedImageType
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("images/%s/%s%s", userID, uuid.NewString(), ext)
	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(imageUploadExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to generate presigned PUT URL")
		return nil, fmt.Errorf("failed to generate presigned PUT URL: %w", err)
	}

	return &ImageUpload{
		UploadURL:   request.URL,
		ImageURL:    s.publicBase + "/" + key,
		Key:         key,
		ContentType: contentType,
		ExpiresAt:   time.Now().Add(imageUploadExpiry).UTC(),
	}, nil
}
