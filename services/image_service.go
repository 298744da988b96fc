package services

import (
	"context"
	"fmt"
	"strings"
)

// ImageService turns a product image reference into a URL a browser can load
type ImageService interface {
	GetImageURL(ctx context.Context, imageRef string) (string, error)
}

// S3ImageService resolves bucket keys through presigned S3 URLs. Absolute
// http(s) references are already public and pass through unchanged.
type S3ImageService struct {
	s3Service S3Interface
}

func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// IsAbsoluteImageURL reports whether ref needs no signing
func IsAbsoluteImageURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// GetImageURL implements ImageService
func (s *S3ImageService) GetImageURL(ctx context.Context, imageRef string) (string, error) {
	if imageRef == "" || IsAbsoluteImageURL(imageRef) {
		return imageRef, nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, strings.TrimPrefix(imageRef, "/"))
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}
