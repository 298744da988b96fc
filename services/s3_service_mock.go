package services

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Service is an in-memory S3Interface for tests
type MockS3Service struct {
	objects map[string]bool
	mu      sync.RWMutex
}

// NewMockS3Service creates a mock holding the given object keys
func NewMockS3Service(keys ...string) *MockS3Service {
	m := &MockS3Service{objects: make(map[string]bool)}
	for _, k := range keys {
		m.objects[k] = true
	}
	return m
}

// Put adds an object key
func (m *MockS3Service) Put(s3Key string) {
	m.mu.Lock()
	m.objects[s3Key] = true
	m.mu.Unlock()
}

// GetPresignedURL returns a fake presigned URL for keys that exist
func (m *MockS3Service) GetPresignedURL(_ context.Context, s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	exists := m.objects[s3Key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", s3Key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}
