package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
)

// LocalStore implements PhotoStore on the local filesystem and serves
// files back through the API's /photos route
type LocalStore struct {
	baseURL  string
	dir      string
	maxBytes int64
}

// NewLocalStore creates dir if needed
func NewLocalStore(baseURL, dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &LocalStore{
		baseURL:  strings.TrimRight(baseURL, "/"),
		dir:      dir,
		maxBytes: maxBytes,
	}, nil
}

func (s *LocalStore) URL(key string) string {
	return fmt.Sprintf("%s/api/v1/photos/%s", s.baseURL, key)
}

func (s *LocalStore) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if _, ok := AllowedContentTypes[contentType]; !ok {
		return "", domain.NewValidationError("unsupported content type: " + contentType)
	}

	fullPath := filepath.Join(s.dir, key)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// one byte past the limit tells us the upload was too large
	n, err := io.Copy(tmp, io.LimitReader(r, s.maxBytes+1))
	closeErr := tmp.Close()
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to write file: %w", closeErr)
	}
	if n > s.maxBytes {
		return "", domain.NewValidationError(fmt.Sprintf("photo exceeds %d bytes", s.maxBytes))
	}
	if n == 0 {
		return "", domain.NewValidationError("photo is empty")
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	logger.Debug("photo stored", "key", key, "bytes", n)
	return s.URL(key), nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := validateKey(key); err != nil {
		return nil, "", err
	}
	file, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", domain.NewNotFoundError("photo", key)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return file, contentTypeOf(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return domain.NewValidationError("invalid photo key")
	}
	return nil
}

func contentTypeOf(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	for ct, e := range AllowedContentTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}
