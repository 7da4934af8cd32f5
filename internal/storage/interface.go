package storage

import (
	"context"
	"io"
)

// PhotoStore keeps trip photos (odometer, damage, fuel gauge) uploaded at pickup and return.
// Keys are flat file names; URL returns the public address a stored key is served from.
type PhotoStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (url string, err error)
	Open(ctx context.Context, key string) (rc io.ReadCloser, contentType string, err error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// AllowedContentTypes maps accepted upload types to the file extension they are stored under
var AllowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}
