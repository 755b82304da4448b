// Package storage keeps uploaded recipe images and avatars.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidImage  = errors.New("invalid base64 image")
	ErrImageTooLarge = errors.New("image is too large")
)

// Store persists blobs under keys and renders public URLs for them.
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var imageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded data URI.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>".
func DecodeDataURI(uri string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(uri), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}

	contentType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, ok := imageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

// SaveDataURI decodes uri and stores it under "<prefix>/<uuid>.<ext>", returning the key.
// maxBytes <= 0 disables the size check.
func SaveDataURI(ctx context.Context, store Store, prefix, uri string, maxBytes int64) (string, error) {
	img, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	if maxBytes > 0 && int64(len(img.Data)) > maxBytes {
		return "", ErrImageTooLarge
	}

	key := fmt.Sprintf("%s/%s.%s", strings.Trim(prefix, "/"), uuid.NewString(), img.Ext)
	if err := store.Save(ctx, key, img.Data, img.ContentType); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}
