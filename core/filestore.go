package core

import (
	"context"
	"io"
)

// Image is a stored binary blob reference as returned by the file store.
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

func (img Image) IsZero() bool { return img.URL == "" && img.PublicID == "" }

// FileStore is any service that can persist a binary blob and return its URL.
type FileStore interface {
	Upload(ctx context.Context, r io.Reader, folder string) (Image, error)
	Delete(ctx context.Context, publicID string) error
}
