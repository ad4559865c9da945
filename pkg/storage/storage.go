// Package storage keeps uploaded images on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedType is returned for uploads that are not png or jpeg images.
var ErrUnsupportedType = errors.New("invalid mime type")

// ImageStore saves uploaded images and returns a reference that clients can
// fetch. Remove accepts a reference returned by Save.
type ImageStore interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

var mimeTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// ExtensionFor returns the file extension used for contentType.
func ExtensionFor(contentType string) (string, error) {
	ext, ok := mimeTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}
