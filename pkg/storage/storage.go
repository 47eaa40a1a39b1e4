// Package storage stores product images in a bucket and resolves their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// CacheControl is applied to every uploaded object.
const CacheControl = "public, max-age=3600"

// MaxImageBytes bounds an upload read into memory for sniffing.
const MaxImageBytes = 10 << 20

var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// Bucket is the object storage surface used for product images.
type Bucket interface {
	// Upload writes (or overwrites) the object at path.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) error
	// Delete removes the object; a missing object is not an error.
	Delete(ctx context.Context, path string) error
	// PublicURL resolves the object path to a URL browsers can fetch. Empty path gives "".
	PublicURL(path string) string
}

// Image is a sniffed upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string // without the dot, e.g. "png"
}

// ReadImage reads at most MaxImageBytes and checks the content is a supported image.
// The extension comes from the sniffed type, not the client supplied file name.
func ReadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedImage)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes", MaxImageBytes)
	}

	mt := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			ext := strings.TrimPrefix(mt.Extension(), ".")
			if ext == "jpeg" {
				ext = "jpg"
			}
			return &Image{Data: data, ContentType: allowed, Extension: ext}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
}

// ProductImagePath is the object key of a product's image.
func ProductImagePath(slug, ext string) string {
	return fmt.Sprintf("products/%s.%s", slug, ext)
}
