package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

const DefaultPublicBaseURL = "https://storage.googleapis.com"

// GCSConfig points at a public-read bucket.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string
	PublicBaseURL   string
}

// GCSBucket stores objects in Google Cloud Storage through the JSON API.
type GCSBucket struct {
	svc     *gcs.Service
	bucket  string
	baseURL string
}

func NewGCSBucket(ctx context.Context, cfg GCSConfig) (*GCSBucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs service: %w", err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = DefaultPublicBaseURL
	}
	return &GCSBucket{svc: svc, bucket: cfg.Bucket, baseURL: strings.TrimRight(base, "/")}, nil
}

func (b *GCSBucket) Upload(ctx context.Context, path string, r io.Reader, contentType string) error {
	obj := &gcs.Object{
		Name:         path,
		ContentType:  contentType,
		CacheControl: CacheControl,
	}
	_, err := b.svc.Objects.Insert(b.bucket, obj).
		Media(r, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	return nil
}

func (b *GCSBucket) Delete(ctx context.Context, path string) error {
	err := b.svc.Objects.Delete(b.bucket, path).Context(ctx).Do()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

func (b *GCSBucket) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	return b.baseURL + "/" + url.PathEscape(b.bucket) + "/" + path
}
