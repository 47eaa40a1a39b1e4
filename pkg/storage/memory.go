package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
)

// MemoryBucket is an in-process Bucket for tests and local development.
type MemoryBucket struct {
	mu      sync.RWMutex
	objects map[string]MemoryObject
	baseURL string
}

type MemoryObject struct {
	Data        []byte
	ContentType string
}

func NewMemoryBucket(baseURL string) *MemoryBucket {
	return &MemoryBucket{
		objects: make(map[string]MemoryObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (b *MemoryBucket) Upload(_ context.Context, path string, r io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = MemoryObject{Data: buf.Bytes(), ContentType: contentType}
	return nil
}

func (b *MemoryBucket) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path)
	return nil
}

func (b *MemoryBucket) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	return b.baseURL + "/" + path
}

// Object returns a stored object.
func (b *MemoryBucket) Object(path string) (MemoryObject, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[path]
	return obj, ok
}
