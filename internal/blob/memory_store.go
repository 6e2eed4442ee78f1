package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codenest/codenest/internal/domain"
)

// MemoryStore is an in-process BlobStore used for local development and
// tests. It mirrors the S3 adapter's semantics, including idempotent
// deletes.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	content      []byte
	contentType  string
	lastModified time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, content []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(content))
	copy(stored, content)

	s.objects[key] = memoryObject{
		content:      stored,
		contentType:  contentType,
		lastModified: time.Now(),
	}

	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	object, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
	}

	content := make([]byte, len(object.content))
	copy(content, object.content)

	return content, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)

	return nil
}

func (s *MemoryStore) Copy(_ context.Context, sourceKey, destinationKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.objects[sourceKey]
	if !ok {
		return fmt.Errorf("%w: blob %s", domain.ErrNotFound, sourceKey)
	}

	content := make([]byte, len(source.content))
	copy(content, source.content)

	s.objects[destinationKey] = memoryObject{
		content:      content,
		contentType:  source.contentType,
		lastModified: time.Now(),
	}

	return nil
}

func (s *MemoryStore) ListByPrefix(_ context.Context, prefix string) ([]domain.BlobObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []domain.BlobObject

	for key, object := range s.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, domain.BlobObject{
				Key:          key,
				Size:         int64(len(object.content)),
				LastModified: object.lastModified,
			})
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})

	return objects, nil
}
