package storage

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/shared"
)

// MemoryDocumentStore keeps documents in process memory.
// It is used in development when no bucket is configured.
type MemoryDocumentStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	doc  document.Document
	data []byte
}

// NewMemoryDocumentStore creates an empty MemoryDocumentStore
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Ensure MemoryDocumentStore implements document.Store
var _ document.Store = (*MemoryDocumentStore)(nil)

// Put stores a copy of body under key, replacing any existing document
func (s *MemoryDocumentStore) Put(ctx context.Context, key, filename, contentType string, body io.Reader, size int64) (*document.Document, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	data, err := io.ReadAll(io.LimitReader(body, document.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > document.MaxSize {
		return nil, document.ErrTooLarge
	}

	doc := document.Document{
		Key:          key,
		Filename:     filename,
		ContentType:  contentType,
		Size:         int64(len(data)),
		LastModified: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{doc: doc, data: data}
	return &doc, nil
}

// Get returns a copy of the stored content
func (s *MemoryDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

// List returns documents under prefix ordered by key
func (s *MemoryDocumentStore) List(ctx context.Context, prefix string) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []document.Document
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			docs = append(docs, obj.doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

// Delete removes a document. Deleting a missing key is not an error.
func (s *MemoryDocumentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
