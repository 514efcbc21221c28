package db

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("[DB] no comments stored for post")

// CommentStore hands scraped comments from the scrape step to the classify
// step.
type CommentStore interface {
	SaveComments(ctx context.Context, postID string, comments []string) error
	LoadComments(ctx context.Context, postID string) ([]string, error)
}

type MemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string][]string
}

func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{comments: make(map[string][]string)}
}

func (m *MemoryCommentStore) SaveComments(_ context.Context, postID string, comments []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[postID] = append([]string{}, comments...)
	return nil
}

func (m *MemoryCommentStore) LoadComments(_ context.Context, postID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comments, ok := m.comments[postID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string{}, comments...), nil
}
