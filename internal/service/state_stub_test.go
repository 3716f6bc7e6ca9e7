package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nichelab/brandbrain/internal/models"
)

// memState is an in-memory StateRepository for service tests. It
// round-trips through JSON so stored state is detached from callers,
// like the real repository.
type memState struct {
	mu    sync.Mutex
	niche []byte
	posts []byte
}

func newMemState() *memState {
	return &memState{}
}

func (m *memState) Load(ctx context.Context) (*models.Niche, []models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var niche *models.Niche
	if m.niche != nil {
		var n models.Niche
		if err := json.Unmarshal(m.niche, &n); err == nil && n.ID != "" {
			niche = &n
		}
	}

	var posts []models.Post
	if m.posts != nil {
		json.Unmarshal(m.posts, &posts)
	}
	return niche, posts, nil
}

func (m *memState) Save(ctx context.Context, niche *models.Niche, posts []models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.niche, _ = json.Marshal(niche)
	if posts == nil {
		posts = []models.Post{}
	}
	m.posts, _ = json.Marshal(posts)
	return nil
}
