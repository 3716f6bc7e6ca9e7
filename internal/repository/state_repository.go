package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/nichelab/brandbrain/internal/models"
)

// Fixed keys under which the whole application state is persisted as
// two JSON values. Every mutation rewrites both.
const (
	StateKeyNiche = "niche"
	StateKeyPosts = "posts"
)

type StateRepository interface {
	Load(ctx context.Context) (*models.Niche, []models.Post, error)
	Save(ctx context.Context, niche *models.Niche, posts []models.Post) error
}

type stateRepository struct {
	db *sql.DB
}

func NewStateRepository(db *sql.DB) StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) Load(ctx context.Context) (*models.Niche, []models.Post, error) {
	var niche *models.Niche
	raw, err := r.get(ctx, StateKeyNiche)
	if err != nil {
		return nil, nil, err
	}
	if raw != nil {
		var n models.Niche
		// A malformed stored value is treated as absent, not fatal.
		if err := json.Unmarshal(raw, &n); err != nil {
			slog.Info(err.Error())
		} else if n.ID != "" {
			niche = &n
		}
	}

	var posts []models.Post
	raw, err = r.get(ctx, StateKeyPosts)
	if err != nil {
		return nil, nil, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &posts); err != nil {
			slog.Info(err.Error())
			posts = nil
		}
	}

	return niche, posts, nil
}

func (r *stateRepository) Save(ctx context.Context, niche *models.Niche, posts []models.Post) error {
	nicheJSON, err := json.Marshal(niche)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if posts == nil {
		posts = []models.Post{}
	}
	postsJSON, err := json.Marshal(posts)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := r.put(ctx, StateKeyNiche, nicheJSON); err != nil {
		return err
	}
	return r.put(ctx, StateKeyPosts, postsJSON)
}

func (r *stateRepository) get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM app_state WHERE key = $1`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return value, nil
}

func (r *stateRepository) put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
