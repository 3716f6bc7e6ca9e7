package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/repository"
	"github.com/nichelab/brandbrain/internal/transfer"
)

var ErrPostNotFound = errors.New("post doesn't exist")

type PostService interface {
	List(ctx context.Context, tab string) ([]models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	Prepend(ctx context.Context, posts []models.Post) error
	UpdateCaption(ctx context.Context, up *transfer.CaptionUpdate) error
	Remove(ctx context.Context, postID string) error
	Schedule(ctx context.Context, postID string, scheduledTime time.Time) (time.Duration, error)
	UpdateStatus(ctx context.Context, postID, status string) error
	Publish(ctx context.Context, postID string) error
	SetMediaURL(ctx context.Context, postID, mediaURL string) error
}

type postService struct {
	cfg config.Config
	mu  *sync.Mutex
	st  repository.StateRepository
	pub Publisher
	log *activity.Log
}

func NewPostService(cfg config.Config, mu *sync.Mutex, st repository.StateRepository, pub Publisher, log *activity.Log) PostService {
	return &postService{
		cfg: cfg,
		mu:  mu,
		st:  st,
		pub: pub,
		log: log,
	}
}

// statusForTab maps a UI tab to the post status it filters on. The
// connections tab never shows posts.
func statusForTab(tab string) (string, error) {
	switch tab {
	case "drafts":
		return models.PostStatusDraft, nil
	case "scheduled":
		return models.PostStatusScheduled, nil
	case "posted":
		return models.PostStatusPosted, nil
	case "connections":
		return "", nil
	}
	return "", fmt.Errorf("unknown tab: %s", tab)
}

// canTransition enforces the forward-only lifecycle. Rejection is a
// terminal branch off draft; nothing leaves posted or rejected.
func canTransition(from, to string) bool {
	switch from {
	case models.PostStatusDraft:
		return to == models.PostStatusScheduled || to == models.PostStatusPosted || to == models.PostStatusRejected
	case models.PostStatusScheduled:
		return to == models.PostStatusPosted
	}
	return false
}

func (s *postService) List(ctx context.Context, tab string) ([]models.Post, error) {
	status, err := statusForTab(tab)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, posts, err := s.st.Load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Post, 0, len(posts))
	if status == "" {
		return filtered, nil
	}
	for _, p := range posts {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, posts, err := s.st.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == postID {
			return &posts[i], nil
		}
	}
	return nil, ErrPostNotFound
}

// Prepend inserts a freshly generated batch ahead of the existing list
// so the newest drafts come first.
func (s *postService) Prepend(ctx context.Context, batch []models.Post) error {
	if len(batch) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	niche, posts, err := s.st.Load(ctx)
	if err != nil {
		return err
	}
	return s.st.Save(ctx, niche, append(batch, posts...))
}

func (s *postService) UpdateCaption(ctx context.Context, up *transfer.CaptionUpdate) error {
	if up == nil || up.PostID == "" {
		err := errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	return s.mutate(ctx, up.PostID, func(post *models.Post) error {
		post.Caption = up.Caption
		if up.Hashtags != nil {
			post.Hashtags = up.Hashtags
		}
		return nil
	})
}

// Remove deletes a draft. Deleting an unknown ID is a no-op; deleting a
// post that left the draft state is refused.
func (s *postService) Remove(ctx context.Context, postID string) error {
	if postID == "" {
		err := errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	niche, posts, err := s.st.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Post, 0, len(posts))
	removed := false
	for _, p := range posts {
		if p.ID == postID {
			if p.Status != models.PostStatusDraft {
				return errors.New("only drafts can be deleted")
			}
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return nil
	}

	if err := s.st.Save(ctx, niche, kept); err != nil {
		return err
	}

	s.log.Warning("Draft deleted.")
	return nil
}

// Schedule moves a draft to scheduled and returns the delay until its
// publish time so the caller can enqueue the publish task.
func (s *postService) Schedule(ctx context.Context, postID string, scheduledTime time.Time) (time.Duration, error) {
	if scheduledTime.IsZero() {
		err := errors.New("scheduled time is required")
		slog.Info(err.Error())
		return 0, err
	}

	err := s.mutate(ctx, postID, func(post *models.Post) error {
		if !canTransition(post.Status, models.PostStatusScheduled) {
			return fmt.Errorf("cannot schedule a %s post", post.Status)
		}
		post.Status = models.PostStatusScheduled
		post.ScheduledTime = &scheduledTime
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(fmt.Sprintf("Post status updated to: %s", models.PostStatusScheduled))

	delay := time.Until(scheduledTime)
	if delay < 0 {
		delay = 0
	}
	return delay, nil
}

func (s *postService) UpdateStatus(ctx context.Context, postID, status string) error {
	if status != models.PostStatusPosted && status != models.PostStatusRejected {
		err := fmt.Errorf("invalid target status: %s", status)
		slog.Info(err.Error())
		return err
	}

	err := s.mutate(ctx, postID, func(post *models.Post) error {
		if !canTransition(post.Status, status) {
			return fmt.Errorf("cannot move a %s post to %s", post.Status, status)
		}
		post.Status = status
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(fmt.Sprintf("Post status updated to: %s", status))
	return nil
}

// Publish sends the post through the gateway using the verified X
// connection and advances it to posted only when the gateway succeeds.
func (s *postService) Publish(ctx context.Context, postID string) error {
	s.mu.Lock()
	niche, posts, err := s.st.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if niche == nil {
		return ErrNicheNotConfigured
	}

	var post *models.Post
	for i := range posts {
		if posts[i].ID == postID {
			post = &posts[i]
			break
		}
	}
	if post == nil {
		return ErrPostNotFound
	}
	if !canTransition(post.Status, models.PostStatusPosted) {
		return fmt.Errorf("cannot publish a %s post", post.Status)
	}

	creds, err := s.connectionCredentials(niche)
	if err != nil {
		s.log.Error(err.Error())
		return err
	}

	result, err := s.pub.Publish(ctx, creds, post)
	if err != nil {
		s.log.Error("Publish failed: " + err.Error())
		return err
	}
	if !result.Published {
		s.log.Error("Publish failed: " + result.Reason)
		return fmt.Errorf("publish failed: %s", result.Reason)
	}

	if err := s.mutate(ctx, postID, func(p *models.Post) error {
		p.Status = models.PostStatusPosted
		return nil
	}); err != nil {
		return err
	}

	s.log.Success(result.Message)
	return nil
}

func (s *postService) SetMediaURL(ctx context.Context, postID, mediaURL string) error {
	if mediaURL == "" {
		err := errors.New("media url is empty")
		slog.Info(err.Error())
		return err
	}
	return s.mutate(ctx, postID, func(post *models.Post) error {
		post.MediaURL = mediaURL
		return nil
	})
}

// connectionCredentials finds the verified X connection and unseals its
// credential bundle.
func (s *postService) connectionCredentials(niche *models.Niche) (*transfer.XCredentials, error) {
	for _, c := range niche.Connections {
		if c.Platform == models.PlatformX && c.IsVerified && c.Credentials != "" {
			return openCredentials(c.Credentials, s.cfg.SecretKey)
		}
	}
	return nil, errors.New("no verified X connection available")
}

// mutate applies fn to the post under the state lock and persists the
// full state when fn succeeds.
func (s *postService) mutate(ctx context.Context, postID string, fn func(*models.Post) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	niche, posts, err := s.st.Load(ctx)
	if err != nil {
		return err
	}

	for i := range posts {
		if posts[i].ID == postID {
			if err := fn(&posts[i]); err != nil {
				slog.Info(err.Error())
				return err
			}
			return s.st.Save(ctx, niche, posts)
		}
	}
	return ErrPostNotFound
}
