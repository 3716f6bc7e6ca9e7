package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/service"
	"github.com/nichelab/brandbrain/internal/transfer"
)

// memState keeps state in memory, round-tripping through JSON so loaded
// values are detached from stored ones.
type memState struct {
	mu    sync.Mutex
	niche []byte
	posts []byte
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

// stubGenerator counts batches instead of calling the provider.
type stubGenerator struct {
	mu      sync.Mutex
	batches int
}

func (s *stubGenerator) GenerateDrafts(ctx context.Context, niche *models.Niche) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	return []models.Post{
		{ID: fmt.Sprintf("gen-%d", s.batches), Topic: "t", Caption: "c", MediaType: models.MediaTypeImage, Status: models.PostStatusDraft},
	}, nil
}

func (s *stubGenerator) GenerateImage(ctx context.Context, topic string) (string, error) {
	return "", nil
}

func (s *stubGenerator) GenerateVideo(ctx context.Context, topic string) (string, error) {
	return "", nil
}

func newJobFixture(t *testing.T) (*AutoGenerateJob, service.NicheService, *memState, *stubGenerator) {
	t.Helper()
	st := &memState{}
	log := activity.NewLog()
	cfg := config.Config{SecretKey: "0123456789abcdef0123456789abcdef"}
	var mu sync.Mutex
	ns := service.NewNicheService(cfg, &mu, st, service.NewSimulatedPublisher(0), log)
	ps := service.NewPostService(cfg, &mu, st, service.NewSimulatedPublisher(0), log)
	gen := &stubGenerator{}
	return NewAutoGenerateJob(ns, gen, ps, log), ns, st, gen
}

func setupNiche(t *testing.T, ns service.NicheService, frequency string) {
	t.Helper()
	_, err := ns.Setup(context.Background(), &transfer.NicheSetup{
		Name:           "Sustainable Fashion",
		TargetAudience: "Gen Z",
		Tone:           "Casual",
		Frequency:      frequency,
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
}

func TestRun_GeneratesOncePerInterval(t *testing.T) {
	job, ns, st, gen := newJobFixture(t)
	setupNiche(t, ns, models.FrequencyDaily)

	// First tick is due immediately; the next tick within the same
	// 24h window is not.
	job.Run()
	job.Run()

	if gen.batches != 1 {
		t.Errorf("batches = %d, want 1", gen.batches)
	}

	_, posts, _ := st.Load(context.Background())
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", posts[0].Status)
	}
}

func TestRun_CustomFrequencySkips(t *testing.T) {
	job, ns, _, gen := newJobFixture(t)
	setupNiche(t, ns, models.FrequencyCustom)

	job.Run()

	if gen.batches != 0 {
		t.Errorf("batches = %d, want 0", gen.batches)
	}
}

func TestRun_NoNicheSkips(t *testing.T) {
	job, _, _, gen := newJobFixture(t)

	job.Run()

	if gen.batches != 0 {
		t.Errorf("batches = %d, want 0", gen.batches)
	}
}
