package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/service"
)

// AutoGenerateJob produces a fresh draft batch on the cadence the niche
// asked for (daily or weekly). Custom frequency means manual only.
type AutoGenerateJob struct {
	ns  service.NicheService
	gs  service.GenerationService
	ps  service.PostService
	log *activity.Log

	mu      sync.Mutex
	lastRun time.Time
}

func NewAutoGenerateJob(ns service.NicheService, gs service.GenerationService, ps service.PostService, log *activity.Log) *AutoGenerateJob {
	return &AutoGenerateJob{
		ns:  ns,
		gs:  gs,
		ps:  ps,
		log: log,
	}
}

// Run is invoked by cron every hour and decides whether a batch is due.
func (j *AutoGenerateJob) Run() {
	ctx := context.Background()

	niche, err := j.ns.Info(ctx)
	if err != nil {
		log.Printf("Auto-generate: failed to load niche: %v", err)
		return
	}
	if niche == nil {
		return
	}

	var interval time.Duration
	switch niche.Frequency {
	case models.FrequencyDaily:
		interval = 24 * time.Hour
	case models.FrequencyWeekly:
		interval = 7 * 24 * time.Hour
	default:
		return
	}

	j.mu.Lock()
	due := j.lastRun.IsZero() || time.Since(j.lastRun) >= interval
	if due {
		j.lastRun = time.Now()
	}
	j.mu.Unlock()
	if !due {
		return
	}

	j.log.Info(fmt.Sprintf("Scheduled curation starting for niche: %s...", niche.Name))

	drafts, err := j.gs.GenerateDrafts(ctx, niche)
	if err != nil {
		log.Printf("Auto-generate: draft generation failed: %v", err)
		j.log.Error("Scheduled content generation failed. Please check API connectivity.")
		return
	}
	if len(drafts) == 0 {
		j.log.Warning("Scheduled curation produced no drafts.")
		return
	}

	if err := j.ps.Prepend(ctx, drafts); err != nil {
		log.Printf("Auto-generate: failed to store drafts: %v", err)
		return
	}

	j.log.Success(fmt.Sprintf("Scheduled curation added %d content ideas.", len(drafts)))
}
