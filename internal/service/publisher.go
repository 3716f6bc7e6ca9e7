package service

import (
	"context"
	"fmt"
	"time"

	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/transfer"
)

type VerificationResult struct {
	Verified bool   `json:"verified"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type PublishResult struct {
	Published bool   `json:"published"`
	Message   string `json:"message,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Publisher is the gateway to the social platform. A real client would
// talk to the X API; the simulated one only checks credential shape.
type Publisher interface {
	VerifyCredentials(ctx context.Context, creds *transfer.XCredentials) (*VerificationResult, error)
	Publish(ctx context.Context, creds *transfer.XCredentials, post *models.Post) (*PublishResult, error)
}

// NewPublisher selects the implementation based on PUBLISHER_MODE.
func NewPublisher(cfg config.Config) (Publisher, error) {
	switch cfg.PublisherMode {
	case "", "simulated":
		return NewSimulatedPublisher(2 * time.Second), nil
	case "live":
		return nil, fmt.Errorf("live publisher is not implemented; set PUBLISHER_MODE=simulated")
	default:
		return nil, fmt.Errorf("unknown PUBLISHER_MODE: %s (use 'simulated')", cfg.PublisherMode)
	}
}
