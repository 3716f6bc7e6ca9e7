package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/transfer"
)

const minBearerTokenLength = 20

// simulatedPublisher stands in for the X API. It validates credential
// shape, waits a fixed delay, and reports success. Direct calls to
// api.twitter.com need a server-side client that does not exist yet.
type simulatedPublisher struct {
	delay time.Duration
}

func NewSimulatedPublisher(delay time.Duration) Publisher {
	return &simulatedPublisher{delay: delay}
}

func (p *simulatedPublisher) VerifyCredentials(ctx context.Context, creds *transfer.XCredentials) (*VerificationResult, error) {
	if creds == nil || creds.ConsumerKey == "" || creds.ConsumerSecret == "" || creds.BearerToken == "" {
		return &VerificationResult{Verified: false, Reason: "missing required credential fields"}, nil
	}

	if len(creds.BearerToken) < minBearerTokenLength {
		return &VerificationResult{Verified: false, Reason: "invalid bearer token format"}, nil
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	return &VerificationResult{
		Verified: true,
		Username: "BrandAmbassador_AI",
	}, nil
}

func (p *simulatedPublisher) Publish(ctx context.Context, creds *transfer.XCredentials, post *models.Post) (*PublishResult, error) {
	if creds == nil || creds.BearerToken == "" {
		return &PublishResult{Published: false, Reason: "missing credentials"}, nil
	}

	_ = composePostText(post)

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	return &PublishResult{
		Published: true,
		Message:   "published to X (simulated)",
	}, nil
}

func (p *simulatedPublisher) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(p.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// composePostText flattens a post into the single text payload sent to
// the platform: caption, blank line, then hashtags in original order.
func composePostText(post *models.Post) string {
	tags := make([]string, 0, len(post.Hashtags))
	for _, h := range post.Hashtags {
		tags = append(tags, fmt.Sprintf("#%s", strings.TrimPrefix(h, "#")))
	}
	if len(tags) == 0 {
		return post.Caption
	}
	return post.Caption + "\n\n" + strings.Join(tags, " ")
}
