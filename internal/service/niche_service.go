package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/repository"
	"github.com/nichelab/brandbrain/internal/transfer"
)

var ErrNicheNotConfigured = errors.New("niche is not configured")

type NicheService interface {
	Setup(ctx context.Context, ns *transfer.NicheSetup) (*models.Niche, error)
	Info(ctx context.Context) (*models.Niche, error)
	Connect(ctx context.Context, req *transfer.ConnectRequest) (*models.SocialConnection, error)
	Disconnect(ctx context.Context, req *transfer.DisconnectRequest) error
}

type nicheService struct {
	cfg config.Config
	mu  *sync.Mutex
	st  repository.StateRepository
	pub Publisher
	log *activity.Log
}

func NewNicheService(cfg config.Config, mu *sync.Mutex, st repository.StateRepository, pub Publisher, log *activity.Log) NicheService {
	return &nicheService{
		cfg: cfg,
		mu:  mu,
		st:  st,
		pub: pub,
		log: log,
	}
}

// Setup creates (or wholesale replaces) the niche. All fields are
// required and the connection list starts empty.
func (s *nicheService) Setup(ctx context.Context, ns *transfer.NicheSetup) (*models.Niche, error) {
	if ns == nil || ns.Name == "" || ns.TargetAudience == "" || ns.Tone == "" || ns.Frequency == "" {
		err := errors.New("all niche fields are required")
		slog.Info(err.Error())
		return nil, err
	}
	if !validFrequency(ns.Frequency) {
		err := fmt.Errorf("invalid posting frequency: %s", ns.Frequency)
		slog.Info(err.Error())
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	niche := &models.Niche{
		ID:             id,
		Name:           ns.Name,
		TargetAudience: ns.TargetAudience,
		Tone:           ns.Tone,
		Frequency:      ns.Frequency,
		Connections:    []models.SocialConnection{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, posts, err := s.st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.st.Save(ctx, niche, posts); err != nil {
		return nil, err
	}

	s.log.Success(fmt.Sprintf("New brand personality created: %s", niche.Name))
	return niche, nil
}

func (s *nicheService) Info(ctx context.Context) (*models.Niche, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	niche, _, err := s.st.Load(ctx)
	if err != nil {
		return nil, err
	}
	return niche, nil
}

// Connect links a platform. X requires a credential bundle verified by
// the publishing gateway; every other platform takes a self-declared
// handle. At most one connection per platform survives.
func (s *nicheService) Connect(ctx context.Context, req *transfer.ConnectRequest) (*models.SocialConnection, error) {
	if req == nil || !validPlatform(req.Platform) {
		err := errors.New("unknown platform")
		slog.Info(err.Error())
		return nil, err
	}
	if req.Handle == "" {
		err := errors.New("handle is required")
		slog.Info(err.Error())
		return nil, err
	}

	conn := models.SocialConnection{
		Platform:    req.Platform,
		Handle:      req.Handle,
		IsConnected: true,
	}

	if req.Platform == models.PlatformX {
		if req.Credentials == nil {
			err := errors.New("X connections require a credential bundle")
			slog.Info(err.Error())
			return nil, err
		}

		s.log.Info(fmt.Sprintf("Initiating connection verification for X handle: %s", req.Handle))
		result, err := s.pub.VerifyCredentials(ctx, req.Credentials)
		if err != nil {
			s.log.Error("X verification failed: " + err.Error())
			return nil, err
		}
		if !result.Verified {
			s.log.Error("X verification failed: " + result.Reason)
			return nil, fmt.Errorf("verification failed: %s", result.Reason)
		}

		sealed, err := sealCredentials(req.Credentials, s.cfg.SecretKey)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		conn.IsVerified = true
		conn.Username = result.Username
		conn.Credentials = sealed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	niche, posts, err := s.st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if niche == nil {
		return nil, ErrNicheNotConfigured
	}

	connections := make([]models.SocialConnection, 0, len(niche.Connections)+1)
	for _, c := range niche.Connections {
		if c.Platform != req.Platform {
			connections = append(connections, c)
		}
	}
	niche.Connections = append(connections, conn)

	if err := s.st.Save(ctx, niche, posts); err != nil {
		return nil, err
	}

	if conn.IsVerified {
		s.log.Success(fmt.Sprintf("X connection verified successfully. Authenticated as: %s", conn.Username))
	} else {
		s.log.Success(fmt.Sprintf("Linked %s handle: %s. (Self-declared)", req.Platform, req.Handle))
	}
	return &conn, nil
}

// Disconnect removes the connection for one platform. Removing an
// absent connection is a no-op.
func (s *nicheService) Disconnect(ctx context.Context, req *transfer.DisconnectRequest) error {
	if req == nil || !validPlatform(req.Platform) {
		err := errors.New("unknown platform")
		slog.Info(err.Error())
		return err
	}
	if !req.Confirm {
		err := errors.New("disconnect requires confirmation")
		slog.Info(err.Error())
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	niche, posts, err := s.st.Load(ctx)
	if err != nil {
		return err
	}
	if niche == nil {
		return ErrNicheNotConfigured
	}

	connections := make([]models.SocialConnection, 0, len(niche.Connections))
	removed := false
	for _, c := range niche.Connections {
		if c.Platform == req.Platform {
			removed = true
			continue
		}
		connections = append(connections, c)
	}
	if !removed {
		return nil
	}

	niche.Connections = connections
	if err := s.st.Save(ctx, niche, posts); err != nil {
		return err
	}

	s.log.Warning(fmt.Sprintf("Disconnected from %s.", req.Platform))
	return nil
}

func validPlatform(platform string) bool {
	switch platform {
	case models.PlatformX, models.PlatformInstagram, models.PlatformLinkedIn, models.PlatformTiktok:
		return true
	}
	return false
}

func validFrequency(frequency string) bool {
	switch frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyCustom:
		return true
	}
	return false
}
