package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/repository"
	"github.com/nichelab/brandbrain/pkg/utils"
)

type ApiKeyService interface {
	Create(ctx context.Context) error
	List(ctx context.Context) ([]*models.ApiKey, error)
	Validate(ctx context.Context, apiKey string) error
	Remove(ctx context.Context, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{k: k}
}

func (s *apiKeyService) Create(ctx context.Context) error {
	keys, err := s.k.List(ctx)
	if err != nil {
		return err
	}

	if len(keys) > 4 {
		err = errors.New("only 5 API keys can be created")
		slog.Info(err.Error())
		return err
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("error generating API key")
	}

	if _, err := s.k.Create(ctx, &models.ApiKey{ApiKey: key}); err != nil {
		return fmt.Errorf("error saving API key")
	}
	return nil
}

func (s *apiKeyService) Validate(ctx context.Context, apiKey string) error {
	exists, err := s.k.Exists(ctx, apiKey)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("key doesn't exist")
	}
	return nil
}

func (s *apiKeyService) List(ctx context.Context) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}
	return apiKeys, nil
}

func (s *apiKeyService) Remove(ctx context.Context, keyID int64) error {
	if keyID == 0 {
		err := errors.New("key id is not valid")
		slog.Info(err.Error())
		return err
	}
	return s.k.Remove(ctx, keyID)
}
