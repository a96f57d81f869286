package service

import (
	"context"
	"fmt"
	"time"

	"xmute/mutehub/internal/model"
	"xmute/mutehub/internal/repository"
)

// WhitelistService manages users exempted from muting. A whitelisted user is
// never muted regardless of country.
type WhitelistService interface {
	Add(ctx context.Context, userID, username string) error
	Remove(ctx context.Context, userID string) error
	List(ctx context.Context) ([]model.WhitelistedUser, error)
}

type whitelistService struct {
	repo repository.WhitelistRepository
}

func NewWhitelistService(repo repository.WhitelistRepository) WhitelistService {
	return &whitelistService{repo: repo}
}

func (s *whitelistService) Add(ctx context.Context, userID, username string) error {
	exists, err := s.repo.Contains(ctx, userID)
	if err != nil {
		return fmt.Errorf("check whitelist: %w", err)
	}
	if exists {
		return nil
	}
	return s.repo.Add(ctx, &model.WhitelistedUser{
		UserID:        userID,
		Username:      username,
		WhitelistedAt: time.Now(),
	})
}

func (s *whitelistService) Remove(ctx context.Context, userID string) error {
	return s.repo.Remove(ctx, userID)
}

func (s *whitelistService) List(ctx context.Context) ([]model.WhitelistedUser, error) {
	return s.repo.List(ctx)
}
