package service

import (
	"context"
	"fmt"

	"xmute/mutehub/internal/repository"
)

type Stats struct {
	TotalMuted  int64            `json:"total_muted"`
	ByCountry   map[string]int64 `json:"by_country"`
	Whitelisted int              `json:"whitelisted"`
}

type StatsService interface {
	Get(ctx context.Context) (*Stats, error)
}

type statsService struct {
	mutedRepo     repository.MutedUserRepository
	whitelistRepo repository.WhitelistRepository
}

func NewStatsService(mutedRepo repository.MutedUserRepository, whitelistRepo repository.WhitelistRepository) StatsService {
	return &statsService{mutedRepo: mutedRepo, whitelistRepo: whitelistRepo}
}

func (s *statsService) Get(ctx context.Context) (*Stats, error) {
	total, err := s.mutedRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count muted users: %w", err)
	}

	byCountry, err := s.mutedRepo.CountByCountry(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by country: %w", err)
	}

	whitelisted, err := s.whitelistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list whitelist: %w", err)
	}

	return &Stats{
		TotalMuted:  total,
		ByCountry:   byCountry,
		Whitelisted: len(whitelisted),
	}, nil
}
