package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"xmute/mutehub/internal/repository"
)

const blacklistKey = "mutehub:blacklist"

// BlacklistService manages the list of countries whose users get muted.
// Matching is case-insensitive.
type BlacklistService interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, countries []string) error
	Contains(ctx context.Context, country string) (bool, error)
}

type blacklistService struct {
	store repository.StateStore
}

func NewBlacklistService(store repository.StateStore) BlacklistService {
	return &blacklistService{store: store}
}

func (s *blacklistService) Get(ctx context.Context) ([]string, error) {
	data, err := s.store.Get(ctx, blacklistKey)
	if err != nil {
		return nil, fmt.Errorf("read blacklist: %w", err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}

	var countries []string
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, fmt.Errorf("decode blacklist: %w", err)
	}
	return countries, nil
}

func (s *blacklistService) Set(ctx context.Context, countries []string) error {
	if countries == nil {
		countries = []string{}
	}
	data, err := json.Marshal(countries)
	if err != nil {
		return fmt.Errorf("encode blacklist: %w", err)
	}
	if err := s.store.Set(ctx, blacklistKey, data); err != nil {
		return fmt.Errorf("write blacklist: %w", err)
	}
	return nil
}

func (s *blacklistService) Contains(ctx context.Context, country string) (bool, error) {
	countries, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range countries {
		if strings.EqualFold(c, country) {
			return true, nil
		}
	}
	return false, nil
}
