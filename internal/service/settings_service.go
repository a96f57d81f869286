package service

import (
	"context"
	"encoding/json"
	"fmt"

	"xmute/mutehub/internal/model"
	"xmute/mutehub/internal/repository"
)

const settingsKey = "mutehub:settings"

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	ShowFlags     *bool `json:"show_flags"`
	MuteFollowing *bool `json:"mute_following"`
}

type SettingsService interface {
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, patch SettingsPatch) (model.Settings, error)
}

type settingsService struct {
	store repository.StateStore
}

func NewSettingsService(store repository.StateStore) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) Get(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()

	data, err := s.store.Get(ctx, settingsKey)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if len(data) == 0 {
		return settings, nil
	}

	// Unknown keys are ignored; missing keys keep their defaults.
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, patch SettingsPatch) (model.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return settings, err
	}

	if patch.ShowFlags != nil {
		settings.ShowFlags = *patch.ShowFlags
	}
	if patch.MuteFollowing != nil {
		settings.MuteFollowing = *patch.MuteFollowing
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return settings, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, settingsKey, data); err != nil {
		return settings, fmt.Errorf("write settings: %w", err)
	}
	return settings, nil
}
