package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmute/mutehub/internal/repository"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := NewSettingsService(repository.NewMemoryStateStore())

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, settings.ShowFlags)
	assert.False(t, settings.MuteFollowing)
}

func TestSettingsService_PatchKeepsOtherFields(t *testing.T) {
	svc := NewSettingsService(repository.NewMemoryStateStore())
	ctx := context.Background()

	on := true
	settings, err := svc.Update(ctx, SettingsPatch{MuteFollowing: &on})
	require.NoError(t, err)
	assert.True(t, settings.MuteFollowing)
	assert.False(t, settings.ShowFlags)

	settings, err = svc.Update(ctx, SettingsPatch{ShowFlags: &on})
	require.NoError(t, err)
	assert.True(t, settings.ShowFlags)
	assert.True(t, settings.MuteFollowing)

	// Persisted, not just returned.
	settings, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.ShowFlags)
	assert.True(t, settings.MuteFollowing)
}

func TestBlacklistService_EmptyByDefault(t *testing.T) {
	svc := NewBlacklistService(repository.NewMemoryStateStore())

	countries, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, countries)
}

func TestBlacklistService_SetAndContains(t *testing.T) {
	svc := NewBlacklistService(repository.NewMemoryStateStore())
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, []string{"Russia", "Iran"}))

	ok, err := svc.Contains(ctx, "russia")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Contains(ctx, "France")
	require.NoError(t, err)
	assert.False(t, ok)

	// Replacing the list drops old entries.
	require.NoError(t, svc.Set(ctx, []string{"France"}))
	ok, err = svc.Contains(ctx, "Russia")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlacklistService_NilBecomesEmptyList(t *testing.T) {
	svc := NewBlacklistService(repository.NewMemoryStateStore())
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, nil))
	countries, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, countries)
	assert.Empty(t, countries)
}
