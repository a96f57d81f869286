package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"xmute/mutehub/internal/model"
)

func TestUnmuteManager_JobLifecycle(t *testing.T) {
	api := newFakeAPI()
	muted := newFakeMutedRepo()
	require.NoError(t, muted.Create(context.Background(), &model.MutedUser{UserID: "1", Username: "alice"}))

	svc := NewUnmuteService(api, muted, time.Millisecond, zap.NewNop())
	mgr := NewUnmuteManager(svc, zap.NewNop())

	id, err := mgr.Start(UnmuteModeExtensionOnly)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		status, err := mgr.Status(id)
		return err == nil && !status.Progress.IsRunning
	}, time.Second, 5*time.Millisecond)

	status, err := mgr.Status(id)
	require.NoError(t, err)
	require.NotNil(t, status.Result)
	assert.Equal(t, 1, status.Result.Succeeded)
	assert.Empty(t, status.Error)
	assert.Equal(t, UnmuteModeExtensionOnly, status.Mode)
}

func TestUnmuteManager_SecondStartWhileRunning(t *testing.T) {
	api := newFakeAPI()
	block := make(chan struct{})
	api.unmuteBlock = block

	muted := newFakeMutedRepo()
	ctx := context.Background()
	require.NoError(t, muted.Create(ctx, &model.MutedUser{UserID: "1", Username: "alice"}))
	require.NoError(t, muted.Create(ctx, &model.MutedUser{UserID: "2", Username: "bob"}))

	svc := NewUnmuteService(api, muted, time.Millisecond, zap.NewNop())
	mgr := NewUnmuteManager(svc, zap.NewNop())

	id, err := mgr.Start(UnmuteModeExtensionOnly)
	require.NoError(t, err)

	// Wait until the first unmute is in flight.
	require.Eventually(t, func() bool {
		status, err := mgr.Status(id)
		return err == nil && status.Progress.CurrentUser != nil
	}, time.Second, 5*time.Millisecond)

	_, err = mgr.Start(UnmuteModeExtensionOnly)
	assert.ErrorIs(t, err, ErrJobAlreadyRunning)

	// Ask for cancellation while the first unmute is still in flight, then
	// let it finish; the job must stop before touching the second user.
	require.NoError(t, mgr.Cancel(id))
	close(block)

	require.Eventually(t, func() bool {
		status, err := mgr.Status(id)
		return err == nil && status.Progress.IsCancelled
	}, time.Second, 5*time.Millisecond)

	status, err := mgr.Status(id)
	require.NoError(t, err)
	assert.False(t, status.Progress.IsRunning)
	assert.Equal(t, 1, status.Progress.Completed)
	assert.Equal(t, 1, api.unmuteCalls)

	// A finished job no longer blocks new ones.
	_, err = mgr.Start(UnmuteModeExtensionOnly)
	assert.NoError(t, err)
}

func TestUnmuteManager_UnknownJob(t *testing.T) {
	mgr := NewUnmuteManager(NewUnmuteService(newFakeAPI(), newFakeMutedRepo(), time.Millisecond, zap.NewNop()), zap.NewNop())

	_, err := mgr.Status("nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, mgr.Cancel("nope"), ErrJobNotFound)
}

func TestUnmuteManager_PanicBecomesTerminalError(t *testing.T) {
	// A nil API makes the paginated run panic on its first upstream call.
	svc := NewUnmuteService(nil, newFakeMutedRepo(), time.Millisecond, zap.NewNop())
	mgr := NewUnmuteManager(svc, zap.NewNop())

	id, err := mgr.Start(UnmuteModeAll)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := mgr.Status(id)
		return err == nil && !status.Progress.IsRunning
	}, time.Second, 5*time.Millisecond)

	status, err := mgr.Status(id)
	require.NoError(t, err)
	assert.Contains(t, status.Error, "internal error")
	assert.False(t, status.Progress.IsCancelled)
}
