package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"xmute/mutehub/internal/repository"
	"xmute/mutehub/internal/upstream"
)

type UnmuteMode string

const (
	// UnmuteModeAll walks the platform's full muted-accounts listing.
	UnmuteModeAll UnmuteMode = "all"
	// UnmuteModeExtensionOnly covers only users this service muted itself.
	UnmuteModeExtensionOnly UnmuteMode = "extension-only"
)

func ParseUnmuteMode(s string) (UnmuteMode, error) {
	switch UnmuteMode(s) {
	case UnmuteModeAll, UnmuteModeExtensionOnly:
		return UnmuteMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnmuteMode, s)
	}
}

// UnmuteProgress is a snapshot of a running bulk unmute. Total is nil while
// the underlying listing is still being paginated.
type UnmuteProgress struct {
	Total       *int    `json:"total"`
	Completed   int     `json:"completed"`
	Failed      int     `json:"failed"`
	CurrentUser *string `json:"current_user"`
	IsRunning   bool    `json:"is_running"`
	IsCancelled bool    `json:"is_cancelled"`
}

type UnmuteResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// UnmuteService bulk-unmutes users with progress reporting and cooperative
// cancellation. It paces itself with a fixed delay between requests instead
// of going through the request queue; a bulk reversal is deliberately slower
// than the disposition pipeline.
type UnmuteService struct {
	api       upstream.API
	mutedRepo repository.MutedUserRepository
	delay     time.Duration
	logger    *zap.Logger
}

func NewUnmuteService(api upstream.API, mutedRepo repository.MutedUserRepository, delay time.Duration, logger *zap.Logger) *UnmuteService {
	if delay == 0 {
		delay = time.Second
	}
	return &UnmuteService{
		api:       api,
		mutedRepo: mutedRepo,
		delay:     delay,
		logger:    logger,
	}
}

// Run executes a bulk unmute. onProgress is called at least once per
// processed user; cancelled is polled before each unmute, and a cancelled run
// returns the counts accumulated so far without undoing anything. A non-nil
// error means the run aborted on a listing or storage failure, not that
// individual unmutes failed.
func (s *UnmuteService) Run(ctx context.Context, mode UnmuteMode, onProgress func(UnmuteProgress), cancelled func() bool) (UnmuteResult, error) {
	switch mode {
	case UnmuteModeExtensionOnly:
		return s.runLocal(ctx, onProgress, cancelled)
	case UnmuteModeAll:
		return s.runPaginated(ctx, onProgress, cancelled)
	default:
		return UnmuteResult{}, fmt.Errorf("%w: %q", ErrInvalidUnmuteMode, mode)
	}
}

// runLocal unmutes the finite, locally persisted set; the total is known
// upfront.
func (s *UnmuteService) runLocal(ctx context.Context, onProgress func(UnmuteProgress), cancelled func() bool) (UnmuteResult, error) {
	users, err := s.mutedRepo.List(ctx)
	if err != nil {
		return UnmuteResult{}, fmt.Errorf("list muted users: %w", err)
	}

	total := len(users)
	progress := UnmuteProgress{Total: &total, IsRunning: true}
	onProgress(progress)

	var result UnmuteResult
	for _, user := range users {
		if cancelled() {
			return result, s.finishCancelled(&progress, onProgress)
		}

		s.unmuteOne(ctx, &progress, &result, user.Username, user.UserID, onProgress)

		if progress.Completed < total {
			if err := s.pace(ctx); err != nil {
				return result, err
			}
		}
	}

	progress.IsRunning = false
	progress.CurrentUser = nil
	onProgress(progress)
	return result, nil
}

// runPaginated walks the platform's muted-accounts listing page by page,
// unmuting as it goes. The total stays indeterminate until the listing is
// exhausted.
func (s *UnmuteService) runPaginated(ctx context.Context, onProgress func(UnmuteProgress), cancelled func() bool) (UnmuteResult, error) {
	progress := UnmuteProgress{IsRunning: true}
	onProgress(progress)

	var result UnmuteResult
	cursor := ""
	for {
		if cancelled() {
			return result, s.finishCancelled(&progress, onProgress)
		}

		page, err := s.api.ListMuted(ctx, cursor)
		if err != nil {
			progress.IsRunning = false
			progress.CurrentUser = nil
			onProgress(progress)
			return result, fmt.Errorf("list muted accounts: %w", err)
		}

		for _, entry := range page.Entries {
			// Checked inside the page loop too so cancellation takes effect
			// before the next unmute, not only between pages.
			if cancelled() {
				return result, s.finishCancelled(&progress, onProgress)
			}

			s.unmuteOne(ctx, &progress, &result, entry.Username, entry.UserID, onProgress)

			if err := s.pace(ctx); err != nil {
				return result, err
			}
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	progress.IsRunning = false
	progress.CurrentUser = nil
	completed := progress.Completed
	progress.Total = &completed
	onProgress(progress)
	return result, nil
}

func (s *UnmuteService) unmuteOne(ctx context.Context, progress *UnmuteProgress, result *UnmuteResult, username, userID string, onProgress func(UnmuteProgress)) {
	current := "@" + username
	progress.CurrentUser = &current
	onProgress(*progress)

	if err := s.api.Unmute(ctx, userID); err != nil {
		s.logger.Warn("unmute failed",
			zap.String("username", username),
			zap.String("user_id", userID),
			zap.Error(err))
		result.Failed++
	} else {
		result.Succeeded++
	}

	progress.Completed++
	progress.Failed = result.Failed
	onProgress(*progress)
}

func (s *UnmuteService) finishCancelled(progress *UnmuteProgress, onProgress func(UnmuteProgress)) error {
	progress.IsCancelled = true
	progress.IsRunning = false
	progress.CurrentUser = nil
	onProgress(*progress)
	s.logger.Info("unmute run cancelled",
		zap.Int("completed", progress.Completed),
		zap.Int("failed", progress.Failed))
	return nil
}

func (s *UnmuteService) pace(ctx context.Context) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
