package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UnmuteJobStatus is what the control API reports for a job. Result is nil
// while the job is running; Error is set when the run aborted.
type UnmuteJobStatus struct {
	ID       string         `json:"id"`
	Mode     UnmuteMode     `json:"mode"`
	Progress UnmuteProgress `json:"progress"`
	Result   *UnmuteResult  `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type unmuteJob struct {
	mu     sync.Mutex
	status UnmuteJobStatus
	cancel bool
}

func (j *unmuteJob) snapshot() UnmuteJobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *unmuteJob) cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancel
}

// UnmuteManager owns the lifecycle of bulk unmute jobs: at most one running
// at a time, polled progress, cooperative cancellation. Finished jobs stay
// readable until the next one starts.
type UnmuteManager struct {
	mu      sync.Mutex
	svc     *UnmuteService
	jobs    map[string]*unmuteJob
	current *unmuteJob
	logger  *zap.Logger
}

func NewUnmuteManager(svc *UnmuteService, logger *zap.Logger) *UnmuteManager {
	return &UnmuteManager{
		svc:    svc,
		jobs:   make(map[string]*unmuteJob),
		logger: logger,
	}
}

// Start launches a job in the background and returns its id.
func (m *UnmuteManager) Start(mode UnmuteMode) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.snapshot().Progress.IsRunning {
		return "", ErrJobAlreadyRunning
	}

	job := &unmuteJob{
		status: UnmuteJobStatus{
			ID:       uuid.New().String(),
			Mode:     mode,
			Progress: UnmuteProgress{IsRunning: true},
		},
	}
	m.jobs[job.status.ID] = job
	m.current = job

	go m.run(job, mode)
	return job.status.ID, nil
}

func (m *UnmuteManager) Status(id string) (UnmuteJobStatus, error) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return UnmuteJobStatus{}, ErrJobNotFound
	}
	return job.snapshot(), nil
}

// Cancel requests cooperative cancellation; the job stops before its next
// unmute call. Already-issued unmutes are not undone.
func (m *UnmuteManager) Cancel(id string) error {
	m.mu.Lock()
	job, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return ErrJobNotFound
	}

	job.mu.Lock()
	job.cancel = true
	job.mu.Unlock()
	return nil
}

func (m *UnmuteManager) run(job *unmuteJob, mode UnmuteMode) {
	// A panic anywhere in the run surfaces as a terminal job error instead
	// of killing the process or leaving the job running forever.
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("unmute job panicked", zap.Any("panic", r))
			job.mu.Lock()
			job.status.Progress.IsRunning = false
			job.status.Progress.CurrentUser = nil
			job.status.Error = fmt.Sprintf("internal error: %v", r)
			job.mu.Unlock()
		}
	}()

	onProgress := func(p UnmuteProgress) {
		job.mu.Lock()
		job.status.Progress = p
		job.mu.Unlock()
	}

	result, err := m.svc.Run(context.Background(), mode, onProgress, job.cancelled)

	job.mu.Lock()
	job.status.Result = &result
	if err != nil {
		job.status.Error = err.Error()
		job.status.Progress.IsRunning = false
		job.status.Progress.CurrentUser = nil
	}
	job.mu.Unlock()

	m.logger.Info("unmute job finished",
		zap.String("job_id", job.status.ID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Error(err))
}
