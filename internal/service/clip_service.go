package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
	"github.com/clipforge/api/internal/store"
)

const (
	TaskTypeClips = "clips:generate"
)

// ErrJobNotFound is returned when the requested job id is unknown.
var ErrJobNotFound = errors.New("job not found")

// ClipService handles clip-generation job management
type ClipService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
	store       store.Store
}

func NewClipService(redisClient *redis.Client, asynqClient *asynq.Client, st store.Store) *ClipService {
	return &ClipService{
		redis:       redisClient,
		asynqClient: asynqClient,
		store:       st,
	}
}

// StartGeneration queues a new clip-generation job for a project.
func (s *ClipService) StartGeneration(ctx context.Context, req *model.GenerateClipsRequest) (*model.GenerateClipsResponse, error) {
	// Reject unknown projects before anything is enqueued, and refuse
	// to double-enqueue a project already in the pipeline. The worker's
	// job guard is the authoritative check; this one just surfaces the
	// conflict at enqueue time.
	project, err := s.store.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("project lookup failed: %w", err)
	}
	if project.Status == model.ProjectStatusProcessing {
		return nil, pipeline.ErrAlreadyProcessing
	}

	opts := model.DefaultProcessOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	jobID := uuid.New().String()
	now := time.Now()

	job := &model.Job{
		ID:        jobID,
		Type:      model.JobTypeClips,
		Status:    model.JobStatusQueued,
		Progress:  0,
		CreatedAt: now,
	}

	payload := &model.ClipJobPayload{
		ProjectID: req.ProjectID,
		Options:   opts,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	job.Payload = payloadBytes

	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newClipsTask(jobID, payloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("clips"),
		asynq.MaxRetry(0), // the pipeline degrades internally; a failed run is final
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.GenerateClipsResponse{
		JobID:             jobID,
		Status:            model.JobStatusQueued,
		EstimatedDuration: 120, // seconds, rough figure for a typical source
		CreatedAt:         now,
	}, nil
}

// GetStatus returns the current status of a clip job including the
// latest progress snapshot.
func (s *ClipService) GetStatus(ctx context.Context, jobID string) (*model.ClipJobStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.ClipJobStatusResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Snapshot:    job.Snapshot,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		RetryCount:  job.RetryCount,
	}, nil
}

// GetResult returns the result of a completed clip job
func (s *ClipService) GetResult(ctx context.Context, jobID string) (*model.ClipJobResultResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusSucceeded {
		return nil, fmt.Errorf("job not completed")
	}

	var result model.PipelineResult
	if err := json.Unmarshal(job.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &model.ClipJobResultResponse{
		JobID:  jobID,
		Result: &result,
	}, nil
}

// GetClip fetches a stored clip record by id.
func (s *ClipService) GetClip(ctx context.Context, clipID string) (*model.GeneratedClip, error) {
	return s.store.GetClip(ctx, clipID)
}

// Cancel marks a job canceled. It is a status flip: work already in
// flight runs to completion but its result is discarded by the caller.
func (s *ClipService) Cancel(ctx context.Context, jobID string) (*model.ClipJobControlResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == model.JobStatusSucceeded || job.Status == model.JobStatusFailed {
		return nil, fmt.Errorf("job already completed")
	}

	job.Status = model.JobStatusCanceled
	now := time.Now()
	job.CompletedAt = &now

	if err := s.saveJob(ctx, job); err != nil {
		return nil, err
	}

	return &model.ClipJobControlResponse{
		Success: true,
		JobID:   jobID,
		Status:  model.JobStatusCanceled,
	}, nil
}

// Pause flags a running job paused. Stage execution is not suspended;
// the flag is reported through status and progress reads.
func (s *ClipService) Pause(ctx context.Context, jobID string) (*model.ClipJobControlResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusRunning && job.Status != model.JobStatusQueued {
		return nil, fmt.Errorf("job is not running")
	}

	job.Status = model.JobStatusPaused
	if err := s.saveJob(ctx, job); err != nil {
		return nil, err
	}

	return &model.ClipJobControlResponse{
		Success: true,
		JobID:   jobID,
		Status:  model.JobStatusPaused,
	}, nil
}

// Resume clears a pause flag.
func (s *ClipService) Resume(ctx context.Context, jobID string) (*model.ClipJobControlResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusPaused {
		return nil, fmt.Errorf("job is not paused")
	}

	job.Status = model.JobStatusRunning
	if err := s.saveJob(ctx, job); err != nil {
		return nil, err
	}

	return &model.ClipJobControlResponse{
		Success: true,
		JobID:   jobID,
		Status:  model.JobStatusRunning,
	}, nil
}

// UpdateJobSnapshot stores the latest progress snapshot (called by worker)
func (s *ClipService) UpdateJobSnapshot(ctx context.Context, jobID string, snap model.JobProgress) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = snap.OverallProgress
	job.CurrentStep = snap.CurrentStageName
	snapCopy := snap
	job.Snapshot = &snapCopy

	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now()
		job.StartedAt = &now
	}

	return s.saveJob(ctx, job)
}

// CompleteJob marks job as completed (called by worker)
func (s *ClipService) CompleteJob(ctx context.Context, jobID string, result *model.PipelineResult) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.Result = resultBytes
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// FailJob marks job as failed (called by worker)
func (s *ClipService) FailJob(ctx context.Context, jobID string, errMsg string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// IsCanceled reports whether the job was canceled by the user.
func (s *ClipService) IsCanceled(ctx context.Context, jobID string) bool {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return false
	}
	return job.Status == model.JobStatusCanceled
}

// Helper methods

func (s *ClipService) saveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf("job:%s", job.ID), data, 24*time.Hour).Err()
}

func (s *ClipService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, fmt.Sprintf("job:%s", jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

func newClipsTask(jobID string, payload []byte) (*asynq.Task, error) {
	taskPayload := map[string]interface{}{
		"jobId":   jobID,
		"payload": payload,
	}
	data, err := json.Marshal(taskPayload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeClips, data), nil
}
