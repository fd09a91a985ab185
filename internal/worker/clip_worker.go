package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/clipforge/api/internal/config"
	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
	"github.com/clipforge/api/internal/service"
	"github.com/clipforge/api/internal/store"
	"github.com/clipforge/api/internal/websocket"
)

// ClipWorker executes clip-generation pipelines. The job guard and
// analysis cache are shared across every run handled by this worker:
// the guard rejects concurrent runs of the same project, the cache
// lets a re-run of an unchanged source skip analysis.
type ClipWorker struct {
	clipService *service.ClipService
	ops         pipeline.MediaOperations
	store       store.Store
	hub         *websocket.Hub
	cfg         pipeline.Config

	guard       *pipeline.JobGuard
	cache       *pipeline.ResultCache
	parallelism int
}

// NewClipWorker creates a new clip worker
func NewClipWorker(clipService *service.ClipService, ops pipeline.MediaOperations, st store.Store, hub *websocket.Hub, pcfg *config.PipelineConfig) *ClipWorker {
	cacheTTL := time.Duration(pcfg.CacheTTL) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = pipeline.DefaultCacheTTL
	}

	return &ClipWorker{
		clipService: clipService,
		ops:         ops,
		store:       st,
		hub:         hub,
		cfg:         pipelineConfig(pcfg),
		guard:       pipeline.NewJobGuard(),
		cache:       pipeline.NewResultCache(cacheTTL),
		parallelism: pcfg.ClipParallelism,
	}
}

func pipelineConfig(pcfg *config.PipelineConfig) pipeline.Config {
	secs := func(n int) time.Duration { return time.Duration(n) * time.Second }
	return pipeline.Config{
		GlobalTimeout:     secs(pcfg.GlobalTimeout),
		AnalyzeTimeout:    secs(pcfg.AnalyzeTimeout),
		ExtractTimeout:    secs(pcfg.ExtractTimeout),
		TranscribeTimeout: secs(pcfg.TranscribeTimeout),
		SelectTimeout:     secs(pcfg.SelectTimeout),
		CutTimeout:        secs(pcfg.CutTimeout),
		MergeTimeout:      secs(pcfg.MergeTimeout),
	}
}

// ProcessTask handles one clips:generate task.
func (w *ClipWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload struct {
		JobID   string          `json:"jobId"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting clip job: %s", jobID)

	var payload model.ClipJobPayload
	if err := json.Unmarshal(taskPayload.Payload, &payload); err != nil {
		w.failJob(ctx, jobID, "PIPELINE_ERROR", "Invalid payload")
		return fmt.Errorf("failed to unmarshal clip payload: %w", err)
	}

	// Canceled while queued: drop the task without running anything.
	if w.clipService.IsCanceled(ctx, jobID) {
		log.Printf("Clip job %s canceled before start", jobID)
		return nil
	}

	project, err := w.store.GetProject(ctx, payload.ProjectID)
	if err != nil {
		w.failJob(ctx, jobID, "SOURCE_NOT_FOUND", fmt.Sprintf("Project lookup failed: %v", err))
		return fmt.Errorf("project lookup failed: %w", err)
	}

	subscriber := func(snap model.JobProgress) {
		if err := w.clipService.UpdateJobSnapshot(ctx, jobID, snap); err != nil {
			log.Printf("failed to persist snapshot for job %s: %v", jobID, err)
		}
		w.hub.BroadcastSnapshot(jobID, snap)
	}

	orch := pipeline.New(w.ops, w.store, w.guard, w.cache, w.cfg, subscriber)

	opts := payload.Options
	if opts.ClipParallelism <= 0 {
		opts.ClipParallelism = w.parallelism
	}
	result, err := orch.ProcessProject(ctx, project, opts)
	if err != nil {
		code := pipeline.ErrorCode(err)
		w.failJob(ctx, jobID, code, err.Error())
		if errors.Is(err, pipeline.ErrAlreadyProcessing) {
			// Not retryable: a concurrent run owns the project.
			return nil
		}
		return err
	}

	// A cancel that raced the run wins: the result is discarded.
	if w.clipService.IsCanceled(ctx, jobID) {
		log.Printf("Clip job %s canceled during run, discarding result", jobID)
		return nil
	}

	if err := w.clipService.CompleteJob(ctx, jobID, result); err != nil {
		log.Printf("failed to complete job %s: %v", jobID, err)
	}
	w.hub.BroadcastComplete(jobID, result)

	log.Printf("Clip job %s completed: %d clips in %.1fs", jobID, len(result.Clips), result.ProcessingTime)
	return nil
}

func (w *ClipWorker) failJob(ctx context.Context, jobID, code, msg string) {
	if err := w.clipService.FailJob(ctx, jobID, msg); err != nil {
		log.Printf("failed to mark job %s failed: %v", jobID, err)
	}
	w.hub.BroadcastError(jobID, code, msg)
}
