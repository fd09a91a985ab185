package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/progress"
)

// Config carries the orchestrator deadlines. Zero values select the
// defaults below.
type Config struct {
	GlobalTimeout     time.Duration
	AnalyzeTimeout    time.Duration
	ExtractTimeout    time.Duration
	TranscribeTimeout time.Duration
	SelectTimeout     time.Duration
	CutTimeout        time.Duration
	MergeTimeout      time.Duration
}

// Defaults applied when a Config field is zero.
const (
	DefaultGlobalTimeout     = 5 * time.Minute
	DefaultAnalyzeTimeout    = 60 * time.Second
	DefaultExtractTimeout    = 30 * time.Second
	DefaultTranscribeTimeout = 60 * time.Second
	DefaultSelectTimeout     = 45 * time.Second
	DefaultCutTimeout        = 30 * time.Second
	DefaultMergeTimeout      = 30 * time.Second
)

func (c Config) withDefaults() Config {
	def := func(d *time.Duration, fallback time.Duration) {
		if *d <= 0 {
			*d = fallback
		}
	}
	def(&c.GlobalTimeout, DefaultGlobalTimeout)
	def(&c.AnalyzeTimeout, DefaultAnalyzeTimeout)
	def(&c.ExtractTimeout, DefaultExtractTimeout)
	def(&c.TranscribeTimeout, DefaultTranscribeTimeout)
	def(&c.SelectTimeout, DefaultSelectTimeout)
	def(&c.CutTimeout, DefaultCutTimeout)
	def(&c.MergeTimeout, DefaultMergeTimeout)
	return c
}

// Orchestrator drives one pipeline run at a time through the fixed
// stage sequence, delegating media work to the injected operations.
// The guard and cache may be shared across orchestrators; everything
// else is owned by a single run.
type Orchestrator struct {
	ops      MediaOperations
	store    ObjectStore
	guard    *JobGuard
	cache    *ResultCache
	tracker  *progress.Tracker
	cfg      Config
	validate *validator.Validate
	rng      *rand.Rand

	mu           sync.Mutex
	degradations []string
}

// New builds an orchestrator over shared guard/cache. subscriber (may
// be nil) receives a progress snapshot on every tracker mutation.
func New(ops MediaOperations, store ObjectStore, guard *JobGuard, cache *ResultCache, cfg Config, subscriber progress.Subscriber) *Orchestrator {
	return &Orchestrator{
		ops:      ops,
		store:    store,
		guard:    guard,
		cache:    cache,
		tracker:  progress.NewTracker(progress.DefaultGraph(), subscriber),
		cfg:      cfg.withDefaults(),
		validate: validator.New(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Progress returns the current snapshot (pull model; the subscriber
// push covers the streaming case).
func (o *Orchestrator) Progress() model.JobProgress {
	return o.tracker.Snapshot()
}

// Pause flips the observed status only. In-flight work is not
// suspended; callers must not rely on pause stopping resource use.
func (o *Orchestrator) Pause() { o.tracker.SetStatus(model.PipelinePaused) }

// Resume undoes Pause at the status level.
func (o *Orchestrator) Resume() { o.tracker.SetStatus(model.PipelineProcessing) }

// ProcessProject runs the full pipeline for one project. It returns a
// result summary in every outcome; err is non-nil when the run did not
// complete (guard rejection, invalid options, fatal stage failure,
// global timeout).
func (o *Orchestrator) ProcessProject(ctx context.Context, project *model.Project, opts model.ProcessOptions) (*model.PipelineResult, error) {
	started := time.Now()

	if err := o.validate.Struct(opts); err != nil {
		return o.failResult(started, fmt.Errorf("invalid options: %w", err)), fmt.Errorf("invalid options: %w", err)
	}

	if !o.guard.TryAcquire(project.ID) {
		return o.failResult(started, ErrAlreadyProcessing), ErrAlreadyProcessing
	}
	defer o.guard.Release(project.ID)

	// The whole-job deadline is carried by the context so that when the
	// race below is lost, in-flight operations see a canceled context
	// and the late run cannot overwrite the failed terminal state.
	runCtx, cancel := context.WithTimeout(ctx, o.cfg.GlobalTimeout)
	defer cancel()

	type outcome struct {
		res *model.PipelineResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := o.run(runCtx, project, opts, started)
		done <- outcome{res, err}
	}()

	select {
	case out := <-done:
		return out.res, out.err
	case <-runCtx.Done():
		if cerr := ctx.Err(); cerr != nil {
			o.tracker.FailStage("", cerr.Error())
			o.markProjectFailed(project.ID, cerr.Error())
			return o.failResult(started, cerr), cerr
		}
		gerr := &GlobalTimeoutError{Timeout: o.cfg.GlobalTimeout}
		o.tracker.FailStage("", gerr.Error())
		o.markProjectFailed(project.ID, gerr.Error())
		return o.failResult(started, gerr), gerr
	}
}

// run executes the strictly linear stage sequence. Any returned error
// has already been reflected into the tracker and the project record.
func (o *Orchestrator) run(ctx context.Context, project *model.Project, opts model.ProcessOptions, started time.Time) (*model.PipelineResult, error) {
	o.tracker.Reset()
	o.tracker.UpdateDebugInfo(map[string]string{
		"projectId": project.ID,
		"source":    project.Source.Name,
	})

	// init
	o.tracker.UpdateStage(progress.StageInit, model.StageInProgress, 10, "Loading source")
	video, err := o.store.GetFile(ctx, project.Source.ID)
	if err != nil {
		// A genuine miss keeps its sentinel; transient storage errors
		// must not masquerade as a missing source.
		if !errors.Is(err, ErrSourceNotFound) {
			err = &StageFailureError{StageID: progress.StageInit, Err: err}
		}
		return o.abort(started, project.ID, progress.StageInit, err)
	}
	o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{BytesProcessed: int64(len(video))})
	processing := model.ProjectStatusProcessing
	if uerr := o.store.UpdateProject(ctx, project.ID, ProjectUpdate{Status: &processing}); uerr != nil {
		log.Printf("failed to mark project %s processing: %v", project.ID, uerr)
	}
	o.tracker.UpdateStage(progress.StageInit, model.StageCompleted, 100, "")

	// analyze (cache-aware)
	analysis, err := o.analyze(ctx, project, video)
	if err != nil {
		return o.abort(started, project.ID, progress.StageAnalyze, err)
	}
	if err := ctx.Err(); err != nil {
		// Race lost: the deadline branch already recorded the terminal
		// failure, so this run exits without further writes.
		return o.failResult(started, err), err
	}

	// detect-scenes: rank and bound segments to the clip window
	o.tracker.UpdateStage(progress.StageDetectScenes, model.StageInProgress, 20, "Ranking scenes")
	segments := boundSegments(analysis.Segments, opts.MinClipDuration, opts.MaxClipDuration)
	o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{SegmentsAnalyzed: len(segments)})
	o.tracker.UpdateStage(progress.StageDetectScenes, model.StageCompleted, 100,
		fmt.Sprintf("%d candidate scenes", len(segments)))

	// process-audio (optional)
	var audio []byte
	var transcript *model.Transcript
	if opts.EnableTranscript {
		audio, transcript, err = o.processAudio(ctx, video, project.Source.Duration, segments)
		if err != nil {
			return o.abort(started, project.ID, progress.StageProcessAudio, err)
		}
	} else {
		o.tracker.UpdateStage(progress.StageProcessAudio, model.StageSkipped, 100, "Transcription not requested")
	}
	if err := ctx.Err(); err != nil {
		return o.failResult(started, err), err
	}

	// ai-select
	candidates, err := o.selectClips(ctx, project, segments, opts, transcript)
	if err != nil {
		return o.abort(started, project.ID, progress.StageAISelect, err)
	}

	// generate-clips
	clips := o.generateClips(ctx, project, candidates, opts, video, audio, transcript)
	if err := ctx.Err(); err != nil {
		return o.failResult(started, err), err
	}

	// finalize
	result, err := o.finalize(ctx, project, clips, started)
	if err != nil {
		return o.abort(started, project.ID, progress.StageFinalize, err)
	}
	return result, nil
}

// analyze computes the fingerprint and consults the shared cache. A hit
// marks the analysis sub-stages skipped (not completed) so callers can
// tell reuse from work.
func (o *Orchestrator) analyze(ctx context.Context, project *model.Project, video []byte) (*model.AnalysisResult, error) {
	fp := Fingerprint(project.Source)
	o.tracker.UpdateStage(progress.StageAnalyze, model.StageInProgress, 5, "Checking analysis cache")

	if cached, ok := o.cache.Get(fp); ok {
		o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubSceneDetection, model.StageSkipped, 100, "Cached")
		o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubAudioEnergy, model.StageSkipped, 100, "Cached")
		o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{CacheHit: true})
		o.tracker.UpdateStage(progress.StageAnalyze, model.StageCompleted, 100, "Analysis reused from cache")
		return cached, nil
	}

	o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubSceneDetection, model.StageInProgress, 0, "")
	o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubAudioEnergy, model.StageInProgress, 0, "")
	analysisStart := time.Now()

	analysis, err := race(ctx, "detect-scenes-and-energy", o.cfg.AnalyzeTimeout, func(ctx context.Context) (*model.AnalysisResult, error) {
		return o.ops.DetectScenesAndEnergy(ctx, video)
	})
	if err != nil {
		o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubSceneDetection, model.StageFailed, 0, err.Error())
		return nil, &StageFailureError{StageID: progress.StageAnalyze, Err: err}
	}

	o.cache.Put(fp, analysis)
	o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubSceneDetection, model.StageCompleted, 100, "")
	o.tracker.UpdateSubStage(progress.StageAnalyze, progress.SubAudioEnergy, model.StageCompleted, 100, "")
	o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{AnalysisSeconds: time.Since(analysisStart).Seconds()})
	o.tracker.UpdateStage(progress.StageAnalyze, model.StageCompleted, 100,
		fmt.Sprintf("%d scenes detected", len(analysis.Segments)))
	return analysis, nil
}

// processAudio extracts the source audio once and transcribes it, each
// behind its own fallback chain. The raw extracted audio is kept for
// per-clip sub-range cutting later.
func (o *Orchestrator) processAudio(ctx context.Context, video []byte, sourceDuration float64, segments []model.SceneSegment) ([]byte, *model.Transcript, error) {
	o.tracker.UpdateStage(progress.StageProcessAudio, model.StageInProgress, 10, "Extracting audio")
	o.tracker.UpdateSubStage(progress.StageProcessAudio, progress.SubExtractAudio, model.StageInProgress, 0, "")

	extractChain := NewFallbackChain[[]byte]("extract-audio", o.cfg.ExtractTimeout,
		func(ctx context.Context) ([]byte, error) { return o.ops.ExtractAudio(ctx, video) },
		o.degradationHook("audio-extraction"),
		Tier[[]byte]{Name: "synthetic-silence", Run: func(context.Context) ([]byte, error) {
			return syntheticSilence(sourceDuration), nil
		}},
	)
	audio, err := extractChain.Run(ctx)
	if err != nil {
		o.tracker.UpdateSubStage(progress.StageProcessAudio, progress.SubExtractAudio, model.StageFailed, 0, err.Error())
		return nil, nil, &StageFailureError{StageID: progress.StageProcessAudio, Err: err}
	}
	o.tracker.UpdateSubStage(progress.StageProcessAudio, progress.SubExtractAudio, model.StageCompleted, 100, "")
	o.tracker.UpdateStage(progress.StageProcessAudio, model.StageInProgress, 50, "Transcribing")
	o.tracker.UpdateSubStage(progress.StageProcessAudio, progress.SubTranscribe, model.StageInProgress, 0, "")

	transcribeChain := NewFallbackChain[*model.Transcript]("transcribe", o.cfg.TranscribeTimeout,
		func(ctx context.Context) (*model.Transcript, error) { return o.ops.Transcribe(ctx, audio) },
		o.degradationHook("transcription"),
		Tier[*model.Transcript]{Name: "heuristic-transcript", Run: func(context.Context) (*model.Transcript, error) {
			return heuristicTranscript(segments), nil
		}},
	)
	transcript, err := transcribeChain.Run(ctx)
	if err != nil {
		o.tracker.UpdateSubStage(progress.StageProcessAudio, progress.SubTranscribe, model.StageFailed, 0, err.Error())
		return nil, nil, &StageFailureError{StageID: progress.StageProcessAudio, Err: err}
	}
	o.tracker.UpdateSubStage(progress.StageProcessAudio, progress.SubTranscribe, model.StageCompleted, 100, "")
	o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{TranscriptSegments: len(transcript.Segments)})
	o.tracker.UpdateStage(progress.StageProcessAudio, model.StageCompleted, 100, "")
	return audio, transcript, nil
}

// selectClips resolves the candidate list: hosted AI selector with the
// deterministic enrichment fallback when AI is requested, plain
// excitement ranking otherwise. MaxClips caps both paths.
func (o *Orchestrator) selectClips(ctx context.Context, project *model.Project, segments []model.SceneSegment, opts model.ProcessOptions, transcript *model.Transcript) ([]model.ClipCandidate, error) {
	o.tracker.UpdateStage(progress.StageAISelect, model.StageInProgress, 10, "Selecting highlights")

	var candidates []model.ClipCandidate
	if opts.EnableAI {
		sel := SelectionContext{
			ProjectTitle:    project.Title,
			SourceDuration:  project.Source.Duration,
			MinClipDuration: opts.MinClipDuration,
			MaxClipDuration: opts.MaxClipDuration,
			MaxClips:        opts.MaxClips,
			Transcript:      transcript,
		}
		chain := NewFallbackChain[[]model.ClipCandidate]("select-highlights", o.cfg.SelectTimeout,
			func(ctx context.Context) ([]model.ClipCandidate, error) {
				return o.ops.SelectHighlights(ctx, segments, sel)
			},
			o.degradationHook("ai-selection"),
			Tier[[]model.ClipCandidate]{Name: "deterministic-enrichment", Run: func(context.Context) ([]model.ClipCandidate, error) {
				return EnrichSegmentsFallback(segments, o.rng), nil
			}},
		)
		selected, err := chain.Run(ctx)
		if err != nil {
			return nil, &StageFailureError{StageID: progress.StageAISelect, Err: err}
		}
		candidates = selected
	} else {
		candidates = SelectTopSegments(segments)
	}

	if opts.MaxClips > 0 && len(candidates) > opts.MaxClips {
		candidates = candidates[:opts.MaxClips]
	}
	o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{ClipsRequested: len(candidates)})
	o.tracker.UpdateStage(progress.StageAISelect, model.StageCompleted, 100,
		fmt.Sprintf("%d clips selected", len(candidates)))
	return candidates, nil
}

// generateClips cuts, optionally merges and persists each candidate.
// A single clip's failure is logged and skipped, never fatal. Bounded
// parallelism is a wall-clock optimization only: results keep candidate
// order and sequential execution produces identical output.
func (o *Orchestrator) generateClips(ctx context.Context, project *model.Project, candidates []model.ClipCandidate, opts model.ProcessOptions, video, audio []byte, transcript *model.Transcript) []model.GeneratedClip {
	o.tracker.UpdateStage(progress.StageGenerateClips, model.StageInProgress, 0, "Generating clips")
	if len(candidates) == 0 {
		o.tracker.UpdateStage(progress.StageGenerateClips, model.StageCompleted, 100, "No clips to generate")
		return nil
	}
	o.tracker.UpdateSubStage(progress.StageGenerateClips, progress.SubCutClips, model.StageInProgress, 0, "")

	workers := opts.ClipParallelism
	if workers < 1 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	results := make([]*model.GeneratedClip, len(candidates))
	var completed int32
	var mu sync.Mutex
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, cand model.ClipCandidate) {
			defer wg.Done()
			defer func() { <-sem }()

			clip, err := o.generateOneClip(ctx, project, i, cand, opts, video, audio, transcript)

			mu.Lock()
			completed++
			pct := int(completed) * 100 / len(candidates)
			if err != nil {
				log.Printf("clip %d for project %s skipped: %v", i, project.ID, err)
				o.recordDegradation(fmt.Sprintf("clip-%d: %v", i, err))
				o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{ClipsFailed: 1})
			} else {
				results[i] = clip
			}
			o.tracker.UpdateStage(progress.StageGenerateClips, model.StageInProgress, pct,
				fmt.Sprintf("Clip %d of %d", completed, len(candidates)))
			mu.Unlock()
		}(i, cand)
	}
	wg.Wait()

	clips := make([]model.GeneratedClip, 0, len(candidates))
	for _, c := range results {
		if c != nil {
			clips = append(clips, *c)
		}
	}
	o.tracker.UpdateSubStage(progress.StageGenerateClips, progress.SubCutClips, model.StageCompleted, 100, "")
	o.tracker.UpdatePerformanceMetrics(model.PerformanceMetrics{ClipsGenerated: len(clips)})
	o.tracker.UpdateStage(progress.StageGenerateClips, model.StageCompleted, 100,
		fmt.Sprintf("%d of %d clips generated", len(clips), len(candidates)))
	return clips
}

// generateOneClip cuts one candidate, merges audio when a transcript
// overlap exists, and persists the record.
func (o *Orchestrator) generateOneClip(ctx context.Context, project *model.Project, index int, cand model.ClipCandidate, opts model.ProcessOptions, video, audio []byte, transcript *model.Transcript) (*model.GeneratedClip, error) {
	// The placeholder tier below ignores the context, so check it here:
	// no clip may be persisted once the whole-job deadline has expired.
	if err := ctx.Err(); err != nil {
		return nil, &ClipFailure{Index: index, StartTime: cand.StartTime, EndTime: cand.EndTime, Err: err}
	}

	cutChain := NewFallbackChain[[]byte](fmt.Sprintf("cut-clip-%d", index), o.cfg.CutTimeout,
		func(ctx context.Context) ([]byte, error) {
			return o.ops.CutClip(ctx, video, cand.StartTime, cand.EndTime, opts.Quality)
		},
		o.degradationHook("clip-cutting"),
		Tier[[]byte]{Name: "placeholder-buffer", Run: func(context.Context) ([]byte, error) {
			return placeholderClip(cand.StartTime, cand.EndTime), nil
		}},
	)
	clipVideo, err := cutChain.Run(ctx)
	if err != nil {
		return nil, &ClipFailure{Index: index, StartTime: cand.StartTime, EndTime: cand.EndTime, Err: err}
	}

	status := model.ClipStatusReady
	if transcript != nil {
		clipAudio := sliceAudioRange(audio, cand.StartTime, cand.EndTime, project.Source.Duration)
		overlap := transcript.TextBetween(cand.StartTime, cand.EndTime)
		if len(clipAudio) > 0 && overlap != "" {
			o.tracker.UpdateSubStage(progress.StageGenerateClips, progress.SubMergeAudio, model.StageInProgress, 0, "")
			mergedToVideoOnly := false
			mergeChain := NewFallbackChain[[]byte](fmt.Sprintf("merge-clip-%d", index), o.cfg.MergeTimeout,
				func(ctx context.Context) ([]byte, error) {
					return o.ops.MergeVideoAudio(ctx, clipVideo, clipAudio, overlap)
				},
				func(tier string, cause error) {
					mergedToVideoOnly = true
					o.recordDegradation(fmt.Sprintf("audio-merge: %s (%v)", tier, cause))
				},
				Tier[[]byte]{Name: "video-only", Run: func(context.Context) ([]byte, error) {
					return clipVideo, nil
				}},
			)
			merged, err := mergeChain.Run(ctx)
			if err == nil {
				clipVideo = merged
				if mergedToVideoOnly {
					status = model.ClipStatusVideoOnly
				}
			}
			o.tracker.UpdateSubStage(progress.StageGenerateClips, progress.SubMergeAudio, model.StageCompleted, 100, "")
		}
	}

	clip := &model.GeneratedClip{
		ID:         uuid.New().String(),
		ProjectID:  project.ID,
		StartTime:  cand.StartTime,
		EndTime:    cand.EndTime,
		Duration:   cand.EndTime - cand.StartTime,
		VideoBytes: clipVideo,
		Caption:    cand.Caption,
		Hashtags:   cand.Hashtags,
		Status:     status,
		Quality:    opts.Quality,
		CreatedAt:  time.Now(),
	}
	if _, err := o.store.SaveClip(ctx, clip); err != nil {
		return nil, &ClipFailure{Index: index, StartTime: cand.StartTime, EndTime: cand.EndTime, Err: err}
	}
	return clip, nil
}

// finalize marks the project completed and assembles the run summary.
func (o *Orchestrator) finalize(ctx context.Context, project *model.Project, clips []model.GeneratedClip, started time.Time) (*model.PipelineResult, error) {
	o.tracker.UpdateStage(progress.StageFinalize, model.StageInProgress, 20, "Persisting results")
	o.tracker.UpdateSubStage(progress.StageFinalize, progress.SubPersistClips, model.StageInProgress, 0, "")

	clipIDs := make([]string, len(clips))
	for i, c := range clips {
		clipIDs[i] = c.ID
	}
	completedStatus := model.ProjectStatusCompleted
	now := time.Now()
	if err := o.store.UpdateProject(ctx, project.ID, ProjectUpdate{
		Status:      &completedStatus,
		ClipIDs:     clipIDs,
		CompletedAt: &now,
	}); err != nil {
		o.tracker.UpdateSubStage(progress.StageFinalize, progress.SubPersistClips, model.StageFailed, 0, err.Error())
		return nil, &StageFailureError{StageID: progress.StageFinalize, Err: err}
	}

	o.tracker.UpdateSubStage(progress.StageFinalize, progress.SubPersistClips, model.StageCompleted, 100, "")
	o.tracker.UpdateStage(progress.StageFinalize, model.StageCompleted, 100, "")
	o.tracker.SetStatus(model.PipelineCompleted)

	return &model.PipelineResult{
		Success:             true,
		Clips:               clips,
		ProcessingTime:      time.Since(started).Seconds(),
		DegradationsApplied: o.degradationList(),
	}, nil
}

// abort reflects a fatal error into the tracker and the project record,
// then returns the failure summary.
func (o *Orchestrator) abort(started time.Time, projectID, stageID string, err error) (*model.PipelineResult, error) {
	o.tracker.FailStage(stageID, err.Error())
	o.markProjectFailed(projectID, err.Error())
	return o.failResult(started, err), err
}

func (o *Orchestrator) markProjectFailed(projectID, msg string) {
	failed := model.ProjectStatusFailed
	// Best-effort cleanup; the run is already failing.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.store.UpdateProject(ctx, projectID, ProjectUpdate{Status: &failed, Error: &msg}); err != nil {
		log.Printf("failed to mark project %s failed: %v", projectID, err)
	}
}

func (o *Orchestrator) failResult(started time.Time, err error) *model.PipelineResult {
	return &model.PipelineResult{
		Success:             false,
		ProcessingTime:      time.Since(started).Seconds(),
		DegradationsApplied: o.degradationList(),
		Error:               err.Error(),
	}
}

// degradationHook records which fallback tier produced a result for a
// concern, surfaced in the final summary.
func (o *Orchestrator) degradationHook(concern string) func(tier string, cause error) {
	return func(tier string, cause error) {
		o.recordDegradation(fmt.Sprintf("%s: %s (%v)", concern, tier, cause))
	}
}

func (o *Orchestrator) recordDegradation(event string) {
	o.mu.Lock()
	o.degradations = append(o.degradations, event)
	o.mu.Unlock()
}

func (o *Orchestrator) degradationList() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.degradations...)
}
