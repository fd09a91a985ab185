package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipforge/api/internal/model"
)

// fakeOps is a scriptable MediaOperations. Unset functions succeed with
// simple deterministic output.
type fakeOps struct {
	mu           sync.Mutex
	analyzeCalls int

	detect     func(ctx context.Context, video []byte) (*model.AnalysisResult, error)
	extract    func(ctx context.Context, video []byte) ([]byte, error)
	transcribe func(ctx context.Context, audio []byte) (*model.Transcript, error)
	selectHL   func(ctx context.Context, segments []model.SceneSegment, sel SelectionContext) ([]model.ClipCandidate, error)
	cut        func(ctx context.Context, video []byte, start, end float64, q model.QualityLevel) ([]byte, error)
	merge      func(ctx context.Context, video, audio []byte, text string) ([]byte, error)
}

func (f *fakeOps) DetectScenesAndEnergy(ctx context.Context, video []byte) (*model.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.mu.Unlock()
	if f.detect != nil {
		return f.detect(ctx, video)
	}
	return &model.AnalysisResult{Segments: segmentsN(12)}, nil
}

func (f *fakeOps) ExtractAudio(ctx context.Context, video []byte) ([]byte, error) {
	if f.extract != nil {
		return f.extract(ctx, video)
	}
	return make([]byte, 4096), nil
}

func (f *fakeOps) Transcribe(ctx context.Context, audio []byte) (*model.Transcript, error) {
	if f.transcribe != nil {
		return f.transcribe(ctx, audio)
	}
	return &model.Transcript{Segments: []model.TranscriptSegment{
		{Start: 0, End: 180, Text: "hello world", Confidence: 0.9},
	}}, nil
}

func (f *fakeOps) SelectHighlights(ctx context.Context, segments []model.SceneSegment, sel SelectionContext) ([]model.ClipCandidate, error) {
	if f.selectHL != nil {
		return f.selectHL(ctx, segments, sel)
	}
	return SelectTopSegments(segments), nil
}

func (f *fakeOps) CutClip(ctx context.Context, video []byte, start, end float64, q model.QualityLevel) ([]byte, error) {
	if f.cut != nil {
		return f.cut(ctx, video, start, end, q)
	}
	return []byte("cut"), nil
}

func (f *fakeOps) MergeVideoAudio(ctx context.Context, video, audio []byte, text string) ([]byte, error) {
	if f.merge != nil {
		return f.merge(ctx, video, audio, text)
	}
	return append(video, audio...), nil
}

// fakeObjectStore is an in-memory ObjectStore scoped to one test.
type fakeObjectStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	project *model.Project
	clips   []*model.GeneratedClip
	updates []ProjectUpdate
}

func newFakeStore(project *model.Project, video []byte) *fakeObjectStore {
	return &fakeObjectStore{
		files:   map[string][]byte{project.Source.ID: video},
		project: project,
	}
}

func (s *fakeObjectStore) GetFile(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[id]
	if !ok {
		return nil, ErrSourceNotFound
	}
	return data, nil
}

func (s *fakeObjectStore) SaveClip(_ context.Context, clip *model.GeneratedClip) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *clip
	s.clips = append(s.clips, &cp)
	return clip.ID, nil
}

func (s *fakeObjectStore) GetProject(_ context.Context, id string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.project
	return &cp, nil
}

func (s *fakeObjectStore) UpdateProject(_ context.Context, id string, update ProjectUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
	if update.Status != nil {
		s.project.Status = *update.Status
	}
	if update.Error != nil {
		s.project.Error = *update.Error
	}
	if update.ClipIDs != nil {
		s.project.ClipIDs = update.ClipIDs
	}
	return nil
}

func testProject() *model.Project {
	return &model.Project{
		ID:     "proj-1",
		Title:  "Stream highlights",
		Status: model.ProjectStatusCreated,
		Source: model.SourceFile{
			ID:         "src-1",
			Name:       "match.mp4",
			Size:       1 << 20,
			Duration:   180,
			UploadedAt: time.Unix(1700000000, 0),
		},
	}
}

func testOptions() model.ProcessOptions {
	opts := model.DefaultProcessOptions()
	opts.MinClipDuration = 5
	opts.MaxClipDuration = 60
	return opts
}

func newTestOrchestrator(ops MediaOperations, st ObjectStore, cfg Config) *Orchestrator {
	return New(ops, st, NewJobGuard(), NewResultCache(time.Minute), cfg, nil)
}

func TestOrchestrator_SuccessWithoutAI(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	o := newTestOrchestrator(&fakeOps{}, st, Config{})

	result, err := o.ProcessProject(context.Background(), project, testOptions())
	if err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result)
	}

	// 12 segments, excitement ranking keeps 30% = 3, MaxClips 10 is no cap.
	if len(result.Clips) != 3 {
		t.Fatalf("got %d clips, want 3", len(result.Clips))
	}
	for i, clip := range result.Clips {
		if clip.Duration != clip.EndTime-clip.StartTime {
			t.Errorf("clip %d duration %v != end-start", i, clip.Duration)
		}
		if clip.Status != model.ClipStatusReady {
			t.Errorf("clip %d status %v", i, clip.Status)
		}
	}

	if project.Status != model.ProjectStatusCompleted {
		t.Errorf("project status %v, want completed", project.Status)
	}
	if len(project.ClipIDs) != 3 {
		t.Errorf("project has %d clip ids, want 3", len(project.ClipIDs))
	}

	snap := o.Progress()
	if snap.Status != model.PipelineCompleted {
		t.Errorf("pipeline status %v, want completed", snap.Status)
	}
	if snap.OverallProgress != 100 {
		t.Errorf("overall progress %d, want 100", snap.OverallProgress)
	}
	if len(result.DegradationsApplied) != 0 {
		t.Errorf("unexpected degradations: %v", result.DegradationsApplied)
	}
}

func TestOrchestrator_AISelectorFallsBackDeterministically(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	ops := &fakeOps{
		selectHL: func(context.Context, []model.SceneSegment, SelectionContext) ([]model.ClipCandidate, error) {
			return nil, errors.New("selector unavailable")
		},
	}
	o := newTestOrchestrator(ops, st, Config{})

	opts := testOptions()
	opts.EnableAI = true
	opts.MaxClips = 0 // uncapped so the fallback's whole output is visible

	result, err := o.ProcessProject(context.Background(), project, opts)
	if err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}

	// The deterministic fallback marks every bounded segment a highlight.
	if len(result.Clips) != 12 {
		t.Fatalf("got %d clips, want 12", len(result.Clips))
	}
	for i, clip := range result.Clips {
		if clip.Caption != captionPool[i%len(captionPool)] {
			t.Errorf("clip %d caption %q, want pool entry %q", i, clip.Caption, captionPool[i%len(captionPool)])
		}
	}

	found := false
	for _, d := range result.DegradationsApplied {
		if strings.Contains(d, "ai-selection") {
			found = true
		}
	}
	if !found {
		t.Errorf("degradations %v missing ai-selection entry", result.DegradationsApplied)
	}
}

func TestOrchestrator_GlobalTimeout(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))

	block := make(chan struct{})
	defer close(block)
	ops := &fakeOps{
		detect: func(context.Context, []byte) (*model.AnalysisResult, error) {
			<-block // hang past any deadline
			return &model.AnalysisResult{Segments: segmentsN(12)}, nil
		},
	}
	o := newTestOrchestrator(ops, st, Config{GlobalTimeout: 20 * time.Millisecond})

	start := time.Now()
	result, err := o.ProcessProject(context.Background(), project, testOptions())
	if time.Since(start) > 2*time.Second {
		t.Fatal("global timeout did not terminate the run promptly")
	}
	if err == nil {
		t.Fatal("expected global timeout error")
	}
	if code := ErrorCode(err); code != "GLOBAL_TIMEOUT" {
		t.Errorf("ErrorCode = %q, want GLOBAL_TIMEOUT", code)
	}
	if result.Success {
		t.Error("result reports success after timeout")
	}
	if project.Status != model.ProjectStatusFailed {
		t.Errorf("project status %v, want failed", project.Status)
	}

	// The guard must be free again so a retry is possible.
	if !o.guard.TryAcquire(project.ID) {
		t.Error("guard still held after timeout")
	}
}

func (s *fakeObjectStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func (s *fakeObjectStore) statusWrites() []model.ProjectStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ProjectStatus
	for _, u := range s.updates {
		if u.Status != nil {
			out = append(out, *u.Status)
		}
	}
	return out
}

func (s *fakeObjectStore) projectStatus() model.ProjectStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Status
}

func TestOrchestrator_GlobalTimeoutDiscardsLateWrites(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))

	block := make(chan struct{})
	defer close(block)
	ops := &fakeOps{
		detect: func(context.Context, []byte) (*model.AnalysisResult, error) {
			<-block
			return &model.AnalysisResult{Segments: segmentsN(12)}, nil
		},
	}
	o := newTestOrchestrator(ops, st, Config{GlobalTimeout: 20 * time.Millisecond})

	_, err := o.ProcessProject(context.Background(), project, testOptions())
	if code := ErrorCode(err); code != "GLOBAL_TIMEOUT" {
		t.Fatalf("ErrorCode = %q, want GLOBAL_TIMEOUT", code)
	}

	// The deadline context cancels the in-flight run; wait for it to
	// exit. It records its own failure (update 3, after processing and
	// the deadline branch's failed write) and then must go quiet.
	deadline := time.Now().Add(2 * time.Second)
	for st.updateCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if got := st.projectStatus(); got != model.ProjectStatusFailed {
		t.Errorf("project status %v after the run wound down, want failed", got)
	}
	for _, status := range st.statusWrites() {
		if status == model.ProjectStatusCompleted {
			t.Error("a timed-out run must never mark the project completed")
		}
	}
	if snap := o.Progress(); snap.Status != model.PipelineFailed {
		t.Errorf("final snapshot status %v, want failed", snap.Status)
	}
}

// brokenStore fails every source read with a transient storage error.
type brokenStore struct {
	*fakeObjectStore
}

func (s *brokenStore) GetFile(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage offline")
}

func TestOrchestrator_TransientSourceReadFailure(t *testing.T) {
	project := testProject()
	st := &brokenStore{fakeObjectStore: newFakeStore(project, make([]byte, 1<<20))}
	o := newTestOrchestrator(&fakeOps{}, st, Config{})

	_, err := o.ProcessProject(context.Background(), project, testOptions())
	if err == nil {
		t.Fatal("expected source read failure")
	}
	if errors.Is(err, ErrSourceNotFound) {
		t.Error("a transient read failure must not report the source as missing")
	}
	if code := ErrorCode(err); code != "STAGE_FAILURE" {
		t.Errorf("ErrorCode = %q, want STAGE_FAILURE", code)
	}
	if project.Status != model.ProjectStatusFailed {
		t.Errorf("project status %v, want failed", project.Status)
	}
}

func TestOrchestrator_AlreadyProcessing(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	o := newTestOrchestrator(&fakeOps{}, st, Config{})

	o.guard.TryAcquire(project.ID)

	_, err := o.ProcessProject(context.Background(), project, testOptions())
	if !errors.Is(err, ErrAlreadyProcessing) {
		t.Fatalf("err = %v, want ErrAlreadyProcessing", err)
	}
}

func TestOrchestrator_SourceMissing(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, nil)
	delete(st.files, project.Source.ID)
	o := newTestOrchestrator(&fakeOps{}, st, Config{})

	_, err := o.ProcessProject(context.Background(), project, testOptions())
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
	if project.Status != model.ProjectStatusFailed {
		t.Errorf("project status %v, want failed", project.Status)
	}
}

func TestOrchestrator_InvalidOptionsRejected(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	o := newTestOrchestrator(&fakeOps{}, st, Config{})

	opts := testOptions()
	opts.MaxClipDuration = 1 // below MinClipDuration

	if _, err := o.ProcessProject(context.Background(), project, opts); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOrchestrator_AnalysisCacheReuse(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	ops := &fakeOps{}
	cache := NewResultCache(time.Minute)

	run := func() *model.PipelineResult {
		o := New(ops, st, NewJobGuard(), cache, Config{}, nil)
		result, err := o.ProcessProject(context.Background(), project, testOptions())
		if err != nil {
			t.Fatalf("ProcessProject: %v", err)
		}
		return result
	}

	first := run()

	// Re-run over the unchanged source: analysis is served from cache.
	o := New(ops, st, NewJobGuard(), cache, Config{}, nil)
	second, err := o.ProcessProject(context.Background(), project, testOptions())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if ops.analyzeCalls != 1 {
		t.Errorf("analysis ran %d times, want 1", ops.analyzeCalls)
	}
	if len(second.Clips) != len(first.Clips) {
		t.Errorf("cached run produced %d clips, first produced %d", len(second.Clips), len(first.Clips))
	}

	snap := o.Progress()
	if !snap.PerformanceMetrics.CacheHit {
		t.Error("cache hit not surfaced in metrics")
	}
	for _, stage := range snap.Stages {
		if stage.ID != "analyze" {
			continue
		}
		for _, sub := range stage.SubStages {
			if sub.Status != model.StageSkipped {
				t.Errorf("analysis sub-stage %s status %v, want skipped", sub.ID, sub.Status)
			}
		}
	}
}

func TestOrchestrator_TranscriptPipelineDegradesGracefully(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	var mergeCalls int32
	ops := &fakeOps{
		extract: func(context.Context, []byte) ([]byte, error) {
			return nil, errors.New("extractor down")
		},
		transcribe: func(context.Context, []byte) (*model.Transcript, error) {
			return nil, errors.New("transcriber down")
		},
		merge: func(_ context.Context, video, _ []byte, _ string) ([]byte, error) {
			atomic.AddInt32(&mergeCalls, 1)
			return video, nil
		},
	}
	o := newTestOrchestrator(ops, st, Config{})

	opts := testOptions()
	opts.EnableTranscript = true

	result, err := o.ProcessProject(context.Background(), project, opts)
	if err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}
	if !result.Success {
		t.Fatal("run should succeed on fallbacks")
	}

	var sawExtract, sawTranscribe bool
	for _, d := range result.DegradationsApplied {
		if strings.Contains(d, "audio-extraction") {
			sawExtract = true
		}
		if strings.Contains(d, "transcription") {
			sawTranscribe = true
		}
	}
	if !sawExtract || !sawTranscribe {
		t.Errorf("degradations %v missing extraction/transcription entries", result.DegradationsApplied)
	}

	// The heuristic transcript carries no text, so no clip should reach
	// the merge step and all clips stay ready.
	if n := atomic.LoadInt32(&mergeCalls); n != 0 {
		t.Errorf("merge called %d times on the fallback path, want 0", n)
	}
	for i, clip := range result.Clips {
		if clip.Status != model.ClipStatusReady {
			t.Errorf("clip %d status %q, want %q", i, clip.Status, model.ClipStatusReady)
		}
	}
}

func TestOrchestrator_ClipFailureIsNotFatal(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))

	// Persisting the second clip fails; the rest of the batch continues.
	failingStore := &clipFailStore{fakeObjectStore: st, failIndex: 1}
	o := newTestOrchestrator(&fakeOps{}, failingStore, Config{})

	result, err := o.ProcessProject(context.Background(), project, testOptions())
	if err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}
	if !result.Success {
		t.Fatal("batch failure must not fail the run")
	}
	if len(result.Clips) != 2 {
		t.Errorf("got %d clips, want 2 (one skipped)", len(result.Clips))
	}

	snap := o.Progress()
	if snap.PerformanceMetrics.ClipsFailed != 1 {
		t.Errorf("ClipsFailed = %d, want 1", snap.PerformanceMetrics.ClipsFailed)
	}
}

// clipFailStore fails SaveClip for the nth call.
type clipFailStore struct {
	*fakeObjectStore
	mu        sync.Mutex
	saveCalls int
	failIndex int
}

func (s *clipFailStore) SaveClip(ctx context.Context, clip *model.GeneratedClip) (string, error) {
	s.mu.Lock()
	idx := s.saveCalls
	s.saveCalls++
	s.mu.Unlock()
	if idx == s.failIndex {
		return "", errors.New("storage write refused")
	}
	return s.fakeObjectStore.SaveClip(ctx, clip)
}

func TestOrchestrator_ParallelClipsKeepCandidateOrder(t *testing.T) {
	project := testProject()
	st := newFakeStore(project, make([]byte, 1<<20))
	o := newTestOrchestrator(&fakeOps{}, st, Config{})

	opts := testOptions()
	opts.ClipParallelism = 4

	result, err := o.ProcessProject(context.Background(), project, opts)
	if err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}

	// Non-AI candidates carry index-stamped captions; clip order must
	// match candidate order regardless of which worker finished first.
	if len(result.Clips) != 3 {
		t.Fatalf("got %d clips, want 3", len(result.Clips))
	}
	for i, clip := range result.Clips {
		want := fmt.Sprintf("Highlight %d", i+1)
		if clip.Caption != want {
			t.Errorf("clip %d caption %q, want %q", i, clip.Caption, want)
		}
	}
}
