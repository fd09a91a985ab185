package progress

import (
	"math"
	"sync"
	"time"

	"github.com/clipforge/api/internal/model"
)

// Subscriber receives an immutable snapshot after every mutation. It is
// invoked synchronously while the tracker lock is NOT held, so a
// subscriber may call Snapshot() but must not mutate the tracker from
// within the callback if it wants strictly ordered snapshots.
type Subscriber func(model.JobProgress)

// Tracker owns one stage graph instance per job and recomputes the
// weighted overall progress, elapsed time and ETA on every mutation.
type Tracker struct {
	mu         sync.Mutex
	graph      *Graph
	stages     []model.Stage
	status     model.PipelineStatus
	metrics    model.PerformanceMetrics
	debug      map[string]string
	failedID   string
	errMsg     string
	startTime  time.Time
	now        func() time.Time
	subscriber Subscriber

	// ids of stages in the order they entered in_progress; the last
	// entry still in_progress wins the currentStage tie-break.
	inProgressOrder []string
}

// NewTracker builds a tracker over the given graph. subscriber may be nil.
func NewTracker(graph *Graph, subscriber Subscriber) *Tracker {
	t := &Tracker{
		graph:      graph,
		subscriber: subscriber,
		now:        time.Now,
	}
	t.resetLocked()
	return t
}

// Reset reinitializes all stages to pending/0, clears timings and
// notifies the subscriber.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.resetLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

func (t *Tracker) resetLocked() {
	t.stages = t.graph.Stages()
	t.status = model.PipelineInitializing
	t.metrics = model.PerformanceMetrics{}
	t.debug = nil
	t.failedID = ""
	t.errMsg = ""
	t.startTime = t.now()
	t.inProgressOrder = nil
}

// UpdateStage sets the named stage's status, progress and detail.
// Unknown ids are a silent no-op: callers issue updates for stages that
// may not exist across pipeline variants. startedAt is set the first
// time the stage enters in_progress; endedAt/duration the first time it
// completes (a second completion never overwrites them).
func (t *Tracker) UpdateStage(id string, status model.StageStatus, progress int, detail string) {
	t.mu.Lock()
	st := t.stageLocked(id)
	if st == nil {
		t.mu.Unlock()
		return
	}
	t.applyTransition(&st.Status, &st.StartedAt, &st.EndedAt, status)
	if st.EndedAt != nil && st.StartedAt != nil && st.Duration == 0 {
		st.Duration = st.EndedAt.Sub(*st.StartedAt).Seconds()
	}
	st.Progress = clampProgress(progress)
	if detail != "" {
		st.Detail = detail
	}
	if status == model.StageInProgress {
		t.recordInProgress(id)
	}
	if t.status == model.PipelineInitializing && status == model.StageInProgress {
		t.status = model.PipelineProcessing
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// UpdateSubStage updates a sub-stage under the named parent. No-op when
// the parent or the sub-stage is not found. Sub-stage progress never
// feeds the parent stage.
func (t *Tracker) UpdateSubStage(stageID, subID string, status model.StageStatus, progress int, detail string) {
	t.mu.Lock()
	st := t.stageLocked(stageID)
	if st == nil {
		t.mu.Unlock()
		return
	}
	var sub *model.SubStage
	for i := range st.SubStages {
		if st.SubStages[i].ID == subID {
			sub = &st.SubStages[i]
			break
		}
	}
	if sub == nil {
		t.mu.Unlock()
		return
	}
	t.applyTransition(&sub.Status, &sub.StartedAt, &sub.EndedAt, status)
	sub.Progress = clampProgress(progress)
	if detail != "" {
		sub.Detail = detail
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// FailStage marks a stage failed with an error message and flips the
// pipeline status to failed.
func (t *Tracker) FailStage(id, errMsg string) {
	t.mu.Lock()
	if st := t.stageLocked(id); st != nil {
		t.applyTransition(&st.Status, &st.StartedAt, &st.EndedAt, model.StageFailed)
		st.ErrorMessage = errMsg
	}
	t.status = model.PipelineFailed
	t.failedID = id
	t.errMsg = errMsg
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// SetStatus sets the pipeline-level status (paused/processing/terminal).
func (t *Tracker) SetStatus(status model.PipelineStatus) {
	t.mu.Lock()
	t.status = status
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// UpdatePerformanceMetrics shallow-merges non-zero fields into the
// metrics read model.
func (t *Tracker) UpdatePerformanceMetrics(partial model.PerformanceMetrics) {
	t.mu.Lock()
	m := &t.metrics
	if partial.SegmentsAnalyzed != 0 {
		m.SegmentsAnalyzed = partial.SegmentsAnalyzed
	}
	if partial.ClipsRequested != 0 {
		m.ClipsRequested = partial.ClipsRequested
	}
	if partial.ClipsGenerated != 0 {
		m.ClipsGenerated = partial.ClipsGenerated
	}
	if partial.ClipsFailed != 0 {
		m.ClipsFailed = partial.ClipsFailed
	}
	if partial.CacheHit {
		m.CacheHit = true
	}
	if partial.TranscriptSegments != 0 {
		m.TranscriptSegments = partial.TranscriptSegments
	}
	if partial.BytesProcessed != 0 {
		m.BytesProcessed = partial.BytesProcessed
	}
	if partial.AnalysisSeconds != 0 {
		m.AnalysisSeconds = partial.AnalysisSeconds
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// UpdateDebugInfo shallow-merges key/value pairs into the debug map.
func (t *Tracker) UpdateDebugInfo(partial map[string]string) {
	t.mu.Lock()
	if t.debug == nil {
		t.debug = make(map[string]string, len(partial))
	}
	for k, v := range partial {
		t.debug[k] = v
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// Snapshot returns an immutable copy of the current read model.
func (t *Tracker) Snapshot() model.JobProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) stageLocked(id string) *model.Stage {
	for i := range t.stages {
		if t.stages[i].ID == id {
			return &t.stages[i]
		}
	}
	return nil
}

// applyTransition sets timestamps for the in_progress and terminal
// transitions. Completion timestamps are write-once.
func (t *Tracker) applyTransition(status *model.StageStatus, startedAt, endedAt **time.Time, next model.StageStatus) {
	if next == model.StageInProgress && *startedAt == nil {
		now := t.now()
		*startedAt = &now
	}
	if next.Terminal() && *endedAt == nil {
		now := t.now()
		*endedAt = &now
	}
	*status = next
}

func (t *Tracker) recordInProgress(id string) {
	for _, existing := range t.inProgressOrder {
		if existing == id {
			return
		}
	}
	t.inProgressOrder = append(t.inProgressOrder, id)
}

func (t *Tracker) snapshotLocked() model.JobProgress {
	var weighted float64
	for _, st := range t.stages {
		weighted += float64(st.Progress) / 100 * st.Weight
	}
	overall := int(math.Round(weighted * 100))
	if overall > 100 {
		overall = 100
	}

	elapsed := t.now().Sub(t.startTime).Seconds()
	var eta float64
	if overall > 0 {
		frac := float64(overall) / 100
		eta = math.Max(0, elapsed/frac-elapsed)
	}

	curName, curProgress := t.currentStageLocked()

	stages := make([]model.Stage, len(t.stages))
	for i, st := range t.stages {
		stages[i] = st
		stages[i].SubStages = append([]model.SubStage(nil), st.SubStages...)
	}

	var debug map[string]string
	if len(t.debug) > 0 {
		debug = make(map[string]string, len(t.debug))
		for k, v := range t.debug {
			debug[k] = v
		}
	}

	return model.JobProgress{
		OverallProgress:        overall,
		CurrentStageName:       curName,
		CurrentStageProgress:   curProgress,
		Stages:                 stages,
		ElapsedTime:            elapsed,
		EstimatedTimeRemaining: eta,
		Status:                 t.status,
		FailedStageID:          t.failedID,
		ErrorMessage:           t.errMsg,
		PerformanceMetrics:     t.metrics,
		DebugInfo:              debug,
	}
}

// currentStageLocked resolves the "current" stage as the stage that
// most recently transitioned to in_progress and is still in_progress.
// That is the explicit tie-break when updates arrive out of the linear
// order.
func (t *Tracker) currentStageLocked() (string, int) {
	for i := len(t.inProgressOrder) - 1; i >= 0; i-- {
		if st := t.stageLocked(t.inProgressOrder[i]); st != nil && st.Status == model.StageInProgress {
			return st.Name, st.Progress
		}
	}
	return "", 0
}

func (t *Tracker) notify(snap model.JobProgress) {
	if t.subscriber != nil {
		t.subscriber(snap)
	}
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
