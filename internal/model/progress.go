package model

import "time"

// SubStage is a finer-grained step inside a stage. It carries no weight
// and exists for diagnostic detail only; it never feeds the weighted
// overall progress.
type SubStage struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Status       StageStatus `json:"status"`
	Progress     int         `json:"progress"`
	Detail       string      `json:"detail,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	StartedAt    *time.Time  `json:"startedAt,omitempty"`
	EndedAt      *time.Time  `json:"endedAt,omitempty"`
}

// Stage is a named, weighted phase of the pipeline. Top-level stage
// weights must sum to 1.0; a stage's progress is independent of its
// sub-stages' progress.
type Stage struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Weight       float64     `json:"weight"`
	Status       StageStatus `json:"status"`
	Progress     int         `json:"progress"`
	Detail       string      `json:"detail,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	StartedAt    *time.Time  `json:"startedAt,omitempty"`
	EndedAt      *time.Time  `json:"endedAt,omitempty"`
	Duration     float64     `json:"duration,omitempty"` // seconds
	SubStages    []SubStage  `json:"subStages,omitempty"`
}

// PerformanceMetrics carries coarse timing/throughput counters for the
// run. Fields are merged shallowly; zero values are ignored on merge.
type PerformanceMetrics struct {
	SegmentsAnalyzed   int     `json:"segmentsAnalyzed,omitempty"`
	ClipsRequested     int     `json:"clipsRequested,omitempty"`
	ClipsGenerated     int     `json:"clipsGenerated,omitempty"`
	ClipsFailed        int     `json:"clipsFailed,omitempty"`
	CacheHit           bool    `json:"cacheHit,omitempty"`
	TranscriptSegments int     `json:"transcriptSegments,omitempty"`
	BytesProcessed     int64   `json:"bytesProcessed,omitempty"`
	AnalysisSeconds    float64 `json:"analysisSeconds,omitempty"`
}

// JobProgress is the read model exposed to callers. Snapshots are
// immutable copies; mutating a snapshot never affects the tracker.
type JobProgress struct {
	OverallProgress        int                `json:"overallProgress"`
	CurrentStageName       string             `json:"currentStageName"`
	CurrentStageProgress   int                `json:"currentStageProgress"`
	Stages                 []Stage            `json:"stages"`
	ElapsedTime            float64            `json:"elapsedTime"` // seconds
	EstimatedTimeRemaining float64            `json:"estimatedTimeRemaining"`
	Status                 PipelineStatus     `json:"status"`
	FailedStageID          string             `json:"failedStageId,omitempty"`
	ErrorMessage           string             `json:"errorMessage,omitempty"`
	PerformanceMetrics     PerformanceMetrics `json:"performanceMetrics"`
	DebugInfo              map[string]string  `json:"debugInfo,omitempty"`
}
