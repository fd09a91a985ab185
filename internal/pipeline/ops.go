package pipeline

import (
	"context"
	"time"

	"github.com/clipforge/api/internal/model"
)

// SelectionContext carries what a highlight selector needs beyond the
// raw segments.
type SelectionContext struct {
	ProjectTitle    string
	SourceDuration  float64
	MinClipDuration float64
	MaxClipDuration float64
	MaxClips        int
	Transcript      *model.Transcript
}

// MediaOperations are the pluggable media codecs consumed by the
// orchestrator. Each is a suspension point that may succeed, fail or
// hang; the orchestrator owns all timeout and fallback policy.
type MediaOperations interface {
	DetectScenesAndEnergy(ctx context.Context, video []byte) (*model.AnalysisResult, error)
	ExtractAudio(ctx context.Context, video []byte) ([]byte, error)
	Transcribe(ctx context.Context, audio []byte) (*model.Transcript, error)
	SelectHighlights(ctx context.Context, segments []model.SceneSegment, sel SelectionContext) ([]model.ClipCandidate, error)
	CutClip(ctx context.Context, video []byte, start, end float64, quality model.QualityLevel) ([]byte, error)
	MergeVideoAudio(ctx context.Context, video, audio []byte, transcriptText string) ([]byte, error)
}

// ProjectUpdate is a partial update applied to a stored project record.
// Nil fields are left untouched.
type ProjectUpdate struct {
	Status      *model.ProjectStatus
	Error       *string
	ClipIDs     []string
	CompletedAt *time.Time
}

// ObjectStore is the narrow persistence surface the pipeline consumes.
type ObjectStore interface {
	GetFile(ctx context.Context, id string) ([]byte, error)
	SaveClip(ctx context.Context, clip *model.GeneratedClip) (string, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	UpdateProject(ctx context.Context, id string, update ProjectUpdate) error
}
