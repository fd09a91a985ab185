package model

import "time"

// Job represents a background clip-generation job in the system
type Job struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Status      JobStatus    `json:"status"`
	Progress    int          `json:"progress"`
	CurrentStep string       `json:"currentStep,omitempty"`
	Snapshot    *JobProgress `json:"snapshot,omitempty"`
	Error       *string      `json:"error,omitempty"`
	Payload     []byte       `json:"payload,omitempty"` // JSON-encoded ClipJobPayload
	Result      []byte       `json:"result,omitempty"`  // JSON-encoded PipelineResult
	CreatedAt   time.Time    `json:"createdAt"`
	StartedAt   *time.Time   `json:"startedAt,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	RetryCount  int          `json:"retryCount"`
}

// Job types
const (
	JobTypeClips = "clips"
)

// ClipJobPayload contains the data for a clip-generation job
type ClipJobPayload struct {
	ProjectID string         `json:"projectId"`
	Options   ProcessOptions `json:"options"`
}
