package model

import "time"

// ProcessOptions is the fully enumerated pipeline configuration,
// validated at entry. Feature toggles are explicit booleans; there is
// no pass-through option bag.
type ProcessOptions struct {
	MinClipDuration  float64      `json:"minClipDuration" validate:"gte=0"`
	MaxClipDuration  float64      `json:"maxClipDuration" validate:"gtefield=MinClipDuration"`
	Quality          QualityLevel `json:"quality" validate:"oneof=low medium high"`
	EnableAI         bool         `json:"enableAI"`
	EnableTranscript bool         `json:"enableTranscript"`
	MaxClips         int          `json:"maxClips" validate:"gte=0,lte=50"`
	ClipParallelism  int          `json:"clipParallelism" validate:"gte=0,lte=8"`
}

// DefaultProcessOptions returns the options applied when a request
// omits them.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{
		MinClipDuration: 5,
		MaxClipDuration: 60,
		Quality:         QualityMedium,
		MaxClips:        10,
	}
}

// GenerateClipsRequest starts a pipeline run for a project.
type GenerateClipsRequest struct {
	ProjectID string          `json:"projectId" validate:"required,uuid4"`
	Options   *ProcessOptions `json:"options,omitempty"`
}

// GenerateClipsResponse acknowledges an enqueued job.
type GenerateClipsResponse struct {
	JobID             string    `json:"jobId"`
	Status            JobStatus `json:"status"`
	EstimatedDuration int       `json:"estimatedDuration"` // seconds
	CreatedAt         time.Time `json:"createdAt"`
}

// ClipJobStatusResponse reports job state plus the live progress snapshot.
type ClipJobStatusResponse struct {
	JobID       string       `json:"jobId"`
	Status      JobStatus    `json:"status"`
	Progress    int          `json:"progress"`
	CurrentStep string       `json:"currentStep,omitempty"`
	Snapshot    *JobProgress `json:"snapshot,omitempty"`
	Error       *string      `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	StartedAt   *time.Time   `json:"startedAt,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	RetryCount  int          `json:"retryCount"`
}

// ClipJobResultResponse returns the final pipeline summary.
type ClipJobResultResponse struct {
	JobID  string          `json:"jobId"`
	Result *PipelineResult `json:"result"`
}

// ClipJobControlResponse acknowledges cancel/pause/resume requests.
// These flip the job status only; in-flight work is not interrupted.
type ClipJobControlResponse struct {
	Success bool      `json:"success"`
	JobID   string    `json:"jobId"`
	Status  JobStatus `json:"status"`
}

// CreateProjectRequest registers a new project.
type CreateProjectRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// UploadSourceResponse acknowledges a source-video upload.
type UploadSourceResponse struct {
	ProjectID string `json:"projectId"`
	FileID    string `json:"fileId"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	URL       string `json:"url,omitempty"`
}
