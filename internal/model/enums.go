package model

// Job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
	JobStatusPaused    JobStatus = "paused"
)

// Pipeline status as observed by progress subscribers
type PipelineStatus string

const (
	PipelineInitializing PipelineStatus = "initializing"
	PipelineProcessing   PipelineStatus = "processing"
	PipelineCompleted    PipelineStatus = "completed"
	PipelineFailed       PipelineStatus = "failed"
	PipelinePaused       PipelineStatus = "paused"
)

// Stage status
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
	StageFailed     StageStatus = "failed"
	StageSkipped    StageStatus = "skipped"
)

// Terminal reports whether a stage will not transition again.
func (s StageStatus) Terminal() bool {
	return s == StageCompleted || s == StageFailed || s == StageSkipped
}

// Clip output quality
type QualityLevel string

const (
	QualityLow    QualityLevel = "low"
	QualityMedium QualityLevel = "medium"
	QualityHigh   QualityLevel = "high"
)

var ValidQualityLevels = []QualityLevel{QualityLow, QualityMedium, QualityHigh}

// Target platforms for generated clips
type Platform string

const (
	PlatformTikTok   Platform = "tiktok"
	PlatformShorts   Platform = "shorts"
	PlatformReels    Platform = "reels"
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
	PlatformFacebook Platform = "facebook"
)

// Clip record status
type ClipStatus string

const (
	ClipStatusReady     ClipStatus = "ready"
	ClipStatusVideoOnly ClipStatus = "video_only"
	ClipStatusFailed    ClipStatus = "failed"
)

// Project record status
type ProjectStatus string

const (
	ProjectStatusCreated    ProjectStatus = "created"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusFailed     ProjectStatus = "failed"
)
