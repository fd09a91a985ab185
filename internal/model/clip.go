package model

import "time"

// SourceFile identifies an uploaded source video well enough to build
// an analysis-cache fingerprint (name + size + upload time).
type SourceFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Duration   float64   `json:"duration,omitempty"` // seconds, 0 if unknown
	UploadedAt time.Time `json:"uploadedAt"`
}

// Project is the external record a pipeline run is attached to.
type Project struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"ownerId"`
	Title       string        `json:"title"`
	Status      ProjectStatus `json:"status"`
	Source      SourceFile    `json:"source"`
	ClipIDs     []string      `json:"clipIds,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// SceneSegment is one detected scene with its excitement heuristic.
type SceneSegment struct {
	StartTime       float64 `json:"startTime"`
	EndTime         float64 `json:"endTime"`
	ExcitementScore float64 `json:"excitementScore"` // 0..1
}

// Duration returns the segment length in seconds.
func (s SceneSegment) Duration() float64 { return s.EndTime - s.StartTime }

// AudioStats summarizes the audio-energy analysis of the source.
type AudioStats struct {
	MeanEnergy   float64   `json:"meanEnergy"`
	PeakEnergy   float64   `json:"peakEnergy"`
	EnergyCurve  []float64 `json:"energyCurve,omitempty"`
	SilenceRatio float64   `json:"silenceRatio"`
}

// AnalysisResult is the expensive intermediate cached per fingerprint.
type AnalysisResult struct {
	Segments   []SceneSegment `json:"segments"`
	AudioStats AudioStats     `json:"audioStats"`
	AnalyzedAt time.Time      `json:"analyzedAt"`
}

// TranscriptSegment is one timed span of transcribed speech.
type TranscriptSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Transcript is the full transcription result for the source audio.
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
}

// TextBetween returns the concatenated text of segments contained in
// [start, end]. Containment follows segment start/end, not overlap of
// partial words.
func (t *Transcript) TextBetween(start, end float64) string {
	if t == nil {
		return ""
	}
	var out string
	for _, seg := range t.Segments {
		if seg.Start >= start && seg.End <= end {
			if out != "" {
				out += " "
			}
			out += seg.Text
		}
	}
	return out
}

// ClipCandidate is a segment chosen (or eligible) for clip generation,
// enriched with publishing metadata by the AI selector or by the
// deterministic fallback generator. A single pipeline run owns its
// candidate list exclusively.
type ClipCandidate struct {
	StartTime       float64  `json:"startTime"`
	EndTime         float64  `json:"endTime"`
	Duration        float64  `json:"duration"`
	ExcitementScore float64  `json:"excitementScore"` // 0..1
	IsHighlight     bool     `json:"isHighlight"`

	Caption         string     `json:"caption,omitempty"`
	Hashtags        []string   `json:"hashtags,omitempty"`
	ViralPotential  float64    `json:"viralPotential,omitempty"`
	Platforms       []Platform `json:"platforms,omitempty"`
	TargetAudience  string     `json:"targetAudience,omitempty"`
	EngagementHooks []string   `json:"engagementHooks,omitempty"`
}

// GeneratedClip is the final output unit, written once at the end of a
// run and never mutated after persistence.
type GeneratedClip struct {
	ID         string       `json:"id"`
	ProjectID  string       `json:"projectId"`
	StartTime  float64      `json:"startTime"`
	EndTime    float64      `json:"endTime"`
	Duration   float64      `json:"duration"`
	VideoBytes []byte       `json:"-"`
	VideoKey   string       `json:"videoKey,omitempty"`
	Caption    string       `json:"caption"`
	Hashtags   []string     `json:"hashtags,omitempty"`
	Status     ClipStatus   `json:"status"`
	Quality    QualityLevel `json:"quality"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// PipelineResult is the summary returned by a completed run.
type PipelineResult struct {
	Success             bool            `json:"success"`
	Clips               []GeneratedClip `json:"clips"`
	ProcessingTime      float64         `json:"processingTime"` // seconds
	DegradationsApplied []string        `json:"degradationsApplied,omitempty"`
	Error               string          `json:"error,omitempty"`
}
