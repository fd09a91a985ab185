package client

import (
	"context"
	"fmt"
	"log"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
)

// Operations adapts the external media/AI clients to the orchestrator's
// operation surface. Any unconfigured client falls back to a local mock
// path so the service keeps working in development, mirroring how the
// rest of the API degrades when hosted dependencies are absent.
type Operations struct {
	media      *MediaClient
	transcribe *TranscribeClient
	selector   *SelectorClient
}

// NewOperations wires the clients; any of them may be nil/unconfigured.
func NewOperations(media *MediaClient, transcribe *TranscribeClient, selector *SelectorClient) *Operations {
	return &Operations{media: media, transcribe: transcribe, selector: selector}
}

var _ pipeline.MediaOperations = (*Operations)(nil)

// DetectScenesAndEnergy runs the analysis endpoint, or synthesizes a
// deterministic mock analysis when the media service is absent.
func (o *Operations) DetectScenesAndEnergy(ctx context.Context, video []byte) (*model.AnalysisResult, error) {
	if !o.media.IsConfigured() {
		log.Printf("media service not configured, using mock analysis")
		return mockAnalysis(video), nil
	}
	resp, err := o.media.Analyze(ctx, &AnalyzeRequest{Video: video})
	if err != nil {
		return nil, err
	}
	return &model.AnalysisResult{Segments: resp.Segments, AudioStats: resp.AudioStats}, nil
}

func (o *Operations) ExtractAudio(ctx context.Context, video []byte) ([]byte, error) {
	if !o.media.IsConfigured() {
		return nil, fmt.Errorf("media service not configured")
	}
	resp, err := o.media.ExtractAudio(ctx, &ExtractAudioRequest{Video: video})
	if err != nil {
		return nil, err
	}
	return resp.Audio, nil
}

func (o *Operations) Transcribe(ctx context.Context, audio []byte) (*model.Transcript, error) {
	if !o.transcribe.IsConfigured() {
		return nil, fmt.Errorf("transcription API not configured")
	}
	return o.transcribe.Transcribe(ctx, audio)
}

func (o *Operations) SelectHighlights(ctx context.Context, segments []model.SceneSegment, sel pipeline.SelectionContext) ([]model.ClipCandidate, error) {
	if !o.selector.IsConfigured() {
		return nil, fmt.Errorf("selector API not configured")
	}
	return o.selector.SelectHighlights(ctx, segments, sel.ProjectTitle, sel.MaxClips, sel.Transcript)
}

func (o *Operations) CutClip(ctx context.Context, video []byte, start, end float64, quality model.QualityLevel) ([]byte, error) {
	if !o.media.IsConfigured() {
		return nil, fmt.Errorf("media service not configured")
	}
	resp, err := o.media.Cut(ctx, &CutRequest{Video: video, Start: start, End: end, Quality: string(quality)})
	if err != nil {
		return nil, err
	}
	return resp.Clip, nil
}

func (o *Operations) MergeVideoAudio(ctx context.Context, video, audio []byte, transcriptText string) ([]byte, error) {
	if !o.media.IsConfigured() {
		return nil, fmt.Errorf("media service not configured")
	}
	resp, err := o.media.Merge(ctx, &MergeRequest{Video: video, Audio: audio, Transcript: transcriptText})
	if err != nil {
		return nil, err
	}
	return resp.Clip, nil
}

// mockAnalysis slices the source into fixed 15s scenes with a score
// derived from the byte content, so development runs are repeatable.
func mockAnalysis(video []byte) *model.AnalysisResult {
	// Without a real probe, assume ~1MB per 10 seconds of footage.
	duration := float64(len(video)) / (1024 * 1024) * 10
	if duration < 30 {
		duration = 30
	}
	var segments []model.SceneSegment
	for start := 0.0; start < duration; start += 15 {
		end := start + 15
		if end > duration {
			end = duration
		}
		score := 0.3 + float64(int(start)%7)/10.0
		if score > 1 {
			score = 1
		}
		segments = append(segments, model.SceneSegment{StartTime: start, EndTime: end, ExcitementScore: score})
	}
	return &model.AnalysisResult{
		Segments: segments,
		AudioStats: model.AudioStats{
			MeanEnergy:   0.4,
			PeakEnergy:   0.9,
			SilenceRatio: 0.2,
		},
	}
}
