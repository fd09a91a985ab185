package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clipforge/api/internal/config"
	"github.com/clipforge/api/internal/model"
)

// MediaProcessor defines the codec operations served by the media
// microservice.
type MediaProcessor interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error)
	ExtractAudio(ctx context.Context, req *ExtractAudioRequest) (*ExtractAudioResponse, error)
	Cut(ctx context.Context, req *CutRequest) (*CutResponse, error)
	Merge(ctx context.Context, req *MergeRequest) (*MergeResponse, error)
	HealthCheck(ctx context.Context) error
}

// MediaClient implements MediaProcessor over the HTTP media service.
type MediaClient struct {
	httpClient *http.Client
	baseURL    string
}

// AnalyzeRequest carries the source video for scene/energy analysis.
// Byte payloads travel base64-encoded in JSON.
type AnalyzeRequest struct {
	Video []byte `json:"video"`
}

// AnalyzeResponse returns detected scenes and audio statistics.
type AnalyzeResponse struct {
	Segments   []model.SceneSegment `json:"segments"`
	AudioStats model.AudioStats     `json:"audio_stats"`
}

// ExtractAudioRequest carries the source video for audio extraction.
type ExtractAudioRequest struct {
	Video []byte `json:"video"`
}

// ExtractAudioResponse returns the extracted audio track.
type ExtractAudioResponse struct {
	Audio []byte `json:"audio"`
}

// CutRequest cuts one sub-range out of the source video.
type CutRequest struct {
	Video   []byte  `json:"video"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Quality string  `json:"quality,omitempty"`
}

// CutResponse returns the cut clip bytes.
type CutResponse struct {
	Clip []byte `json:"clip"`
}

// MergeRequest remuxes a clip with its audio sub-range and burned-in
// transcript text.
type MergeRequest struct {
	Video      []byte `json:"video"`
	Audio      []byte `json:"audio"`
	Transcript string `json:"transcript,omitempty"`
}

// MergeResponse returns the merged clip bytes.
type MergeResponse struct {
	Clip []byte `json:"clip"`
}

// NewMediaClient creates a new media service client
func NewMediaClient(cfg *config.MediaConfig) *MediaClient {
	return &MediaClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.ServiceURL,
	}
}

// Analyze runs scene detection and audio-energy analysis
func (c *MediaClient) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	var result AnalyzeResponse
	if err := c.post(ctx, "/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractAudio pulls the audio track out of the source video
func (c *MediaClient) ExtractAudio(ctx context.Context, req *ExtractAudioRequest) (*ExtractAudioResponse, error) {
	var result ExtractAudioResponse
	if err := c.post(ctx, "/extract-audio", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Cut produces a clip for the given sub-range
func (c *MediaClient) Cut(ctx context.Context, req *CutRequest) (*CutResponse, error) {
	var result CutResponse
	if err := c.post(ctx, "/cut", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Merge remuxes a clip with its audio sub-range
func (c *MediaClient) Merge(ctx context.Context, req *MergeRequest) (*MergeResponse, error) {
	var result MergeResponse
	if err := c.post(ctx, "/merge", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck verifies the media service is reachable
func (c *MediaClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media service unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// IsConfigured returns true if the client has a service URL
func (c *MediaClient) IsConfigured() bool {
	return c != nil && c.baseURL != ""
}

func (c *MediaClient) post(ctx context.Context, endpoint string, payload, result interface{}) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
