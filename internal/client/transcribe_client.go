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

// TranscribeClient talks to an OpenAI-compatible transcription endpoint.
type TranscribeClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

type transcriptionRequest struct {
	Model string `json:"model"`
	Audio []byte `json:"audio"`
}

type transcriptionResponse struct {
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"segments"`
}

// NewTranscribeClient creates a new transcription client
func NewTranscribeClient(cfg *config.TranscribeConfig) *TranscribeClient {
	return &TranscribeClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// Transcribe sends audio for transcription and maps the response to the
// internal transcript model.
func (c *TranscribeClient) Transcribe(ctx context.Context, audio []byte) (*model.Transcript, error) {
	reqBody := transcriptionRequest{Model: c.model, Audio: audio}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := &model.Transcript{Segments: make([]model.TranscriptSegment, len(tr.Segments))}
	for i, seg := range tr.Segments {
		out.Segments[i] = model.TranscriptSegment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		}
	}
	return out, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *TranscribeClient) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}
