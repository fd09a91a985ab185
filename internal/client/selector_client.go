package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clipforge/api/internal/config"
	"github.com/clipforge/api/internal/model"
)

// SelectorClient asks a hosted LLM to pick and enrich highlight clips
// from ranked scene segments, via an OpenAI-compatible chat endpoint.
type SelectorClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// ChatMessage represents a message in the chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

const selectorSystemPrompt = `You select short-form highlight clips from video scene segments.
Reply with a JSON array only. Each element: {"startTime", "endTime", "excitementScore",
"isHighlight", "caption", "hashtags", "viralPotential", "targetAudience", "engagementHooks"}.`

// NewSelectorClient creates a new highlight selector client
func NewSelectorClient(cfg *config.SelectorConfig) *SelectorClient {
	return &SelectorClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// SelectHighlights sends the segment list (and any transcript context)
// to the model and parses the returned candidate list.
func (c *SelectorClient) SelectHighlights(ctx context.Context, segments []model.SceneSegment, title string, maxClips int, transcript *model.Transcript) ([]model.ClipCandidate, error) {
	content, err := c.chatCompletion(ctx, selectorSystemPrompt, buildSelectorPrompt(segments, title, maxClips, transcript))
	if err != nil {
		return nil, err
	}

	var candidates []model.ClipCandidate
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse selector output: %w", err)
	}
	for i := range candidates {
		candidates[i].Duration = candidates[i].EndTime - candidates[i].StartTime
	}
	return candidates, nil
}

func buildSelectorPrompt(segments []model.SceneSegment, title string, maxClips int, transcript *model.Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video: %q. Pick up to %d highlight clips from these segments:\n", title, maxClips)
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d. %.1fs-%.1fs excitement=%.2f", i+1, seg.StartTime, seg.EndTime, seg.ExcitementScore)
		if transcript != nil {
			if text := transcript.TextBetween(seg.StartTime, seg.EndTime); text != "" {
				fmt.Fprintf(&b, " transcript=%q", text)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// extractJSONArray trims any prose the model wraps around the array.
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

func (c *SelectorClient) chatCompletion(ctx context.Context, system, user string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.4,
		MaxTokens:   2048,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("selector API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *SelectorClient) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}
