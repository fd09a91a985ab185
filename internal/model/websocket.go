package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage carries a full progress snapshot on every tracker
// mutation.
type WSProgressMessage struct {
	Type     string      `json:"type"`
	JobID    string      `json:"jobId"`
	Snapshot JobProgress `json:"snapshot"`
}

// WSCompleteMessage carries the final pipeline result.
type WSCompleteMessage struct {
	Type   string          `json:"type"`
	JobID  string          `json:"jobId"`
	Result *PipelineResult `json:"result"`
}

// WSErrorMessage reports a terminal failure.
type WSErrorMessage struct {
	Type  string  `json:"type"`
	JobID string  `json:"jobId"`
	Error WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
