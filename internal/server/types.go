// Package server provides the HTTP transport for the audio enhancement
// service. It includes handlers, middleware, routes, and DTOs separated from
// domain types.
package server

import "time"

// ChooseActionRequest is the HTTP request body for selecting an action.
type ChooseActionRequest struct {
	// Action is the pipeline action to bind to the next upload.
	Action string `json:"action" validate:"required,oneof=analyze enhance mono_to_stereo full_process help"`
}

// ChooseActionResponse is the HTTP response after selecting an action.
type ChooseActionResponse struct {
	// Action is the selected action.
	Action string `json:"action"`
	// ExpiresAt is when the pending session lapses. Omitted for help.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// Help carries the static help text when the help action was chosen.
	Help string `json:"help,omitempty"`
}

// UploadRequest is the HTTP request body for an audio upload.
type UploadRequest struct {
	// Filename is the original filename; may be empty for voice notes.
	Filename string `json:"filename"`
	// AudioBase64 is the base64-encoded file content.
	AudioBase64 string `json:"audio_base64" validate:"required,base64"`
}

// ComparisonEntryResponse is one before/after metric pair of the
// comparison dataset.
type ComparisonEntryResponse struct {
	Label  string  `json:"label"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// UploadResponse is the HTTP response for a processed upload.
type UploadResponse struct {
	// RequestID identifies the upload in the logs.
	RequestID string `json:"request_id"`
	// Action is the action that ran.
	Action string `json:"action"`
	// Text is the report or status message, when present.
	Text string `json:"text,omitempty"`
	// Comparison is the before/after dataset, when enhancement ran.
	Comparison []ComparisonEntryResponse `json:"comparison,omitempty"`
	// AudioBase64 is the processed audio, when returned inline.
	AudioBase64 string `json:"audio_base64,omitempty"`
	// AudioURL is the publication URL, when publishing is enabled.
	AudioURL string `json:"audio_url,omitempty"`
	// OutputName is the suggested filename for the processed audio.
	OutputName string `json:"output_name,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
	// Actions lists the selectable actions when the client should prompt
	// the user to pick one (NO_ACTIVE_SESSION).
	Actions []string `json:"actions,omitempty"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
