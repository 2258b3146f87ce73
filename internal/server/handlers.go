package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/audiopolish/audiopolish-api/internal/codec"
	"github.com/audiopolish/audiopolish-api/internal/enhancer"
	"github.com/audiopolish/audiopolish-api/internal/pipeline"
	"github.com/audiopolish/audiopolish-api/internal/session"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *enhancer.Service
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *enhancer.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ChooseAction handles POST /users/{userID}/action requests.
// Help is answered immediately; any other action creates or overwrites the
// user's pending session.
func (h *Handlers) ChooseAction(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user ID is required", "MISSING_USER_ID")
		return
	}

	var req ChooseActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	action := session.Action(req.Action)
	if action == session.ActionHelp {
		writeJSON(w, http.StatusOK, ChooseActionResponse{
			Action: req.Action,
			Help:   pipeline.HelpText(),
		})
		return
	}

	sess, err := h.service.ChooseAction(userID, action)
	if err != nil {
		h.logger.Error("failed to select action",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to select action", "ACTION_SELECT_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, ChooseActionResponse{
		Action:    string(sess.Action),
		ExpiresAt: &sess.ExpiresAt,
	})
}

// Upload handles POST /users/{userID}/audio requests. It consumes the
// user's pending session and runs the pipeline over the uploaded file.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user ID is required", "MISSING_USER_ID")
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_base64 is not valid base64", "INVALID_AUDIO")
		return
	}

	out, err := h.service.HandleUpload(r.Context(), enhancer.UploadInput{
		UserID:   userID,
		Filename: req.Filename,
		Data:     data,
	})
	if err != nil {
		h.writeUploadError(w, userID, err)
		return
	}

	resp := UploadResponse{
		RequestID:  out.RequestID,
		Action:     string(out.Action),
		Text:       out.Text,
		OutputName: out.OutputName,
		AudioURL:   out.AudioURL,
	}
	if out.Audio != nil {
		resp.AudioBase64 = base64.StdEncoding.EncodeToString(out.Audio)
	}
	for _, entry := range out.Comparison {
		resp.Comparison = append(resp.Comparison, ComparisonEntryResponse{
			Label:  entry.Label,
			Before: entry.Before,
			After:  entry.After,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeUploadError maps upload failures onto the error taxonomy. Policy
// rejections get specific messages; codec failures stay generic with the
// detail already logged by the service.
func (h *Handlers) writeUploadError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, enhancer.ErrUnsupportedInput):
		writeError(w, http.StatusBadRequest, "unsupported input: upload an audio file", "UNSUPPORTED_INPUT")
	case errors.Is(err, enhancer.ErrOversizeInput):
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the 50 MB limit", "OVERSIZE_INPUT")
	case errors.Is(err, enhancer.ErrAlreadyEnhanced):
		writeError(w, http.StatusConflict, "this file was already enhanced", "ALREADY_ENHANCED")
	case errors.Is(err, session.ErrNoActiveSession):
		actions := make([]string, 0, len(session.Selectable()))
		for _, a := range session.Selectable() {
			actions = append(actions, string(a))
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "select an action before uploading audio",
			Code:    "NO_ACTIVE_SESSION",
			Actions: actions,
		})
	case errors.Is(err, codec.ErrDecode), errors.Is(err, codec.ErrEncode):
		writeError(w, http.StatusUnprocessableEntity, "audio processing failed", "PROCESSING_FAILED")
	default:
		h.logger.Error("upload failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
