// Package enhancer provides the upload use case: it applies the input
// policies, resolves the user's pending action, and drives the
// decode/pipeline/encode sequence for one audio upload.
package enhancer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/audiopolish/audiopolish-api/internal/analysis"
	"github.com/audiopolish/audiopolish-api/internal/codec"
	"github.com/audiopolish/audiopolish-api/internal/enhancer/id"
	"github.com/audiopolish/audiopolish-api/internal/naming"
	"github.com/audiopolish/audiopolish-api/internal/pipeline"
	"github.com/audiopolish/audiopolish-api/internal/session"
	"github.com/audiopolish/audiopolish-api/internal/storage"
)

// DefaultMaxUploadBytes is the input size limit (50 MB). Oversized uploads
// are rejected before any scratch file is written or decode attempted.
const DefaultMaxUploadBytes = 52428800

// defaultVoiceFilename names uploads that arrive without a filename, the
// way voice notes do.
const defaultVoiceFilename = "voice.ogg"

// Policy rejection errors. These carry a specific user-facing meaning,
// unlike codec failures which are surfaced generically.
var (
	// ErrUnsupportedInput is returned for an empty or missing payload.
	ErrUnsupportedInput = errors.New("enhancer: unsupported input")
	// ErrOversizeInput is returned when the upload exceeds the size limit.
	ErrOversizeInput = errors.New("enhancer: input exceeds size limit")
	// ErrAlreadyEnhanced is returned when the filename carries the
	// enhanced tag; the input is discarded without decoding.
	ErrAlreadyEnhanced = errors.New("enhancer: file was already enhanced")
)

// Service orchestrates one audio upload end to end.
type Service struct {
	sessions       *session.Manager
	decoder        codec.Decoder
	encoder        codec.Encoder
	store          storage.Storage
	logger         *slog.Logger
	maxUploadBytes int64
	publishOutput  bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxUploadBytes overrides the input size limit.
func WithMaxUploadBytes(n int64) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithPublishing enables publication of processed output through the
// storage backend; the response then carries a URL instead of inline audio.
func WithPublishing(enabled bool) ServiceOption {
	return func(s *Service) {
		s.publishOutput = enabled
	}
}

// NewService creates a new upload service.
func NewService(sessions *session.Manager, decoder codec.Decoder, encoder codec.Encoder, store storage.Storage, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		sessions:       sessions,
		decoder:        decoder,
		encoder:        encoder,
		store:          store,
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChooseAction binds an action to the user's next upload.
func (s *Service) ChooseAction(userID string, action session.Action) (session.Session, error) {
	sess, err := s.sessions.ChooseAction(userID, action)
	if err != nil {
		return session.Session{}, err
	}
	s.logger.Info("action selected",
		slog.String("user_id", userID),
		slog.String("action", string(action)),
		slog.Time("expires_at", sess.ExpiresAt),
	)
	return sess, nil
}

// UploadInput contains one audio upload.
type UploadInput struct {
	// UserID identifies the uploading user.
	UserID string
	// Filename is the original filename; empty for voice notes.
	Filename string
	// Data is the raw file content.
	Data []byte
}

// UploadOutput is the result bundle returned to the transport layer.
type UploadOutput struct {
	// RequestID identifies this upload in the logs.
	RequestID string
	// Action is the consumed action that ran.
	Action session.Action
	// Text is the report or status message, when the branch produced one.
	Text string
	// Comparison is the before/after dataset, nil when no enhancement ran.
	Comparison analysis.ComparisonDataset
	// Audio is the encoded processed output, nil for text-only results or
	// when the output was published.
	Audio []byte
	// AudioURL is the publication URL when publishing is enabled.
	AudioURL string
	// OutputName is the suggested filename for the processed audio.
	OutputName string
}

// HandleUpload runs the full upload sequence: size limit, tag guard, session
// consume, decode, pipeline, encode, optional publication. Scratch files are
// removed on every exit path. Each upload is independent; a failure aborts
// only this request.
func (s *Service) HandleUpload(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	requestID := id.Generate()
	logger := s.logger.With(
		slog.String("request_id", requestID),
		slog.String("user_id", in.UserID),
	)

	if len(in.Data) == 0 {
		return nil, ErrUnsupportedInput
	}
	if int64(len(in.Data)) > s.maxUploadBytes {
		logger.Warn("upload rejected: oversize",
			slog.Int("size", len(in.Data)),
			slog.Int64("limit", s.maxUploadBytes),
		)
		return nil, ErrOversizeInput
	}

	filename := in.Filename
	if filename == "" {
		filename = defaultVoiceFilename
	}

	if naming.IsAlreadyEnhanced(filename) {
		logger.Info("upload rejected: already enhanced",
			slog.String("filename", filename),
		)
		return nil, ErrAlreadyEnhanced
	}

	action, err := s.sessions.Consume(in.UserID)
	if err != nil {
		return nil, err
	}

	logger.Info("processing upload",
		slog.String("action", string(action)),
		slog.String("filename", filename),
		slog.Int("size", len(in.Data)),
	)

	inputPath, err := s.store.SaveTemp(ctx, requestID, bytes.NewReader(in.Data))
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer func() {
		if err := s.store.CleanupTemp(ctx, []string{inputPath}); err != nil {
			logger.Warn("scratch cleanup failed", slog.String("error", err.Error()))
		}
	}()

	buf, err := s.decoder.Decode(ctx, inputPath)
	if err != nil {
		logger.Error("decode failed", slog.String("error", err.Error()))
		return nil, err
	}

	result, err := pipeline.Run(action, buf, filename)
	if err != nil {
		return nil, err
	}

	out := &UploadOutput{
		RequestID:  requestID,
		Action:     action,
		Text:       result.Text,
		Comparison: result.Comparison,
		OutputName: result.OutputName,
	}

	if result.Audio != nil {
		encoded, err := s.encoder.Encode(ctx, result.Audio, codec.EncodeOpts{
			Container:   codec.DefaultContainer,
			BitrateHint: result.BitrateHint,
		})
		if err != nil {
			logger.Error("encode failed", slog.String("error", err.Error()))
			return nil, err
		}

		if s.publishOutput {
			key := requestID + "/" + result.OutputName
			url, err := s.store.Publish(ctx, key, bytes.NewReader(encoded))
			if err != nil {
				// Publication is best-effort; fall back to inline audio.
				logger.Warn("publish failed, returning inline audio",
					slog.String("error", err.Error()),
				)
				out.Audio = encoded
			} else {
				out.AudioURL = url
			}
		} else {
			out.Audio = encoded
		}
	}

	logger.Info("upload processed",
		slog.String("action", string(action)),
		slog.String("output_name", out.OutputName),
		slog.Bool("has_audio", out.Audio != nil || out.AudioURL != ""),
	)

	return out, nil
}
