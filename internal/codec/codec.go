// Package codec adapts the external audio codec (ffmpeg) behind Decoder and
// Encoder ports. The rest of the system only ever sees decoded PCM buffers
// and encoded container bytes.
package codec

import (
	"context"
	"errors"

	"github.com/audiopolish/audiopolish-api/internal/pcm"
)

// DefaultContainer is the lossless output container for processed audio.
const DefaultContainer = "flac"

// Sentinel errors for external codec failures. Handlers surface these as a
// generic processing-failed message; the detail stays in the logs.
var (
	// ErrDecode wraps failures while decoding input to PCM.
	ErrDecode = errors.New("codec: decode failed")
	// ErrEncode wraps failures while encoding PCM to the output container.
	ErrEncode = errors.New("codec: encode failed")
)

// EncodeOpts configures an encode call.
type EncodeOpts struct {
	// Container is the target container format. Empty means DefaultContainer.
	Container string
	// BitrateHint is an optional bitrate request. Lossless targets ignore
	// it, but it is always passed to the encoder rather than dropped.
	BitrateHint string
}

// Decoder decodes an audio file on disk into a PCM buffer.
type Decoder interface {
	Decode(ctx context.Context, path string) (*pcm.Buffer, error)
}

// Encoder encodes a PCM buffer into container bytes.
type Encoder interface {
	Encode(ctx context.Context, buf *pcm.Buffer, opts EncodeOpts) ([]byte, error)
}
