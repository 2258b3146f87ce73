package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/audiopolish/audiopolish-api/internal/pcm"
)

// FFmpegCodec implements Decoder and Encoder using the ffmpeg CLI.
type FFmpegCodec struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
}

// NewFFmpegCodec creates a new FFmpegCodec.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegCodec(ffmpegPath string) *FFmpegCodec {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegCodec{ffmpegPath: ffmpegPath}
}

// Compile-time interface checks.
var (
	_ Decoder = (*FFmpegCodec)(nil)
	_ Encoder = (*FFmpegCodec)(nil)
)

// streamParams holds the audio stream parameters probed from ffmpeg output.
type streamParams struct {
	sampleRate int
	channels   int
}

// Decode probes the stream parameters of an audio file and decodes it to a
// 16-bit interleaved PCM buffer at its native sample rate and channel count.
func (c *FFmpegCodec) Decode(ctx context.Context, path string) (*pcm.Buffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	params, err := c.probe(ctx, path)
	if err != nil {
		return nil, err
	}

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(params.channels),
		"-ar", strconv.Itoa(params.sampleRate),
		"-hide_banner",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: cancelled: %v", ErrDecode, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v, stderr: %s", ErrDecode, err, stderr.String())
	}

	raw := stdout.Bytes()
	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}

	return &pcm.Buffer{
		Samples:     samples,
		Channels:    params.channels,
		SampleRate:  params.sampleRate,
		SampleWidth: 2,
	}, nil
}

// Encode serializes a PCM buffer into the requested container via ffmpeg,
// reading raw samples from stdin and writing the container to stdout. The
// bitrate hint is always forwarded; lossless containers ignore it.
func (c *FFmpegCodec) Encode(ctx context.Context, buf *pcm.Buffer, opts EncodeOpts) ([]byte, error) {
	container := opts.Container
	if container == "" {
		container = DefaultContainer
	}

	args := []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(buf.SampleRate),
		"-ac", strconv.Itoa(buf.Channels),
		"-i", "-",
	}
	if opts.BitrateHint != "" {
		args = append(args, "-b:a", opts.BitrateHint)
	}
	args = append(args, "-f", container, "-hide_banner", "-")

	raw := make([]byte, len(buf.Samples)*2)
	for i, s := range buf.Samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(clampSample(s))))
	}

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(raw)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: cancelled: %v", ErrEncode, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v, stderr: %s", ErrEncode, err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// probe extracts sample rate and channel count from ffmpeg's stream info,
// which it writes to stderr during a null-output run.
func (c *FFmpegCodec) probe(ctx context.Context, path string) (streamParams, error) {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-i", path,
		"-hide_banner",
		"-f", "null", "-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// ffmpeg exits non-zero for null output; the stream info is still
	// printed, so the exit code is ignored and parsing decides.
	_ = cmd.Run()

	return parseStreamParams(stderr.String())
}

var audioStreamRe = regexp.MustCompile(`Audio:.*?(\d+) Hz,\s*([^,]+)`)

// parseStreamParams parses the first audio stream line of ffmpeg output.
func parseStreamParams(output string) (streamParams, error) {
	matches := audioStreamRe.FindStringSubmatch(output)
	if len(matches) < 3 {
		return streamParams{}, fmt.Errorf("%w: no audio stream found in ffmpeg output", ErrDecode)
	}

	rate, err := strconv.Atoi(matches[1])
	if err != nil || rate <= 0 {
		return streamParams{}, fmt.Errorf("%w: bad sample rate %q", ErrDecode, matches[1])
	}

	channels, err := parseChannelLayout(strings.TrimSpace(matches[2]))
	if err != nil {
		return streamParams{}, err
	}

	return streamParams{sampleRate: rate, channels: channels}, nil
}

var channelCountRe = regexp.MustCompile(`^(\d+) channels`)

// parseChannelLayout maps an ffmpeg channel layout token to a channel count.
func parseChannelLayout(layout string) (int, error) {
	switch {
	case layout == "mono":
		return 1, nil
	case layout == "stereo":
		return 2, nil
	case strings.HasPrefix(layout, "5.1"):
		return 6, nil
	case strings.HasPrefix(layout, "7.1"):
		return 8, nil
	}
	if m := channelCountRe.FindStringSubmatch(layout); len(m) == 2 {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized channel layout %q", ErrDecode, layout)
}

func clampSample(s int) int {
	if s < -32768 {
		return -32768
	}
	if s > 32767 {
		return 32767
	}
	return s
}
