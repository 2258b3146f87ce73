// Package analysis computes quality metrics from decoded PCM audio and
// builds before/after comparison datasets for chart rendering.
package analysis

import (
	"math"

	"github.com/audiopolish/audiopolish-api/internal/pcm"
)

// rmsFloor is added to the RMS value before the dynamic-range division so a
// silent buffer cannot divide by zero. Changing the constant shifts every
// reported dynamic range, so it is fixed at 1e-4.
const rmsFloor = 1e-4

// Metrics is an immutable quality snapshot of a PCM buffer.
type Metrics struct {
	// Channels is the channel count of the analyzed buffer.
	Channels int `json:"channels"`
	// SampleRate is the frame rate in Hz.
	SampleRate int `json:"sample_rate"`
	// DurationSeconds is the buffer length in seconds.
	DurationSeconds float64 `json:"duration_seconds"`
	// RMS is the root-mean-square amplitude on the normalized [-1,1] scale.
	RMS float64 `json:"rms"`
	// Peak is the maximum absolute amplitude on the normalized [-1,1] scale.
	Peak float64 `json:"peak"`
	// DynamicRangeDB is 20*log10(peak/(rms+floor)).
	DynamicRangeDB float64 `json:"dynamic_range_db"`
	// QualityScore maps dynamic range onto 0..100, rounded to one decimal.
	QualityScore float64 `json:"quality_score"`
	// IsMono is true for single-channel audio.
	IsMono bool `json:"is_mono"`
}

// Analyze computes quality metrics for a decoded buffer.
//
// Samples are normalized to [-1,1] only when the sample width is 2 bytes
// (division by 32768). Other widths are analyzed on their raw integer scale.
// In practice the ffmpeg decoder always produces 16-bit buffers.
func Analyze(buf *pcm.Buffer) Metrics {
	var sumSquares, peak float64
	for _, s := range buf.Samples {
		v := float64(s)
		if buf.SampleWidth == 2 {
			v /= 32768.0
		}
		sumSquares += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	var rms float64
	if n := len(buf.Samples); n > 0 {
		rms = math.Sqrt(sumSquares / float64(n))
	}

	// A zero peak means true digital silence; log10(0) would yield -Inf, so
	// the dynamic range is reported as 0 dB instead.
	var dynamicRange float64
	if peak > 0 {
		dynamicRange = 20 * math.Log10(peak/(rms+rmsFloor))
	}

	quality := dynamicRange / 60 * 100
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}
	quality = math.Round(quality*10) / 10

	return Metrics{
		Channels:        buf.Channels,
		SampleRate:      buf.SampleRate,
		DurationSeconds: buf.Duration(),
		RMS:             rms,
		Peak:            peak,
		DynamicRangeDB:  dynamicRange,
		QualityScore:    quality,
		IsMono:          buf.IsMono(),
	}
}
