// Package dsp implements the signal-enhancement transforms: peak
// normalization, dynamic-range compression, makeup gain, and channel-layout
// conversion. All transforms return new buffers and never mutate their input.
package dsp

import (
	"math"

	"github.com/audiopolish/audiopolish-api/internal/pcm"
)

// Compressor parameters of the enhancement chain. The chain order is fixed:
// normalize, compress, makeup gain.
const (
	compThresholdDB = -20.0
	compRatio       = 4.0
	compAttackMs    = 5.0
	compReleaseMs   = 50.0
	makeupGainDB    = 3.0
)

// Enhance applies the three-step enhancement chain to a buffer and returns a
// new buffer. The output is deterministic: identical inputs produce
// byte-identical outputs.
func Enhance(buf *pcm.Buffer) *pcm.Buffer {
	samples := toFloat(buf)

	normalizePeak(samples)
	compress(samples, buf.Channels, buf.SampleRate)
	applyGain(samples, dbToLinear(makeupGainDB))

	return fromFloat(samples, buf)
}

// toFloat converts interleaved integer samples to [-1,1] floats.
func toFloat(buf *pcm.Buffer) []float64 {
	scale := 1.0 / float64(buf.FullScale()+1)
	out := make([]float64, len(buf.Samples))
	for i, s := range buf.Samples {
		out[i] = float64(s) * scale
	}
	return out
}

// fromFloat converts floats back to integer samples, clipping to the sample
// width of the source buffer.
func fromFloat(samples []float64, src *pcm.Buffer) *pcm.Buffer {
	fullScale := src.FullScale()
	lo, hi := float64(-fullScale-1), float64(fullScale)

	out := make([]int, len(samples))
	for i, v := range samples {
		scaled := math.Round(v * float64(fullScale+1))
		if scaled < lo {
			scaled = lo
		}
		if scaled > hi {
			scaled = hi
		}
		out[i] = int(scaled)
	}
	return &pcm.Buffer{
		Samples:     out,
		Channels:    src.Channels,
		SampleRate:  src.SampleRate,
		SampleWidth: src.SampleWidth,
	}
}

// normalizePeak scales the signal so its peak reaches full scale (0 dBFS)
// without clipping. Silence is left untouched.
func normalizePeak(samples []float64) {
	var peak float64
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	applyGain(samples, 1.0/peak)
}

// compress runs a feed-forward compressor over the signal. An envelope
// follower with the configured attack/release time constants tracks the
// per-channel signal level; gain above the threshold is reduced by the
// compression ratio.
func compress(samples []float64, channels, sampleRate int) {
	if channels <= 0 || sampleRate <= 0 {
		return
	}

	attack := envelopeCoeff(compAttackMs, sampleRate)
	release := envelopeCoeff(compReleaseMs, sampleRate)
	slope := 1.0 - 1.0/compRatio

	env := make([]float64, channels)
	for i, v := range samples {
		ch := i % channels

		level := math.Abs(v)
		if level > env[ch] {
			env[ch] = attack*env[ch] + (1-attack)*level
		} else {
			env[ch] = release*env[ch] + (1-release)*level
		}

		envDB := linearToDB(env[ch])
		if envDB > compThresholdDB {
			reduction := (envDB - compThresholdDB) * slope
			samples[i] = v * dbToLinear(-reduction)
		}
	}
}

// envelopeCoeff converts a time constant in milliseconds to a one-pole
// smoothing coefficient for the given sample rate.
func envelopeCoeff(ms float64, sampleRate int) float64 {
	return math.Exp(-1.0 / (ms / 1000.0 * float64(sampleRate)))
}

func applyGain(samples []float64, gain float64) {
	for i := range samples {
		samples[i] *= gain
	}
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

func linearToDB(linear float64) float64 {
	if linear <= 0 {
		return -100.0
	}
	return 20 * math.Log10(linear)
}
