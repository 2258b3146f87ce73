package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiopolish/audiopolish-api/internal/pcm"
)

// sineBuffer builds a mono 16-bit sine wave with the given peak amplitude
// (0..1) and duration in seconds.
func sineBuffer(peak float64, seconds float64, sampleRate int) *pcm.Buffer {
	n := int(seconds * float64(sampleRate))
	samples := make([]int, n)
	for i := range samples {
		v := peak * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		samples[i] = int(math.Round(v * 32767))
	}
	return &pcm.Buffer{Samples: samples, Channels: 1, SampleRate: sampleRate, SampleWidth: 2}
}

// constantBuffer builds a mono 16-bit buffer holding a single repeated value.
func constantBuffer(value int, n int) *pcm.Buffer {
	samples := make([]int, n)
	for i := range samples {
		samples[i] = value
	}
	return &pcm.Buffer{Samples: samples, Channels: 1, SampleRate: 44100, SampleWidth: 2}
}

func TestAnalyze_SilentBuffer(t *testing.T) {
	m := Analyze(constantBuffer(0, 44100))

	assert.Equal(t, 0.0, m.RMS)
	assert.Equal(t, 0.0, m.Peak)
	assert.False(t, math.IsInf(m.DynamicRangeDB, 0), "dynamic range must stay finite for silence")
	assert.Equal(t, 0.0, m.QualityScore)
	assert.True(t, m.IsMono)
}

func TestAnalyze_EmptyBuffer(t *testing.T) {
	m := Analyze(&pcm.Buffer{Channels: 1, SampleRate: 44100, SampleWidth: 2})

	assert.Equal(t, 0.0, m.RMS)
	assert.Equal(t, 0.0, m.Peak)
	assert.False(t, math.IsInf(m.DynamicRangeDB, 0))
	assert.Equal(t, 0.0, m.DurationSeconds)
}

func TestAnalyze_ConstantLowAmplitude(t *testing.T) {
	// 10 seconds of constant low amplitude: rms == peak, so the dynamic
	// range collapses and the quality score lands near zero.
	buf := constantBuffer(1638, 441000) // ~0.05 of full scale

	m := Analyze(buf)

	assert.True(t, m.IsMono)
	assert.InDelta(t, 10.0, m.DurationSeconds, 0.01)
	assert.InDelta(t, m.RMS, m.Peak, 1e-9)
	assert.Less(t, m.QualityScore, 1.0)
	assert.GreaterOrEqual(t, m.QualityScore, 0.0)
}

func TestAnalyze_SineWave(t *testing.T) {
	buf := sineBuffer(0.5, 1.0, 44100)

	m := Analyze(buf)

	require.Greater(t, m.Peak, 0.49)
	require.Less(t, m.Peak, 0.51)
	// Sine RMS is peak/sqrt(2).
	assert.InDelta(t, 0.5/math.Sqrt2, m.RMS, 0.01)
	// 20*log10(peak/(rms+1e-4)) for a sine is about 3 dB.
	assert.InDelta(t, 3.0, m.DynamicRangeDB, 0.1)
	assert.InDelta(t, 5.0, m.QualityScore, 0.3)
}

func TestAnalyze_QualityScoreBounds(t *testing.T) {
	buffers := []*pcm.Buffer{
		constantBuffer(0, 100),
		constantBuffer(1, 100),
		constantBuffer(32767, 100),
		sineBuffer(1.0, 0.1, 44100),
		sineBuffer(0.001, 0.1, 8000),
	}
	for _, buf := range buffers {
		m := Analyze(buf)
		assert.GreaterOrEqual(t, m.QualityScore, 0.0)
		assert.LessOrEqual(t, m.QualityScore, 100.0)
		assert.False(t, math.IsInf(m.DynamicRangeDB, 0))
		assert.False(t, math.IsNaN(m.DynamicRangeDB))
	}
}

func TestAnalyze_QualityScoreRounding(t *testing.T) {
	m := Analyze(sineBuffer(0.5, 0.5, 44100))

	rounded := math.Round(m.QualityScore*10) / 10
	assert.Equal(t, rounded, m.QualityScore, "quality score must carry one decimal")
}

func TestAnalyze_StereoMetadata(t *testing.T) {
	buf := &pcm.Buffer{
		Samples:     []int{100, 100, -200, -200},
		Channels:    2,
		SampleRate:  48000,
		SampleWidth: 2,
	}

	m := Analyze(buf)

	assert.Equal(t, 2, m.Channels)
	assert.Equal(t, 48000, m.SampleRate)
	assert.False(t, m.IsMono)
}

func TestAnalyze_NonStandardWidthStaysRaw(t *testing.T) {
	// Non-16-bit samples are analyzed on their raw integer scale.
	buf := &pcm.Buffer{Samples: []int{100, -100}, Channels: 1, SampleRate: 8000, SampleWidth: 1}

	m := Analyze(buf)

	assert.InDelta(t, 100.0, m.Peak, 1e-9)
	assert.InDelta(t, 100.0, m.RMS, 1e-9)
}

func TestCompare_FixedOrder(t *testing.T) {
	before := Metrics{QualityScore: 10, RMS: 0.2, DynamicRangeDB: 6}
	after := Metrics{QualityScore: 20, RMS: 0.4, DynamicRangeDB: 12}

	ds := Compare(before, after)

	require.Len(t, ds, 3)
	assert.Equal(t, "Quality (%)", ds[0].Label)
	assert.Equal(t, "RMS (x100)", ds[1].Label)
	assert.Equal(t, "Dynamic Range (dB)", ds[2].Label)
	assert.Equal(t, 10.0, ds[0].Before)
	assert.Equal(t, 20.0, ds[0].After)
	assert.InDelta(t, 20.0, ds[1].Before, 1e-9)
	assert.InDelta(t, 40.0, ds[1].After, 1e-9)
	assert.Equal(t, 6.0, ds[2].Before)
	assert.Equal(t, 12.0, ds[2].After)
}

func TestCompare_IdenticalMetrics(t *testing.T) {
	m := Analyze(sineBuffer(0.3, 0.2, 44100))

	ds := Compare(m, m)

	require.Len(t, ds, 3)
	for _, entry := range ds {
		assert.Equal(t, entry.Before, entry.After, entry.Label)
	}
}
