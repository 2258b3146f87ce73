package dsp

import "github.com/audiopolish/audiopolish-api/internal/pcm"

// ToStereo converts a mono buffer to stereo by duplicating the mono channel
// into both output channels. Buffers that already have more than one channel
// are returned as-is, which makes the conversion idempotent.
func ToStereo(buf *pcm.Buffer) *pcm.Buffer {
	if buf.Channels != 1 {
		return buf
	}

	samples := make([]int, 0, len(buf.Samples)*2)
	for _, s := range buf.Samples {
		samples = append(samples, s, s)
	}
	return &pcm.Buffer{
		Samples:     samples,
		Channels:    2,
		SampleRate:  buf.SampleRate,
		SampleWidth: buf.SampleWidth,
	}
}
