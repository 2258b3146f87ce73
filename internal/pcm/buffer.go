// Package pcm defines the decoded audio buffer type shared by the analysis
// and processing packages.
package pcm

// Buffer holds decoded, interleaved PCM audio samples.
// Whichever component is currently transforming a buffer owns it; transforms
// return a new buffer rather than mutating their input.
type Buffer struct {
	// Samples are interleaved signed samples (frame = one sample per channel).
	Samples []int
	// Channels is the number of audio channels.
	Channels int
	// SampleRate is the number of frames per second.
	SampleRate int
	// SampleWidth is the number of bytes per sample (2 for 16-bit PCM).
	SampleWidth int
}

// FrameCount returns the number of frames in the buffer.
func (b *Buffer) FrameCount() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.FrameCount()) / float64(b.SampleRate)
}

// IsMono returns true for single-channel buffers.
func (b *Buffer) IsMono() bool {
	return b.Channels == 1
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	samples := make([]int, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{
		Samples:     samples,
		Channels:    b.Channels,
		SampleRate:  b.SampleRate,
		SampleWidth: b.SampleWidth,
	}
}

// FullScale returns the maximum positive sample value for the buffer's
// sample width (32767 for 16-bit audio).
func (b *Buffer) FullScale() int {
	bits := b.SampleWidth * 8
	if bits <= 0 || bits > 62 {
		bits = 16
	}
	return 1<<(bits-1) - 1
}
