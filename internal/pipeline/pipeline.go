// Package pipeline sequences the analysis and enhancement steps for one
// resolved action and returns the result bundle handed to the transport
// layer. It runs only after the tag guard passed and a session was consumed.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/audiopolish/audiopolish-api/internal/analysis"
	"github.com/audiopolish/audiopolish-api/internal/dsp"
	"github.com/audiopolish/audiopolish-api/internal/naming"
	"github.com/audiopolish/audiopolish-api/internal/pcm"
	"github.com/audiopolish/audiopolish-api/internal/session"
)

// FullProcessBitrateHint is requested when encoding full-process output.
// FLAC is lossless so the encoder treats it as a no-op, but the hint is
// passed through rather than dropped in case the target container changes.
const FullProcessBitrateHint = "320k"

// ErrUnknownAction is returned for an action outside the closed set.
var ErrUnknownAction = errors.New("pipeline: unknown action")

// Result is the output bundle of one pipeline invocation.
type Result struct {
	// Text is the human-readable report or status line, when the branch
	// produces one.
	Text string
	// Audio is the processed buffer, nil for text-only branches.
	Audio *pcm.Buffer
	// OutputName is the suggested filename for the processed audio.
	OutputName string
	// BitrateHint is the encoder bitrate request, empty if none.
	BitrateHint string
	// Comparison is the before/after dataset, nil when no enhancement ran.
	Comparison analysis.ComparisonDataset
}

// Run executes the branch for the given action over an already-decoded
// buffer. The input buffer is never modified.
func Run(action session.Action, buf *pcm.Buffer, filename string) (*Result, error) {
	switch action {
	case session.ActionAnalyze:
		return runAnalyze(buf), nil
	case session.ActionMonoToStereo:
		return runMonoToStereo(buf, filename), nil
	case session.ActionEnhance:
		return runEnhance(buf, filename), nil
	case session.ActionFullProcess:
		return runFullProcess(buf, filename), nil
	case session.ActionHelp:
		return &Result{Text: HelpText()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func runAnalyze(buf *pcm.Buffer) *Result {
	m := analysis.Analyze(buf)
	return &Result{Text: renderReport(m)}
}

func runMonoToStereo(buf *pcm.Buffer, filename string) *Result {
	if !buf.IsMono() {
		return &Result{Text: "File is already in stereo format"}
	}
	return &Result{
		Text:       "Converted to stereo",
		Audio:      dsp.ToStereo(buf),
		OutputName: naming.StereoName(filename),
	}
}

func runEnhance(buf *pcm.Buffer, filename string) *Result {
	before := analysis.Analyze(buf)
	processed := dsp.Enhance(buf)
	after := analysis.Analyze(processed)

	return &Result{
		Text:       fmt.Sprintf("Audio enhanced. Quality: %.1f%% -> %.1f%%", before.QualityScore, after.QualityScore),
		Audio:      processed,
		OutputName: naming.EnhancedName(filename),
		Comparison: analysis.Compare(before, after),
	}
}

func runFullProcess(buf *pcm.Buffer, filename string) *Result {
	before := analysis.Analyze(buf)

	converted := false
	work := buf
	if work.IsMono() {
		work = dsp.ToStereo(work)
		converted = true
	}

	processed := dsp.Enhance(work)
	after := analysis.Analyze(processed)

	var text strings.Builder
	fmt.Fprintf(&text, "Full processing complete.\nQuality: %.1f%% -> %.1f%%", before.QualityScore, after.QualityScore)
	if converted {
		text.WriteString("\nChannels: Mono -> Stereo")
	}
	text.WriteString("\nFormat: FLAC")

	return &Result{
		Text:        text.String(),
		Audio:       processed,
		OutputName:  naming.EnhancedName(filename),
		BitrateHint: FullProcessBitrateHint,
		Comparison:  analysis.Compare(before, after),
	}
}

// renderReport formats a metrics snapshot as the analysis report.
func renderReport(m analysis.Metrics) string {
	channels := "Stereo"
	if m.IsMono {
		channels = "Mono"
	}
	return fmt.Sprintf(
		"Audio analysis:\nChannels: %s\nSample rate: %d Hz\nDuration: %.1f s\nQuality: %.1f%%\nRMS: %.3f\nPeak: %.3f\nDynamic range: %.1f dB",
		channels, m.SampleRate, m.DurationSeconds, m.QualityScore, m.RMS, m.Peak, m.DynamicRangeDB,
	)
}

// HelpText returns the static instructions shown for the help action.
func HelpText() string {
	return "How to use:\n" +
		"1. Select an action\n" +
		"2. Upload an audio file\n\n" +
		"analyze - audio quality report\n" +
		"enhance - compression and gain\n" +
		"mono_to_stereo - channel conversion\n" +
		"full_process - everything at once\n\n" +
		"Files tagged " + naming.EnhancedTag + " are not processed twice.\n" +
		"Processed output is saved as FLAC."
}
