// Package naming implements the filename conventions of the enhancement
// pipeline: the processed-file tag guard and the suggested output names.
package naming

import "strings"

// EnhancedTag marks a file that has already been through the enhancement
// chain. The guard is a plain filename convention, not content metadata: a
// renamed output is indistinguishable from fresh input, and a user-chosen
// name containing the tag is rejected even if the audio was never processed.
// This matches the behavior clients already depend on.
const EnhancedTag = "[ENHANCED]"

// OutputExtension is the container extension of all processed output.
const OutputExtension = ".flac"

// IsAlreadyEnhanced reports whether a filename carries the enhanced tag.
// Evaluated before any decode work so previously processed files are
// rejected cheaply.
func IsAlreadyEnhanced(filename string) bool {
	return strings.Contains(filename, EnhancedTag)
}

// StereoName derives the suggested filename for a mono-to-stereo conversion:
// the first "." becomes "_stereo.", or "_stereo.flac" is appended when the
// name has no extension.
func StereoName(filename string) string {
	if i := strings.Index(filename, "."); i >= 0 {
		return filename[:i] + "_stereo" + filename[i:]
	}
	return filename + "_stereo" + OutputExtension
}

// EnhancedName derives the suggested filename for enhanced output: the
// extension is stripped and the enhanced tag plus the FLAC extension are
// appended.
func EnhancedName(filename string) string {
	base := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		base = filename[:i]
	}
	return base + EnhancedTag + OutputExtension
}
