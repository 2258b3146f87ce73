package analysis

// ComparisonEntry pairs the before and after value of one metric.
type ComparisonEntry struct {
	// Label is the human-readable metric name.
	Label string `json:"label"`
	// Before is the metric value prior to processing.
	Before float64 `json:"before"`
	// After is the metric value after processing.
	After float64 `json:"after"`
}

// ComparisonDataset is the ordered before/after dataset handed to an
// external chart renderer. It always holds exactly three entries:
// quality score, RMS scaled by 100, and dynamic range in dB.
type ComparisonDataset []ComparisonEntry

// Compare builds the comparison dataset from two metric snapshots.
func Compare(before, after Metrics) ComparisonDataset {
	return ComparisonDataset{
		{Label: "Quality (%)", Before: before.QualityScore, After: after.QualityScore},
		{Label: "RMS (x100)", Before: before.RMS * 100, After: after.RMS * 100},
		{Label: "Dynamic Range (dB)", Before: before.DynamicRangeDB, After: after.DynamicRangeDB},
	}
}
