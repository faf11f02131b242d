package autocrop

// ScanOptions carries per-invocation constraints for ScanMargin.
type ScanOptions struct {
	// HardStop, when positive, caps the scan at this many lines from the
	// edge. The pipeline sets it from the opposite side's content edge so
	// two facing scans can never overlap.
	HardStop int
}

// ScanResult describes where a margin scan stopped.
type ScanResult struct {
	// Depth is the number of lines from the edge classified as margin,
	// i.e. the index of the first content line. Padding is not applied.
	Depth int `json:"depth"`

	// Limit is the number of lines the scan was allowed to examine.
	Limit int `json:"limit"`

	// LimitReached is true when every line up to Limit matched the margin
	// colour. Depth then equals Limit and is a guess, not a detection.
	LimitReached bool `json:"limit_reached"`

	// Skipped is true when the line could not be sampled at all.
	Skipped bool `json:"skipped"`
}

// ScanMargin walks lines inward from side and returns the first line that
// does not match margin.
//
// A line is margin when at least cfg.MarginRatioThreshold of its samples
// lie within cfg.Tolerance of margin, so isolated specks inside a margin do
// not stop the scan. Samples are evenly spaced along the line (at most
// cfg.LineSamples) inside the same excluded range used for colour sampling.
func ScanMargin(img *Image, side Side, margin RGBColor, cfg ScanConfig, opts ScanOptions) ScanResult {
	if img == nil || img.Empty() || !side.Valid() {
		return ScanResult{Skipped: true}
	}
	cfg = cfg.withDefaults()

	a := newAxis(img, side)
	start, end := cfg.exclusion(a.span)
	if start >= end {
		return ScanResult{Skipped: true}
	}

	limit := cfg.scanLimit(a.depth)
	if opts.HardStop > 0 {
		limit = min(limit, opts.HardStop)
	}
	if limit <= 0 {
		return ScanResult{}
	}

	step := cfg.lineStep(start, end)
	for d := 0; d < limit; d++ {
		if !isMarginLine(a, d, start, end, step, margin, cfg) {
			return ScanResult{Depth: d, Limit: limit}
		}
	}
	return ScanResult{Depth: limit, Limit: limit, LimitReached: true}
}

func isMarginLine(a axis, d, start, end, step int, margin RGBColor, cfg ScanConfig) bool {
	return lineMatches(a, d, start, end, step, margin, cfg.Tolerance).isMargin(cfg.MarginRatioThreshold)
}

// lineMatch summarises one scan line against the margin colour.
type lineMatch struct {
	matched, total int
	distance       float64 // sum over sampled pixels
}

func (m lineMatch) isMargin(ratio float64) bool {
	return float64(m.matched) >= ratio*float64(m.total)
}

func lineMatches(a axis, d, start, end, step int, margin RGBColor, tolerance uint8) lineMatch {
	var m lineMatch
	for p := start; p < end; p += step {
		dist := Distance(a.at(d, p), margin)
		if withinTolerance(dist, tolerance) {
			m.matched++
		}
		m.distance += dist
		m.total++
	}
	return m
}
