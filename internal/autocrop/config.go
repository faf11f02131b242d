package autocrop

// Defaults mirror the tuning the notecard scans were calibrated against.
const (
	DefaultWhiteThreshold        = 250
	DefaultTolerance             = 60
	DefaultPadding               = 2
	DefaultMarginRatioThreshold  = 0.9
	DefaultEdgeExclusionFraction = 0.05
	DefaultEdgeExclusionMin      = 10
	DefaultMinScanFraction       = 0.5
	DefaultMaxScanDistance       = 1000
	DefaultSampleBand            = 20
	DefaultColorSamples          = 20
	DefaultLineSamples           = 30
	DefaultMinKeepFraction       = 0.1
)

// ScanConfig is the policy for a grey-margin pass. Every threshold is
// explicit; use DefaultScanConfig and override fields as needed.
type ScanConfig struct {
	// Tolerance is the maximum Distance at which a pixel still matches the
	// margin colour. Zero demands an exact match.
	Tolerance uint8

	// MarginRatioThreshold is the fraction of a line's samples that must
	// match for the line to count as margin. Values outside (0,1] use the
	// default.
	MarginRatioThreshold float64

	// EdgeExclusionFraction and EdgeExclusionMin define how much of each end
	// of the sampling axis is ignored: max(EdgeExclusionMin,
	// EdgeExclusionFraction*extent) pixels. This keeps headers, footers and
	// corner artifacts out of both colour estimation and line tests.
	EdgeExclusionFraction float64
	EdgeExclusionMin      int

	// The scan stops after min(MinScanFraction*extent, MaxScanDistance)
	// lines.
	MinScanFraction float64
	MaxScanDistance int

	// Padding is how many pixels the crop backs off toward the edge.
	Padding int

	// SampleBand is the number of lines nearest the edge averaged for the
	// margin colour; ColorSamples and LineSamples cap the evenly spaced
	// samples taken along each band line and each scan line.
	SampleBand   int
	ColorSamples int
	LineSamples  int

	// A crop that would keep less than MinKeepFraction of the scanned
	// dimension is rejected.
	MinKeepFraction float64

	// FallbackColor is used when no margin colour could be sampled. Nil
	// means DefaultFallbackColor.
	FallbackColor *RGBColor

	// KeepOnScanLimit controls what happens when the whole scan range
	// matched the margin colour. False crops to the scan limit; true leaves
	// the image alone. Either way the outcome is OutcomeScanLimit.
	KeepOnScanLimit bool
}

// DefaultScanConfig returns the standard grey-margin policy.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Tolerance:             DefaultTolerance,
		MarginRatioThreshold:  DefaultMarginRatioThreshold,
		EdgeExclusionFraction: DefaultEdgeExclusionFraction,
		EdgeExclusionMin:      DefaultEdgeExclusionMin,
		MinScanFraction:       DefaultMinScanFraction,
		MaxScanDistance:       DefaultMaxScanDistance,
		Padding:               DefaultPadding,
		SampleBand:            DefaultSampleBand,
		ColorSamples:          DefaultColorSamples,
		LineSamples:           DefaultLineSamples,
		MinKeepFraction:       DefaultMinKeepFraction,
	}
}

// withDefaults replaces out-of-range structural fields. Tolerance and
// KeepOnScanLimit are taken as given.
func (c ScanConfig) withDefaults() ScanConfig {
	if c.MarginRatioThreshold <= 0 || c.MarginRatioThreshold > 1 {
		c.MarginRatioThreshold = DefaultMarginRatioThreshold
	}
	if c.EdgeExclusionFraction < 0 || c.EdgeExclusionFraction >= 0.5 {
		c.EdgeExclusionFraction = DefaultEdgeExclusionFraction
	}
	if c.EdgeExclusionMin < 0 {
		c.EdgeExclusionMin = 0
	}
	if c.MinScanFraction <= 0 || c.MinScanFraction > 1 {
		c.MinScanFraction = DefaultMinScanFraction
	}
	if c.MaxScanDistance <= 0 {
		c.MaxScanDistance = DefaultMaxScanDistance
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.SampleBand <= 0 {
		c.SampleBand = DefaultSampleBand
	}
	if c.ColorSamples <= 0 {
		c.ColorSamples = DefaultColorSamples
	}
	if c.LineSamples <= 0 {
		c.LineSamples = DefaultLineSamples
	}
	if c.MinKeepFraction < 0 || c.MinKeepFraction >= 1 {
		c.MinKeepFraction = DefaultMinKeepFraction
	}
	return c
}

func (c ScanConfig) fallback() RGBColor {
	if c.FallbackColor != nil {
		return *c.FallbackColor
	}
	return DefaultFallbackColor
}

// exclusion returns the half-open range [start, end) of the sampling axis
// that remains after trimming both ends. The range is empty when the image
// is too small to exclude anything meaningful.
func (c ScanConfig) exclusion(span int) (start, end int) {
	excl := max(c.EdgeExclusionMin, int(float64(span)*c.EdgeExclusionFraction))
	return excl, span - excl
}

// scanLimit returns how many lines from the edge may be examined.
func (c ScanConfig) scanLimit(depth int) int {
	return min(int(float64(depth)*c.MinScanFraction), c.MaxScanDistance)
}

// lineStep is the stride along one scan line between start and end.
func (c ScanConfig) lineStep(start, end int) int {
	return sampleStep(end-start, c.LineSamples)
}

// sampleStep returns a stride that draws at most limit evenly spaced
// samples from n positions.
func sampleStep(n, limit int) int {
	if n <= limit {
		return 1
	}
	return (n + limit - 1) / limit
}
