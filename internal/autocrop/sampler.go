package autocrop

// SampleEdgeColor estimates the margin colour along one edge.
//
// It averages an evenly spaced subsample (at most cfg.ColorSamples points
// per line) from the cfg.SampleBand lines nearest the edge, skipping the
// excluded ends of the sampling axis. Channel means are rounded to the
// nearest integer. ok is false when nothing could be sampled, for example
// on an image too small to survive the edge exclusion.
func SampleEdgeColor(img *Image, side Side, cfg ScanConfig) (c RGBColor, ok bool) {
	if img == nil || img.Empty() || !side.Valid() {
		return RGBColor{}, false
	}
	cfg = cfg.withDefaults()

	a := newAxis(img, side)
	start, end := cfg.exclusion(a.span)
	if start >= end {
		return RGBColor{}, false
	}
	var sr, sg, sb, n uint64
	a.eachBandSample(cfg, start, end, func(px RGBColor) {
		sr += uint64(px.R)
		sg += uint64(px.G)
		sb += uint64(px.B)
		n++
	})
	if n == 0 {
		return RGBColor{}, false
	}
	return RGBColor{
		R: uint8((sr + n/2) / n),
		G: uint8((sg + n/2) / n),
		B: uint8((sb + n/2) / n),
	}, true
}

// MarginColor is SampleEdgeColor with the configured fallback applied. It
// always returns a usable colour.
func MarginColor(img *Image, side Side, cfg ScanConfig) RGBColor {
	if c, ok := SampleEdgeColor(img, side, cfg); ok {
		return c
	}
	return cfg.fallback()
}

// eachBandSample calls fn for every pixel SampleEdgeColor averages: the
// cfg.SampleBand lines nearest the edge, subsampled to at most
// cfg.ColorSamples points per line between start and end.
func (a axis) eachBandSample(cfg ScanConfig, start, end int, fn func(RGBColor)) {
	band := min(cfg.SampleBand, a.depth)
	step := sampleStep(end-start, cfg.ColorSamples)
	for d := 0; d < band; d++ {
		for p := start; p < end; p += step {
			fn(a.at(d, p))
		}
	}
}
