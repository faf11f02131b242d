package autocrop

// GreyMargin removes the margin on one side of img.
//
// When border is nil the margin colour is sampled from the side's edge
// (SampleEdgeColor, falling back to cfg.FallbackColor); otherwise border is
// used as given. The opposite side and both perpendicular edges are never
// touched; compose sides by calling GreyMargin once per side or use
// Pipeline.
func GreyMargin(img *Image, side Side, border *RGBColor, cfg ScanConfig) Result {
	return GreyMarginWithOptions(img, side, border, cfg, ScanOptions{})
}

// GreyMarginWithOptions is GreyMargin with explicit scan options.
func GreyMarginWithOptions(img *Image, side Side, border *RGBColor, cfg ScanConfig, opts ScanOptions) Result {
	stage := side.String()
	if img == nil || img.Empty() || !side.Valid() {
		return unchanged(img, stage, OutcomeSkipped)
	}
	cfg = cfg.withDefaults()

	var margin RGBColor
	if border != nil {
		margin = *border
	} else {
		margin = MarginColor(img, side, cfg)
	}

	scan := ScanMargin(img, side, margin, cfg, opts)
	res := unchanged(img, stage, OutcomeUnchanged)
	res.MarginColor = margin
	res.Scan = scan

	switch {
	case scan.Skipped:
		res.Outcome = OutcomeSkipped
		return res
	case scan.LimitReached:
		res.Outcome = OutcomeScanLimit
		if cfg.KeepOnScanLimit {
			return res
		}
	}

	n := max(0, scan.Depth-cfg.Padding)
	if n == 0 {
		return res
	}

	a := newAxis(img, side)
	r := a.trim(n)
	kept := a.depth - n
	if !r.Valid() || float64(kept) < cfg.MinKeepFraction*float64(a.depth) {
		res.Outcome = OutcomeRejected
		return res
	}

	res.Image = img.Crop(r)
	res.Rect = r
	if res.Outcome != OutcomeScanLimit {
		res.Outcome = OutcomeCropped
	}
	return res
}
