package autocrop

// PipelineConfig selects the passes a Pipeline runs.
type PipelineConfig struct {
	// WhiteThreshold is the luminance below which a pixel counts as content
	// in the white-border pass.
	WhiteThreshold uint8

	// SkipWhite disables the white-border pass.
	SkipWhite bool

	// Sides lists the grey-margin passes in order. Nil means left, right.
	Sides []Side

	// BorderColor, when set, is used as the margin colour for every
	// grey-margin pass instead of sampling each edge.
	BorderColor *RGBColor

	Scan ScanConfig
}

// DefaultPipelineConfig returns the canonical white, left, right pipeline.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		WhiteThreshold: DefaultWhiteThreshold,
		Sides:          []Side{SideLeft, SideRight},
		Scan:           DefaultScanConfig(),
	}
}

// Pipeline runs the autocrop passes in sequence. A Pipeline holds only its
// configuration and is safe for concurrent use.
type Pipeline struct {
	cfg PipelineConfig
}

// NewPipeline returns a pipeline for cfg.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Sides == nil {
		cfg.Sides = []Side{SideLeft, SideRight}
	}
	cfg.Scan = cfg.Scan.withDefaults()
	return &Pipeline{cfg: cfg}
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() PipelineConfig { return p.cfg }

// PipelineResult is the outcome of a full pipeline run.
type PipelineResult struct {
	// Image is the final view.
	Image *Image

	// Rect is the cumulative crop in the coordinates of the pipeline input.
	Rect CropRect

	// Stages holds each pass's result in execution order.
	Stages []Result

	// Uncertain is true when any stage hit its scan limit.
	Uncertain bool
}

// Changed reports whether the pipeline cropped anything.
func (r PipelineResult) Changed() bool {
	for _, s := range r.Stages {
		if s.Changed() {
			return true
		}
	}
	return false
}

// Run crops img. Each pass consumes the previous pass's output and
// re-derives its margin colour from the current edges. The input is never
// modified.
func (p *Pipeline) Run(img *Image) PipelineResult {
	res := PipelineResult{Image: img}
	if img == nil || img.Empty() {
		return res
	}
	res.Rect = img.Bounds()

	apply := func(stage Result) {
		res.Stages = append(res.Stages, stage)
		if stage.Outcome.Uncertain() {
			res.Uncertain = true
		}
		if !stage.Changed() {
			return
		}
		res.Rect = CropRect{
			Left:   res.Rect.Left + stage.Rect.Left,
			Top:    res.Rect.Top + stage.Rect.Top,
			Right:  res.Rect.Left + stage.Rect.Right,
			Bottom: res.Rect.Top + stage.Rect.Bottom,
		}
		res.Image = stage.Image
	}

	if !p.cfg.SkipWhite {
		apply(WhiteBorder(res.Image, p.cfg.WhiteThreshold, p.cfg.Scan.Padding))
	}

	// contentEdges[s] is the depth of side s's first content line, measured
	// from s's edge in the current image.
	contentEdges := make(map[Side]int, len(p.cfg.Sides))
	for _, side := range p.cfg.Sides {
		var opts ScanOptions
		if edge, ok := contentEdges[side.Opposite()]; ok {
			opts.HardStop = newAxis(res.Image, side).depth - edge - 1
			if opts.HardStop <= 0 {
				apply(unchanged(res.Image, side.String(), OutcomeRejected))
				continue
			}
		}

		stage := GreyMarginWithOptions(res.Image, side, p.cfg.BorderColor, p.cfg.Scan, opts)
		apply(stage)

		switch stage.Outcome {
		case OutcomeCropped, OutcomeUnchanged:
			contentEdges[side] = stage.Scan.Depth - trimmed(stage, side)
		case OutcomeScanLimit:
			if stage.Changed() {
				contentEdges[side] = stage.Scan.Depth - trimmed(stage, side)
			}
		}
	}
	return res
}

// trimmed returns how many lines stage removed from side.
func trimmed(stage Result, side Side) int {
	in := stage.input
	switch side {
	case SideLeft:
		return stage.Rect.Left - in.Left
	case SideRight:
		return in.Right - stage.Rect.Right
	case SideTop:
		return stage.Rect.Top - in.Top
	default:
		return in.Bottom - stage.Rect.Bottom
	}
}
