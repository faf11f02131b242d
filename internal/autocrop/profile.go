package autocrop

// ChannelStats summarises one colour channel of the edge samples.
type ChannelStats struct {
	Min      uint8   `json:"min"`
	Max      uint8   `json:"max"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // sample variance (n-1)
}

// LineProfile describes how one scan line compares to the margin colour.
type LineProfile struct {
	Depth        int     `json:"depth"`
	MatchRatio   float64 `json:"match_ratio"`
	MeanDistance float64 `json:"mean_distance"`
	Margin       bool    `json:"margin"`
}

// EdgeProfile is a diagnostic view of one side: the sampled margin colour,
// its spread, and per-line match statistics for the lines nearest the edge.
type EdgeProfile struct {
	Side        Side          `json:"side"`
	MarginColor RGBColor      `json:"margin_color"`
	Sampled     bool          `json:"sampled"`
	Samples     int           `json:"samples"`
	Red         ChannelStats  `json:"red"`
	Green       ChannelStats  `json:"green"`
	Blue        ChannelStats  `json:"blue"`
	RangeStart  int           `json:"range_start"`
	RangeEnd    int           `json:"range_end"`
	Scan        ScanResult    `json:"scan"`
	Lines       []LineProfile `json:"lines"`
}

// ProfileEdge explains what GreyMargin sees on side: it samples the band
// exactly as SampleEdgeColor does, runs ScanMargin, and reports statistics
// for the first lines lines inward.
func ProfileEdge(img *Image, side Side, cfg ScanConfig, lines int) EdgeProfile {
	prof := EdgeProfile{Side: side}
	if img == nil || img.Empty() || !side.Valid() {
		return prof
	}
	cfg = cfg.withDefaults()

	a := newAxis(img, side)
	start, end := cfg.exclusion(a.span)
	prof.RangeStart, prof.RangeEnd = start, end
	prof.MarginColor, prof.Sampled = SampleEdgeColor(img, side, cfg)
	if !prof.Sampled {
		prof.MarginColor = cfg.fallback()
		return prof
	}

	var rs, gs, bs channelAcc
	a.eachBandSample(cfg, start, end, func(px RGBColor) {
		rs.add(px.R)
		gs.add(px.G)
		bs.add(px.B)
	})
	prof.Samples = rs.n
	prof.Red, prof.Green, prof.Blue = rs.stats(), gs.stats(), bs.stats()
	prof.Scan = ScanMargin(img, side, prof.MarginColor, cfg, ScanOptions{})

	lines = min(lines, a.depth)
	step := cfg.lineStep(start, end)
	prof.Lines = make([]LineProfile, 0, max(lines, 0))
	for d := 0; d < lines; d++ {
		m := lineMatches(a, d, start, end, step, prof.MarginColor, cfg.Tolerance)
		prof.Lines = append(prof.Lines, LineProfile{
			Depth:        d,
			MatchRatio:   float64(m.matched) / float64(m.total),
			MeanDistance: m.distance / float64(m.total),
			Margin:       m.isMargin(cfg.MarginRatioThreshold),
		})
	}
	return prof
}

type channelAcc struct {
	n        int
	min, max uint8
	sum, sq  float64
}

func (c *channelAcc) add(v uint8) {
	if c.n == 0 || v < c.min {
		c.min = v
	}
	if c.n == 0 || v > c.max {
		c.max = v
	}
	f := float64(v)
	c.sum += f
	c.sq += f * f
	c.n++
}

func (c *channelAcc) stats() ChannelStats {
	if c.n == 0 {
		return ChannelStats{}
	}
	n := float64(c.n)
	s := ChannelStats{Min: c.min, Max: c.max, Mean: c.sum / n}
	if c.n > 1 {
		s.Variance = (c.sq - c.sum*c.sum/n) / (n - 1)
		if s.Variance < 0 {
			s.Variance = 0
		}
	}
	return s
}
