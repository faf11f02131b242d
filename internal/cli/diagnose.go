package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
)

// diagnosis is the --json output of diagnose.
type diagnosis struct {
	Path    string               `json:"path"`
	Width   int                  `json:"width"`
	Height  int                  `json:"height"`
	Profile autocrop.EdgeProfile `json:"profile"`
	Outcome autocrop.Outcome     `json:"outcome"`
	Rect    autocrop.CropRect    `json:"rect"`
	Overlay string               `json:"overlay,omitempty"`
}

func newDiagnoseCmd(a *app) *cobra.Command {
	var (
		sideName string
		lines    int
		overlay  string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose <image>",
		Short: "Explain what the grey-margin pass sees on one side of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, ok := autocrop.ParseSide(sideName)
			if !ok {
				return fmt.Errorf("invalid side %q: must be left, right, top or bottom", sideName)
			}
			if lines <= 0 {
				return fmt.Errorf("lines must be positive, got %d", lines)
			}

			src, err := imaging.Open(args[0])
			if err != nil {
				return err
			}
			img := autocrop.NewImage(imaging.Flatten(src))

			cfg := a.cfg.ScanConfig()
			d := diagnosis{
				Path:    args[0],
				Width:   img.Width(),
				Height:  img.Height(),
				Profile: autocrop.ProfileEdge(img, side, cfg, lines),
			}
			res := autocrop.GreyMargin(img, side, nil, cfg)
			d.Outcome, d.Rect = res.Outcome, res.Rect

			if overlay != "" {
				bounds := append(
					[]imaging.Boundary{imaging.EdgeBoundary(side, d.Profile.Scan.Depth, img.Width(), img.Height(), imaging.MarginColor)},
					imaging.RectBoundaries(res.Rect, imaging.CropColor)...,
				)
				if err := imaging.Save(imaging.CropOverlay(img, bounds, true), overlay); err != nil {
					return err
				}
				d.Overlay = overlay
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			writeDiagnosis(w, d)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sideName, "side", "s", "left", "side to profile: left, right, top or bottom")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "number of scan lines to report, starting at the edge")
	cmd.Flags().StringVar(&overlay, "overlay", "", "write an overlay image marking the margin and crop to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the diagnosis as JSON")
	return cmd
}

func writeDiagnosis(w io.Writer, d diagnosis) {
	p := d.Profile
	fmt.Fprintf(w, "%s (%dx%d), side %s\n", filepath.Base(d.Path), d.Width, d.Height, p.Side)
	if p.Sampled {
		fmt.Fprintf(w, "Margin colour %s from %d samples along %d..%d\n", p.MarginColor.Hex(), p.Samples, p.RangeStart, p.RangeEnd)
		for _, c := range []struct {
			name string
			s    autocrop.ChannelStats
		}{{"R", p.Red}, {"G", p.Green}, {"B", p.Blue}} {
			fmt.Fprintf(w, "  %s min %3d max %3d mean %6.1f variance %8.1f\n", c.name, c.s.Min, c.s.Max, c.s.Mean, c.s.Variance)
		}
	} else {
		fmt.Fprintf(w, "Margin colour %s (fallback, band too small to sample)\n", p.MarginColor.Hex())
	}
	fmt.Fprintf(w, "Scan depth %d of limit %d", p.Scan.Depth, p.Scan.Limit)
	if p.Scan.LimitReached {
		fmt.Fprint(w, " (limit reached)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Outcome %s, crop %s\n", d.Outcome, d.Rect)
	if d.Overlay != "" {
		fmt.Fprintf(w, "Overlay written to %s\n", d.Overlay)
	}

	if len(p.Lines) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "line\tmatch\tdistance\tmargin\t")
	for _, l := range p.Lines {
		mark := "no"
		if l.Margin {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%.1f\t%s\t\n", l.Depth, l.MatchRatio, l.MeanDistance, mark)
	}
	tw.Flush()
}
