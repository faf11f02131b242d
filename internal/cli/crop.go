package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/batch"
	"github.com/jameslewellyn/recipe-scan-tool/internal/config"
	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
)

func newWhiteBorderCmd(a *app) *cobra.Command {
	var (
		threshold int
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "white-border-remover <folder>",
		Short: "Remove the white scanner border from every image in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Autocrop.WhiteThreshold
			}
			if threshold < 0 || threshold > 255 {
				return fmt.Errorf("threshold must be between 0 and 255, got %d", threshold)
			}
			pc := autocrop.PipelineConfig{
				WhiteThreshold: uint8(threshold),
				Sides:          []autocrop.Side{},
				Scan:           a.cfg.ScanConfig(),
			}
			return a.cropFolder(cmd, args[0], outDir, "white-removed", pc)
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "luminance (0-255) at or above which a pixel counts as white; darker pixels are content (default from config, 250)")
	cmd.Flags().StringVarP(&outDir, "output-folder", "o", "", "output directory (default <folder>_white-removed)")
	return cmd
}

func newGreyBorderCmd(a *app) *cobra.Command {
	var (
		borderColor string
		tolerance   int
		sides       []string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "grey-border-remover <folder>",
		Short: "Remove the grey card margins from every image in a folder",
		Long: "Trims the grey margins around the notecard from each image in <folder>. The margin\n" +
			"colour is sampled from each edge unless --border-color is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := a.cfg.PipelineConfig()
			pc.SkipWhite = true

			if cmd.Flags().Changed("tolerance") {
				if tolerance < 0 || tolerance > 255 {
					return fmt.Errorf("tolerance must be between 0 and 255, got %d", tolerance)
				}
				pc.Scan.Tolerance = uint8(tolerance)
			}
			if cmd.Flags().Changed("border-color") {
				c, err := autocrop.ParseHex(borderColor)
				if err != nil {
					return fmt.Errorf("border color: %w", err)
				}
				pc.BorderColor = &c
			}
			if cmd.Flags().Changed("sides") {
				parsed, err := config.ParseSides(sides)
				if err != nil {
					return err
				}
				pc.Sides = parsed
			}
			return a.cropFolder(cmd, args[0], outDir, "grey-removed", pc)
		},
	}

	cmd.Flags().StringVar(&borderColor, "border-color", "", "fixed margin colour as #rrggbb (default: sample each edge)")
	cmd.Flags().IntVar(&tolerance, "tolerance", 0, "maximum Euclidean RGB distance from the margin colour still counted as margin (default from config, 60)")
	cmd.Flags().StringSliceVar(&sides, "sides", nil, "sides to trim, in order (default from config, left,right)")
	cmd.Flags().StringVarP(&outDir, "output-folder", "o", "", "output directory (default <folder>_grey-removed)")
	return cmd
}

// cropFolder crops every image in dir into outDir, keeping file names.
func (a *app) cropFolder(cmd *cobra.Command, dir, outDir, suffix string, pc autocrop.PipelineConfig) error {
	in, err := inputDir(dir)
	if err != nil {
		return err
	}
	paths, err := imaging.ListImages(in)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no image files found in %s", in)
	}
	if outDir == "" {
		outDir = siblingDir(in, suffix)
	}

	items := make([]batch.Item, len(paths))
	for i, p := range paths {
		items[i] = batch.ImageItem(p)
	}

	cropper := &batch.Cropper{
		Pipeline: autocrop.NewPipeline(pc),
		OutDir:   outDir,
		Log:      a.log,
	}
	cropper.Plan(items)
	runner := batch.NewRunner(a.cfg.Processing.Workers, a.log)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Processing %d images into %s\n", len(items), outDir)

	reports, runErr := runner.Run(cmd.Context(), items, cropper.Process)
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(w, "  failed %s: %v\n", filepath.Base(r.Item.Name), r.Err)
		}
	}
	failed := batch.Failed(reports)
	fmt.Fprintf(w, "Done: %d cropped, %d failed\n", len(reports)-failed, failed)
	return runErr
}
