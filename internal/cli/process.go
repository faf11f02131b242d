package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jameslewellyn/recipe-scan-tool/internal/archive"
	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/batch"
	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
	"github.com/jameslewellyn/recipe-scan-tool/internal/ocr"
)

func newProcessCmd(a *app) *cobra.Command {
	var (
		outDir   string
		rotation int
		useOCR   bool
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "process <path>...",
		Short: "Crop, render and archive notecards from PDFs, images or folders",
		Long: "Runs the full pipeline on every card found in the given PDFs, images and folders:\n" +
			"white border and grey margin removal, optional rotation and OCR title\n" +
			"suggestion, then full, medium and thumbnail renditions plus manifest.json.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if !cmd.Flags().Changed("rotation") {
				rotation = cfg.Output.Rotation
			}
			rot, err := imaging.ParseRotation(rotation)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ocr") {
				useOCR = cfg.OCR.Enabled
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Processing.Workers
			}
			if outDir == "" {
				outDir = cfg.Output.Directory
			}
			if outDir == "" {
				outDir = defaultArchiveDir(args[0])
			}

			items, err := batch.Collect(args...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return errors.New("no PDF or image files found")
			}

			arc, err := archive.New(outDir)
			if err != nil {
				return err
			}

			proc := &batch.Processor{
				Pipeline:      autocrop.NewPipeline(cfg.PipelineConfig()),
				Archive:       arc,
				MediumSize:    cfg.Output.MediumSize,
				ThumbnailSize: cfg.Output.ThumbnailSize,
				Rotation:      rot,
				Log:           a.log,
			}
			if useOCR {
				if info := ocr.Available(); !info.Available {
					a.log.Warn().Str("reason", info.Error).Msg("OCR unavailable; titles will not be suggested")
				} else {
					proc.Recognizer = ocr.NewRecognizer(cfg.OCROptions())
				}
			}

			runner := batch.NewRunner(workers, a.log)
			a.log.Info().
				Str("run_id", arc.RunID()).
				Int("cards", len(items)).
				Int("workers", runner.Workers()).
				Str("output", outDir).
				Msg("processing")

			reports, runErr := runner.Run(cmd.Context(), items, proc.Process)

			// The manifest is written even after cancellation so finished
			// cards stay indexed.
			path, err := arc.WriteManifest()
			if err != nil {
				return errors.Join(runErr, err)
			}

			m := arc.Manifest()
			w := cmd.OutOrStdout()
			for _, r := range reports {
				if r.Err != nil {
					fmt.Fprintf(w, "  failed %s: %v\n", r.Item, r.Err)
				}
			}
			fmt.Fprintf(w, "Archived %d cards (%d failed, %d need review)\n", m.Cards, m.Failed, m.Uncertain)
			fmt.Fprintf(w, "Manifest: %s\n", path)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-folder", "o", "", "archive directory (default from config, else <first path>_processed)")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "clockwise rotation applied after cropping: 0, 90, 180 or 270")
	cmd.Flags().BoolVar(&useOCR, "ocr", false, "suggest titles with Tesseract")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent cards (default from config, 0 means one per CPU)")
	return cmd
}

// defaultArchiveDir places the archive beside path: a folder gets a
// sibling, a file gets one named after its stem.
func defaultArchiveDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = abs[:len(abs)-len(filepath.Ext(abs))]
	}
	return siblingDir(abs, "processed")
}
