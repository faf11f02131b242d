package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jameslewellyn/recipe-scan-tool/internal/pdfpages"
)

func newExtractCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract-notecards <folder>",
		Short: "Extract the scan image from every page of the PDFs in a folder",
		Long: "Extracts the first embedded image of each page of every PDF in <folder>.\n" +
			"Images are written as <pdf-stem>_page<N>.<ext> with 0-based page numbers.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := inputDir(args[0])
			if err != nil {
				return err
			}
			pdfs, err := pdfpages.ListPDFs(in)
			if err != nil {
				return err
			}
			if len(pdfs) == 0 {
				return fmt.Errorf("no PDF files found in %s", in)
			}
			if outDir == "" {
				outDir = siblingDir(in, "images")
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Found %d PDF files\n", len(pdfs))

			var saved, failed int
			for _, pdf := range pdfs {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				doc, err := pdfpages.ExtractFile(pdf)
				if err != nil {
					a.log.Error().Err(err).Str("pdf", pdf).Msg("extract failed")
					failed++
					continue
				}
				for _, p := range doc.Pages {
					if p.Image == nil {
						a.log.Warn().Err(p.Err).Str("pdf", pdf).Int("page", p.Number).Msg("page skipped")
						continue
					}
					path, err := pdfpages.Save(outDir, pdf, p)
					if err != nil {
						a.log.Error().Err(err).Str("pdf", pdf).Int("page", p.Number).Msg("save failed")
						continue
					}
					a.log.Debug().Str("path", path).Msg("saved")
					saved++
				}
			}

			fmt.Fprintf(w, "Extracted %d images to %s\n", saved, outDir)
			if failed > 0 {
				fmt.Fprintf(w, "%d PDF files could not be read\n", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-folder", "o", "", "output directory (default <folder>_images)")
	return cmd
}
