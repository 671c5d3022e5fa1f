package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"filterlab/internal/filter"
	"filterlab/internal/photo"
	"filterlab/internal/transform"
	"filterlab/internal/tui"
)

var (
	previewsOutputDir string
	previewsSize      int
)

var previewsCmd = &cobra.Command{
	Use:   "previews [flags] <image>",
	Short: "Render one thumbnail per catalog filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(os.Stderr); err != nil {
			return err
		}

		img, err := photo.Load(args[0])
		if err != nil {
			return err
		}
		src := transform.Normalize(img)

		size := previewsSize
		if size <= 0 {
			size = cfg.PreviewSize
		}
		catalog := filter.DefaultCatalog()
		gen := filter.NewPreviewGenerator(filter.NewEngine(), size, logger)
		set := gen.Generate(cmd.Context(), catalog, src)

		if err := os.MkdirAll(previewsOutputDir, 0o755); err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		rows := make([]tui.SummaryRow, 0, set.Len())
		for i, def := range catalog {
			preview := set.At(i)
			if preview == nil {
				rows = append(rows, tui.SummaryRow{Label: string(def.Name), Value: "failed"})
				continue
			}
			out := filepath.Join(previewsOutputDir, fmt.Sprintf("%s-%d-%s.png", base, i, def.Name))
			if err := imaging.Save(preview.Raster(), out); err != nil {
				return fmt.Errorf("write preview %s: %w", def.Name, err)
			}
			rows = append(rows, tui.SummaryRow{Label: string(def.Name), Value: out})
		}

		fmt.Fprintln(os.Stdout, tui.RenderSummary("previews for "+filepath.Base(args[0]), rows))
		fmt.Fprintf(os.Stdout, "%d/%d previews ready (%dx%d)\n", set.Ready(), set.Len(), gen.Size(), gen.Size())
		return nil
	},
}

func init() {
	previewsCmd.Flags().StringVarP(&previewsOutputDir, "output", "o", "previews", "directory to write thumbnails into")
	previewsCmd.Flags().IntVar(&previewsSize, "size", 0, "thumbnail edge length in pixels (default from FILTERLAB_PREVIEW_SIZE)")
	rootCmd.AddCommand(previewsCmd)
}
