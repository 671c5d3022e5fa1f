package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"filterlab/internal/editor"
	"filterlab/internal/filter"
	"filterlab/internal/photo"
	"filterlab/internal/tui"
)

var (
	applyFilter    string
	applyIntensity float64
	applyScale     float64
	applyRotate    float64
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] <image>",
	Short: "Apply one filter and save the result to the photo library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(os.Stderr); err != nil {
			return err
		}

		catalog := filter.DefaultCatalog()
		index := catalog.Index(filter.Name(applyFilter))
		if index < 0 {
			names := make([]string, 0, catalog.Len())
			for _, def := range catalog {
				names = append(names, string(def.Name))
			}
			return fmt.Errorf("unknown filter %q (available: %s)", applyFilter, strings.Join(names, ", "))
		}

		img, err := photo.Load(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		rs, err := startSession(ctx, catalog)
		if err != nil {
			return err
		}
		defer rs.stop()

		rs.Send(editor.ImagePicked{Image: img})
		rs.Send(editor.FilterTapped{Index: index})
		if cmd.Flags().Changed("intensity") {
			rs.Send(editor.IntensityDragged{Value: applyIntensity})
		}
		rs.Send(editor.SaveRequested{Scale: applyScale, Rotation: applyRotate * math.Pi / 180})

		var result editor.SaveFinished
	wait:
		for {
			select {
			case ev := <-rs.events:
				if sf, ok := ev.(editor.SaveFinished); ok {
					result = sf
					break wait
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if result.Err != nil {
			return result.Err
		}

		intensity := catalog[index].Default
		if cmd.Flags().Changed("intensity") {
			intensity = catalog[index].Clamp(applyIntensity)
		}
		rows := []tui.SummaryRow{
			{Label: "Source", Value: img.Name()},
			{Label: "Filter", Value: string(catalog[index].Name)},
			{Label: "Intensity", Value: fmt.Sprintf("%.2f", intensity)},
			{Label: "Zoom", Value: fmt.Sprintf("%.2fx", applyScale)},
			{Label: "Rotation", Value: fmt.Sprintf("%.0f°", applyRotate)},
			{Label: "Saved to", Value: result.Path},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary("applied "+string(catalog[index].Name), rows))
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyFilter, "filter", "f", string(filter.SepiaTone), "catalog filter name")
	applyCmd.Flags().Float64VarP(&applyIntensity, "intensity", "i", 0, "filter intensity (default: the filter's default)")
	applyCmd.Flags().Float64Var(&applyScale, "scale", 1, "zoom factor baked into the saved image")
	applyCmd.Flags().Float64Var(&applyRotate, "rotate", 0, "rotation in degrees baked into the saved image")
	rootCmd.AddCommand(applyCmd)
}
