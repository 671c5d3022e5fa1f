package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"filterlab/internal/filter"
	"filterlab/internal/tui"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the filter catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := filter.DefaultCatalog()
		rows := make([]tui.SummaryRow, 0, catalog.Len())
		for i, def := range catalog {
			value := "passthrough"
			if !def.IsOriginal() {
				value = fmt.Sprintf("%s.%s  default %.2f  range [%.2f, %.2f]",
					def.EngineID, def.ParamKey, def.Default, def.Min, def.Max)
			}
			rows = append(rows, tui.SummaryRow{Label: fmt.Sprintf("%d %s", i, def.Name), Value: value})
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary("filter catalog", rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}
