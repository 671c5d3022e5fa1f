package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"filterlab/internal/editor"
	"filterlab/internal/filter"
	"filterlab/internal/library"
	"filterlab/internal/photo"
	"filterlab/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [image or directory]",
	Short: "Edit an image interactively",
	Long: "Open an image in the interactive editor. Given a directory (default: the\n" +
		"current one), scan it for images and pick one from a list.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The terminal belongs to the editor; logs only go to FILTERLAB_LOG_FILE.
		if err := setupLogging(io.Discard); err != nil {
			return err
		}

		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		info, err := os.Stat(target)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		var (
			entries []library.Entry
			initial *photo.Image
		)
		if info.IsDir() {
			entries, err = scanWithProgress(ctx, target)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no images found in %s", target)
			}
		} else {
			initial, err = photo.Load(target)
			if err != nil {
				return err
			}
		}

		catalog := filter.DefaultCatalog()
		rs, err := startSession(ctx, catalog)
		if err != nil {
			return err
		}
		defer rs.stop()

		if initial != nil {
			rs.Send(editor.ImagePicked{Image: initial})
		}

		model := tui.NewEditorModel(tui.EditorOptions{
			Sender:  rs,
			Events:  rs.events,
			Catalog: catalog,
			Entries: entries,
		})
		_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	},
}

func scanWithProgress(ctx context.Context, root string) ([]library.Entry, error) {
	updates := make(chan library.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewScanModel(updates))

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(uiDone)
	}()

	summary, entries, err := library.Scan(ctx, root, updates)
	close(updates)
	<-uiDone
	if err != nil {
		return nil, err
	}
	logger.Info("library scanned", "root", root, "files", summary.Files, "images", summary.Images, "errors", summary.Errors)
	return entries, nil
}

func init() {
	rootCmd.AddCommand(editCmd)
}
