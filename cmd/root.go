package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"filterlab/internal/config"
	"filterlab/internal/logging"
)

var (
	cfg         *config.Config
	logger      = slog.Default()
	closeLogger = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "filterlab",
	Short: "filterlab - apply photo filters interactively or in batch",
	Long: "filterlab applies a catalog of photo filters to an image, with a live\n" +
		"intensity slider, pinch/rotate adjustments and export to a local photo library.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging points the command logger at the configured log file, or at
// fallback when none is set.
func setupLogging(fallback io.Writer) error {
	l, closeFn, err := logging.Open(cfg.LogLevel, cfg.LogFile, fallback)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger, closeLogger = l, closeFn
	slog.SetDefault(logger)
	return nil
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.String("library", "", "photo library directory saved images are written to")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	_ = viper.BindPFlag(config.KeyLibraryDir, flags.Lookup("library"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
}
