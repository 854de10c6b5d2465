package cli

import (
	"fmt"

	"github.com/mgpai22/vttkit/internal/config"
	"github.com/mgpai22/vttkit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	partial    bool
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vttkit",
	Short: "Clean, split, merge, compress and wrap WebVTT subtitles",
	Long: `vttkit is a toolkit for WebVTT subtitle pipelines.

A typical translation workflow is:
  clean --fix -> split -> (translate each part) -> merge -> compress / wrap

Split parts keep their original timestamps, so merging the translated parts
restores the full timeline without any offset bookkeeping.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		// config init must work even when the existing config is broken
		if cmd == configInitCmd {
			defaults := config.Default()
			cfg = &defaults
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		if cmd.Flags().Changed("fix") {
			cfg.Clean.Fix, _ = cmd.Flags().GetBool("fix")
		}
		if cmd.Flags().Changed("allow-zero-length") {
			cfg.Clean.AllowZeroLength, _ = cmd.Flags().GetBool("allow-zero-length")
		}

		logger.Debugw("Loaded configuration",
			"path", path,
			"exists", exists,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/vttkit/config.toml or ./vttkit.toml)")
	rootCmd.PersistentFlags().
		Bool("fix", false, "Parse timestamps leniently and repair them (clean also writes the fixed file)")
	rootCmd.PersistentFlags().
		Bool("allow-zero-length", false, "Keep cues whose end time equals their start time")
	rootCmd.PersistentFlags().
		BoolVar(&partial, "partial", false, "Continue with the cues that parsed when some cues are malformed")
}
