package cli

import (
	"fmt"

	"github.com/mgpai22/vttkit/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the vttkit configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Long: `Write the sample configuration, which lists every setting with its
default value. Without a path it is written to ~/.config/vttkit/config.toml.
An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	if err := config.CreateSample(path); err != nil {
		return err
	}

	logger.Debugw("Sample configuration written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Config written successfully: %s\n", absPath(path))
	return nil
}
