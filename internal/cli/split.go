package cli

import "github.com/spf13/cobra"

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a WebVTT file into fixed-length time windows",
	Long: `Split a WebVTT file into parts covering --minutes each.

Parts are named part_001_<name>.vtt, part_002_<name>.vtt and so on. A cue
belongs to the part its start time falls into and is never cut. Timestamps
are kept as-is unless --rebase is given, so the parts can be merged back
without offsets.`,
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().String("in", "", "Input WebVTT file (required)")
	addSplitFlags(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	inputPath, err := requireFlag(cmd, "in")
	if err != nil {
		return err
	}
	opts, err := splitOptions(cmd)
	if err != nil {
		return err
	}
	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}

	return writeParts(cmd, doc, inputPath, opts)
}
