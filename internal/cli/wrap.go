package cli

import (
	"fmt"

	"github.com/mgpai22/vttkit/internal/config"
	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/spf13/cobra"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap",
	Short: "Split overlong cues into several shorter cues",
	Long: `Split every cue whose text exceeds --max-chars into consecutive cues.
The original time range is shared out in proportion to the text of each
piece, so the new cues cover exactly the same span without gaps.`,
	RunE: runWrap,
}

func init() {
	rootCmd.AddCommand(wrapCmd)

	defaults := config.Default().Wrap
	wrapCmd.Flags().String("in", "", "Input WebVTT file (required)")
	wrapCmd.Flags().String("out", "", "Output WebVTT file (required)")
	wrapCmd.Flags().Int("max-chars", defaults.MaxChars, "Largest text length of a cue")
	wrapCmd.Flags().Int("line-width", defaults.LineWidth, "Break pieces longer than this into two balanced lines (0 disables)")
}

func runWrap(cmd *cobra.Command, args []string) error {
	inputPath, err := requireFlag(cmd, "in")
	if err != nil {
		return err
	}
	outputPath, err := requireFlag(cmd, "out")
	if err != nil {
		return err
	}
	opts, err := wrapOptions(cmd)
	if err != nil {
		return err
	}

	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}

	wrapped, report, err := subtitle.Wrap(doc, opts)
	if err != nil {
		return fmt.Errorf("failed to wrap: %w", err)
	}
	for _, w := range report.Warnings {
		logger.Warnw("Cue left unwrapped",
			"line", w.Line,
			"detail", w.Message,
		)
	}

	if err := writeDocument(outputPath, wrapped); err != nil {
		return err
	}

	logger.Infow("Wrap complete",
		"before", len(doc.Cues),
		"after", len(wrapped.Cues),
		"max_chars", opts.MaxChars,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrapped cues: %d -> %d   Output: %s\n",
		len(doc.Cues), len(wrapped.Cues), absPath(outputPath))
	return nil
}
