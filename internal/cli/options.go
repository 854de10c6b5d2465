package cli

import (
	"fmt"
	"time"

	"github.com/mgpai22/vttkit/internal/config"
	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/spf13/cobra"
)

// Flags below only override the loaded config when given explicitly, so
// their registered defaults mirror config.Default for the help output.

func addSplitFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().Int("minutes", defaults.Split.WindowMinutes, "Window size in minutes for each part")
	cmd.Flags().Bool("rebase", defaults.Split.Rebase, "Shift each part so its first cue starts at 00:00:00.000")
	cmd.Flags().String("out-dir", "", "Directory for the parts (default: next to the input)")
}

func addMergeFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().String("parts-dir", "", "Directory containing the part files (required)")
	cmd.Flags().String("pattern", defaults.Merge.Pattern, "Glob pattern selecting the part files")
	cmd.Flags().Bool("skip-unorderable", defaults.Merge.SkipUnorderable, "Skip part files without a number in their name")
}

func addCompressFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().Int("gap-ms", defaults.Compress.MaxGapMS, "Largest gap in milliseconds between cues that are coalesced")
	cmd.Flags().Int("max-chars", defaults.Compress.MaxChars, "Largest text length of a coalesced cue (0 disables)")
	cmd.Flags().Int("max-duration-ms", defaults.Compress.MaxDurationMS, "Largest duration of a coalesced cue in milliseconds (0 disables)")
	cmd.Flags().Bool("sentence-break", defaults.Compress.SentenceBreak, "Never coalesce after a cue that ends a sentence")
	cmd.Flags().Bool("number", defaults.Compress.Number, "Number the resulting cues from 1")
}

func splitOptions(cmd *cobra.Command) (subtitle.SplitOptions, error) {
	opts := cfg.SplitOptions()
	if cmd.Flags().Changed("minutes") {
		minutes, _ := cmd.Flags().GetInt("minutes")
		opts.Window = time.Duration(minutes) * time.Minute
	}
	if cmd.Flags().Changed("rebase") {
		opts.Rebase, _ = cmd.Flags().GetBool("rebase")
	}
	if opts.Window <= 0 {
		return opts, fmt.Errorf("%w: --minutes must be positive", subtitle.ErrInvalidWindow)
	}
	return opts, nil
}

func mergeSettings(cmd *cobra.Command) (dir, pattern string, skip bool, err error) {
	dir, err = requireFlag(cmd, "parts-dir")
	if err != nil {
		return "", "", false, err
	}
	pattern = cfg.Merge.Pattern
	if cmd.Flags().Changed("pattern") {
		pattern, _ = cmd.Flags().GetString("pattern")
	}
	skip = cfg.Merge.SkipUnorderable
	if cmd.Flags().Changed("skip-unorderable") {
		skip, _ = cmd.Flags().GetBool("skip-unorderable")
	}
	return dir, pattern, skip, nil
}

func compressOptions(cmd *cobra.Command) (subtitle.CompressOptions, error) {
	opts := cfg.CompressOptions()
	flags := cmd.Flags()
	if flags.Changed("gap-ms") {
		ms, _ := flags.GetInt("gap-ms")
		opts.MaxGap = time.Duration(ms) * time.Millisecond
	}
	if flags.Changed("max-chars") {
		opts.MaxChars, _ = flags.GetInt("max-chars")
	}
	if flags.Changed("max-duration-ms") {
		ms, _ := flags.GetInt("max-duration-ms")
		opts.MaxDuration = time.Duration(ms) * time.Millisecond
	}
	if flags.Changed("sentence-break") {
		opts.BreakOnSentenceEnd, _ = flags.GetBool("sentence-break")
	}
	if flags.Changed("number") {
		opts.Number, _ = flags.GetBool("number")
	}
	return opts, opts.Validate()
}

func wrapOptions(cmd *cobra.Command) (subtitle.WrapOptions, error) {
	opts := cfg.WrapOptions()
	if cmd.Flags().Changed("max-chars") {
		opts.MaxChars, _ = cmd.Flags().GetInt("max-chars")
	}
	if cmd.Flags().Changed("line-width") {
		opts.LineWidth, _ = cmd.Flags().GetInt("line-width")
	}
	return opts, opts.Validate()
}
