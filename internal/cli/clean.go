package cli

import (
	"fmt"

	"github.com/mgpai22/vttkit/internal/config"
	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/mgpai22/vttkit/internal/vttio"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Check WebVTT timestamps and optionally write a fixed copy",
	Long: `Check a WebVTT file for malformed timestamps, reversed ranges,
cues that start before their predecessor and overlapping cues.

With --fix, timestamps are parsed leniently (comma separators, stray
whitespace, missing hour field, overflowing minutes) and reversed ranges are
swapped; the repaired document is written to --out or <input>_fixed.vtt.
Nothing is written while cues remain unrepairable, unless --partial drops
them.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().String("in", "", "Input WebVTT file (required)")
	cleanCmd.Flags().String("out", "", "Output file for --fix (default: <input>_fixed.vtt)")
	cleanCmd.Flags().Int("show", config.Default().Clean.Show, "Maximum number of issues to print (0 prints all)")
	cleanCmd.Flags().Bool("strict", false, "Exit with an error when malformed cues are found")
}

func runClean(cmd *cobra.Command, args []string) error {
	inputPath, err := requireFlag(cmd, "in")
	if err != nil {
		return err
	}
	outputPath, _ := cmd.Flags().GetString("out")
	strict, _ := cmd.Flags().GetBool("strict")
	show := cfg.Clean.Show
	if cmd.Flags().Changed("show") {
		show, _ = cmd.Flags().GetInt("show")
	}

	if !vttio.Exists(inputPath) {
		return fmt.Errorf("subtitle file not found: %s", inputPath)
	}

	opts := cfg.ParseOptions()
	logger.Infow("Checking subtitle file",
		"input", inputPath,
		"fix", opts.Fix,
	)

	doc, report, err := vttio.Open(inputPath, opts)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	issues := append([]subtitle.Issue{}, report.Errors...)
	issues = append(issues, subtitle.Check(doc)...)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked: %s\n", absPath(inputPath))
	fmt.Fprintf(out, "Cues: %d\n", len(doc.Cues))
	fmt.Fprintf(out, "Issues found: %d\n", len(issues))
	printIssues(out, issues, show)

	if strict && report.HasErrors() {
		return fmt.Errorf("%d malformed cue(s) in %s: %w", len(report.Errors), inputPath, report.Err())
	}
	if !opts.Fix {
		return nil
	}

	// unrepairable cues would be lost from the fixed copy
	if report.HasErrors() && !partial {
		return fmt.Errorf(
			"%s has %d unrepairable cue(s), nothing written (use --partial to drop them): %w",
			inputPath,
			len(report.Errors),
			report.Err(),
		)
	}

	if outputPath == "" {
		outputPath = siblingPath(inputPath, "_fixed")
	}
	if err := writeDocument(outputPath, doc); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n=== Fix mode ===")
	fmt.Fprintf(out, "Wrote: %s\n", absPath(outputPath))
	fmt.Fprintf(out, "Timestamp lines normalized/swapped: %d\n", len(report.Corrections))
	printIssues(out, report.Corrections, show)
	if len(report.Errors) > 0 {
		fmt.Fprintf(out, "Cues dropped as unrepairable: %d\n", len(report.Errors))
	}
	return nil
}
