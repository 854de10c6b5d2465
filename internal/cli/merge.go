package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge split parts back into one WebVTT file",
	Long: `Merge the part files in --parts-dir into a single WebVTT file.

Parts are ordered by the first number in their file name (part_002 before
part_010), not alphabetically. Files without a number are rejected unless
--skip-unorderable is given.`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	addMergeFlags(mergeCmd)
	mergeCmd.Flags().String("out", "", "Output WebVTT file (required)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	dir, pattern, skip, err := mergeSettings(cmd)
	if err != nil {
		return err
	}
	outputPath, err := requireFlag(cmd, "out")
	if err != nil {
		return err
	}

	parts, ordered, err := loadParts(dir, pattern, skip)
	if err != nil {
		return err
	}

	merged := mergeParts(parts)
	if err := writeDocument(outputPath, merged); err != nil {
		return err
	}

	logger.Infow("Merge complete",
		"parts", len(parts),
		"cues", len(merged.Cues),
		"output", outputPath,
	)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Merge order (sorted):")
	for _, path := range ordered {
		fmt.Fprintf(out, "   %s\n", filepath.Base(path))
	}
	fmt.Fprintf(out, "\nMerged %d files -> %s\n", len(ordered), absPath(outputPath))
	return nil
}
