package cli

import (
	"fmt"

	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/mgpai22/vttkit/internal/vttio"
	"github.com/spf13/cobra"
)

var cleanSplitCmd = &cobra.Command{
	Use:   "cleansplit",
	Short: "Fix timestamps, then split into parts",
	Long: `Parse the input with timestamp repair enabled and split the repaired
document into parts, as clean --fix followed by split would. No
intermediate file is written.`,
	RunE: runCleanSplit,
}

var mergeCompressCmd = &cobra.Command{
	Use:   "mergecompress",
	Short: "Merge parts, then compress the result",
	RunE:  runMergeCompress,
}

var cleanCompressSplitCmd = &cobra.Command{
	Use:   "cleancompresssplit",
	Short: "Fix timestamps, compress, then split into parts",
	Long: `Parse the input with timestamp repair enabled, coalesce short cues and
split the result into parts. Compressing before splitting keeps the parts
small for translation. No intermediate file is written.`,
	RunE: runCleanCompressSplit,
}

func init() {
	rootCmd.AddCommand(cleanSplitCmd)
	rootCmd.AddCommand(mergeCompressCmd)
	rootCmd.AddCommand(cleanCompressSplitCmd)

	cleanSplitCmd.Flags().String("in", "", "Input WebVTT file (required)")
	addSplitFlags(cleanSplitCmd)

	addMergeFlags(mergeCompressCmd)
	mergeCompressCmd.Flags().String("out", "", "Output WebVTT file (required)")
	addCompressFlags(mergeCompressCmd)

	cleanCompressSplitCmd.Flags().String("in", "", "Input WebVTT file (required)")
	addSplitFlags(cleanCompressSplitCmd)
	addCompressFlags(cleanCompressSplitCmd)
}

func runCleanSplit(cmd *cobra.Command, args []string) error {
	inputPath, err := requireFlag(cmd, "in")
	if err != nil {
		return err
	}
	opts, err := splitOptions(cmd)
	if err != nil {
		return err
	}

	cfg.Clean.Fix = true
	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}

	return writeParts(cmd, doc, inputPath, opts)
}

func runMergeCompress(cmd *cobra.Command, args []string) error {
	dir, pattern, skip, err := mergeSettings(cmd)
	if err != nil {
		return err
	}
	outputPath, err := requireFlag(cmd, "out")
	if err != nil {
		return err
	}
	opts, err := compressOptions(cmd)
	if err != nil {
		return err
	}

	parts, ordered, err := loadParts(dir, pattern, skip)
	if err != nil {
		return err
	}
	merged := mergeParts(parts)

	compressed, err := compressDocument(merged, opts)
	if err != nil {
		return err
	}
	if err := writeDocument(outputPath, compressed); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d files, compressed cues: %d -> %d   Output: %s\n",
		len(ordered), len(merged.Cues), len(compressed.Cues), absPath(outputPath))
	return nil
}

func runCleanCompressSplit(cmd *cobra.Command, args []string) error {
	inputPath, err := requireFlag(cmd, "in")
	if err != nil {
		return err
	}
	splitOpts, err := splitOptions(cmd)
	if err != nil {
		return err
	}
	compressOpts, err := compressOptions(cmd)
	if err != nil {
		return err
	}

	cfg.Clean.Fix = true
	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}

	compressed, err := compressDocument(doc, compressOpts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Compressed cues: %d -> %d\n", len(doc.Cues), len(compressed.Cues))

	return writeParts(cmd, compressed, inputPath, splitOpts)
}

func writeParts(
	cmd *cobra.Command,
	doc *subtitle.Document,
	inputPath string,
	opts subtitle.SplitOptions,
) error {
	outDir := outputDir(cmd, inputPath)
	files, err := splitFiles(doc, fileStem(inputPath), outDir, opts)
	if err != nil {
		return fmt.Errorf("failed to split: %w", err)
	}
	if err := vttio.WriteAll(files); err != nil {
		return fmt.Errorf("failed to write parts: %w", err)
	}

	logger.Infow("Split complete",
		"input", inputPath,
		"parts", len(files),
		"window", opts.Window,
		"rebase", opts.Rebase,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Split wrote %d file(s) -> %s\n", len(files), absPath(outDir))
	return nil
}
