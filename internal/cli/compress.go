package cli

import (
	"fmt"

	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/spf13/cobra"
)

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Coalesce adjacent short cues into fewer, longer cues",
	Long: `Coalesce neighbouring cues separated by at most --gap-ms into one cue, as
long as the joined text stays within --max-chars and the joined cue within
--max-duration-ms. Joined text is separated by a space, or by a line break
when the earlier cue ends a sentence.`,
	RunE: runCompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)

	compressCmd.Flags().String("in", "", "Input WebVTT file (required)")
	compressCmd.Flags().String("out", "", "Output WebVTT file (required)")
	addCompressFlags(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	inputPath, err := requireFlag(cmd, "in")
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

	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}

	compressed, err := compressDocument(doc, opts)
	if err != nil {
		return err
	}
	if err := writeDocument(outputPath, compressed); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Compressed cues: %d -> %d   Output: %s\n",
		len(doc.Cues), len(compressed.Cues), absPath(outputPath))
	return nil
}

func compressDocument(doc *subtitle.Document, opts subtitle.CompressOptions) (*subtitle.Document, error) {
	compressed, err := subtitle.Compress(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	logger.Infow("Compressed cues",
		"before", len(doc.Cues),
		"after", len(compressed.Cues),
		"max_gap", opts.MaxGap,
		"max_chars", opts.MaxChars,
	)
	return compressed, nil
}
