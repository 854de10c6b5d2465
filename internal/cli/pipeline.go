package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/mgpai22/vttkit/internal/vttio"
	"github.com/spf13/cobra"
)

// loadDocument reads and parses one input file. Malformed cues abort the
// command unless --partial is set.
func loadDocument(path string) (*subtitle.Document, error) {
	if !vttio.Exists(path) {
		return nil, fmt.Errorf("subtitle file not found: %s", path)
	}

	doc, report, err := vttio.Open(path, cfg.ParseOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	logger.Infow("Parsed subtitle file",
		"input", path,
		"cues", len(doc.Cues),
		"errors", len(report.Errors),
		"corrections", len(report.Corrections),
	)
	for _, w := range report.Warnings {
		logger.Warnw("Timeline warning",
			"input", path,
			"line", w.Line,
			"kind", w.Kind,
			"detail", w.Message,
		)
	}

	if report.HasErrors() {
		if !partial {
			return nil, fmt.Errorf(
				"%s has %d malformed cue(s) (use --fix or --partial): %w",
				path,
				len(report.Errors),
				report.Err(),
			)
		}
		for _, e := range report.Errors {
			logger.Warnw("Skipping malformed cue",
				"input", path,
				"line", e.Line,
				"kind", e.Kind,
				"detail", e.Message,
			)
		}
	}

	return doc, nil
}

// loadParts resolves, orders and parses the part files of a merge.
func loadParts(dir, pattern string, skipUnorderable bool) ([]*subtitle.Document, []string, error) {
	files, err := vttio.Glob(dir, pattern)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no VTT files found in %s (pattern=%s)", dir, pattern)
	}

	ordered, rejected := subtitle.OrderParts(files)
	if len(rejected) > 0 {
		if !skipUnorderable {
			report := &subtitle.Report{Errors: rejected}
			return nil, nil, fmt.Errorf(
				"cannot order parts (use --skip-unorderable to ignore them): %w",
				report.Err(),
			)
		}
		for _, r := range rejected {
			logger.Warnw("Skipping unorderable part", "file", r.Raw)
		}
	}
	if len(ordered) == 0 {
		return nil, nil, fmt.Errorf("no orderable VTT files found in %s (pattern=%s)", dir, pattern)
	}

	parts := make([]*subtitle.Document, 0, len(ordered))
	for _, path := range ordered {
		doc, err := loadDocument(path)
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, doc)
	}

	return parts, ordered, nil
}

// mergeParts merges already ordered parts and logs overlap warnings.
func mergeParts(parts []*subtitle.Document) *subtitle.Document {
	merged, report := subtitle.Merge(parts, cfg.MergeOptions())
	for _, w := range report.Warnings {
		logger.Warnw("Timestamp overlap after merge",
			"line", w.Line,
			"detail", w.Message,
		)
	}
	return merged
}

// splitFiles renders the segments of doc as part files in outDir.
func splitFiles(
	doc *subtitle.Document,
	stem, outDir string,
	opts subtitle.SplitOptions,
) ([]vttio.File, error) {
	segments, err := subtitle.Split(doc, opts)
	if err != nil {
		return nil, err
	}

	files := make([]vttio.File, len(segments))
	for i, segment := range segments {
		files[i] = vttio.File{
			Path: filepath.Join(outDir, subtitle.PartName(stem, i+1)),
			Data: subtitle.Serialize(segment),
		}
	}
	return files, nil
}

// writeDocument writes doc as a complete WebVTT file.
func writeDocument(path string, doc *subtitle.Document) error {
	if err := vttio.WriteFile(path, subtitle.Serialize(subtitle.StandAlone(doc))); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func fileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// siblingPath names a file next to path with suffix added to its stem.
func siblingPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func absPath(path string) string {
	absOutput, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absOutput
}

func requireFlag(cmd *cobra.Command, name string) (string, error) {
	value, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return value, nil
}

func outputDir(cmd *cobra.Command, input string) string {
	dir, _ := cmd.Flags().GetString("out-dir")
	if dir == "" {
		return filepath.Dir(input)
	}
	return dir
}
