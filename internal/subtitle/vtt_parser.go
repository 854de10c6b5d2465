package subtitle

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mgpai22/vttkit/internal/timestamp"
)

// ParseOptions controls how tolerant Parse is.
type ParseOptions struct {
	// Fix enables lenient timestamps and swaps reversed time ranges.
	Fix bool
	// AllowZeroLength keeps cues whose end equals their start.
	AllowZeroLength bool
}

// lenient end field: a timestamp-looking prefix followed by optional settings
var lenientEndRegex = regexp.MustCompile(`^([\d\s:.,]*\d)(?:\s+(\S.*))?$`)

type block struct {
	line  int
	lines []string
}

// Parse reads a WebVTT document. Cues that cannot be parsed are reported
// and skipped; Parse itself never fails.
func Parse(text string, opts ParseOptions) (*Document, *Report) {
	report := &Report{}
	doc := &Document{Cues: []Cue{}}

	blocks := splitBlocks(normalizeNewlines(text))
	for i, b := range blocks {
		first := strings.TrimSpace(b.lines[0])

		if i == 0 && strings.HasPrefix(strings.ToUpper(first), "WEBVTT") {
			doc.Header = append([]string(nil), b.lines...)
			continue
		}

		if !strings.Contains(b.lines[0], "-->") && isMetadataBlock(first) {
			if len(doc.Cues) == 0 {
				doc.Preamble = append(doc.Preamble, append([]string(nil), b.lines...))
			}
			continue
		}

		cue, ok := parseCueBlock(b, opts, report)
		if !ok {
			continue
		}

		if n := len(doc.Cues); n > 0 && cue.Start < doc.Cues[n-1].Start {
			report.addWarning(cue.Line, KindOutOfOrder, b.lines[0],
				"prev_start=%s current_start=%s",
				timestamp.Format(doc.Cues[n-1].Start),
				timestamp.Format(cue.Start),
			)
		}
		doc.Cues = append(doc.Cues, cue)
	}

	return doc, report
}

func normalizeNewlines(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func splitBlocks(text string) []block {
	var blocks []block
	var current *block

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			current = &block{line: i + 1}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

func isMetadataBlock(first string) bool {
	for _, keyword := range []string{"NOTE", "STYLE", "REGION"} {
		if first == keyword ||
			strings.HasPrefix(first, keyword+" ") ||
			strings.HasPrefix(first, keyword+"\t") {
			return true
		}
	}
	return false
}

func parseCueBlock(b block, opts ParseOptions, report *Report) (Cue, bool) {
	idx := 0
	id := ""
	if !strings.Contains(b.lines[0], "-->") {
		id = b.lines[0]
		idx = 1
	}
	if idx >= len(b.lines) || !strings.Contains(b.lines[idx], "-->") {
		report.addError(b.line, KindMalformedCue, b.lines[0],
			"block has no timing line")
		return Cue{}, false
	}

	timing := b.lines[idx]
	lineNum := b.line + idx

	startText, endText, settings := splitTimingLine(timing, opts.Fix)

	start, err := timestamp.Parse(startText, opts.Fix)
	if err != nil {
		report.addError(lineNum, KindMalformedTimestamp, timing,
			"start %q", startText)
		return Cue{}, false
	}
	end, err := timestamp.Parse(endText, opts.Fix)
	if err != nil {
		report.addError(lineNum, KindMalformedTimestamp, timing,
			"end %q", endText)
		return Cue{}, false
	}

	startTime, endTime := start.Value, end.Value
	switch {
	case endTime < startTime && opts.Fix:
		startTime, endTime = endTime, startTime
		report.addCorrection(lineNum, KindSwapped, timing,
			"%s --> %s", startText, endText)
	case endTime < startTime:
		report.addError(lineNum, KindNegativeDuration, timing,
			"start=%s end=%s", timestamp.Format(startTime), timestamp.Format(endTime))
		return Cue{}, false
	case start.Corrected || end.Corrected:
		report.addCorrection(lineNum, KindNormalized, timing,
			"%s --> %s", startText, endText)
	}

	if endTime == startTime && !opts.AllowZeroLength {
		report.addError(lineNum, KindNegativeDuration, timing,
			"zero-length cue at %s", timestamp.Format(startTime))
		return Cue{}, false
	}

	return Cue{
		ID:       id,
		Start:    startTime,
		End:      endTime,
		Lines:    append([]string(nil), b.lines[idx+1:]...),
		Settings: settings,
		Line:     lineNum,
	}, true
}

// splitTimingLine separates "start --> end [settings]". In lenient mode the
// end timestamp may contain stray whitespace around its separators.
func splitTimingLine(line string, lenient bool) (string, string, string) {
	left, right, _ := strings.Cut(line, "-->")
	start := strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	if lenient {
		if m := lenientEndRegex.FindStringSubmatch(right); m != nil {
			return start, m[1], m[2]
		}
	}

	cut := strings.IndexFunc(right, unicode.IsSpace)
	if cut < 0 {
		return start, right, ""
	}
	return start, right[:cut], strings.TrimSpace(right[cut:])
}

// Check reports timeline problems of an already parsed document: cues that
// start before their predecessor and cues that overlap it.
func Check(doc *Document) []Issue {
	report := &Report{}
	var prev *Cue

	for i := range doc.Cues {
		cue := &doc.Cues[i]
		if prev != nil {
			if cue.Start < prev.Start {
				report.addWarning(cue.Line, KindOutOfOrder, "",
					"prev_start=%s current_start=%s (prev line %d)",
					timestamp.Format(prev.Start), timestamp.Format(cue.Start), prev.Line)
			}
			if cue.Start < prev.End {
				report.addWarning(cue.Line, KindTimestampOverlap, "",
					"prev_end=%s current_start=%s (prev line %d)",
					timestamp.Format(prev.End), timestamp.Format(cue.Start), prev.Line)
			}
		}
		prev = cue
	}

	return report.Warnings
}
