package subtitle

import (
	"strings"

	"github.com/mgpai22/vttkit/internal/timestamp"
)

// Serialize renders doc as WebVTT text: header, preamble blocks, then one
// block per cue, separated by a single blank line and ending in a newline.
func Serialize(doc *Document) string {
	var blocks []string

	if len(doc.Header) > 0 {
		blocks = append(blocks, strings.Join(doc.Header, "\n"))
	}
	for _, b := range doc.Preamble {
		blocks = append(blocks, strings.Join(b, "\n"))
	}

	for _, cue := range doc.Cues {
		var sb strings.Builder

		// optional cue identifier
		if cue.ID != "" {
			sb.WriteString(cue.ID)
			sb.WriteString("\n")
		}

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(timestamp.Format(cue.Start))
		sb.WriteString(" --> ")
		sb.WriteString(timestamp.Format(cue.End))
		if cue.Settings != "" {
			sb.WriteString(" ")
			sb.WriteString(cue.Settings)
		}

		// text
		for _, line := range cue.Lines {
			sb.WriteString("\n")
			sb.WriteString(line)
		}

		blocks = append(blocks, sb.String())
	}

	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// StandAlone returns doc with a WEBVTT header, adding the default one when
// the source had none.
func StandAlone(doc *Document) *Document {
	out := doc.Clone()
	if len(out.Header) == 0 {
		out.Header = []string{DefaultHeader}
	}
	return out
}
