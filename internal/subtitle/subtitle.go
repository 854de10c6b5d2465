package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultHeader is emitted for documents that must stand alone but were
// parsed from input without a WEBVTT line.
const DefaultHeader = "WEBVTT"

// represents single subtitle cue
type Cue struct {
	ID       string
	Start    time.Duration
	End      time.Duration
	Lines    []string
	Settings string
	// 1-based line of the timing line in the source text, 0 if synthesized
	Line int
}

// represents a parsed WebVTT document
type Document struct {
	// WEBVTT line plus any metadata lines directly below it
	Header []string
	// STYLE, REGION and NOTE blocks that precede the first cue
	Preamble [][]string
	Cues     []Cue
}

func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Text joins the cue lines the way they are displayed.
func (c Cue) Text() string {
	return strings.Join(c.Lines, "\n")
}

func (c Cue) clone() Cue {
	c.Lines = append([]string(nil), c.Lines...)
	return c
}

// Clone returns a copy that shares no slices with d.
func (d *Document) Clone() *Document {
	cues := make([]Cue, len(d.Cues))
	for i, cue := range d.Cues {
		cues[i] = cue.clone()
	}
	return d.withCues(cues)
}

// withCues builds a new document carrying d's header and preamble around the
// given cues. The cues are used as-is.
func (d *Document) withCues(cues []Cue) *Document {
	preamble := make([][]string, len(d.Preamble))
	for i, block := range d.Preamble {
		preamble[i] = append([]string(nil), block...)
	}
	if cues == nil {
		cues = []Cue{}
	}
	return &Document{
		Header:   append([]string(nil), d.Header...),
		Preamble: preamble,
		Cues:     cues,
	}
}

// TextLength is the number of characters a cue's text occupies once its
// lines are flattened onto one line.
func TextLength(lines []string) int {
	return runeLen(strings.Join(lines, " "))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
