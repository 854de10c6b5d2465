package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxGap   = 500 * time.Millisecond
	DefaultMaxChars = 130
)

var tagRegex = regexp.MustCompile(`<[^>]+>`)

const sentenceTerminals = ".?!。？！…"

type CompressOptions struct {
	// largest gap between two cues that still allows coalescing them
	MaxGap time.Duration
	// limits for a coalesced cue, zero disables a limit
	MaxChars    int
	MaxDuration time.Duration
	// BreakOnSentenceEnd never coalesces after a cue that ends a sentence.
	BreakOnSentenceEnd bool
	// Number assigns identifiers 1..n to the resulting cues.
	Number bool
}

func (o CompressOptions) Validate() error {
	if o.MaxGap < 0 {
		return fmt.Errorf("max gap must not be negative, got %s", o.MaxGap)
	}
	if o.MaxChars < 0 || o.MaxDuration < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidMaxChars)
	}
	if o.MaxChars == 0 && o.MaxDuration == 0 {
		return fmt.Errorf("%w: max chars or max duration is required", ErrInvalidMaxChars)
	}
	return nil
}

// Compress coalesces adjacent cues into fewer, longer cues. Cues that
// overlap count as having a negative gap. The result is stable: compressing
// it again with the same options changes nothing.
func Compress(doc *Document, opts CompressOptions) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(doc.Cues) == 0 {
		return doc.withCues(nil), nil
	}

	var out []Cue
	acc := doc.Cues[0].clone()

	for _, next := range doc.Cues[1:] {
		if opts.canJoin(acc, next) {
			acc = joinCues(acc, next)
			continue
		}
		out = append(out, acc)
		acc = next.clone()
	}
	out = append(out, acc)

	if opts.Number {
		counter := 0
		for i := range out {
			counter++
			out[i].ID = strconv.Itoa(counter)
		}
	}

	return doc.withCues(out), nil
}

func (o CompressOptions) canJoin(acc, next Cue) bool {
	if next.Start-acc.End > o.MaxGap {
		return false
	}
	if o.BreakOnSentenceEnd && len(acc.Lines) > 0 &&
		endsSentence(acc.Lines[len(acc.Lines)-1]) {
		return false
	}
	if o.MaxChars > 0 &&
		TextLength(acc.Lines)+1+TextLength(next.Lines) > o.MaxChars {
		return false
	}
	if o.MaxDuration > 0 && max(acc.End, next.End)-acc.Start > o.MaxDuration {
		return false
	}
	return true
}

// joinCues appends next to acc. The boundary lines are joined with a single
// space unless acc already ends a sentence.
func joinCues(acc, next Cue) Cue {
	lines := append([]string(nil), acc.Lines...)
	rest := next.Lines

	if n := len(lines); n > 0 && len(rest) > 0 && !endsSentence(lines[n-1]) {
		lines[n-1] = lines[n-1] + " " + rest[0]
		rest = rest[1:]
	}
	lines = append(lines, rest...)

	return Cue{
		Start:    acc.Start,
		End:      max(acc.End, next.End),
		Lines:    lines,
		Settings: acc.Settings,
		Line:     acc.Line,
	}
}

func endsSentence(line string) bool {
	visible := strings.TrimSpace(tagRegex.ReplaceAllString(line, ""))
	if visible == "" {
		return true
	}
	last := []rune(visible)
	return strings.ContainsRune(sentenceTerminals, last[len(last)-1])
}
