package subtitle

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

type WrapOptions struct {
	MaxChars int
	// LineWidth, when positive, breaks every produced chunk longer than it
	// into two balanced lines.
	LineWidth int
}

func (o WrapOptions) Validate() error {
	if o.MaxChars <= 0 {
		return fmt.Errorf("%w: max chars must be positive, got %d", ErrInvalidMaxChars, o.MaxChars)
	}
	if o.LineWidth < 0 {
		return fmt.Errorf("%w: line width must not be negative, got %d", ErrInvalidMaxChars, o.LineWidth)
	}
	return nil
}

// Wrap splits every cue whose text is longer than MaxChars into several
// cues. The cue's time range is shared out proportionally to chunk length;
// the produced cues are contiguous and cover exactly the original range.
func Wrap(doc *Document, opts WrapOptions) (*Document, *Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	report := &Report{}
	var out []Cue

	for _, cue := range doc.Cues {
		if TextLength(cue.Lines) <= opts.MaxChars {
			out = append(out, cue.clone())
			continue
		}

		chunks := chunkText(strings.Join(cue.Lines, " "), opts.MaxChars)
		spans, ok := divideRange(cue, chunks)
		if !ok {
			report.addWarning(cue.Line, KindTooShortToWrap, cue.Text(),
				"%d chunks do not fit in %s", len(chunks), cue.Duration())
			out = append(out, cue.clone())
			continue
		}

		for i, chunk := range chunks {
			wrapped := Cue{
				Start:    spans[i],
				End:      spans[i+1],
				Lines:    balanceLines(chunk, opts.LineWidth),
				Settings: cue.Settings,
				Line:     cue.Line,
			}
			if i == 0 {
				wrapped.ID = cue.ID
			}
			out = append(out, wrapped)
		}
	}

	return doc.withCues(out), report, nil
}

// chunkText greedily packs words into chunks of at most maxChars
// characters. A word longer than maxChars is cut at the limit.
func chunkText(text string, maxChars int) []string {
	words := strings.Fields(norm.NFC.String(text))

	var chunks []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = nil
		}
	}

	for _, word := range words {
		w := []rune(word)
		for len(w) > maxChars {
			flush()
			chunks = append(chunks, string(w[:maxChars]))
			w = w[maxChars:]
		}
		if len(w) == 0 {
			continue
		}

		switch {
		case len(current) == 0:
			current = append(current, w...)
		case len(current)+1+len(w) <= maxChars:
			current = append(current, ' ')
			current = append(current, w...)
		default:
			flush()
			current = append(current, w...)
		}
	}
	flush()

	return chunks
}

// divideRange returns len(chunks)+1 boundaries from cue.Start to cue.End.
// Each chunk gets one millisecond plus its proportional share of the rest;
// the rounding remainder goes to the last chunk.
func divideRange(cue Cue, chunks []string) ([]time.Duration, bool) {
	n := int64(len(chunks))
	total := cue.Duration().Milliseconds()
	if n == 0 || total < n {
		return nil, false
	}

	weights := make([]int64, n)
	var sum int64
	for i, chunk := range chunks {
		weights[i] = int64(runeLen(chunk))
		sum += weights[i]
	}

	spare := total - n
	bounds := make([]time.Duration, 0, n+1)
	bounds = append(bounds, cue.Start)

	var used int64
	for i := int64(0); i < n-1; i++ {
		share := int64(1)
		if sum > 0 {
			share += spare * weights[i] / sum
		}
		used += share
		bounds = append(bounds, cue.Start+time.Duration(used)*time.Millisecond)
	}
	bounds = append(bounds, cue.End)

	return bounds, true
}

// balanceLines breaks text into two lines at the word boundary closest to
// the middle when it is wider than width.
func balanceLines(text string, width int) []string {
	runeCount := runeLen(text)
	if width <= 0 || runeCount <= width {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return []string{text}
	}

	// find the best split point (closest to middle)
	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += runeLen(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - middle)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		return []string{
			strings.Join(words[:bestSplit], " "),
			strings.Join(words[bestSplit:], " "),
		}
	}

	return []string{text}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
