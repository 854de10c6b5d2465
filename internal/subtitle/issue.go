package subtitle

import (
	"errors"
	"fmt"

	"github.com/mgpai22/vttkit/internal/timestamp"
	"go.uber.org/multierr"
)

var (
	ErrMalformedCue     = errors.New("malformed cue")
	ErrInvalidWindow    = errors.New("invalid window")
	ErrInvalidMaxChars  = errors.New("invalid max chars")
	ErrUnorderablePart  = errors.New("unorderable part")
	ErrTimestampOverlap = errors.New("timestamp overlap")
)

// Kind classifies an Issue.
type Kind string

const (
	KindMalformedTimestamp Kind = "MALFORMED_TIMESTAMP"
	KindNegativeDuration   Kind = "NEGATIVE_DURATION"
	KindMalformedCue       Kind = "MALFORMED_CUE"
	KindUnorderablePart    Kind = "UNORDERABLE_PART"

	KindOutOfOrder       Kind = "START_DECREASED"
	KindTimestampOverlap Kind = "OVERLAP"
	KindTooShortToWrap   Kind = "TOO_SHORT_TO_WRAP"

	KindNormalized Kind = "NORMALIZE"
	KindSwapped    Kind = "SWAP_START_END"
)

// Issue is a single located finding: an error, a warning or a correction.
type Issue struct {
	// 1-based source line, 0 when the issue is not tied to a line
	Line    int
	Kind    Kind
	Message string
	Raw     string
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("[Line %d] %s: %s", i.Line, i.Kind, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Err converts the issue into an error matching the package sentinels.
func (i Issue) Err() error {
	var sentinel error
	switch i.Kind {
	case KindMalformedTimestamp:
		sentinel = timestamp.ErrMalformedTimestamp
	case KindNegativeDuration:
		sentinel = timestamp.ErrNegativeDuration
	case KindMalformedCue:
		sentinel = ErrMalformedCue
	case KindUnorderablePart:
		sentinel = ErrUnorderablePart
	case KindTimestampOverlap:
		sentinel = ErrTimestampOverlap
	default:
		sentinel = errors.New(string(i.Kind))
	}
	if i.Line > 0 {
		return fmt.Errorf("line %d: %w: %s", i.Line, sentinel, i.Message)
	}
	return fmt.Errorf("%w: %s", sentinel, i.Message)
}

// Report collects per-cue findings so callers can decide whether a partial
// result is acceptable.
type Report struct {
	Errors      []Issue
	Warnings    []Issue
	Corrections []Issue
}

func (r *Report) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// Err combines all collected errors, or returns nil if there are none.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var err error
	for _, issue := range r.Errors {
		err = multierr.Append(err, issue.Err())
	}
	return err
}

// Merge appends other's findings to r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Corrections = append(r.Corrections, other.Corrections...)
}

func (r *Report) addError(line int, kind Kind, raw, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{
		Line:    line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Raw:     raw,
	})
}

func (r *Report) addWarning(line int, kind Kind, raw, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{
		Line:    line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Raw:     raw,
	})
}

func (r *Report) addCorrection(line int, kind Kind, raw, format string, args ...any) {
	r.Corrections = append(r.Corrections, Issue{
		Line:    line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Raw:     raw,
	})
}
