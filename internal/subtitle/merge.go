package subtitle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/vttkit/internal/timestamp"
)

// DefaultOverlapTolerance absorbs the small drift translation tools tend
// to introduce at part boundaries.
const DefaultOverlapTolerance = 100 * time.Millisecond

type MergeOptions struct {
	OverlapTolerance time.Duration
}

// Merge concatenates parts in the given order. Timestamps are kept as they
// are, so merging the output of Split restores the original cue sequence.
// Only the first part's header and preamble are retained.
func Merge(parts []*Document, opts MergeOptions) (*Document, *Report) {
	report := &Report{}
	if len(parts) == 0 {
		return &Document{Cues: []Cue{}}, report
	}

	tolerance := opts.OverlapTolerance
	if tolerance < 0 {
		tolerance = 0
	}

	var cues []Cue
	for partNum, part := range parts {
		for _, cue := range part.Cues {
			if n := len(cues); n > 0 {
				prev := cues[n-1]
				if prev.End-cue.Start > tolerance {
					report.addWarning(cue.Line, KindTimestampOverlap, "",
						"part %d: start %s is %s before previous end %s",
						partNum+1,
						timestamp.Format(cue.Start),
						prev.End-cue.Start,
						timestamp.Format(prev.End),
					)
				}
			}
			cues = append(cues, cue.clone())
		}
	}

	return parts[0].withCues(cues), report
}

var partIndexRegex = regexp.MustCompile(`\d+`)

// PartIndex extracts the ordering index of a part file: the first run of
// digits in its base name.
func PartIndex(name string) (int, error) {
	base := filepath.Base(name)
	digits := partIndexRegex.FindString(base)
	if digits == "" {
		return 0, fmt.Errorf("%w: no index in %q", ErrUnorderablePart, base)
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: index of %q: %v", ErrUnorderablePart, base, err)
	}
	return index, nil
}

// OrderParts sorts part names by their index. Names without an index are
// left out and reported instead.
func OrderParts(names []string) ([]string, []Issue) {
	type indexed struct {
		name  string
		key   string
		index int
	}

	var ordered []indexed
	var rejected []Issue
	for _, name := range names {
		index, err := PartIndex(name)
		if err != nil {
			rejected = append(rejected, Issue{
				Kind:    KindUnorderablePart,
				Message: fmt.Sprintf("no ordering index in %q", filepath.Base(name)),
				Raw:     name,
			})
			continue
		}
		ordered = append(ordered, indexed{
			name:  name,
			key:   strings.ToLower(filepath.Base(name)),
			index: index,
		})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].index != ordered[j].index {
			return ordered[i].index < ordered[j].index
		}
		return ordered[i].key < ordered[j].key
	})

	result := make([]string, len(ordered))
	for i, p := range ordered {
		result[i] = p.name
	}
	return result, rejected
}
