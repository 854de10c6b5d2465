package subtitle

import (
	"fmt"
	"time"

	"github.com/mgpai22/vttkit/internal/timestamp"
)

const DefaultWindow = 10 * time.Minute

type SplitOptions struct {
	Window time.Duration
	// Rebase shifts every segment so that its first cue starts at zero.
	// Rebased segments no longer merge back into the original timeline.
	Rebase bool
}

// Split partitions doc into consecutive segments. A new segment starts at
// the first cue whose start lies at least Window after the start of the
// current segment's first cue; cues are never divided, so a segment may run
// past Window.
func Split(doc *Document, opts SplitOptions) ([]*Document, error) {
	if opts.Window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %s", ErrInvalidWindow, opts.Window)
	}

	base := StandAlone(&Document{Header: doc.Header, Preamble: doc.Preamble})
	if len(doc.Cues) == 0 {
		return []*Document{base.withCues(nil)}, nil
	}

	var segments []*Document
	var current []Cue
	var segmentStart time.Duration

	for _, cue := range doc.Cues {
		if len(current) > 0 && cue.Start-segmentStart >= opts.Window {
			segments = append(segments, base.withCues(current))
			current = nil
		}
		if len(current) == 0 {
			segmentStart = cue.Start
		}
		current = append(current, cue.clone())
	}
	segments = append(segments, base.withCues(current))

	if opts.Rebase {
		for i, segment := range segments {
			if err := rebase(segment); err != nil {
				return nil, fmt.Errorf("rebase segment %d: %w", i+1, err)
			}
		}
	}

	return segments, nil
}

func rebase(segment *Document) error {
	offset := -segment.Cues[0].Start
	for i := range segment.Cues {
		start, err := timestamp.Add(segment.Cues[i].Start, offset)
		if err != nil {
			return err
		}
		end, err := timestamp.Add(segment.Cues[i].End, offset)
		if err != nil {
			return err
		}
		segment.Cues[i].Start = start
		segment.Cues[i].End = end
	}
	return nil
}

// PartName names the 1-based segment index of a split so that the index is
// the first number in the file name, e.g. part_003_episode2.vtt.
func PartName(stem string, index int) string {
	return fmt.Sprintf("part_%03d_%s.vtt", index, stem)
}
