package subtitle

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/vttkit/internal/timestamp"
)

const sampleVTT = `WEBVTT

STYLE
::cue { color: white }

1
00:00:01.000 --> 00:00:02.500 align:start
Hello
world

00:00:03.000 --> 00:00:04.000
Second
`

func TestParseVTT(t *testing.T) {
	doc, report := Parse(sampleVTT, ParseOptions{})
	if report.HasErrors() || len(report.Warnings) > 0 {
		t.Fatalf("unexpected findings: %+v", report)
	}

	if !reflect.DeepEqual(doc.Header, []string{"WEBVTT"}) {
		t.Errorf("header = %q", doc.Header)
	}
	if len(doc.Preamble) != 1 || doc.Preamble[0][0] != "STYLE" {
		t.Errorf("preamble = %q", doc.Preamble)
	}
	if len(doc.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(doc.Cues))
	}

	first := doc.Cues[0]
	if first.ID != "1" {
		t.Errorf("cue 0: expected id 1, got %q", first.ID)
	}
	if first.Start != time.Second || first.End != 2500*time.Millisecond {
		t.Errorf("cue 0: unexpected range %v-%v", first.Start, first.End)
	}
	if first.Settings != "align:start" {
		t.Errorf("cue 0: settings = %q", first.Settings)
	}
	if first.Text() != "Hello\nworld" {
		t.Errorf("cue 0: text = %q", first.Text())
	}
	if first.Line != 7 {
		t.Errorf("cue 0: line = %d, want 7", first.Line)
	}

	second := doc.Cues[1]
	if second.ID != "" || second.Text() != "Second" || second.Line != 11 {
		t.Errorf("cue 1: unexpected %+v", second)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	doc, report := Parse(sampleVTT, ParseOptions{})
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Err())
	}
	if got := Serialize(doc); got != sampleVTT {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, sampleVTT)
	}
}

func TestParseNormalizesLineEndingsAndBOM(t *testing.T) {
	text := "\ufeffWEBVTT\r\n\r\n00:00:01.000 --> 00:00:02.000\r\nHi\r\n"
	doc, report := Parse(text, ParseOptions{})
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Err())
	}
	if len(doc.Header) != 1 || doc.Header[0] != "WEBVTT" {
		t.Errorf("header = %q", doc.Header)
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Text() != "Hi" {
		t.Fatalf("unexpected cues: %+v", doc.Cues)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	doc, report := Parse("00:00:01.000 --> 00:00:02.000\nHi\n", ParseOptions{})
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Err())
	}
	if len(doc.Header) != 0 {
		t.Errorf("expected no header, got %q", doc.Header)
	}
	if got := Serialize(StandAlone(doc)); !strings.HasPrefix(got, "WEBVTT\n\n00:00:01.000") {
		t.Errorf("StandAlone did not add header: %q", got)
	}
}

func TestParseStrictVersusFix(t *testing.T) {
	text := "WEBVTT\n\n00:00:01,000 --> 00:00: 02.500 align:start\nHello\n"

	doc, report := Parse(text, ParseOptions{})
	if len(doc.Cues) != 0 {
		t.Errorf("strict parse kept %d cue(s)", len(doc.Cues))
	}
	if len(report.Errors) != 1 || report.Errors[0].Kind != KindMalformedTimestamp {
		t.Fatalf("expected one malformed timestamp error, got %+v", report.Errors)
	}
	if report.Errors[0].Line != 3 {
		t.Errorf("error line = %d, want 3", report.Errors[0].Line)
	}
	if !errors.Is(report.Err(), timestamp.ErrMalformedTimestamp) {
		t.Errorf("Err() does not match ErrMalformedTimestamp: %v", report.Err())
	}

	doc, report = Parse(text, ParseOptions{Fix: true})
	if report.HasErrors() {
		t.Fatalf("fix mode errors: %v", report.Err())
	}
	if len(doc.Cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(doc.Cues))
	}
	cue := doc.Cues[0]
	if cue.Start != time.Second || cue.End != 2500*time.Millisecond {
		t.Errorf("unexpected range %v-%v", cue.Start, cue.End)
	}
	if cue.Settings != "align:start" {
		t.Errorf("settings = %q", cue.Settings)
	}
	if len(report.Corrections) != 1 || report.Corrections[0].Kind != KindNormalized {
		t.Errorf("expected one NORMALIZE correction, got %+v", report.Corrections)
	}
}

func TestParseReversedRange(t *testing.T) {
	text := "00:00:05.000 --> 00:00:04.000\nBackwards\n"

	doc, report := Parse(text, ParseOptions{})
	if len(doc.Cues) != 0 {
		t.Errorf("strict parse kept reversed cue")
	}
	if !errors.Is(report.Err(), timestamp.ErrNegativeDuration) {
		t.Errorf("expected ErrNegativeDuration, got %v", report.Err())
	}

	doc, report = Parse(text, ParseOptions{Fix: true})
	if len(doc.Cues) != 1 {
		t.Fatalf("expected swapped cue, got %d cues", len(doc.Cues))
	}
	if doc.Cues[0].Start != 4*time.Second || doc.Cues[0].End != 5*time.Second {
		t.Errorf("unexpected range %v-%v", doc.Cues[0].Start, doc.Cues[0].End)
	}
	if len(report.Corrections) != 1 || report.Corrections[0].Kind != KindSwapped {
		t.Errorf("expected SWAP_START_END correction, got %+v", report.Corrections)
	}
}

func TestParseZeroLengthCue(t *testing.T) {
	text := "00:00:05.000 --> 00:00:05.000\nBlink\n"

	doc, report := Parse(text, ParseOptions{})
	if len(doc.Cues) != 0 || !report.HasErrors() {
		t.Errorf("zero-length cue should be rejected by default")
	}

	doc, report = Parse(text, ParseOptions{AllowZeroLength: true})
	if len(doc.Cues) != 1 || report.HasErrors() {
		t.Errorf("zero-length cue should be kept when allowed: %+v", report)
	}
}

func TestParseMalformedBlocksAreSkipped(t *testing.T) {
	text := `WEBVTT

1
Missing timing line

2
00:00:01.000 --> 00:00:02.000
Good

3
00:00:xx.000 --> 00:00:04.000
Bad timestamp
`
	doc, report := Parse(text, ParseOptions{Fix: true})
	if len(doc.Cues) != 1 || doc.Cues[0].ID != "2" {
		t.Fatalf("expected only cue 2, got %+v", doc.Cues)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", report.Errors)
	}
	if report.Errors[0].Kind != KindMalformedCue {
		t.Errorf("first error kind = %s", report.Errors[0].Kind)
	}
	if report.Errors[1].Kind != KindMalformedTimestamp {
		t.Errorf("second error kind = %s", report.Errors[1].Kind)
	}
	if got := report.Errors[1].Message; got != `start "00:00:xx.000"` {
		t.Errorf("second error message = %q", got)
	}
	if msg := report.Errors[1].Err().Error(); strings.Count(msg, "malformed timestamp") != 1 {
		t.Errorf("sentinel text repeated in %q", msg)
	}

	err := report.Err()
	if !errors.Is(err, ErrMalformedCue) || !errors.Is(err, timestamp.ErrMalformedTimestamp) {
		t.Errorf("combined error should match both sentinels: %v", err)
	}
}

func TestParseDropsNotesBetweenCues(t *testing.T) {
	text := `WEBVTT

NOTE leading note

00:00:01.000 --> 00:00:02.000
One

NOTE
a note between cues

00:00:03.000 --> 00:00:04.000
Two
`
	doc, report := Parse(text, ParseOptions{})
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Err())
	}
	if len(doc.Preamble) != 1 {
		t.Errorf("expected leading note in preamble, got %q", doc.Preamble)
	}
	if len(doc.Cues) != 2 {
		t.Errorf("expected 2 cues, got %d", len(doc.Cues))
	}
}

func TestCheck(t *testing.T) {
	text := `00:00:05.000 --> 00:00:08.000
A

00:00:07.000 --> 00:00:09.000
B

00:00:01.000 --> 00:00:02.000
C
`
	doc, report := Parse(text, ParseOptions{})
	if len(report.Warnings) != 1 || report.Warnings[0].Kind != KindOutOfOrder {
		t.Errorf("expected one out-of-order warning while parsing, got %+v", report.Warnings)
	}

	issues := Check(doc)
	var kinds []Kind
	for _, issue := range issues {
		kinds = append(kinds, issue.Kind)
	}
	want := []Kind{KindTimestampOverlap, KindOutOfOrder, KindTimestampOverlap}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("Check kinds = %v, want %v", kinds, want)
	}
	if issues[0].Line != 4 {
		t.Errorf("overlap reported on line %d, want 4", issues[0].Line)
	}
}

func TestIssueString(t *testing.T) {
	issue := Issue{Line: 12, Kind: KindTimestampOverlap, Message: "prev_end=00:00:02.000"}
	if got := issue.String(); got != "[Line 12] OVERLAP: prev_end=00:00:02.000" {
		t.Errorf("String() = %q", got)
	}
	if !errors.Is(issue.Err(), ErrTimestampOverlap) {
		t.Errorf("Err() does not match ErrTimestampOverlap")
	}
}

func TestReportMerge(t *testing.T) {
	a := &Report{Errors: []Issue{{Kind: KindMalformedCue}}}
	b := &Report{
		Warnings:    []Issue{{Kind: KindOutOfOrder}},
		Corrections: []Issue{{Kind: KindNormalized}},
	}
	a.Merge(b)
	a.Merge(nil)
	if len(a.Errors) != 1 || len(a.Warnings) != 1 || len(a.Corrections) != 1 {
		t.Errorf("unexpected merged report: %+v", a)
	}
	if (&Report{}).Err() != nil {
		t.Error("empty report should have no error")
	}
}
