package timestamp

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrNegativeDuration   = errors.New("negative duration")
)

// canonical WebVTT form, hours may be wider than two digits
var strictRegex = regexp.MustCompile(`^(\d{2,}):([0-5]\d):([0-5]\d)\.(\d{3})$`)

var (
	separatorSpaceRegex = regexp.MustCompile(`\s*([:.,])\s*`)
	bareSecondsRegex    = regexp.MustCompile(`^\d+(\.\d+)?$`)
	nonDigitRegex       = regexp.MustCompile(`\D`)
)

// Result is the outcome of a successful parse. Corrected is set when the
// input was not already canonical and lenient parsing had to repair it.
type Result struct {
	Value     time.Duration
	Corrected bool
}

// Parse reads a WebVTT timestamp. Strict mode only accepts HH:MM:SS.mmm;
// lenient mode also repairs the malformed variants commonly produced by
// subtitle editors and SRT conversions.
func Parse(text string, lenient bool) (Result, error) {
	if v, ok := parseStrict(text); ok {
		return Result{Value: v}, nil
	}
	if !lenient {
		return Result{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	v, err := parseLenient(text)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Corrected: true}, nil
}

// MustParse is Parse in strict mode for literals known to be valid.
func MustParse(text string) time.Duration {
	r, err := Parse(text, false)
	if err != nil {
		panic(err)
	}
	return r.Value
}

func parseStrict(text string) (time.Duration, bool) {
	m := strictRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	h, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])
	return compose(h, int64(mins), int64(secs), int64(millis))
}

func parseLenient(text string) (time.Duration, error) {
	malformed := fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)

	s := strings.TrimSpace(text)
	s = separatorSpaceRegex.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, malformed
	}

	// "46.550": seconds only
	if bareSecondsRegex.MatchString(s) {
		whole, frac, _ := strings.Cut(s, ".")
		secs, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, malformed
		}
		v, ok := compose(0, 0, secs, fractionMillis(frac))
		if !ok {
			return 0, malformed
		}
		return v, nil
	}

	parts := strings.Split(s, ":")
	var hh, mm, rest string
	switch len(parts) {
	case 3:
		hh, mm, rest = parts[0], parts[1], parts[2]
	case 2:
		hh, mm, rest = "0", parts[0], parts[1]
	default:
		return 0, malformed
	}

	h, err := parseDigits(hh)
	if err != nil {
		return 0, malformed
	}
	m, err := parseDigits(mm)
	if err != nil {
		return 0, malformed
	}

	// rest may be "56.800" or a dirty "56.03.800"
	restParts := strings.Split(rest, ".")
	secs := int64(0)
	if restParts[0] != "" {
		secs, err = parseDigits(restParts[0])
		if err != nil {
			return 0, malformed
		}
	}
	frac := nonDigitRegex.ReplaceAllString(strings.Join(restParts[1:], ""), "")

	v, ok := compose(h, m, secs, fractionMillis(frac))
	if !ok {
		return 0, malformed
	}
	return v, nil
}

func parseDigits(s string) (int64, error) {
	if s == "" || nonDigitRegex.MatchString(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// fractionMillis reads fraction digits as a decimal fraction of a second,
// so "5" is 500ms and "0345" is 34ms.
func fractionMillis(digits string) int64 {
	if digits == "" {
		return 0
	}
	if len(digits) > 3 {
		digits = digits[:3]
	}
	for len(digits) < 3 {
		digits += "0"
	}
	ms, _ := strconv.ParseInt(digits, 10, 64)
	return ms
}

// largest millisecond count a time.Duration can hold
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// compose reports false when the sum does not fit in a time.Duration.
func compose(h, m, s, ms int64) (time.Duration, bool) {
	var total int64
	for _, part := range [...]struct{ n, unit int64 }{
		{h, 3_600_000},
		{m, 60_000},
		{s, 1000},
		{ms, 1},
	} {
		if part.n < 0 || part.n > (maxMillis-total)/part.unit {
			return 0, false
		}
		total += part.n * part.unit
	}
	return time.Duration(total) * time.Millisecond, true
}

// Format renders d as HH:MM:SS.mmm. Negative values clamp to zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	seconds := ms / 1000
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// Add shifts ts by delta, refusing to go below zero.
func Add(ts, delta time.Duration) (time.Duration, error) {
	result := ts + delta
	if result < 0 {
		return 0, fmt.Errorf(
			"%w: %s shifted by %s",
			ErrNegativeDuration,
			Format(ts),
			delta,
		)
	}
	return result, nil
}

func Compare(a, b time.Duration) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
