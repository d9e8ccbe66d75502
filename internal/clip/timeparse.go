package clip

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// unitExpr matches compound unit expressions like "1h2m3s", "90m", "1.5h30s".
// Every part is optional; a match with no parts sums to zero and is rejected.
var unitExpr = regexp.MustCompile(`^(?:(\d+(?:\.\d+)?)h)?(?:(\d+(?:\.\d+)?)m)?(?:(\d+(?:\.\d+)?)s)?$`)

// maxOffsetSeconds caps accepted offsets at 1000 hours, well past any real
// source video. Larger values (or inf) would overflow the integer
// conversion in SecondsToHMS and produce garbage tool arguments.
const maxOffsetSeconds = 1000 * 3600

// validOffset reports whether v is a usable offset. NaN fails the lower
// bound, inf the upper.
func validOffset(v float64) bool {
	return v >= 0 && v <= maxOffsetSeconds
}

// ParseTimeToSeconds converts a human time expression into an offset in
// seconds. It accepts, in order of priority: a bare non-negative decimal
// number of seconds ("90", "1.5"), a compound unit expression ("1h2m3s"),
// or clock notation with two ("MM:SS") or three ("HH:MM:SS") fields.
func ParseTimeToSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil && validOffset(secs) {
		return secs, nil
	}

	if m := unitExpr.FindStringSubmatch(s); m != nil {
		total := 0.0
		for i, weight := range []float64{3600, 60, 1} {
			if m[i+1] == "" {
				continue
			}
			v, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil {
				return 0, fmt.Errorf("invalid time value %q", s)
			}
			total += v * weight
		}
		// A zero total is indistinguishable from "no unit matched".
		if total > 0 && validOffset(total) {
			return total, nil
		}
	}

	if fields := strings.Split(s, ":"); len(fields) == 2 || len(fields) == 3 {
		total := 0.0
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil || v < 0 {
				return 0, fmt.Errorf("invalid time value %q", s)
			}
			total = total*60 + v
		}
		if !validOffset(total) {
			return 0, fmt.Errorf("invalid time value %q", s)
		}
		return total, nil
	}

	return 0, fmt.Errorf("invalid time value %q", s)
}

// SecondsToHMS formats an offset as "HH:MM:SS" for the external tool's
// section-download argument. Negative input clamps to zero and sub-second
// precision is discarded.
func SecondsToHMS(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
