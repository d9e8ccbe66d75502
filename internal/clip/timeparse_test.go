package clip

import "testing"

func TestParseTimeToSeconds_valid(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"90", 90},
		{"1.5", 1.5},
		{"0", 0},
		{"  42  ", 42},
		{"1h2m3s", 3723},
		{"2m", 120},
		{"1.5h", 5400},
		{"45s", 45},
		{"10m30s", 630},
		{"2:10", 130},
		{"01:02:03", 3723},
		{"0:07", 7},
		{"1:00:00", 3600},
	}
	for _, tc := range cases {
		got, err := ParseTimeToSeconds(tc.in)
		if err != nil {
			t.Errorf("ParseTimeToSeconds(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeToSeconds(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeToSeconds_invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"abc",
		"-5",
		"0s",        // unit expression with a zero total
		"0h0m",      // same
		"1:",        // empty clock field
		":30",       // empty clock field
		"1:2:3:4",   // too many fields
		"1h2x",      // trailing garbage
		"ten",
		"-1:30",     // negative clock field
		"1:-30",     // negative clock field
		"inf",       // non-finite
		"NaN",       // non-finite
		"1e308",     // would overflow the HMS conversion
		"9999999h",  // past the offset cap
		"277778:0:0", // past the offset cap
	}
	for _, in := range cases {
		if got, err := ParseTimeToSeconds(in); err == nil {
			t.Errorf("ParseTimeToSeconds(%q) = %v, want error", in, got)
		}
	}
}

func TestSecondsToHMS(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{3723, "01:02:03"},
		{0, "00:00:00"},
		{-5, "00:00:00"},
		{130, "00:02:10"},
		{59.9, "00:00:59"}, // sub-second precision discarded
		{3600, "01:00:00"},
	}
	for _, tc := range cases {
		if got := SecondsToHMS(tc.in); got != tc.want {
			t.Errorf("SecondsToHMS(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSecondsToHMS_roundtrip(t *testing.T) {
	// Re-formatting the parse of its own output is a fixed point for
	// whole-second inputs.
	for _, secs := range []float64{0, 7, 130, 3723, 86399} {
		out := SecondsToHMS(secs)
		parsed, err := ParseTimeToSeconds(out)
		if err != nil {
			t.Fatalf("ParseTimeToSeconds(%q): %v", out, err)
		}
		if again := SecondsToHMS(parsed); again != out {
			t.Errorf("round trip of %v: %q then %q", secs, out, again)
		}
	}
}
