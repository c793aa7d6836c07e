package core

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		trim bool
		out  string
	}{
		{"1", false, "1"},
		{"1", true, "1"},
		{"abc", false, ""},
		{"abc", true, "0"},
		{"", true, "0"},
		{".5", false, "0.5"},
		{",5", false, "0.5"},
		{"3,5", false, "3.5"},
		{"3.00", true, "3"},
		{"3.0", true, "3"},
		{"3.", true, "3"},
		{"3.", false, "3."},
		{"3.50", true, "3.50"}, // .50 has a significant digit, not collapsed
		{"0.25", true, "0.25"},
		{"1.234", false, "1.23"},
		{"1x.5z", false, "1.5"},
		{"10", false, "1"},      // integer part capped at one digit
		{"12.5", false, "1"},    // second integer digit terminates the match
		{"1,2,3", false, "1.2"}, // only the first comma becomes the point
		{".", true, "0"},
		{",", true, "0"},
		{"0", true, "0"},
		{"9.99", false, "9.99"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in, tc.trim); got != tc.out {
			t.Errorf("Sanitize(%q, %v) = %q, want %q", tc.in, tc.trim, got, tc.out)
		}
	}
}

func TestSanitizeTrimIdempotent(t *testing.T) {
	inputs := []string{"", "abc", "3.00", "3.50", "1,2,3", ".5", "9.99", "0.", "7", "0.10"}
	for _, in := range inputs {
		once := Sanitize(in, true)
		twice := Sanitize(once, true)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
