package output

import (
	"strconv"
	"testing"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{name: "whole number", input: 16, want: "16.0"},
		{name: "zero", input: 0, want: "0.0"},
		{name: "fraction kept", input: 16.5, want: "16.5"},
		{name: "shortest round-trip", input: 0.1, want: "0.1"},
		{name: "negative", input: -3.25, want: "-3.25"},
		{name: "large whole number", input: 1e21, want: "1000000000000000000000.0"},
		{name: "small number has no exponent", input: 0.000001234, want: "0.000001234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDecimal(tt.input); got != tt.want {
				t.Errorf("FormatDecimal(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDecimal_RoundTrips(t *testing.T) {
	for _, f := range []float64{31, 16.5, 43.1, 0.3, 1.0 / 3.0, 123456.789} {
		got := FormatDecimal(f)
		parsed, err := strconv.ParseFloat(got, 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", got, err)
		}
		if parsed != f {
			t.Errorf("FormatDecimal(%v) = %q parses back to %v", f, got, parsed)
		}
	}
}
