package util

import "testing"

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"123.45", 12345, false},
		{"0.01", 1, false},
		{"0", 0, false},
		{"100", 10000, false},
		{"7.5", 750, false},
		{".99", 99, false},
		{"  42.00  ", 4200, false},
		{"-10.25", -1025, false},
		{"+3.10", 310, false},
		{"", 0, true},
		{".", 0, true},
		{"1.234", 0, true},
		{"abc", 0, true},
		{"1.2x", 0, true},
		{"92233720368547758.07", 9223372036854775807, false}, // max representable
		{"92233720368547758.08", 0, true},                    // one cent past int64
		{"9223372036854775807", 0, true},                     // whole part alone would wrap
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCents(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCents(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{12345, "123.45"},
		{1, "0.01"},
		{0, "0.00"},
		{10000, "100.00"},
		{-1025, "-10.25"},
		{5, "0.05"},
	}

	for _, tt := range tests {
		if got := FormatCents(tt.in); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCentsFormatCentsRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, 999999999} {
		got, err := ParseCents(FormatCents(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Errorf("round trip %d = %d", cents, got)
		}
	}
}
