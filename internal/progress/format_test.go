package progress

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1024 * 1024 * 1024 * 1024, "1.00 TB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0s"},
		{42, "42s"},
		{90, "1m 30s"},
		{3600, "1h 0m 0s"},
		{3725, "1h 2m 5s"},
	}

	for _, tt := range tests {
		result := FormatSeconds(tt.input)
		if result != tt.expected {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
