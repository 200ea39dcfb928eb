package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/repodigest/repodigest/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		bytes    int64
		expected string
	}{
		{bytes: -5, expected: "0b"},
		{bytes: 0, expected: "0b"},
		{bytes: 512, expected: "512b"},
		{bytes: 1024, expected: "1kb"},
		{bytes: 1536, expected: "1.5kb"},
		{bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		if actual := utils.FormatFileSize(testCase.bytes); actual != testCase.expected {
			t.Fatalf("FormatFileSize(%d) = %q, want %q", testCase.bytes, actual, testCase.expected)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if formatted := utils.FormatTimestamp(time.Time{}); formatted != "" {
		t.Fatalf("expected empty string for zero time, got %q", formatted)
	}

	value := time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local)
	formatted := utils.FormatTimestamp(value)
	if !strings.HasPrefix(formatted, "2024-05-01 ") {
		t.Fatalf("unexpected date prefix: %q", formatted)
	}
	if !strings.HasSuffix(formatted, ":45") {
		t.Fatalf("expected second precision, got %q", formatted)
	}
}
