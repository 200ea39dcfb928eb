package utils_test

import (
	"path/filepath"
	"testing"

	"github.com/repodigest/repodigest/internal/utils"
)

func TestIsProbablyText(t *testing.T) {
	testCases := []struct {
		name     string
		sample   []byte
		expected bool
	}{
		{name: "empty", sample: nil, expected: true},
		{name: "plain text", sample: []byte("package main\n"), expected: true},
		{name: "utf8 text", sample: []byte("héllo wörld"), expected: true},
		{name: "nul byte", sample: []byte{'a', 0x00, 'b'}, expected: false},
		{name: "png magic", sample: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00}, expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := utils.IsProbablyText(testCase.sample); actual != testCase.expected {
				t.Fatalf("IsProbablyText(%q) = %v, want %v", testCase.sample, actual, testCase.expected)
			}
		})
	}
}

func TestIsBinaryUsesSniffSampleOnly(t *testing.T) {
	textPrefix := make([]byte, 9000)
	for index := range textPrefix {
		textPrefix[index] = 'a'
	}
	data := append(textPrefix, 0x00)
	if utils.IsBinary(data) {
		t.Fatalf("NUL byte beyond the sniff window should not mark content binary")
	}
	if !utils.IsBinary([]byte{0x00}) {
		t.Fatalf("leading NUL byte should mark content binary")
	}
}

func TestDeduplicatePatterns(t *testing.T) {
	input := []string{"node_modules", "*.log", "node_modules", "dist", "*.log"}
	result := utils.DeduplicatePatterns(input)
	expected := []string{"node_modules", "*.log", "dist"}
	if len(result) != len(expected) {
		t.Fatalf("expected %d patterns, got %d: %v", len(expected), len(result), result)
	}
	for index, pattern := range expected {
		if result[index] != pattern {
			t.Fatalf("expected pattern %q at index %d, got %q", pattern, index, result[index])
		}
	}
}

func TestContainsString(t *testing.T) {
	values := []string{"alpha", "beta"}
	if !utils.ContainsString(values, "beta") {
		t.Fatalf("expected beta to be found")
	}
	if utils.ContainsString(values, "gamma") {
		t.Fatalf("did not expect gamma to be found")
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "service.go")

	if relative := utils.RelativePathOrSelf(nested, root); relative != "pkg/service.go" {
		t.Fatalf("expected pkg/service.go, got %q", relative)
	}
	if relative := utils.RelativePathOrSelf(root, root); relative != "." {
		t.Fatalf("expected . for identical paths, got %q", relative)
	}
}
