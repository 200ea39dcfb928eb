package output_test

import (
	"strings"
	"testing"
	"time"

	"github.com/repodigest/repodigest/internal/output"
	"github.com/repodigest/repodigest/internal/services/stream"
	"github.com/repodigest/repodigest/internal/types"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)
}

func renderDigest(t *testing.T, events []stream.Event) string {
	t.Helper()
	destination := &strings.Builder{}
	writer := output.NewDigestWriter(destination, nil, "", false, fixedClock)
	for _, event := range events {
		if handleError := writer.Handle(event); handleError != nil {
			t.Fatalf("handle event: %v", handleError)
		}
	}
	if flushError := writer.Flush(); flushError != nil {
		t.Fatalf("flush: %v", flushError)
	}
	return destination.String()
}

func TestDigestWriterRecordFraming(t *testing.T) {
	digest := renderDigest(t, []stream.Event{
		{Kind: stream.EventKindStart},
		{Kind: stream.EventKindFile, File: &stream.FileEvent{
			RelativePath: "main.go",
			Content:      "package main\n",
		}},
	})

	separator := strings.Repeat("-", 40)
	expected := "Repository Source Code Contents\n" +
		"Generated on: 2024-03-15 10:30:00\n" +
		separator + "\n" +
		"File: main.go\n" +
		separator + "\n" +
		"package main\n" +
		separator + "\n"
	if digest != expected {
		t.Fatalf("unexpected digest framing:\n%q\nwant:\n%q", digest, expected)
	}
}

func TestDigestWriterAppendsNewlineForUnterminatedContent(t *testing.T) {
	digest := renderDigest(t, []stream.Event{
		{Kind: stream.EventKindStart},
		{Kind: stream.EventKindFile, File: &stream.FileEvent{
			RelativePath: "fragment.txt",
			Content:      "no trailing newline",
		}},
	})

	if !strings.Contains(digest, "no trailing newline\n"+strings.Repeat("-", 40)+"\n") {
		t.Fatalf("trailing separator must start on its own line:\n%q", digest)
	}
}

func TestDigestWriterIncludesModuleLineWhenKnown(t *testing.T) {
	destination := &strings.Builder{}
	writer := output.NewDigestWriter(destination, nil, "example.com/demo", false, fixedClock)
	if handleError := writer.Handle(stream.Event{Kind: stream.EventKindStart}); handleError != nil {
		t.Fatalf("handle start: %v", handleError)
	}

	if !strings.Contains(destination.String(), "Module: example.com/demo\n") {
		t.Fatalf("expected a module line in the header:\n%q", destination.String())
	}
}

func TestDigestWriterContentIsVerbatim(t *testing.T) {
	content := "line1\r\nline2\ttabbed\nunicode: héllo\n"
	digest := renderDigest(t, []stream.Event{
		{Kind: stream.EventKindStart},
		{Kind: stream.EventKindFile, File: &stream.FileEvent{RelativePath: "mixed.txt", Content: content}},
	})

	if !strings.Contains(digest, content) {
		t.Fatalf("content must be byte-for-byte verbatim:\n%q", digest)
	}
}

func TestDigestWriterOutputIsDeterministicUpToTimestamp(t *testing.T) {
	events := []stream.Event{
		{Kind: stream.EventKindStart},
		{Kind: stream.EventKindFile, File: &stream.FileEvent{RelativePath: "a.go", Content: "package a\n"}},
		{Kind: stream.EventKindFile, File: &stream.FileEvent{RelativePath: "b.go", Content: "package b\n"}},
	}

	first := renderDigest(t, events)
	second := renderDigest(t, events)
	if first != second {
		t.Fatalf("identical inputs with a fixed clock must produce identical digests")
	}
}

func TestDigestWriterCapturesTextForClipboard(t *testing.T) {
	destination := &strings.Builder{}
	writer := output.NewDigestWriter(destination, nil, "", true, fixedClock)
	events := []stream.Event{
		{Kind: stream.EventKindStart},
		{Kind: stream.EventKindFile, File: &stream.FileEvent{RelativePath: "a.go", Content: "package a\n"}},
	}
	for _, event := range events {
		if handleError := writer.Handle(event); handleError != nil {
			t.Fatalf("handle event: %v", handleError)
		}
	}

	if writer.Text() != destination.String() {
		t.Fatalf("captured text must mirror the written digest")
	}
}

func TestDigestWriterRetainsSummary(t *testing.T) {
	writer := output.NewDigestWriter(&strings.Builder{}, nil, "", false, fixedClock)

	if _, seen := writer.Summary(); seen {
		t.Fatalf("summary must not be reported before the summary event")
	}

	expected := stream.SummaryEvent{Visited: 3, Included: 2, BinarySkipped: 1}
	if handleError := writer.Handle(stream.Event{Kind: stream.EventKindSummary, Summary: &expected}); handleError != nil {
		t.Fatalf("handle summary: %v", handleError)
	}

	summary, seen := writer.Summary()
	if !seen || summary != expected {
		t.Fatalf("expected stored summary %+v, got %+v (seen=%v)", expected, summary, seen)
	}
}

func TestFormatSummaryLine(t *testing.T) {
	base := stream.SummaryEvent{Visited: 10, Included: 4, BinarySkipped: 2, NonSource: 4, Bytes: 2048}

	line := output.FormatSummaryLine(base, "demo_repo_digest.txt")
	expected := "Included 4 of 10 files (2kb), 2 binary skipped, 4 non-source -> demo_repo_digest.txt"
	if line != expected {
		t.Fatalf("unexpected summary line:\n%q\nwant:\n%q", line, expected)
	}

	withExtras := base
	withExtras.Unreadable = 1
	withExtras.Tokens = 1234
	withExtras.Model = "gpt-4o"
	line = output.FormatSummaryLine(withExtras, "demo_repo_digest.txt")
	if !strings.Contains(line, ", 1 unreadable") || !strings.Contains(line, "~1234 tokens (gpt-4o)") {
		t.Fatalf("expected unreadable and token fragments in %q", line)
	}
}

func TestDigestWriterLogsSkipsWithoutWriting(t *testing.T) {
	destination := &strings.Builder{}
	writer := output.NewDigestWriter(destination, nil, "", false, fixedClock)
	skipEvent := stream.Event{Kind: stream.EventKindSkip, Skip: &stream.SkipEvent{RelativePath: "image.png", Reason: types.SkipReasonNonSource}}
	if handleError := writer.Handle(skipEvent); handleError != nil {
		t.Fatalf("handle skip: %v", handleError)
	}
	if destination.Len() != 0 {
		t.Fatalf("skips must not write digest content, got %q", destination.String())
	}
}
