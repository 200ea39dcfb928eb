// Package stream adapts the digest traversal into an ordered event stream.
package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/repodigest/repodigest/internal/commands"
	"github.com/repodigest/repodigest/internal/rules"
	"github.com/repodigest/repodigest/internal/tokenizer"
	"github.com/repodigest/repodigest/internal/types"
)

// DigestOptions configures a digest stream over a root directory.
type DigestOptions struct {
	Root         string
	Rules        *rules.Set
	TokenCounter tokenizer.Counter
	TokenModel   string
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out}
}

func (eventEmitter *emitter) send(event Event) error {
	if eventEmitter.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	event.Version = SchemaVersion
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-eventEmitter.ctx.Done():
		return eventEmitter.ctx.Err()
	case eventEmitter.out <- event:
		return nil
	}
}

func (eventEmitter *emitter) warn(path, message string) {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return
	}
	_ = eventEmitter.send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: "warning", Message: trimmed},
	})
}

type summaryTracker struct {
	summary SummaryEvent
}

func (tracker *summaryTracker) addFile(sizeBytes int64, tokens int, model string) {
	tracker.summary.Visited++
	tracker.summary.Included++
	tracker.summary.Bytes += sizeBytes
	tracker.summary.Tokens += tokens
	if tracker.summary.Model == "" && model != "" && tokens > 0 {
		tracker.summary.Model = model
	}
}

func (tracker *summaryTracker) addSkip(reason string) {
	tracker.summary.Visited++
	switch reason {
	case types.SkipReasonBinary:
		tracker.summary.BinarySkipped++
	case types.SkipReasonUnreadable:
		tracker.summary.Unreadable++
	default:
		tracker.summary.NonSource++
	}
}

// StreamDigest runs the traversal for opts and forwards every file and skip
// as an Event on out, ending with a summary and a done marker. Events arrive
// in traversal order; the caller owns channel lifetime.
func StreamDigest(ctx context.Context, opts DigestOptions, out chan<- Event) error {
	if opts.Root == "" {
		return fmt.Errorf("stream: digest root path is empty")
	}

	eventEmitter := newEmitter(ctx, out)
	if startError := eventEmitter.send(Event{Kind: EventKindStart, Path: opts.Root}); startError != nil {
		return startError
	}

	tracker := &summaryTracker{}
	tracker.summary.Model = ""

	streamOptions := commands.DigestStreamOptions{
		Root:         opts.Root,
		Rules:        opts.Rules,
		TokenCounter: opts.TokenCounter,
		TokenModel:   opts.TokenModel,
		Warn: func(message string) {
			eventEmitter.warn(opts.Root, message)
		},
	}

	handler := func(event commands.DigestEvent) error {
		switch event.Kind {
		case commands.DigestEventFile:
			file := event.File
			tracker.addFile(file.SizeBytes, file.Tokens, file.Model)
			return eventEmitter.send(Event{
				Kind: EventKindFile,
				Path: file.AbsolutePath,
				File: &FileEvent{
					RelativePath: file.RelativePath,
					AbsolutePath: file.AbsolutePath,
					SizeBytes:    file.SizeBytes,
					MimeType:     file.MimeType,
					Tokens:       file.Tokens,
					Model:        file.Model,
					Content:      file.Content,
				},
			})
		case commands.DigestEventSkip:
			skip := event.Skip
			tracker.addSkip(skip.Reason)
			return eventEmitter.send(Event{
				Kind: EventKindSkip,
				Path: skip.RelativePath,
				Skip: &SkipEvent{RelativePath: skip.RelativePath, Reason: skip.Reason},
			})
		default:
			return nil
		}
	}

	if streamError := commands.StreamDigest(streamOptions, handler); streamError != nil {
		eventEmitter.warn(opts.Root, streamError.Error())
		_ = eventEmitter.send(Event{Kind: EventKindError, Path: opts.Root, Err: &ErrorEvent{Message: streamError.Error()}})
		return streamError
	}

	summaryCopy := tracker.summary
	if summaryError := eventEmitter.send(Event{Kind: EventKindSummary, Path: opts.Root, Summary: &summaryCopy}); summaryError != nil {
		return summaryError
	}
	return eventEmitter.send(Event{Kind: EventKindDone, Path: opts.Root})
}
