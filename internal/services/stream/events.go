package stream

import (
	"time"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart   EventKind = "start"
	EventKindFile    EventKind = "file"
	EventKindSkip    EventKind = "skip"
	EventKindWarning EventKind = "warning"
	EventKindSummary EventKind = "summary"
	EventKindError   EventKind = "error"
	EventKindDone    EventKind = "done"
)

// Event is the envelope carried between the walker and the digest writer.
type Event struct {
	Version   int
	Kind      EventKind
	Path      string
	EmittedAt time.Time

	File    *FileEvent
	Skip    *SkipEvent
	Message *LogEvent
	Summary *SummaryEvent
	Err     *ErrorEvent
}

// FileEvent describes a file admitted to the digest, content included.
type FileEvent struct {
	RelativePath string
	AbsolutePath string
	SizeBytes    int64
	MimeType     string
	Tokens       int
	Model        string
	Content      string
}

// SkipEvent describes a visited file left out of the digest.
type SkipEvent struct {
	RelativePath string
	Reason       string
}

// SummaryEvent aggregates the run counters emitted once before done.
type SummaryEvent struct {
	Visited       int
	Included      int
	BinarySkipped int
	NonSource     int
	Unreadable    int
	Bytes         int64
	Tokens        int
	Model         string
}

// LogEvent is a diagnostic message raised during traversal.
type LogEvent struct {
	Level   string
	Message string
}

// ErrorEvent reports a traversal failure that ended the stream.
type ErrorEvent struct {
	Message string
}
