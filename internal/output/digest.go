// Package output renders the event stream into the digest file.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/repodigest/repodigest/internal/services/stream"
	"github.com/repodigest/repodigest/internal/types"
	"github.com/repodigest/repodigest/internal/utils"
)

const (
	separatorLine     = "----------------------------------------"
	digestTitle       = "Repository Source Code Contents"
	generatedOnPrefix = "Generated on: "
	modulePrefix      = "Module: "
	fileHeaderPrefix  = "File: "
	newline           = "\n"
)

// StreamRenderer consumes digest events and produces output.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// DigestWriter writes file records to the digest destination in arrival
// order and logs per-file progress. The header is written on the start event;
// every admitted file becomes a header line, a separator, the verbatim
// content, and a trailing separator.
type DigestWriter struct {
	destination io.Writer
	logger      *zap.Logger
	clock       func() time.Time
	modulePath  string
	captureText bool
	captured    strings.Builder
	summary     stream.SummaryEvent
	summarySeen bool
}

// NewDigestWriter constructs a DigestWriter. modulePath may be empty, in
// which case the module header line is omitted. When captureText is true the
// full digest text is retained in memory for clipboard use.
func NewDigestWriter(destination io.Writer, logger *zap.Logger, modulePath string, captureText bool, clock func() time.Time) *DigestWriter {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestWriter{
		destination: destination,
		logger:      logger,
		clock:       clock,
		modulePath:  modulePath,
		captureText: captureText,
	}
}

// Handle consumes one event from the digest stream.
func (writer *DigestWriter) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindStart:
		return writer.writeHeader()
	case stream.EventKindFile:
		return writer.writeFileRecord(event.File)
	case stream.EventKindSkip:
		writer.logSkip(event.Skip)
	case stream.EventKindWarning:
		if event.Message != nil {
			writer.logger.Warn(event.Message.Message)
		}
	case stream.EventKindError:
		if event.Err != nil {
			writer.logger.Error(event.Err.Message)
		}
	case stream.EventKindSummary:
		if event.Summary != nil {
			writer.summary = *event.Summary
			writer.summarySeen = true
		}
	}
	return nil
}

// Flush finalizes the renderer. Destination lifetime is owned by the caller.
func (writer *DigestWriter) Flush() error {
	return nil
}

// Summary returns the counters received from the stream, valid after the
// summary event arrived.
func (writer *DigestWriter) Summary() (stream.SummaryEvent, bool) {
	return writer.summary, writer.summarySeen
}

// Text returns the captured digest text when capture was requested.
func (writer *DigestWriter) Text() string {
	return writer.captured.String()
}

func (writer *DigestWriter) writeHeader() error {
	headerBuilder := strings.Builder{}
	headerBuilder.WriteString(digestTitle + newline)
	headerBuilder.WriteString(generatedOnPrefix + utils.FormatTimestamp(writer.clock()) + newline)
	if writer.modulePath != "" {
		headerBuilder.WriteString(modulePrefix + writer.modulePath + newline)
	}
	headerBuilder.WriteString(separatorLine + newline)
	return writer.writeString(headerBuilder.String())
}

func (writer *DigestWriter) writeFileRecord(file *stream.FileEvent) error {
	if file == nil {
		return nil
	}
	writer.logger.Info("adding " + file.RelativePath)

	if headerError := writer.writeString(fileHeaderPrefix + file.RelativePath + newline + separatorLine + newline); headerError != nil {
		return headerError
	}
	if contentError := writer.writeString(file.Content); contentError != nil {
		return contentError
	}
	// keep the trailing separator on its own line even for content that
	// does not end in a newline
	if !strings.HasSuffix(file.Content, newline) {
		if newlineError := writer.writeString(newline); newlineError != nil {
			return newlineError
		}
	}
	return writer.writeString(separatorLine + newline)
}

func (writer *DigestWriter) logSkip(skip *stream.SkipEvent) {
	if skip == nil {
		return
	}
	switch skip.Reason {
	case types.SkipReasonUnreadable:
		writer.logger.Warn("skipping " + skip.RelativePath + " (" + skip.Reason + ")")
	default:
		writer.logger.Info("skipping " + skip.RelativePath + " (" + skip.Reason + ")")
	}
}

func (writer *DigestWriter) writeString(text string) error {
	if _, writeError := io.WriteString(writer.destination, text); writeError != nil {
		return fmt.Errorf("writing digest: %w", writeError)
	}
	if writer.captureText {
		writer.captured.WriteString(text)
	}
	return nil
}
