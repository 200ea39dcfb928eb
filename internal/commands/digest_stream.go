// Package commands implements the digest traversal over the working directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/repodigest/repodigest/internal/config"
	"github.com/repodigest/repodigest/internal/rules"
	"github.com/repodigest/repodigest/internal/tokenizer"
	"github.com/repodigest/repodigest/internal/types"
	"github.com/repodigest/repodigest/internal/utils"
)

// DigestEventKind discriminates traversal events delivered to the handler.
type DigestEventKind int

const (
	// DigestEventFile reports a file admitted to the digest.
	DigestEventFile DigestEventKind = iota
	// DigestEventSkip reports a visited file left out of the digest.
	DigestEventSkip
)

// DigestFileEvent carries one admitted file, content included.
type DigestFileEvent struct {
	RelativePath string
	AbsolutePath string
	SizeBytes    int64
	MimeType     string
	Tokens       int
	Model        string
	Content      string
}

// DigestSkipEvent carries a visited file that was not admitted, with the reason.
type DigestSkipEvent struct {
	RelativePath string
	Reason       string
}

// DigestEvent is the union of traversal events.
type DigestEvent struct {
	Kind DigestEventKind
	File *DigestFileEvent
	Skip *DigestSkipEvent
}

// DigestStreamOptions configures a digest traversal.
type DigestStreamOptions struct {
	Root         string
	Rules        *rules.Set
	TokenCounter tokenizer.Counter
	TokenModel   string
	Warn         func(message string)
}

type digestStreamContext struct {
	options DigestStreamOptions
	handler func(DigestEvent) error
}

// StreamDigest walks the root depth-first in filesystem order and invokes
// handler once per visited file. Excluded paths are pruned before descent;
// directory read errors are reported through Warn and skip only the affected
// subtree. The traversal itself is strictly sequential.
func StreamDigest(options DigestStreamOptions, handler func(DigestEvent) error) error {
	if handler == nil {
		return fmt.Errorf("digest stream handler is nil")
	}

	streamContext := digestStreamContext{options: options, handler: handler}
	if streamContext.options.Warn == nil {
		streamContext.options.Warn = func(string) {}
	}

	rootInformation, rootStatError := os.Stat(options.Root)
	if rootStatError != nil {
		return rootStatError
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf("digest root %s is not a directory", options.Root)
	}

	return streamContext.walkDirectory(options.Root)
}

func (streamContext *digestStreamContext) walkDirectory(directoryPath string) error {
	entries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		streamContext.options.Warn(fmt.Sprintf("reading directory %s: %v", directoryPath, readDirectoryError))
		return nil
	}

	for _, entry := range entries {
		childPath := filepath.Join(directoryPath, entry.Name())
		relativePath := utils.RelativePathOrSelf(childPath, streamContext.options.Root)
		if streamContext.options.Rules.Excludes(relativePath) {
			continue
		}

		if entry.IsDir() {
			if walkError := streamContext.walkDirectory(childPath); walkError != nil {
				return walkError
			}
			continue
		}

		if visitError := streamContext.visitFile(childPath, relativePath, entry); visitError != nil {
			return visitError
		}
	}

	return nil
}

// visitFile classifies a single file. The extension filter runs before any
// content is read: a file whose name is not on the allow-list is never
// inspected, so its binary status is never determined.
func (streamContext *digestStreamContext) visitFile(absolutePath string, relativePath string, entry os.DirEntry) error {
	if !config.IsSourceFileName(entry.Name()) {
		return streamContext.emitSkip(relativePath, types.SkipReasonNonSource)
	}

	fileBytes, readFileError := os.ReadFile(absolutePath)
	if readFileError != nil {
		streamContext.options.Warn(fmt.Sprintf("reading file %s: %v", absolutePath, readFileError))
		return streamContext.emitSkip(relativePath, types.SkipReasonUnreadable)
	}

	if utils.IsBinary(fileBytes) {
		return streamContext.emitSkip(relativePath, types.SkipReasonBinary)
	}

	entryInformation, informationError := entry.Info()
	sizeBytes := int64(len(fileBytes))
	if informationError == nil {
		sizeBytes = entryInformation.Size()
	}

	var tokens int
	if streamContext.options.TokenCounter != nil {
		countResult, countError := tokenizer.CountBytes(streamContext.options.TokenCounter, fileBytes)
		if countError != nil {
			streamContext.options.Warn(fmt.Sprintf("counting tokens for %s: %v", absolutePath, countError))
		} else if countResult.Counted {
			tokens = countResult.Tokens
		}
	}

	fileEvent := DigestFileEvent{
		RelativePath: relativePath,
		AbsolutePath: absolutePath,
		SizeBytes:    sizeBytes,
		MimeType:     utils.DetectMimeType(fileBytes),
		Tokens:       tokens,
		Model:        streamContext.options.TokenModel,
		Content:      string(fileBytes),
	}
	return streamContext.handler(DigestEvent{Kind: DigestEventFile, File: &fileEvent})
}

func (streamContext *digestStreamContext) emitSkip(relativePath string, reason string) error {
	skipEvent := DigestSkipEvent{RelativePath: relativePath, Reason: reason}
	return streamContext.handler(DigestEvent{Kind: DigestEventSkip, Skip: &skipEvent})
}
