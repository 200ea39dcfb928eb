// Package config loads exclusion patterns and application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repodigest/repodigest/internal/utils"
)

const commentPrefix = "#"

// LoadGitignorePatterns reads the ignore file at ignoreFilePath and returns
// its patterns, one per non-empty line. Comment lines starting with # and
// blank lines are skipped. A missing file is not an error and yields nil.
//
// #nosec G304
func LoadGitignorePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}

// LoadExclusionPatterns merges the built-in exclusion list with patterns from
// the .gitignore file in workingDirectory when useGitignore is true, and with
// the provided extra patterns. Duplicates are dropped while preserving order.
func LoadExclusionPatterns(workingDirectory string, extraPatterns []string, useGitignore bool) ([]string, error) {
	combinedPatterns := BuiltinExclusionPatterns()

	if useGitignore {
		gitIgnoreFilePath := filepath.Join(workingDirectory, utils.GitIgnoreFileName)
		gitIgnorePatterns, loadError := LoadGitignorePatterns(gitIgnoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, workingDirectory, loadError)
		}
		combinedPatterns = append(combinedPatterns, gitIgnorePatterns...)
	}

	for _, pattern := range extraPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		combinedPatterns = append(combinedPatterns, trimmedPattern)
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}
