// Package types defines cross-package data structures used by the repodigest CLI.
package types

// Skip reasons recorded for files that were visited but left out of the digest.
const (
	SkipReasonNonSource  = "non-source"
	SkipReasonBinary     = "binary"
	SkipReasonUnreadable = "unreadable"
)
