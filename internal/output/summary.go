package output

import (
	"fmt"

	"github.com/repodigest/repodigest/internal/services/stream"
	"github.com/repodigest/repodigest/internal/utils"
)

// FormatSummaryLine renders the end-of-run summary printed to standard output.
func FormatSummaryLine(summary stream.SummaryEvent, outputPath string) string {
	line := fmt.Sprintf(
		"Included %d of %d files (%s), %d binary skipped, %d non-source",
		summary.Included,
		summary.Visited,
		utils.FormatFileSize(summary.Bytes),
		summary.BinarySkipped,
		summary.NonSource,
	)
	if summary.Unreadable > 0 {
		line += fmt.Sprintf(", %d unreadable", summary.Unreadable)
	}
	if summary.Tokens > 0 {
		line += fmt.Sprintf(", ~%d tokens", summary.Tokens)
		if summary.Model != "" {
			line += fmt.Sprintf(" (%s)", summary.Model)
		}
	}
	return line + fmt.Sprintf(" -> %s", outputPath)
}
