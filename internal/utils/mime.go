package utils

import (
	"net/http"
)

// DetectMimeType returns the MIME type detected from the provided content.
// Only the sniff sample is inspected, mirroring the http.DetectContentType limit.
func DetectMimeType(data []byte) string {
	return http.DetectContentType(SniffSample(data))
}
