package utils

// sniffLength defines the maximum number of bytes inspected when classifying content.
const sniffLength = 8000

// IsProbablyText reports whether the provided sample looks like textual data.
// The heuristic is deliberately simple: a NUL byte anywhere in the sample marks
// the content as binary. This predicate is the single point where that policy
// lives, so alternative detectors can replace it without touching the walk.
func IsProbablyText(sample []byte) bool {
	for _, sampleByte := range sample {
		if sampleByte == 0 {
			return false
		}
	}
	return true
}

// SniffSample returns the prefix of data inspected during content classification.
func SniffSample(data []byte) []byte {
	if len(data) > sniffLength {
		return data[:sniffLength]
	}
	return data
}

// IsBinary reports whether the provided data appears to contain binary content.
func IsBinary(data []byte) bool {
	return !IsProbablyText(SniffSample(data))
}
