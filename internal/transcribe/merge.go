package transcribe

import "strings"

// Merge joins per-chunk transcripts in chunk-index order, separated by a
// newline, trimming redundant boundary whitespace. Chunk boundaries are
// time-based and may cut mid-sentence; this is a naive join, not a semantic
// stitch, and no deduplication across boundaries is attempted.
func Merge(parts []string) (string, error) {
	if len(parts) == 0 {
		return "", ErrNoTranscripts
	}

	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, "\n"), nil
}
