package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// ChunkMimeType is the mime type of chunk files written by the Splitter.
// Chunks are re-encoded to OGG Vorbis so that a slice of a corrupted or
// truncated source is still individually valid.
const ChunkMimeType = "audio/ogg"

// Chunk describes one contiguous slice of a recording. A recording that does
// not need splitting is represented as a single Chunk whose Path is the
// original file; no chunk file is written in that case.
type Chunk struct {
	Path     string
	Index    int
	Start    time.Duration
	Duration time.Duration
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d @ %s (%s)", c.Index, c.Start, c.Duration)
}

// ProgressFunc receives human-readable progress messages while splitting.
// Advisory only; it carries no correctness contract.
type ProgressFunc func(msg string)

// Splitter slices an audio file into fixed-duration segments. Boundaries are
// determined purely by elapsed time; the partial last segment is kept.
type Splitter struct {
	ffmpegPath string
	maxChunk   time.Duration
	cmd        commandRunner
	progress   ProgressFunc
}

type SplitterOption func(*Splitter)

// WithSplitterCommandRunner sets the command runner (for tests).
func WithSplitterCommandRunner(r commandRunner) SplitterOption {
	return func(s *Splitter) { s.cmd = r }
}

// WithProgress sets a callback for incremental progress messages.
func WithProgress(fn ProgressFunc) SplitterOption {
	return func(s *Splitter) { s.progress = fn }
}

// NewSplitter creates a Splitter. maxChunk is both the split threshold and
// the duration of each produced segment.
func NewSplitter(ffmpegPath string, maxChunk time.Duration, opts ...SplitterOption) (*Splitter, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty")
	}
	if maxChunk <= 0 {
		return nil, fmt.Errorf("maxChunk must be > 0, got %v", maxChunk)
	}

	s := &Splitter{
		ffmpegPath: ffmpegPath,
		maxChunk:   maxChunk,
		cmd:        osCommandRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Split slices src into chunks under outDir. total is the probed duration of
// the source; callers that failed to probe pass 0 and get the single-chunk
// fallback. Guarantees: chunks cover the whole duration, do not overlap, and
// start times are strictly increasing from zero. If extraction fails partway,
// already-written chunk files remain individually valid on disk; the caller
// is responsible for cleanup.
func (s *Splitter) Split(ctx context.Context, src, outDir string, total time.Duration) ([]Chunk, error) {
	if total <= s.maxChunk {
		return []Chunk{{Path: src, Index: 0, Start: 0, Duration: total}}, nil
	}

	n := int((total + s.maxChunk - 1) / s.maxChunk)

	chunks := make([]Chunk, 0, n)
	for i := 0; i < n; i++ {
		start := time.Duration(i) * s.maxChunk
		length := min(s.maxChunk, total-start)

		chunkPath := filepath.Join(outDir, chunkFileName(i))
		if err := s.extract(ctx, src, chunkPath, start, length); err != nil {
			return nil, err
		}

		chunks = append(chunks, Chunk{
			Path:     chunkPath,
			Index:    i,
			Start:    start,
			Duration: length,
		})

		if s.progress != nil {
			s.progress(fmt.Sprintf("chunk %d/%d written", i+1, n))
		}
	}

	return chunks, nil
}

func chunkFileName(i int) string {
	return fmt.Sprintf("chunk_%03d.ogg", i)
}

// extract writes one segment of src to chunkPath, re-encoded to OGG Vorbis
// at 16kHz mono, which is what the speech endpoints want anyway.
func (s *Splitter) extract(ctx context.Context, src, chunkPath string, start, length time.Duration) error {
	args := []string{
		"-y",
		"-i", src,
		"-ss", formatFFmpegTime(start),
		"-t", formatFFmpegTime(length),
		"-c:a", "libvorbis",
		"-ar", "16000",
		"-ac", "1",
		chunkPath,
	}

	output, err := s.cmd.CombinedOutput(ctx, s.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: chunk %s: %v: %s", ErrSplit, chunkPath, err, string(output))
	}
	return nil
}

// formatFFmpegTime formats a duration for ffmpeg -ss/-t arguments.
func formatFFmpegTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, sec)
}
