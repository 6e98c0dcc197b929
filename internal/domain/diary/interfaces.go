package diary

import (
	"context"
	"time"

	"github.com/scepbjoern/comp-act-diary/internal/audio"
	"github.com/scepbjoern/comp-act-diary/internal/progress"
	"github.com/scepbjoern/comp-act-diary/internal/transcribe"
)

// Prober reads the duration of a stored recording.
type Prober interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

// Splitter slices a recording into transcribable chunks.
type Splitter interface {
	Split(ctx context.Context, src, outDir string, total time.Duration) ([]audio.Chunk, error)
}

// Transcriber converts one audio chunk to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path, mimeType, model string, opts transcribe.Options) (string, error)
}

// ProgressSink receives advisory pipeline events. May be nil.
type ProgressSink interface {
	Publish(ev progress.Event)
}
