package audio

import "errors"

// ErrProbe indicates the duration of an audio file could not be read.
// Callers fall back to treating the file as a single unsplit chunk.
var ErrProbe = errors.New("audio probe failed")

// ErrSplit indicates ffmpeg failed while writing a chunk file.
var ErrSplit = errors.New("audio split failed")
