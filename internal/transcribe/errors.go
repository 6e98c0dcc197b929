package transcribe

import "errors"

// ErrMissingCredential indicates the API key for the selected provider is not
// configured. Fatal: no retry, no fallback to the other provider.
var ErrMissingCredential = errors.New("missing provider credential")

// ErrProvider indicates the speech-to-text provider rejected or failed a
// request. The wrapped message carries the provider's raw error detail.
var ErrProvider = errors.New("transcription provider error")

// ErrNoTranscripts indicates Merge was called with nothing to merge. This
// should never happen (chunk count is always >= 1) and is failed fast rather
// than papered over with an empty string.
var ErrNoTranscripts = errors.New("no transcripts to merge")
