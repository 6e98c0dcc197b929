package diary

import "errors"

var (
	ErrMissingFile   = errors.New("missing file")
	ErrMissingDate   = errors.New("missing date")
	ErrInvalidDate   = errors.New("invalid date")
	ErrFileTooLarge  = errors.New("file exceeds maximum allowed size")
	ErrEntryNotFound = errors.New("journal entry not found")

	// ErrPersistence marks a database write failure after transcription
	// succeeded. The stored audio file and the transcript are not rolled
	// back; the caller sees this error instead of a success response.
	ErrPersistence = errors.New("failed to persist audio record")
)
