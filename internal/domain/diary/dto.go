package diary

import "mime/multipart"

// UploadAudioRequest carries the multipart form fields of an audio upload.
type UploadAudioRequest struct {
	UserID    int64
	Date      string // ISO date (2006-01-02), required
	Time      string // HH:MM, optional
	Model     string // transcription model id, optional
	KeepAudio bool
	File      *multipart.FileHeader
}

// UploadAudioResult is the success body of POST /api/diary/upload-audio.
// Field names are part of the wire contract.
type UploadAudioResult struct {
	Text          string `json:"text"`
	AudioFileID   string `json:"audioFileId"`
	AudioFilePath string `json:"audioFilePath"`
	KeepAudio     bool   `json:"keepAudio"`
	FileSize      int64  `json:"fileSize"`
	Filename      string `json:"filename"`
}

// UpdateAttachmentRequest edits an attachment's stored transcript and/or the
// model label it is credited to. Nil fields are left untouched.
type UpdateAttachmentRequest struct {
	Transcript      *string `json:"transcript"`
	TranscriptModel *string `json:"transcriptModel"`
}

// RetranscribeRequest optionally overrides the model for a re-run.
type RetranscribeRequest struct {
	Model string `json:"model"`
}
