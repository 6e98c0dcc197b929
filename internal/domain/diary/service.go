package diary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scepbjoern/comp-act-diary/internal/audio"
	"github.com/scepbjoern/comp-act-diary/internal/domain/media"
	"github.com/scepbjoern/comp-act-diary/internal/progress"
	"github.com/scepbjoern/comp-act-diary/internal/transcribe"
)

// Service orchestrates the audio pipeline:
// store on disk → probe → split if needed → transcribe chunk by chunk →
// merge → persist. Chunk transcription is strictly sequential; nothing in
// this pipeline is retried.
type Service struct {
	entries  Repository
	media    media.Repository
	storage  *media.Storage
	prober   Prober
	splitter Splitter
	stt      Transcriber
	events   ProgressSink

	maxUploadBytes int64
	defaultModel   string
}

func NewService(
	entries Repository,
	mediaRepo media.Repository,
	storage *media.Storage,
	prober Prober,
	splitter Splitter,
	stt Transcriber,
	events ProgressSink,
	maxUploadBytes int64,
	defaultModel string,
) *Service {
	return &Service{
		entries:        entries,
		media:          mediaRepo,
		storage:        storage,
		prober:         prober,
		splitter:       splitter,
		stt:            stt,
		events:         events,
		maxUploadBytes: maxUploadBytes,
		defaultModel:   defaultModel,
	}
}

// UploadAudio runs the full pipeline for a standalone diary voice note.
//
// The raw recording is written to its date-partitioned path before any
// transcription is attempted. If transcription fails, the stored file is
// unlinked again and no database record is created. If the database write
// fails after transcription succeeded, the stored file is deliberately NOT
// removed: an orphaned file is the documented trade-off, detectable by the
// absence of a success response.
func (s *Service) UploadAudio(ctx context.Context, req UploadAudioRequest) (*UploadAudioResult, error) {
	if req.File == nil {
		return nil, ErrMissingFile
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, ErrMissingDate
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}
	if req.File.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, req.File.Size)
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	capturedAt := captureTime(day, req.Time)
	id := uuid.NewString()
	rel := s.storage.AudioRelPath(capturedAt, id, filepath.Ext(req.File.Filename))

	size, err := s.saveUpload(rel, req.File)
	if err != nil {
		return nil, err
	}
	s.publish(progress.Event{UploadID: id, Stage: progress.StageStored, Message: rel})

	mimeType := uploadMimeType(req.File)
	text, durationSec, err := s.transcribeStored(ctx, id, s.storage.Abs(rel), mimeType, model)
	if err != nil {
		// Failure path mirrors the top-level catch: only the originally
		// uploaded file is unlinked; chunk files were already cleaned up.
		_ = s.storage.Remove(rel)
		s.publish(progress.Event{UploadID: id, Stage: progress.StageFailed, Message: err.Error()})
		return nil, err
	}

	result := &UploadAudioResult{
		Text:      text,
		KeepAudio: req.KeepAudio,
		FileSize:  size,
		Filename:  req.File.Filename,
	}

	if !req.KeepAudio {
		_ = s.storage.Remove(rel)
		s.publish(progress.Event{UploadID: id, Stage: progress.StageDone})
		return result, nil
	}

	asset := &media.Asset{
		ID:          id,
		UserID:      req.UserID,
		FilePath:    rel,
		MimeType:    mimeType,
		DurationSec: durationSec,
		CapturedAt:  capturedAt,
	}
	if err := s.media.CreateAsset(ctx, asset); err != nil {
		s.publish(progress.Event{UploadID: id, Stage: progress.StageFailed, Message: err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	result.AudioFileID = asset.ID
	result.AudioFilePath = rel
	s.publish(progress.Event{UploadID: id, Stage: progress.StageDone})
	return result, nil
}

// AttachAudio records a new voice note against an existing journal entry.
// The asset is always kept (an attachment without its file is useless) and
// the attachment is created with role SOURCE carrying the transcript.
func (s *Service) AttachAudio(ctx context.Context, entryID int64, file *multipart.FileHeader, model string) (*media.Attachment, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrMissingFile
	}
	if file.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, file.Size)
	}
	if model == "" {
		model = s.defaultModel
	}

	capturedAt := time.Now()
	id := uuid.NewString()
	rel := s.storage.AudioRelPath(capturedAt, id, filepath.Ext(file.Filename))

	if _, err := s.saveUpload(rel, file); err != nil {
		return nil, err
	}
	s.publish(progress.Event{UploadID: id, Stage: progress.StageStored, Message: rel})

	mimeType := uploadMimeType(file)
	text, durationSec, err := s.transcribeStored(ctx, id, s.storage.Abs(rel), mimeType, model)
	if err != nil {
		_ = s.storage.Remove(rel)
		s.publish(progress.Event{UploadID: id, Stage: progress.StageFailed, Message: err.Error()})
		return nil, err
	}

	asset := &media.Asset{
		ID:          id,
		UserID:      entry.UserID,
		FilePath:    rel,
		MimeType:    mimeType,
		DurationSec: durationSec,
		CapturedAt:  capturedAt,
	}
	if err := s.media.CreateAsset(ctx, asset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	att := &media.Attachment{
		ID:              uuid.NewString(),
		AssetID:         asset.ID,
		EntryID:         entry.ID,
		Role:            media.RoleSource,
		Transcript:      &text,
		TranscriptModel: &model,
	}
	if err := s.media.CreateAttachment(ctx, att); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(progress.Event{UploadID: id, Stage: progress.StageDone})
	return att, nil
}

func (s *Service) ListAudio(ctx context.Context, entryID int64) ([]*media.Attachment, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	return s.media.ListAttachmentsByEntry(ctx, entryID)
}

func (s *Service) UpdateAttachment(ctx context.Context, entryID int64, attachmentID string, req UpdateAttachmentRequest) (*media.Attachment, error) {
	if _, err := s.attachmentForEntry(ctx, entryID, attachmentID); err != nil {
		return nil, err
	}
	if err := s.media.UpdateAttachmentTranscript(ctx, attachmentID, req.Transcript, req.TranscriptModel); err != nil {
		return nil, err
	}
	return s.media.GetAttachment(ctx, attachmentID)
}

// DeleteAttachment removes the attachment and, when it was the asset's last
// attachment, cascade-deletes the asset row and its file on disk.
func (s *Service) DeleteAttachment(ctx context.Context, entryID int64, attachmentID string) error {
	att, err := s.attachmentForEntry(ctx, entryID, attachmentID)
	if err != nil {
		return err
	}
	if err := s.media.DeleteAttachment(ctx, att.ID); err != nil {
		return err
	}

	n, err := s.media.CountAttachmentsForAsset(ctx, att.AssetID)
	if err != nil || n > 0 {
		return err
	}

	asset, err := s.media.GetAsset(ctx, att.AssetID)
	if errors.Is(err, media.ErrAssetNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_ = s.storage.Remove(asset.FilePath)
	return s.media.DeleteAsset(ctx, asset.ID)
}

// Retranscribe re-runs the pipeline on the stored asset file and replaces
// the attachment's transcript and model label.
func (s *Service) Retranscribe(ctx context.Context, entryID int64, attachmentID, model string) (*media.Attachment, error) {
	att, err := s.attachmentForEntry(ctx, entryID, attachmentID)
	if err != nil {
		return nil, err
	}
	asset, err := s.media.GetAsset(ctx, att.AssetID)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = s.defaultModel
	}

	text, _, err := s.transcribeStored(ctx, asset.ID, s.storage.Abs(asset.FilePath), asset.MimeType, model)
	if err != nil {
		return nil, err
	}
	if err := s.media.UpdateAttachmentTranscript(ctx, att.ID, &text, &model); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s.media.GetAttachment(ctx, att.ID)
}

// transcribeStored probes, splits and sequentially transcribes an already
// stored recording, returning the merged transcript and the probed duration
// in seconds (nil when probing failed). Chunk files live in a per-call temp
// directory that is removed on every exit path, so concurrent uploads never
// collide and no chunk survives the request.
func (s *Service) transcribeStored(ctx context.Context, uploadID, absPath, mimeType, model string) (string, *float64, error) {
	total, err := s.prober.Probe(ctx, absPath)
	var durationSec *float64
	if err != nil {
		// Unreadable metadata is not fatal: transcribe the file unsplit.
		log.Printf("audio probe failed for %s, transcribing unsplit: %v", absPath, err)
		total = 0
	} else {
		d := total.Seconds()
		durationSec = &d
	}

	tempDir, err := os.MkdirTemp("", "diary-chunks-*")
	if err != nil {
		return "", nil, fmt.Errorf("create chunk directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	chunks, err := s.splitter.Split(ctx, absPath, tempDir, total)
	if err != nil {
		return "", nil, err
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		chunkMime := mimeType
		if chunk.Path != absPath {
			chunkMime = audio.ChunkMimeType
		}

		text, err := s.stt.Transcribe(ctx, chunk.Path, chunkMime, model, transcribe.Options{})
		if err != nil {
			// A single failed chunk aborts the whole request; no partial
			// transcript is ever returned.
			return "", nil, err
		}
		parts = append(parts, text)

		s.publish(progress.Event{
			UploadID: uploadID,
			Stage:    progress.StageTranscribed,
			Chunk:    chunk.Index + 1,
			Total:    len(chunks),
		})
	}

	merged, err := transcribe.Merge(parts)
	if err != nil {
		return "", nil, err
	}
	return merged, durationSec, nil
}

func (s *Service) attachmentForEntry(ctx context.Context, entryID int64, attachmentID string) (*media.Attachment, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	att, err := s.media.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if att.EntryID != entryID {
		return nil, media.ErrAttachmentNotFound
	}
	return att, nil
}

func (s *Service) saveUpload(rel string, fh *multipart.FileHeader) (int64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return s.storage.Save(rel, src)
}

func (s *Service) publish(ev progress.Event) {
	if s.events != nil {
		s.events.Publish(ev)
	}
}

// captureTime combines the diary date with the optional HH:MM form field.
// Without a time the current clock time on that date is used.
func captureTime(day time.Time, hhmm string) time.Time {
	if hhmm != "" {
		if t, err := time.Parse("15:04", hhmm); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
		}
	}
	now := time.Now()
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.Local)
}

func uploadMimeType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if byExt := mime.TypeByExtension(filepath.Ext(fh.Filename)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
