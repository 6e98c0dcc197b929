package media

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/scepbjoern/comp-act-diary/internal/database"
)

func setupRepo(t *testing.T) Repository {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Asset{}, &Attachment{}))
	return NewRepository(db)
}

func newAsset() *Asset {
	dur := 42.5
	return &Asset{
		ID:          uuid.NewString(),
		UserID:      1,
		FilePath:    "audio/2020s/2026/08/30/20260830T141500_" + uuid.NewString() + ".m4a",
		MimeType:    "audio/mp4",
		DurationSec: &dur,
		CapturedAt:  time.Date(2026, 8, 30, 14, 15, 0, 0, time.UTC),
	}
}

func TestAssetLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	asset := newAsset()
	require.NoError(t, repo.CreateAsset(ctx, asset))

	got, err := repo.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Equal(t, asset.FilePath, got.FilePath)
	require.NotNil(t, got.DurationSec)
	require.Equal(t, 42.5, *got.DurationSec)

	corrected := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateAssetCapturedAt(ctx, asset.ID, corrected))
	got, err = repo.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.True(t, got.CapturedAt.Equal(corrected))

	require.NoError(t, repo.DeleteAsset(ctx, asset.ID))
	_, err = repo.GetAsset(ctx, asset.ID)
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestUpdateCapturedAtMissingAsset(t *testing.T) {
	repo := setupRepo(t)
	err := repo.UpdateAssetCapturedAt(context.Background(), "nope", time.Now())
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestAttachmentTranscriptUpdate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	asset := newAsset()
	require.NoError(t, repo.CreateAsset(ctx, asset))

	transcript := "original transcript"
	model := "openai/whisper-large-v3"
	att := &Attachment{
		ID:              uuid.NewString(),
		AssetID:         asset.ID,
		EntryID:         7,
		Role:            RoleSource,
		Transcript:      &transcript,
		TranscriptModel: &model,
	}
	require.NoError(t, repo.CreateAttachment(ctx, att))

	edited := "edited transcript"
	require.NoError(t, repo.UpdateAttachmentTranscript(ctx, att.ID, &edited, nil))

	got, err := repo.GetAttachment(ctx, att.ID)
	require.NoError(t, err)
	require.Equal(t, "edited transcript", *got.Transcript)
	require.Equal(t, "openai/whisper-large-v3", *got.TranscriptModel, "model untouched when not provided")

	list, err := repo.ListAttachmentsByEntry(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCountAttachmentsForAsset(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	asset := newAsset()
	require.NoError(t, repo.CreateAsset(ctx, asset))

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.CreateAttachment(ctx, &Attachment{
			ID:      uuid.NewString(),
			AssetID: asset.ID,
			EntryID: int64(i + 1),
			Role:    RoleAttachment,
		}))
	}

	n, err := repo.CountAttachmentsForAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	list, err := repo.ListAttachmentsByEntry(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteAttachment(ctx, list[0].ID))

	n, err = repo.CountAttachmentsForAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
