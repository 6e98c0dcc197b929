package media

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateAsset(ctx context.Context, a *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	UpdateAssetCapturedAt(ctx context.Context, id string, capturedAt time.Time) error
	DeleteAsset(ctx context.Context, id string) error

	CreateAttachment(ctx context.Context, a *Attachment) error
	GetAttachment(ctx context.Context, id string) (*Attachment, error)
	ListAttachmentsByEntry(ctx context.Context, entryID int64) ([]*Attachment, error)
	UpdateAttachmentTranscript(ctx context.Context, id string, transcript, model *string) error
	DeleteAttachment(ctx context.Context, id string) error
	CountAttachmentsForAsset(ctx context.Context, assetID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAsset(ctx context.Context, a *Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var a Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	return &a, err
}

func (r *repository) UpdateAssetCapturedAt(ctx context.Context, id string, capturedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&Asset{}).Where("id = ?", id).
		Update("captured_at", capturedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *repository) DeleteAsset(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Asset{}).Error
}

func (r *repository) CreateAttachment(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	var a Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	return &a, err
}

func (r *repository) ListAttachmentsByEntry(ctx context.Context, entryID int64) ([]*Attachment, error) {
	var attachments []*Attachment
	err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).
		Order("created_at ASC").Find(&attachments).Error
	return attachments, err
}

func (r *repository) UpdateAttachmentTranscript(ctx context.Context, id string, transcript, model *string) error {
	updates := map[string]any{}
	if transcript != nil {
		updates["transcript"] = *transcript
	}
	if model != nil {
		updates["transcript_model"] = *model
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&Attachment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

func (r *repository) DeleteAttachment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Attachment{}).Error
}

func (r *repository) CountAttachmentsForAsset(ctx context.Context, assetID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Attachment{}).Where("asset_id = ?", assetID).Count(&n).Error
	return n, err
}
