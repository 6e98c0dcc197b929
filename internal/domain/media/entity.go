package media

import "time"

// AttachmentRole says how a media asset relates to the journal entry it is
// attached to.
type AttachmentRole string

const (
	// RoleSource marks the recording a diary entry was transcribed from.
	RoleSource AttachmentRole = "SOURCE"
	// RoleAttachment is a plain file attached to an entry.
	RoleAttachment AttachmentRole = "ATTACHMENT"
	// RoleGallery marks media shown in the entry's photo gallery.
	RoleGallery AttachmentRole = "GALLERY"
)

// Asset is the durable record of a stored media file. Created once per
// successfully uploaded recording; the only permitted mutation afterwards is
// timestamp correction.
type Asset struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	UserID      int64     `gorm:"column:user_id" json:"userId"`
	FilePath    string    `gorm:"column:file_path;uniqueIndex" json:"filePath"` // relative to the uploads dir
	MimeType    string    `gorm:"column:mime_type" json:"mimeType"`
	DurationSec *float64  `gorm:"column:duration_sec" json:"durationSec"`
	CapturedAt  time.Time `gorm:"column:captured_at" json:"capturedAt"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Asset) TableName() string { return "media_assets" }

// Attachment links an Asset to a journal entry and carries the editable
// transcript. Attachments are deleted independently of the asset; the asset
// goes away only when its last attachment is removed.
type Attachment struct {
	ID              string         `gorm:"column:id;primaryKey" json:"id"`
	AssetID         string         `gorm:"column:asset_id;index" json:"assetId"`
	EntryID         int64          `gorm:"column:entry_id;index" json:"entryId"`
	Role            AttachmentRole `gorm:"column:role" json:"role"`
	Transcript      *string        `gorm:"column:transcript;type:text" json:"transcript"`
	TranscriptModel *string        `gorm:"column:transcript_model" json:"transcriptModel"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

func (Attachment) TableName() string { return "media_attachments" }
