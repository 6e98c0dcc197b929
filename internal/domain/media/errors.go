package media

import "errors"

var (
	ErrAssetNotFound      = errors.New("media asset not found")
	ErrAttachmentNotFound = errors.New("media attachment not found")
)
