package model

import "time"

// Attachment : скан-копия документа, прикреплённая к делу.
// Содержимое лежит в S3, здесь только метаданные и ключ объекта.
type Attachment struct {
	ID               int64     `db:"id" json:"id"`
	FileID           int64     `db:"file_id" json:"file_id"`
	FilenameOriginal string    `db:"filename_original" json:"filename_original"`
	MimeType         string    `db:"mime_type" json:"mime_type"`
	SizeBytes        int64     `db:"size_bytes" json:"size_bytes"`
	StoragePath      string    `db:"storage_path" json:"storage_path"`
	UploadedBy       int64     `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// AttachmentWithURL : метаданные вместе с presigned GET ссылкой
type AttachmentWithURL struct {
	Attachment
	GetURL string `json:"get_url,omitempty"`
}
