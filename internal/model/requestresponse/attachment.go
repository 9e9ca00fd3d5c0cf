package requestresponse

import "rolodrawer/internal/model"

// AddAttachmentRequest : метаданные скан-копии.
// Само содержимое клиент загружает в S3 по выданному pre-signed URL.
type AddAttachmentRequest struct {
	FilenameOriginal string `json:"filename_original" example:"scan_page_1.pdf"`
	MimeType         string `json:"mime_type" example:"application/pdf"`
	SizeBytes        int64  `json:"size_bytes" example:"482133"`
}

// AddAttachmentResponse : метаданные вложения и pre-signed PUT URL
type AddAttachmentResponse struct {
	Response struct {
		Attachment model.Attachment `json:"attachment"`
		UploadURL  string           `json:"upload_url"`
	} `json:"response"`
}

// AttachmentListResponse : вложения дела со ссылками на скачивание
type AttachmentListResponse struct {
	Response []model.AttachmentWithURL `json:"response"`
}

// ReminderGenerationResponse : итог формирования напоминаний
type ReminderGenerationResponse struct {
	Response struct {
		Created int `json:"created" example:"4"`
		Checked int `json:"checked" example:"31"`
	} `json:"response"`
}

// ReminderListResponse : напоминания по делу
type ReminderListResponse struct {
	Response []model.ExpirationReminder `json:"response"`
}
