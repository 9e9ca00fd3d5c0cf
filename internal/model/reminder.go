package model

import "time"

// Типы напоминаний о сроке хранения: за 90/60/30 дней до даты
// и через 30/60/90 дней после.
const (
	Reminder90DaysBefore = "90_days_before"
	Reminder60DaysBefore = "60_days_before"
	Reminder30DaysBefore = "30_days_before"
	Reminder30DaysAfter  = "30_days_after"
	Reminder60DaysAfter  = "60_days_after"
	Reminder90DaysAfter  = "90_days_after"
)

type ExpirationReminder struct {
	ID              int64     `db:"id" json:"id"`
	FileID          int64     `db:"file_id" json:"file_id"`
	ReminderType    string    `db:"reminder_type" json:"reminder_type"`
	RecipientUserID int64     `db:"recipient_user_id" json:"recipient_user_id"`
	SentAt          time.Time `db:"sent_at" json:"sent_at"`
}

// FileExpiration : выборка для формирования напоминаний
type FileExpiration struct {
	FileID         int64     `db:"id"`
	DisplayNumber  string    `db:"display_number"`
	Name           string    `db:"name"`
	ExpirationDate time.Time `db:"expiration_date"`
	OwnerID        int64     `db:"owner_id"`
}
