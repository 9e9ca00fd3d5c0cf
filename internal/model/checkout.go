package model

import "time"

// Checkout : один эпизод выдачи дела на руки.
// Эпизод открыт, пока returned_at IS NULL; на одно дело может
// приходиться не более одного открытого эпизода.
type Checkout struct {
	ID                 int64      `db:"id" json:"id"`
	FileID             int64      `db:"file_id" json:"file_id"`
	UserID             int64      `db:"user_id" json:"user_id"`
	CheckedOutAt       time.Time  `db:"checked_out_at" json:"checked_out_at"`
	ExpectedReturnDate time.Time  `db:"expected_return_date" json:"expected_return_date"`
	ReturnedAt         *time.Time `db:"returned_at" json:"returned_at,omitempty"`
	Notes              string     `db:"notes" json:"notes"`
}

// OverdueCheckout : открытый эпизод с просроченной датой возврата
type OverdueCheckout struct {
	Checkout
	DisplayNumber string `db:"display_number" json:"display_number"`
	FileName      string `db:"file_name" json:"file_name"`
	UserLogin     string `db:"user_login" json:"user_login"`
	DaysOverdue   int    `db:"days_overdue" json:"days_overdue"`
}
