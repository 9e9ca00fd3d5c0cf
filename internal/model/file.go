package model

import "time"

// Sensitivity : классификация чувствительности дела.
// Используется только для хранения и отображения, без логики доступа.
const (
	SensitivityPublic       = "public"
	SensitivityInternal     = "internal"
	SensitivityConfidential = "confidential"
	SensitivityRestricted   = "restricted"
)

func ValidSensitivity(s string) bool {
	switch s {
	case SensitivityPublic, SensitivityInternal, SensitivityConfidential, SensitivityRestricted:
		return true
	}
	return false
}

// File : одна физическая папка (дело) в картотеке.
// Три флага жизненного цикла независимы: is_archived может сочетаться
// с is_checked_out, is_destroyed достижим только из архива.
type File struct {
	ID            int64  `db:"id" json:"id"`
	UUID          string `db:"uuid" json:"uuid"`
	DisplayNumber string `db:"display_number" json:"display_number"`
	Name          string `db:"name" json:"name"`
	Description   string `db:"description" json:"description"`
	Sensitivity   string `db:"sensitivity" json:"sensitivity"`
	OwnerID       int64  `db:"owner_id" json:"owner_id"`

	CurrentDrawerID    *int64  `db:"current_drawer_id" json:"current_drawer_id,omitempty"`
	PositionVertical   *string `db:"position_vertical" json:"position_vertical,omitempty"`
	PositionHorizontal *string `db:"position_horizontal" json:"position_horizontal,omitempty"`

	ExpirationDate *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`

	IsCheckedOut       bool       `db:"is_checked_out" json:"is_checked_out"`
	CheckedOutBy       *int64     `db:"checked_out_by" json:"checked_out_by,omitempty"`
	CheckedOutAt       *time.Time `db:"checked_out_at" json:"checked_out_at,omitempty"`
	ExpectedReturnDate *time.Time `db:"expected_return_date" json:"expected_return_date,omitempty"`

	IsArchived     bool       `db:"is_archived" json:"is_archived"`
	ArchivedAt     *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	ArchivedBy     *int64     `db:"archived_by" json:"archived_by,omitempty"`
	ArchivedReason *string    `db:"archived_reason" json:"archived_reason,omitempty"`

	IsDestroyed       bool       `db:"is_destroyed" json:"is_destroyed"`
	DestroyedAt       *time.Time `db:"destroyed_at" json:"destroyed_at,omitempty"`
	DestroyedBy       *int64     `db:"destroyed_by" json:"destroyed_by,omitempty"`
	DestructionMethod *string    `db:"destruction_method" json:"destruction_method,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FileFilters : фильтры списка дел
type FileFilters struct {
	OwnerID     *int64
	DrawerID    *int64
	Sensitivity *string
	CheckedOut  *bool
	Archived    *bool
	Destroyed   *bool
	TagID       *int64
	Search      string // по display_number и name
}
