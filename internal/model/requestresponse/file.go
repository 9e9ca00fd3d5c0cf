package requestresponse

import (
	"time"

	"rolodrawer/internal/model"
)

// CreateFileRequest : приём нового дела в картотеку
type CreateFileRequest struct {
	DisplayNumber      string     `json:"display_number" example:"2024-0117"`
	Name               string     `json:"name" example:"Договор аренды склада"`
	Description        string     `json:"description" example:"Оригиналы договора и приложений"`
	Sensitivity        string     `json:"sensitivity" example:"internal"`
	DrawerID           *int64     `json:"drawer_id" example:"4"`
	PositionVertical   *string    `json:"position_vertical" example:"2"`
	PositionHorizontal *string    `json:"position_horizontal" example:"B"`
	ExpirationDate     *time.Time `json:"expiration_date"`
	Notes              string     `json:"notes" example:"принято от отдела логистики"`
}

// UpdateFileRequest : обновление карточки дела
type UpdateFileRequest struct {
	Name           string     `json:"name" example:"Договор аренды склада"`
	Description    string     `json:"description"`
	Sensitivity    string     `json:"sensitivity" example:"internal"`
	OwnerID        int64      `json:"owner_id" example:"3"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// FileResponse : карточка дела
type FileResponse struct {
	Response model.File `json:"response"`
}

// FileListResponse : страница каталога дел
type FileListResponse struct {
	Response struct {
		Files []model.File `json:"files"`
		Total int          `json:"total" example:"117"`
		Page  int          `json:"page" example:"1"`
	} `json:"response"`
}

// CreateTagRequest : новый ярлык
type CreateTagRequest struct {
	Name  string `json:"name" example:"срочное"`
	Color string `json:"color" example:"#d9534f"`
}

// TagResponse : ярлык
type TagResponse struct {
	Response model.Tag `json:"response"`
}

// TagRequest : назначение ярлыка делу
type TagRequest struct {
	TagID int64 `json:"tag_id" example:"2"`
}

// TagListResponse : ярлыки дела
type TagListResponse struct {
	Response []model.Tag `json:"response"`
}

// ErrorResponse : тело ответа при ошибке
type ErrorResponse struct {
	Error   string `json:"error" example:"already_checked_out"`
	Message string `json:"message" example:"дело уже выдано"`
	Code    int    `json:"code" example:"409"`
}
