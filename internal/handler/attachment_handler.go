package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"rolodrawer/internal/model"
	requestresponse "rolodrawer/internal/model/requestresponse"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/util"
)

type AttachmentHandler struct {
	ports.AttachmentService
}

func NewAttachmentHandler(attachmentService ports.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService}
}

// AddAttachment godoc
// @Summary Прикрепление скан-копии к делу
// @Description Сохраняет метаданные и возвращает pre-signed PUT URL.
// Содержимое клиент загружает в S3 напрямую по выданной ссылке.
// @Tags Attachments
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.AddAttachmentRequest true "Метаданные вложения"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.AddAttachmentResponse "Вложение и ссылка для загрузки"
// @Failure 409 {object} requestresponse.ErrorResponse "Дело уничтожено"
// @Router /api/files/{id}/attachments [post]
func (h *AttachmentHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	fileID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор дела", http.StatusBadRequest)
		return
	}

	var request requestresponse.AddAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, putURL, err := h.AttachmentService.AddAttachment(ctx, actor, &model.Attachment{
		FileID:           fileID,
		FilenameOriginal: request.FilenameOriginal,
		MimeType:         request.MimeType,
		SizeBytes:        request.SizeBytes,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	response := requestresponse.AddAttachmentResponse{}
	response.Response.Attachment = *created
	response.Response.UploadURL = putURL
	writeJSON(w, http.StatusCreated, response)
}

// ListAttachments godoc
// @Summary Вложения дела
// @Description Метаданные скан-копий с pre-signed GET ссылками
// @Tags Attachments
// @Produce json
// @Param id path int true "ID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.AttachmentListResponse
// @Router /api/files/{id}/attachments [get]
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	fileID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор дела", http.StatusBadRequest)
		return
	}

	attachments, err := h.AttachmentService.ListAttachments(ctx, actor, fileID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.AttachmentListResponse{Response: attachments})
}

// DeleteAttachment godoc
// @Summary Удаление вложения
// @Tags Attachments
// @Param attachmentID path int true "ID вложения"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Вложение удалено"
// @Failure 403 {object} requestresponse.ErrorResponse "Чужое вложение"
// @Router /api/attachments/{attachmentID} [delete]
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	attachmentID, err := pathID(r, "attachmentID")
	if err != nil {
		util.HandleError(w, "неверный идентификатор вложения", http.StatusBadRequest)
		return
	}

	if err := h.AttachmentService.DeleteAttachment(ctx, actor, attachmentID); err != nil {
		util.HandleAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
