package handler

import (
	"context"
	"net/http"
	"time"

	requestresponse "rolodrawer/internal/model/requestresponse"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/util"
)

type ReminderHandler struct {
	ports.ReminderService
}

func NewReminderHandler(reminderService ports.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService}
}

// GenerateReminders godoc
// @Summary Формирование напоминаний о сроке хранения
// @Description Проходит по делам с назначенным сроком хранения и создаёт
// недостающие напоминания за 90, 60 и 30 дней до даты и через 30, 60 и 90
// дней после. Повторный запуск не создаёт дубликатов.
// @Tags Reminders
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ReminderGenerationResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Нужны права администратора"
// @Router /api/reminders/generate [post]
func (h *ReminderHandler) GenerateReminders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	created, checked, err := h.ReminderService.GenerateExpirationReminders(ctx, actor)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	response := requestresponse.ReminderGenerationResponse{}
	response.Response.Created = created
	response.Response.Checked = checked
	writeJSON(w, http.StatusOK, response)
}

// ListReminders godoc
// @Summary Напоминания по делу
// @Tags Reminders
// @Produce json
// @Param id path int true "ID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ReminderListResponse
// @Router /api/files/{id}/reminders [get]
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор дела", http.StatusBadRequest)
		return
	}

	reminders, err := h.ReminderService.ListByFile(ctx, fileID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.ReminderListResponse{Response: reminders})
}
