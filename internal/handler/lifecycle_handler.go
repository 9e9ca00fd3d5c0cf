package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rolodrawer/internal/model"
	requestresponse "rolodrawer/internal/model/requestresponse"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/util"
)

// LifecycleHandler : HTTP обёртка над переходами жизненного цикла дела
type LifecycleHandler struct {
	ports.LifecycleService
}

func NewLifecycleHandler(lifecycleService ports.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycleService}
}

// Checkout godoc
// @Summary Выдача дела на руки
// @Description Выдаёт дело пользователю. Обычный пользователь выдаёт дело только
// себе, администратор — любому. Повторная выдача невозвращённого дела запрещена.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.CheckoutRequest true "Параметры выдачи"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse "Дело с признаком выдачи"
// @Failure 409 {object} requestresponse.ErrorResponse "Дело уже выдано или уничтожено"
// @Router /api/files/{id}/checkout [post]
func (h *LifecycleHandler) Checkout(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	targetUserID := request.UserID
	if targetUserID == 0 {
		targetUserID = actor.UserID
	}

	file, err := h.LifecycleService.Checkout(ctx, actor, fileID, targetUserID, request.ExpectedReturnDate, request.Notes)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// CheckIn godoc
// @Summary Возврат дела
// @Description Закрывает открытый эпизод выдачи. Вернуть дело может тот, на кого
// оно выдано, либо администратор.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.CheckInRequest true "Заметки при возврате"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Дело не выдано"
// @Router /api/files/{id}/checkin [post]
func (h *LifecycleHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, err := h.LifecycleService.CheckIn(ctx, actor, fileID, request.Notes)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// Move godoc
// @Summary Перемещение дела
// @Description Перемещает дело в другой ящик или в состояние "вне ящика".
// Перемещение архивного дела требует archived_confirmed=true. Выданное дело
// перемещает только администратор.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.MoveRequest true "Новое размещение"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Требуется подтверждение или дело уничтожено"
// @Router /api/files/{id}/move [post]
func (h *LifecycleHandler) Move(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, err := h.LifecycleService.Move(ctx, actor, fileID, model.MoveRequest{
		NewDrawerID:        request.DrawerID,
		PositionVertical:   request.PositionVertical,
		PositionHorizontal: request.PositionHorizontal,
		Notes:              request.Notes,
		ArchivedConfirmed:  request.ArchivedConfirmed,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// BulkMove godoc
// @Summary Массовое перемещение дел
// @Description Перемещает набор дел в один ящик. Дела, не прошедшие проверки,
// пропускаются с указанием причины, остальные перемещаются.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param request body requestresponse.BulkMoveRequest true "Дела и новое размещение"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.BulkMoveResponse "Перемещённые и пропущенные дела"
// @Router /api/files/bulk-move [post]
func (h *LifecycleHandler) BulkMove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.BulkMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	result, err := h.LifecycleService.BulkMove(ctx, actor, request.FileIDs, model.MoveRequest{
		NewDrawerID:        request.DrawerID,
		PositionVertical:   request.PositionVertical,
		PositionHorizontal: request.PositionHorizontal,
		Notes:              request.Notes,
		ArchivedConfirmed:  request.ArchivedConfirmed,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.BulkMoveResponse{Response: *result})
}

// Archive godoc
// @Summary Архивирование дела
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.ArchiveRequest true "Причина архивирования"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Дело уже в архиве или уничтожено"
// @Router /api/files/{id}/archive [post]
func (h *LifecycleHandler) Archive(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, err := h.LifecycleService.Archive(ctx, actor, fileID, request.Reason)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// RestoreFromArchive godoc
// @Summary Восстановление дела из архива
// @Tags Lifecycle
// @Produce json
// @Param id path int true "ID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Дело не в архиве"
// @Router /api/files/{id}/restore [post]
func (h *LifecycleHandler) RestoreFromArchive(w http.ResponseWriter, r *http.Request) {
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

	file, err := h.LifecycleService.RestoreFromArchive(ctx, actor, fileID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// MarkDestroyed godoc
// @Summary Фиксация уничтожения дела
// @Description Помечает дело уничтоженным. Требует архивного состояния и явного
// подтверждения. Дело остаётся в базе для истории.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.DestroyRequest true "Способ уничтожения и подтверждение"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Нет подтверждения"
// @Failure 409 {object} requestresponse.ErrorResponse "Дело не в архиве"
// @Router /api/files/{id}/destroy [post]
func (h *LifecycleHandler) MarkDestroyed(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.DestroyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, err := h.LifecycleService.MarkDestroyed(ctx, actor, fileID, request.Method, request.Notes, request.Confirmed)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// RestoreFromDestruction godoc
// @Summary Снятие ошибочной отметки об уничтожении
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.RestoreDestructionRequest true "Подтверждение"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Дело не помечено уничтоженным"
// @Router /api/files/{id}/restore-destruction [post]
func (h *LifecycleHandler) RestoreFromDestruction(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.RestoreDestructionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, err := h.LifecycleService.RestoreFromDestruction(ctx, actor, fileID, request.Confirmed)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// Movements godoc
// @Summary Журнал перемещений дела
// @Tags Lifecycle
// @Produce json
// @Param id path int true "ID дела"
// @Param limit query int false "Сколько записей вернуть" default(100)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MovementListResponse
// @Router /api/files/{id}/movements [get]
func (h *LifecycleHandler) Movements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор дела", http.StatusBadRequest)
		return
	}

	movements, err := h.LifecycleService.Movements(ctx, fileID, queryLimit(r, 100))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.MovementListResponse{Response: movements})
}

// CheckoutHistory godoc
// @Summary Эпизоды выдачи дела
// @Tags Lifecycle
// @Produce json
// @Param id path int true "ID дела"
// @Param limit query int false "Сколько записей вернуть" default(100)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CheckoutListResponse
// @Router /api/files/{id}/checkouts [get]
func (h *LifecycleHandler) CheckoutHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор дела", http.StatusBadRequest)
		return
	}

	episodes, err := h.LifecycleService.CheckoutHistory(ctx, fileID, queryLimit(r, 100))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.CheckoutListResponse{Response: episodes})
}

// OverdueCheckouts godoc
// @Summary Просроченные выдачи
// @Description Невозвращённые дела, у которых ожидаемая дата возврата уже прошла
// @Tags Lifecycle
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OverdueListResponse
// @Router /api/checkouts/overdue [get]
func (h *LifecycleHandler) OverdueCheckouts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	overdue, err := h.LifecycleService.OverdueCheckouts(ctx)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.OverdueListResponse{Response: overdue})
}

func queryLimit(r *http.Request, fallback int) int {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
