package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rolodrawer/internal/model"
	requestresponse "rolodrawer/internal/model/requestresponse"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/util"
)

type FileHandler struct {
	ports.FileService
}

func NewFileHandler(fileService ports.FileService) *FileHandler {
	return &FileHandler{fileService}
}

// CreateFile godoc
// @Summary Приём дела в картотеку
// @Description Создаёт карточку дела. Если указан ящик, размещение пишется в журнал перемещений.
// @Tags Files
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateFileRequest true "Данные дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.FileResponse "Карточка принятого дела"
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный формат запроса"
// @Failure 403 {object} requestresponse.ErrorResponse "Недостаточно прав"
// @Router /api/files [post]
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file := &model.File{
		DisplayNumber:      request.DisplayNumber,
		Name:               request.Name,
		Description:        request.Description,
		Sensitivity:        request.Sensitivity,
		CurrentDrawerID:    request.DrawerID,
		PositionVertical:   request.PositionVertical,
		PositionHorizontal: request.PositionHorizontal,
		ExpirationDate:     request.ExpirationDate,
	}

	created, err := h.FileService.CreateFile(ctx, actor, file, request.Notes)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.FileResponse{Response: *created})
}

// GetFile godoc
// @Summary Карточка дела
// @Tags Files
// @Produce json
// @Param id path int true "ID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Дело не найдено"
// @Router /api/files/{id} [get]
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
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

	file, err := h.FileService.GetFile(ctx, actor, fileID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// GetFileByUUID godoc
// @Summary Поиск дела по UUID
// @Description Находит дело по UUID, например считанному из QR-кода на обложке
// @Tags Files
// @Produce json
// @Param uuid path string true "UUID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Дело не найдено"
// @Router /api/files/by-uuid/{uuid} [get]
func (h *FileHandler) GetFileByUUID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	file, err := h.FileService.GetFileByUUID(ctx, actor, chi.URLParam(r, "uuid"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// GetFileByNumber godoc
// @Summary Поиск дела по номеру
// @Description Находит дело по номеру, напечатанному на обложке
// @Tags Files
// @Produce json
// @Param number path string true "Номер дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Дело не найдено"
// @Router /api/files/by-number/{number} [get]
func (h *FileHandler) GetFileByNumber(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	file, err := h.FileService.GetFileByNumber(ctx, actor, chi.URLParam(r, "number"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *file})
}

// ListFiles godoc
// @Summary Каталог дел
// @Description Страница каталога с фильтрами по владельцу, ящику, уровню
// конфиденциальности, признакам жизненного цикла, ярлыку и подстроке поиска.
// @Tags Files
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param owner_id query int false "Владелец"
// @Param drawer_id query int false "Ящик"
// @Param sensitivity query string false "Уровень конфиденциальности"
// @Param checked_out query bool false "Выдано на руки"
// @Param archived query bool false "В архиве"
// @Param destroyed query bool false "Уничтожено"
// @Param tag_id query int false "Ярлык"
// @Param search query string false "Подстрока номера или названия"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileListResponse
// @Router /api/files [get]
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	filters, err := parseFileFilters(r)
	if err != nil {
		util.HandleError(w, "неверный формат фильтров", http.StatusBadRequest)
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err = strconv.Atoi(pageStr); err != nil {
			util.HandleError(w, "неверный номер страницы", http.StatusBadRequest)
			return
		}
	}

	files, total, err := h.FileService.ListFiles(ctx, actor, filters, page)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	response := requestresponse.FileListResponse{}
	response.Response.Files = files
	response.Response.Total = total
	response.Response.Page = page
	writeJSON(w, http.StatusOK, response)
}

// UpdateFile godoc
// @Summary Обновление карточки дела
// @Description Меняет описательные поля. Размещение и признаки жизненного цикла
// через этот метод не меняются.
// @Tags Files
// @Accept json
// @Produce json
// @Param id path int true "ID дела"
// @Param request body requestresponse.UpdateFileRequest true "Новые значения"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Дело уничтожено"
// @Router /api/files/{id} [put]
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	updated, err := h.FileService.UpdateFile(ctx, actor, fileID, &model.File{
		Name:           request.Name,
		Description:    request.Description,
		Sensitivity:    request.Sensitivity,
		OwnerID:        request.OwnerID,
		ExpirationDate: request.ExpirationDate,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.FileResponse{Response: *updated})
}

// ListFileTags godoc
// @Summary Ярлыки дела
// @Tags Files
// @Produce json
// @Param id path int true "ID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.TagListResponse
// @Router /api/files/{id}/tags [get]
func (h *FileHandler) ListFileTags(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор дела", http.StatusBadRequest)
		return
	}

	tags, err := h.FileService.ListTags(ctx, fileID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.TagListResponse{Response: tags})
}

// AssignTag godoc
// @Summary Назначение ярлыка делу
// @Tags Files
// @Accept json
// @Param id path int true "ID дела"
// @Param request body requestresponse.TagRequest true "Ярлык"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Ярлык назначен"
// @Router /api/files/{id}/tags [post]
func (h *FileHandler) AssignTag(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.FileService.AssignTag(ctx, actor, fileID, request.TagID); err != nil {
		util.HandleAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveTag godoc
// @Summary Снятие ярлыка с дела
// @Tags Files
// @Param id path int true "ID дела"
// @Param tagID path int true "ID ярлыка"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Ярлык снят"
// @Router /api/files/{id}/tags/{tagID} [delete]
func (h *FileHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
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
	tagID, err := pathID(r, "tagID")
	if err != nil {
		util.HandleError(w, "неверный идентификатор ярлыка", http.StatusBadRequest)
		return
	}

	if err := h.FileService.RemoveTag(ctx, actor, fileID, tagID); err != nil {
		util.HandleAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTag godoc
// @Summary Создание ярлыка
// @Tags Tags
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateTagRequest true "Имя и цвет ярлыка"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.TagResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Имя ярлыка занято или пусто"
// @Router /api/tags [post]
func (h *FileHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, err := h.FileService.CreateTag(ctx, actor, request.Name, request.Color)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.TagResponse{Response: *created})
}

// Tags godoc
// @Summary Все ярлыки картотеки
// @Tags Tags
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.TagListResponse
// @Router /api/tags [get]
func (h *FileHandler) Tags(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tags, err := h.FileService.Tags(ctx)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.TagListResponse{Response: tags})
}

func parseFileFilters(r *http.Request) (model.FileFilters, error) {
	query := r.URL.Query()
	filters := model.FileFilters{Search: query.Get("search")}

	if s := query.Get("owner_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.OwnerID = &id
	}
	if s := query.Get("drawer_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.DrawerID = &id
	}
	if s := query.Get("sensitivity"); s != "" {
		filters.Sensitivity = &s
	}
	if s := query.Get("tag_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.TagID = &id
	}
	if s := query.Get("checked_out"); s != "" {
		value, err := strconv.ParseBool(s)
		if err != nil {
			return filters, err
		}
		filters.CheckedOut = &value
	}
	if s := query.Get("archived"); s != "" {
		value, err := strconv.ParseBool(s)
		if err != nil {
			return filters, err
		}
		filters.Archived = &value
	}
	if s := query.Get("destroyed"); s != "" {
		value, err := strconv.ParseBool(s)
		if err != nil {
			return filters, err
		}
		filters.Destroyed = &value
	}

	return filters, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
