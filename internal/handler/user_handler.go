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

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// Register godoc
// @Summary Создание учётной записи
// @Description Доступно только администратору. Пользователи не удаляются,
// только отключаются, чтобы журналы оставались разрешимыми.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body requestresponse.RegisterUserRequest true "Данные учётной записи"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Логин занят или пароль слабый"
// @Failure 403 {object} requestresponse.ErrorResponse "Нужны права администратора"
// @Router /api/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, err := h.UserService.Register(ctx, actor, request.Login, request.Name, request.Password, request.Role)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.UserResponse{Response: *created})
}

// GetUser godoc
// @Summary Учётная запись
// @Tags Users
// @Produce json
// @Param id path int true "ID пользователя"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UserResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Чужая учётная запись"
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetUser(ctx, actor, id)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.UserResponse{Response: *user})
}

// UpdateUser godoc
// @Summary Обновление учётной записи
// @Tags Users
// @Accept json
// @Param id path int true "ID пользователя"
// @Param request body requestresponse.UpdateUserRequest true "Новые значения"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Обновлено"
// @Router /api/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	var request requestresponse.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	err = h.UserService.UpdateUser(ctx, actor, &model.User{
		ID:   id,
		Name: request.Name,
		Role: request.Role,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdatePassword godoc
// @Summary Смена пароля
// @Tags Users
// @Accept json
// @Param id path int true "ID пользователя"
// @Param request body requestresponse.UpdatePasswordRequest true "Новый пароль"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Пароль изменён"
// @Router /api/users/{id}/password [put]
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	var request requestresponse.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UpdatePassword(ctx, actor, id, request.NewPassword); err != nil {
		util.HandleAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Deactivate godoc
// @Summary Отключение учётной записи
// @Tags Users
// @Param id path int true "ID пользователя"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Учётная запись отключена"
// @Failure 403 {object} requestresponse.ErrorResponse "Нужны права администратора"
// @Router /api/users/{id} [delete]
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	if err := h.UserService.Deactivate(ctx, actor, id); err != nil {
		util.HandleAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Размер страницы" default(25)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UserListResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Нужны права администратора"
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	users, err := h.UserService.ListUsers(ctx, actor, page, perPage)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.UserListResponse{Response: users})
}
