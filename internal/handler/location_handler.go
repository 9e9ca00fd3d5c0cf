package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	requestresponse "rolodrawer/internal/model/requestresponse"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/util"
)

type LocationHandler struct {
	ports.LocationService
}

func NewLocationHandler(locationService ports.LocationService) *LocationHandler {
	return &LocationHandler{locationService}
}

// CreateLocation godoc
// @Summary Создание помещения
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateLocationRequest true "Название помещения"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.LocationResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Нужны права администратора"
// @Router /api/locations [post]
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, err := h.LocationService.CreateLocation(ctx, actor, request.Name)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.LocationResponse{Response: *created})
}

// CreateCabinet godoc
// @Summary Создание шкафа в помещении
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateCabinetRequest true "Помещение и маркировка"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.CabinetResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Помещение не найдено"
// @Router /api/cabinets [post]
func (h *LocationHandler) CreateCabinet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.CreateCabinetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, err := h.LocationService.CreateCabinet(ctx, actor, request.LocationID, request.Label)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.CabinetResponse{Response: *created})
}

// CreateDrawer godoc
// @Summary Создание ящика в шкафу
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateDrawerRequest true "Шкаф и маркировка"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.DrawerResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Шкаф не найден"
// @Router /api/drawers [post]
func (h *LocationHandler) CreateDrawer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := security.ActorFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.CreateDrawerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, err := h.LocationService.CreateDrawer(ctx, actor, request.CabinetID, request.Label)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.DrawerResponse{Response: *created})
}

// GetDrawerPath godoc
// @Summary Ящик с полным путём размещения
// @Tags Locations
// @Produce json
// @Param id path int true "ID ящика"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.DrawerPathResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Ящик не найден"
// @Router /api/drawers/{id} [get]
func (h *LocationHandler) GetDrawerPath(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	drawerID, err := pathID(r, "id")
	if err != nil {
		util.HandleError(w, "неверный идентификатор ящика", http.StatusBadRequest)
		return
	}

	path, err := h.LocationService.GetDrawerPath(ctx, drawerID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.DrawerPathResponse{Response: *path})
}

// ListDrawers godoc
// @Summary Все ящики с путями размещения и числом дел
// @Tags Locations
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.DrawerListResponse
// @Router /api/drawers [get]
func (h *LocationHandler) ListDrawers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	drawers, err := h.LocationService.ListDrawers(ctx)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.DrawerListResponse{Response: drawers})
}
