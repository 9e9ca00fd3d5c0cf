package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	requestresponse "rolodrawer/internal/model/requestresponse"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/service"
	"rolodrawer/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
	ports.JWTServiceInterface
	ports.JWTRepositoryInterface
}

func NewAuthenticationHandler(
	authenticationService *service.AuthenticationService,
	jwtServiceInterface ports.JWTServiceInterface,
	jwtRepositoryInterface ports.JWTRepositoryInterface,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService,
		jwtServiceInterface,
		jwtRepositoryInterface}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение пары токенов по логину и паролю. После серии неудачных
// попыток учётная запись временно блокируется.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 403 {object} requestresponse.ErrorResponse "Неверные данные или блокировка"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		util.HandleError(w, "login и password обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Login, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		log.Println(err)
		if errors.Is(err, apperrors.ErrUnauthorized) {
			util.HandleAppError(w, err)
			return
		}
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	resp := requestresponse.LoginResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.RefreshToken = tokens.RefreshToken

	writeJSON(w, http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Обменивает выданную вместе пару access+refresh на новую.
// Обновление с другим User-Agent деактивирует токен, вход с нового IP
// сообщается на webhook.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Refresh токен"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Невалидный токен"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	accessToken := security.BearerToken(r)
	if accessToken == "" || req.RefreshToken == "" {
		util.HandleError(w, "access и refresh токены обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.RefreshToken(ctx, r.UserAgent(), r.RemoteAddr, accessToken, req.RefreshToken)
	if err != nil {
		log.Println(err)
		if errors.Is(err, apperrors.ErrUnauthorized) {
			util.HandleAppError(w, err)
			return
		}
		util.HandleError(w, "невалидный токен", http.StatusUnauthorized)
		return
	}

	resp := requestresponse.RefreshTokenResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.RefreshToken = tokens.RefreshToken

	writeJSON(w, http.StatusOK, resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Деактивирует refresh-токен текущей сессии
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.AuthenticationService.Logout(ctx, claims.RefreshTokenUUID); err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось завершить сессию", http.StatusInternalServerError)
		return
	}

	resp := requestresponse.LogoutResponse{}
	resp.Response.LoggedOut = true
	writeJSON(w, http.StatusOK, resp)
}
