package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"rolodrawer/internal/apperrors"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// HandleAppError переводит типизированную доменную ошибку в HTTP статус.
// Категории: NotFound -> 404, Validation/NotConfirmed -> 400,
// InvalidState -> 409, Unauthorized -> 403, остальное -> 500.
func HandleAppError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotConfirmed):
		statusCode = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusForbidden
	case errors.Is(err, apperrors.ErrInvalidState):
		statusCode = http.StatusConflict
	default:
		HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   apperrors.Reason(err),
		Message: err.Error(),
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}
