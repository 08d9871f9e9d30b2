package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
)

// BuildErrorResponse maps an error onto its HTTP status and error envelope.
// Internal errors keep their cause out of the response body.
func BuildErrorResponse(err error) (int, api.ErrorResponse) {
	statusCode := application.ToHTTPStatus(err)
	errorCode := application.ToErrorCode(err)

	message := err.Error()
	var details map[string]string
	if svcErr, ok := application.IsServiceError(err); ok {
		message = svcErr.Message
		if svcErr.Err != nil && statusCode < http.StatusInternalServerError {
			details = map[string]string{"cause": svcErr.Err.Error()}
		}
	}
	if statusCode >= http.StatusInternalServerError && errorCode == application.ErrCodeInternal {
		message = "An internal error occurred"
	}

	return statusCode, api.ErrorResponse{
		Success: false,
		Error: api.ErrorDetail{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
	}
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode, response := BuildErrorResponse(err)

	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			"error", err,
			"category", application.CategorizeError(err),
			"status", statusCode)
	}

	WriteJSON(w, statusCode, response, logger)
}

func WriteJSON(w http.ResponseWriter, statusCode int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}
