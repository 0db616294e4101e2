package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adityaverma/banking-service/internal/auth"
	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/utils"
)

type contextKey string

const contextUserID contextKey = "user_id"

// AuthMiddleware resolves the bearer token to a user id and stores it
// on the request context. Requests without a valid token never reach
// the handlers.
func AuthMiddleware(tokens *auth.TokenManager, logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.WriteError(w, http.StatusUnauthorized, "invalid authorization header", "")
				return
			}

			userID, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Warn("rejected invalid token", "path", r.URL.Path)
				utils.WriteError(w, http.StatusUnauthorized, "invalid token", "")
				return
			}

			ctx := context.WithValue(r.Context(), contextUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID returns the authenticated user id placed on the context by
// AuthMiddleware.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(contextUserID).(string)
	return id
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		utils.WriteError(w, http.StatusNotFound, "not found", err.Error())
	case errors.IsAlreadyExists(err):
		utils.WriteError(w, http.StatusConflict, "email already registered", "")
	case errors.IsAccessDenied(err):
		utils.WriteError(w, http.StatusForbidden, "access denied", "")
	case errors.IsValidationError(err):
		utils.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsInsufficientFunds(err):
		utils.WriteError(w, http.StatusBadRequest, "insufficient funds", "account does not have enough funds for this operation")
	case err == errors.ErrInvalidCredentials:
		utils.WriteError(w, http.StatusUnauthorized, "invalid credentials", "")
	case err == errors.ErrSameAccount:
		utils.WriteError(w, http.StatusBadRequest, "same source and destination account", err.Error())
	case err == errors.ErrInvalidAmount:
		utils.WriteError(w, http.StatusBadRequest, "invalid amount", err.Error())
	case err == errors.ErrNegativeBalance:
		utils.WriteError(w, http.StatusBadRequest, "negative balance not allowed", "")
	case err == errors.ErrAccountInactive:
		utils.WriteError(w, http.StatusBadRequest, "account inactive", err.Error())
	default:
		logger.Error("internal server error during "+operation, "error", err.Error())
		utils.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
