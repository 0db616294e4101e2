package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adityaverma/banking-service/internal/auth"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/service"
	u "github.com/adityaverma/banking-service/internal/utils"
)

type AuthHandler struct {
	userService service.UserService
	tokens      *auth.TokenManager
	logger      *slog.Logger
}

func NewAuthHandler(userService service.UserService, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		logger:      logger,
	}
}

// RegisterRoutes mounts the unauthenticated endpoints.
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// RegisterProtectedRoutes mounts the endpoints that require a caller
// identity.
func (h *AuthHandler) RegisterProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signup request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	user, err := h.userService.CreateUser(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "signup")
		return
	}

	u.WriteJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	user, err := h.userService.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err, "login")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "user_id", user.ID, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), CallerID(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "get current user")
		return
	}

	u.WriteJSON(w, http.StatusOK, user)
}
