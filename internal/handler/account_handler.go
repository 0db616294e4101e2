package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/service"
	u "github.com/adityaverma/banking-service/internal/utils"
)

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}/balance", h.GetBalance).Methods(http.MethodGet)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), CallerID(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create account")
		return
	}

	u.WriteJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAccountsForHolder(r.Context(), CallerID(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "list accounts")
		return
	}

	if accounts == nil {
		accounts = []*models.Account{}
	}
	u.WriteJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.ownedAccount(r)
	if err != nil {
		writeServiceError(w, h.logger, err, "get account")
		return
	}

	u.WriteJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, err := h.ownedAccount(r)
	if err != nil {
		writeServiceError(w, h.logger, err, "get balance")
		return
	}

	u.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"account_id": account.ID,
		"balance":    account.Balance,
	})
}

// ownedAccount loads the path account and verifies it belongs to the
// caller.
func (h *AccountHandler) ownedAccount(r *http.Request) (*models.Account, error) {
	account, err := h.accountService.GetAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		return nil, err
	}
	if account.HolderID != CallerID(r) {
		return nil, errors.ErrAccessDenied
	}
	return account, nil
}
