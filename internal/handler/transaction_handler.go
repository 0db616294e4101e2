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

type TransactionHandler struct {
	ledgerService  service.LedgerService
	accountService service.AccountService
	logger         *slog.Logger
}

func NewTransactionHandler(ledgerService service.LedgerService, accountService service.AccountService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledgerService:  ledgerService,
		accountService: accountService,
		logger:         logger,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts/{id}/deposit", h.Deposit).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/withdraw", h.Withdraw).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/transactions", h.ListTransactions).Methods(http.MethodGet)
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, req, ok := h.mutationRequest(w, r)
	if !ok {
		return
	}

	transaction, err := h.ledgerService.Deposit(r.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		writeServiceError(w, h.logger, err, "deposit")
		return
	}

	u.WriteJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, req, ok := h.mutationRequest(w, r)
	if !ok {
		return
	}

	transaction, err := h.ledgerService.Withdraw(r.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		writeServiceError(w, h.logger, err, "withdraw")
		return
	}

	u.WriteJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]
	if err := h.checkOwnership(r, accountID); err != nil {
		writeServiceError(w, h.logger, err, "list transactions")
		return
	}

	skip, limit := u.Paging(r)
	transactions, err := h.ledgerService.GetTransactions(r.Context(), accountID, skip, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list transactions")
		return
	}

	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	u.WriteJSON(w, http.StatusOK, transactions)
}

// mutationRequest decodes an amount payload and verifies the path
// account belongs to the caller before any balance work happens.
func (h *TransactionHandler) mutationRequest(w http.ResponseWriter, r *http.Request) (string, *models.AmountRequest, bool) {
	accountID := mux.Vars(r)["id"]
	if err := h.checkOwnership(r, accountID); err != nil {
		writeServiceError(w, h.logger, err, "account ownership check")
		return "", nil, false
	}

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid amount request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return "", nil, false
	}
	return accountID, &req, true
}

func (h *TransactionHandler) checkOwnership(r *http.Request, accountID string) error {
	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		return err
	}
	if account.HolderID != CallerID(r) {
		return errors.ErrAccessDenied
	}
	return nil
}
