package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/service"
	u "github.com/adityaverma/banking-service/internal/utils"
)

type TransferHandler struct {
	transferService service.TransferService
	accountService  service.AccountService
	logger          *slog.Logger
}

func NewTransferHandler(transferService service.TransferService, accountService service.AccountService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		accountService:  accountService,
		logger:          logger,
	}
}

func (h *TransferHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transfers", h.CreateTransfer).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/transfers/outgoing", h.ListOutgoing).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}/transfers/incoming", h.ListIncoming).Methods(http.MethodGet)
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create transfer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	// Only the source account's owner may move its funds.
	if req.FromAccountID != "" {
		if err := h.checkOwnership(r, req.FromAccountID); err != nil {
			writeServiceError(w, h.logger, err, "create transfer")
			return
		}
	}

	transfer, err := h.transferService.Transfer(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create transfer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, transfer)
}

func (h *TransferHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	h.listTransfers(w, r, h.transferService.GetOutgoingTransfers)
}

func (h *TransferHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	h.listTransfers(w, r, h.transferService.GetIncomingTransfers)
}

func (h *TransferHandler) listTransfers(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, accountID string, skip, limit int) ([]*models.Transfer, error)) {

	accountID := mux.Vars(r)["id"]
	if err := h.checkOwnership(r, accountID); err != nil {
		writeServiceError(w, h.logger, err, "list transfers")
		return
	}

	skip, limit := u.Paging(r)
	transfers, err := list(r.Context(), accountID, skip, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list transfers")
		return
	}

	if transfers == nil {
		transfers = []*models.Transfer{}
	}
	u.WriteJSON(w, http.StatusOK, transfers)
}

func (h *TransferHandler) checkOwnership(r *http.Request, accountID string) error {
	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		return err
	}
	if account.HolderID != CallerID(r) {
		return errors.ErrAccessDenied
	}
	return nil
}
