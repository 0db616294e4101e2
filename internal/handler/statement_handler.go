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

type StatementHandler struct {
	statementService service.StatementService
	accountService   service.AccountService
	logger           *slog.Logger
}

func NewStatementHandler(statementService service.StatementService, accountService service.AccountService, logger *slog.Logger) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		accountService:   accountService,
		logger:           logger,
	}
}

func (h *StatementHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/statements", h.GenerateStatement).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/statements", h.ListStatements).Methods(http.MethodGet)
}

func (h *StatementHandler) GenerateStatement(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid generate statement request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	if err := h.checkOwnership(r, req.AccountID); err != nil {
		writeServiceError(w, h.logger, err, "generate statement")
		return
	}

	statement, err := h.statementService.GenerateStatement(r.Context(), req.AccountID, req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(w, h.logger, err, "generate statement")
		return
	}

	u.WriteJSON(w, http.StatusCreated, statement)
}

func (h *StatementHandler) ListStatements(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]
	if err := h.checkOwnership(r, accountID); err != nil {
		writeServiceError(w, h.logger, err, "list statements")
		return
	}

	skip, limit := u.Paging(r)
	statements, err := h.statementService.GetStatements(r.Context(), accountID, skip, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list statements")
		return
	}

	if statements == nil {
		statements = []*models.Statement{}
	}
	u.WriteJSON(w, http.StatusOK, statements)
}

func (h *StatementHandler) checkOwnership(r *http.Request, accountID string) error {
	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		return err
	}
	if account.HolderID != CallerID(r) {
		return errors.ErrAccessDenied
	}
	return nil
}
