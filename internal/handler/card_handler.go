package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/service"
	u "github.com/adityaverma/banking-service/internal/utils"
)

type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

func (h *CardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/cards", h.CreateCard).Methods(http.MethodPost)
	router.HandleFunc("/cards", h.ListCards).Methods(http.MethodGet)
	router.HandleFunc("/cards/{id}/block", h.BlockCard).Methods(http.MethodPost)
}

func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create card request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), CallerID(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create card")
		return
	}

	u.WriteJSON(w, http.StatusCreated, card)
}

func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.GetCardsForHolder(r.Context(), CallerID(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "list cards")
		return
	}

	if cards == nil {
		cards = []*models.Card{}
	}
	u.WriteJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) BlockCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardService.BlockCard(r.Context(), CallerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "block card")
		return
	}

	u.WriteJSON(w, http.StatusOK, card)
}
