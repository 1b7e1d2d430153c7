package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"exchange-rate-cache/internal/domain/model"
	"exchange-rate-cache/internal/domain/ports"
	"exchange-rate-cache/pkg/logger"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ratesResponse struct {
	Rates      []model.ExchangeRate `json:"rates"`
	ValidUntil *time.Time           `json:"validUntil"`
	Loading    bool                 `json:"loading"`
	Error      *string              `json:"error"`
	Status     model.Status         `json:"status"`
}

type Handler struct {
	service ports.RateService
	log     *logger.Logger
}

func NewHandler(service ports.RateService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) ConvertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from := model.Currency(r.URL.Query().Get("from"))
	to := model.Currency(r.URL.Query().Get("to"))
	amountStr := r.URL.Query().Get("amount")

	if from == "" || to == "" || amountStr == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from, to and amount")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid amount parameter")
		return
	}

	converted, ok := h.service.ConvertPrice(amount, from, to)
	if !ok {
		if h.service.Snapshot().Status != model.StatusReady {
			h.sendErrorResponse(w, http.StatusServiceUnavailable, "exchange rates unavailable")
			return
		}
		h.sendErrorResponse(w, http.StatusNotFound, "exchange rate not found")
		return
	}

	h.sendSuccessResponse(w, http.StatusOK, map[string]float64{
		"amount": converted,
	})
}

func (h *Handler) RatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot := h.service.Snapshot()
	resp := ratesResponse{
		Rates:   snapshot.Rates,
		Loading: snapshot.Loading,
		Status:  snapshot.Status,
	}
	if resp.Rates == nil {
		resp.Rates = []model.ExchangeRate{}
	}
	if !snapshot.ValidUntil.IsZero() {
		validUntil := snapshot.ValidUntil.UTC()
		resp.ValidUntil = &validUntil
	}
	if snapshot.Error != nil {
		msg := snapshot.Error.Error()
		resp.Error = &msg
	}

	h.sendSuccessResponse(w, http.StatusOK, resp)
}

func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.service.Refetch()
	h.sendSuccessResponse(w, http.StatusAccepted, nil)
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}
