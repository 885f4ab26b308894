package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/TapStake_Go/internal/cashout"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/wallet"
)

// CashoutHandler serves the cashout routes. Decisions and reset require the
// admin token.
type CashoutHandler struct {
	cashouts cashout.Service
	wallets  wallet.Service
}

func NewCashoutHandler(cashouts cashout.Service, wallets wallet.Service) *CashoutHandler {
	return &CashoutHandler{cashouts: cashouts, wallets: wallets}
}

// DecisionRequest is the optional body of approve and reject
type DecisionRequest struct {
	Note      string `json:"note" validate:"max=500"`
	DecidedBy string `json:"decidedBy" validate:"max=64"`
}

// ResetResponse reports how many requests were dropped
type ResetResponse struct {
	OK      bool `json:"ok"`
	Cleared int  `json:"cleared"`
}

// HandleCreate opens a cashout request
// @Summary Create cashout request
// @Tags cashout
// @Accept json
// @Produce json
// @Param request body MoneyRequest true "Player, amount and currency"
// @Success 200 {object} CashoutResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/cashout/create [post]
func (h *CashoutHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	createCashout(w, r, h.cashouts, h.wallets, "Create cashout")
}

// HandleList lists cashout requests, newest first
// @Summary List cashout requests
// @Tags cashout
// @Produce json
// @Param playerId query string false "Only this player's requests"
// @Param limit query int false "Page size (default 50, max 500)"
// @Success 200 {object} ItemsResponse
// @Router /api/v1/cashout/list [get]
func (h *CashoutHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, ok := getLimitParam(r, w)
	if !ok {
		return
	}
	items, err := h.cashouts.List(r.Context(), domain.CashoutFilter{
		PlayerID: GetOptionalQueryParam(r, "playerId", ""),
		Limit:    limit,
	})
	if err != nil {
		respondServiceError(w, r, "list cashouts", err)
		return
	}
	if items == nil {
		items = []*domain.CashoutRequest{}
	}
	respondJSON(w, http.StatusOK, ItemsResponse{OK: true, Items: items})
}

// HandleApprove pays out a pending request
// @Summary Approve cashout
// @Tags cashout
// @Accept json
// @Produce json
// @Param id path string true "Cashout ID"
// @Param X-Admin-Token header string false "Admin token"
// @Success 200 {object} CashoutResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/cashout/{id}/approve [post]
func (h *CashoutHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve", func(req DecisionRequest) (*domain.CashoutRequest, error) {
		return h.cashouts.Approve(r.Context(), chi.URLParam(r, "id"), req.DecidedBy)
	})
}

// HandleReject returns held funds to the player
// @Summary Reject cashout
// @Tags cashout
// @Accept json
// @Produce json
// @Param id path string true "Cashout ID"
// @Param X-Admin-Token header string false "Admin token"
// @Param request body DecisionRequest false "Optional note"
// @Success 200 {object} CashoutResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/cashout/{id}/reject [post]
func (h *CashoutHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject", func(req DecisionRequest) (*domain.CashoutRequest, error) {
		return h.cashouts.Reject(r.Context(), chi.URLParam(r, "id"), req.Note, req.DecidedBy)
	})
}

// HandleReset drops every cashout request. Held funds stay held.
// @Summary Reset cashouts (development)
// @Tags cashout
// @Produce json
// @Param X-Admin-Token header string false "Admin token"
// @Success 200 {object} ResetResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/cashout/reset [post]
func (h *CashoutHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	cleared, err := h.cashouts.ResetAll(r.Context())
	if err != nil {
		respondServiceError(w, r, "reset cashouts", err)
		return
	}
	respondJSON(w, http.StatusOK, ResetResponse{OK: true, Cleared: cleared})
}

func (h *CashoutHandler) decide(w http.ResponseWriter, r *http.Request, action string, fn func(DecisionRequest) (*domain.CashoutRequest, error)) {
	if !h.authorize(w, r) {
		return
	}
	var req DecisionRequest
	if err := decodeOptionalBody(r, w, &req, action); err != nil {
		return
	}

	decided, err := fn(req)
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}
	wal, err := h.wallets.Get(r.Context(), decided.PlayerID)
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}
	respondJSON(w, http.StatusOK, CashoutResponse{OK: true, Request: decided, Wallet: wal})
}

func (h *CashoutHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	token := strings.TrimSpace(r.Header.Get(HeaderAdminToken))
	if err := h.cashouts.CheckAdminToken(token); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgAdminRejected, "path", r.URL.Path)
		respondServiceError(w, r, "admin", err)
		return false
	}
	return true
}
