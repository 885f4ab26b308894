package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/cashout"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/wallet"
)

// WalletHandler serves the wallet routes
type WalletHandler struct {
	wallets        wallet.Service
	cashouts       cashout.Service
	fundingEnabled bool
}

// NewWalletHandler creates a wallet handler. Funding is refused unless
// fundingEnabled is set.
func NewWalletHandler(wallets wallet.Service, cashouts cashout.Service, fundingEnabled bool) *WalletHandler {
	return &WalletHandler{wallets: wallets, cashouts: cashouts, fundingEnabled: fundingEnabled}
}

// FundResponse reports the new available balance
type FundResponse struct {
	OK       bool            `json:"ok"`
	PlayerID string          `json:"playerId"`
	Currency domain.Currency `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Wallet   *domain.Wallet  `json:"wallet"`
}

// WalletResponse wraps a wallet
type WalletResponse struct {
	OK     bool           `json:"ok"`
	Wallet *domain.Wallet `json:"wallet"`
}

// CashoutResponse carries a cashout request and the wallet it moved
type CashoutResponse struct {
	OK      bool                   `json:"ok"`
	Request *domain.CashoutRequest `json:"request"`
	Wallet  *domain.Wallet         `json:"wallet,omitempty"`
}

// HandleFund credits a wallet directly
// @Summary Fund wallet (development only)
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body MoneyRequest true "Player, amount and currency"
// @Success 200 {object} FundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/wallet/fund [post]
func (h *WalletHandler) HandleFund(w http.ResponseWriter, r *http.Request) {
	if !h.fundingEnabled {
		logger.FromContext(r.Context()).Warn(LogMsgFundingDisabled)
		respondServiceError(w, r, "fund", domain.ErrFundingDisabled)
		return
	}

	var req MoneyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Fund wallet"); err != nil {
		return
	}
	amount, cur, err := req.parse()
	if err != nil {
		respondServiceError(w, r, "fund", err)
		return
	}

	wal, err := h.wallets.Fund(r.Context(), req.PlayerID, amount, cur)
	if err != nil {
		respondServiceError(w, r, "fund", err)
		return
	}
	respondJSON(w, http.StatusOK, FundResponse{
		OK:       true,
		PlayerID: wal.PlayerID,
		Currency: cur,
		Balance:  wal.Balance(cur),
		Wallet:   wal,
	})
}

// HandleGetWallet returns a wallet, creating an empty one on first sight
// @Summary Get wallet
// @Tags wallet
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {object} WalletResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/wallet/{playerId} [get]
func (h *WalletHandler) HandleGetWallet(w http.ResponseWriter, r *http.Request) {
	wal, err := h.wallets.Get(r.Context(), chi.URLParam(r, "playerId"))
	if err != nil {
		respondServiceError(w, r, "get wallet", err)
		return
	}
	respondJSON(w, http.StatusOK, WalletResponse{OK: true, Wallet: wal})
}

// HandleWithdraw moves funds into the held bucket and opens a cashout request
// @Summary Withdraw
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body MoneyRequest true "Player, amount and currency"
// @Success 200 {object} CashoutResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/wallet/withdraw [post]
func (h *WalletHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	createCashout(w, r, h.cashouts, h.wallets, "Withdraw")
}

// createCashout backs both the withdraw and cashout create routes
func createCashout(w http.ResponseWriter, r *http.Request, cashouts cashout.Service, wallets wallet.Service, action string) {
	var req MoneyRequest
	if err := DecodeAndValidateRequest(r, w, &req, action); err != nil {
		return
	}
	amount, cur, err := req.parse()
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}

	created, err := cashouts.Create(r.Context(), req.PlayerID, amount, cur)
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}
	wal, err := wallets.Get(r.Context(), created.PlayerID)
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}
	respondJSON(w, http.StatusOK, CashoutResponse{OK: true, Request: created, Wallet: wal})
}
