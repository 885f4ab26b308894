package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/TapStake_Go/internal/domain"
)

func walletWith(playerID string, balance, held int64) *domain.Wallet {
	w := domain.NewWallet(playerID)
	w.Balances[domain.CurrencyUSD] = decimal.NewFromInt(balance)
	w.Held[domain.CurrencyUSD] = decimal.NewFromInt(held)
	return w
}

func decEq(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString(want)) })
}

func TestHandleFund(t *testing.T) {
	tests := []struct {
		name           string
		enabled        bool
		body           interface{}
		setup          func(*MockWalletService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "disabled in production",
			enabled:        false,
			body:           map[string]interface{}{"playerId": "p1", "amount": 10},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"forbidden"`,
		},
		{
			name:           "invalid json",
			enabled:        true,
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "missing player",
			enabled:        true,
			body:           map[string]interface{}{"amount": 10},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrMsgBadPlayerID,
		},
		{
			name:           "blank player",
			enabled:        true,
			body:           map[string]interface{}{"playerId": "   ", "amount": 10},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrMsgBadPlayerID,
		},
		{
			name:           "non-positive amount",
			enabled:        true,
			body:           map[string]interface{}{"playerId": "p1", "amount": -5},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrMsgBadAmount,
		},
		{
			name:           "non-numeric amount",
			enabled:        true,
			body:           map[string]interface{}{"playerId": "p1", "amount": "lots"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrMsgBadAmount,
		},
		{
			name:           "foreign currency",
			enabled:        true,
			body:           map[string]interface{}{"playerId": "p1", "amount": 10, "currency": "EUR"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrMsgBadCurrency,
		},
		{
			name:    "success with lower-case currency",
			enabled: true,
			body:    map[string]interface{}{"playerId": "p1", "amount": 50, "currency": "usd"},
			setup: func(ws *MockWalletService) {
				ws.On("Fund", mock.Anything, "p1", decEq("50"), domain.CurrencyUSD).Return(walletWith("p1", 50, 0), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"balance":50`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := &MockWalletService{}
			if tt.setup != nil {
				tt.setup(ws)
			}
			h := NewWalletHandler(ws, &MockCashoutService{}, tt.enabled)

			w := httptest.NewRecorder()
			h.HandleFund(w, newJSONRequest(t, http.MethodPost, "/api/v1/wallet/fund", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			ws.AssertExpectations(t)
		})
	}
}

func TestHandleGetWallet(t *testing.T) {
	ws := &MockWalletService{}
	ws.On("Get", mock.Anything, "p1").Return(walletWith("p1", 7, 3), nil)
	ws.On("Get", mock.Anything, "").Return(nil, domain.ErrBadPlayerID)
	h := NewWalletHandler(ws, &MockCashoutService{}, false)

	w := httptest.NewRecorder()
	h.HandleGetWallet(w, withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/wallet/p1", nil), "playerId", "p1"))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "p1", body["wallet"].(map[string]interface{})["playerId"])

	w = httptest.NewRecorder()
	h.HandleGetWallet(w, withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/wallet/", nil), "playerId", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	ws.AssertExpectations(t)
}

func TestHandleWithdraw(t *testing.T) {
	t.Run("creates a pending request", func(t *testing.T) {
		ws := &MockWalletService{}
		cs := &MockCashoutService{}
		req := &domain.CashoutRequest{
			ID: "c1", PlayerID: "p1", Amount: decimal.NewFromInt(10), Currency: domain.CurrencyUSD,
			Status: domain.CashoutStatusPending, CreatedAt: time.Now(),
		}
		cs.On("Create", mock.Anything, "p1", decEq("10"), domain.CurrencyUSD).Return(req, nil)
		ws.On("Get", mock.Anything, "p1").Return(walletWith("p1", 0, 10), nil)

		w := httptest.NewRecorder()
		NewWalletHandler(ws, cs, false).HandleWithdraw(w, newJSONRequest(t, http.MethodPost, "/api/v1/wallet/withdraw",
			map[string]interface{}{"playerId": "p1", "amount": 10}))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "pending", body["request"].(map[string]interface{})["status"])
		assert.Equal(t, float64(10), body["wallet"].(map[string]interface{})["held"].(map[string]interface{})["USD"])
		cs.AssertExpectations(t)
		ws.AssertExpectations(t)
	})

	t.Run("insufficient funds is a conflict", func(t *testing.T) {
		cs := &MockCashoutService{}
		cs.On("Create", mock.Anything, "p1", decEq("10"), domain.CurrencyUSD).Return(nil, domain.ErrInsufficientFunds)

		w := httptest.NewRecorder()
		NewWalletHandler(&MockWalletService{}, cs, false).HandleWithdraw(w, newJSONRequest(t, http.MethodPost, "/api/v1/wallet/withdraw",
			map[string]interface{}{"playerId": "p1", "amount": "10"}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrMsgInsufficientFunds)
	})
}
