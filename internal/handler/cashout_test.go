package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/TapStake_Go/internal/domain"
)

func pendingCashout(id, playerID string) *domain.CashoutRequest {
	return &domain.CashoutRequest{
		ID: id, PlayerID: playerID, Amount: decimal.NewFromInt(10),
		Currency: domain.CurrencyUSD, Status: domain.CashoutStatusPending,
	}
}

func TestCashoutHandler_Approve(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		setup          func(*MockCashoutService, *MockWalletService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "bad token",
			token: "nope",
			setup: func(cs *MockCashoutService, _ *MockWalletService) {
				cs.On("CheckAdminToken", "nope").Return(domain.ErrUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   domain.ErrMsgUnauthorized,
		},
		{
			name:  "unknown id",
			token: "secret",
			setup: func(cs *MockCashoutService, _ *MockWalletService) {
				cs.On("CheckAdminToken", "secret").Return(nil)
				cs.On("Approve", mock.Anything, "c1", "").Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   domain.ErrMsgNotFound,
		},
		{
			name:  "already decided",
			token: "secret",
			setup: func(cs *MockCashoutService, _ *MockWalletService) {
				cs.On("CheckAdminToken", "secret").Return(nil)
				cs.On("Approve", mock.Anything, "c1", "").Return(nil, domain.ErrAlreadyDecided)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   domain.ErrMsgAlreadyDecided,
		},
		{
			name:  "gateway failure",
			token: "secret",
			setup: func(cs *MockCashoutService, _ *MockWalletService) {
				cs.On("CheckAdminToken", "secret").Return(nil)
				cs.On("Approve", mock.Anything, "c1", "").Return(nil, &domain.PayoutError{Provider: "stripe", Message: "card_declined"})
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "card_declined",
		},
		{
			name:  "approved",
			token: "secret",
			setup: func(cs *MockCashoutService, ws *MockWalletService) {
				approved := pendingCashout("c1", "p1")
				approved.Status = domain.CashoutStatusApproved
				approved.PayoutRef = "manual_c1_1"
				cs.On("CheckAdminToken", "secret").Return(nil)
				cs.On("Approve", mock.Anything, "c1", "").Return(approved, nil)
				ws.On("Get", mock.Anything, "p1").Return(walletWith("p1", 0, 0), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"payoutRef":"manual_c1_1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &MockCashoutService{}
			ws := &MockWalletService{}
			tt.setup(cs, ws)

			req := withURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/cashout/c1/approve", nil), "id", "c1")
			req.Header.Set(HeaderAdminToken, tt.token)
			w := httptest.NewRecorder()
			NewCashoutHandler(cs, ws).HandleApprove(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			cs.AssertExpectations(t)
			ws.AssertExpectations(t)
		})
	}
}

func TestCashoutHandler_RejectPassesNote(t *testing.T) {
	cs := &MockCashoutService{}
	ws := &MockWalletService{}
	rejected := pendingCashout("c1", "p1")
	rejected.Status = domain.CashoutStatusRejected
	rejected.Note = "duplicate"
	cs.On("CheckAdminToken", "").Return(nil)
	cs.On("Reject", mock.Anything, "c1", "duplicate", "ops").Return(rejected, nil)
	ws.On("Get", mock.Anything, "p1").Return(walletWith("p1", 10, 0), nil)

	req := withURLParams(newJSONRequest(t, http.MethodPost, "/api/v1/cashout/c1/reject",
		map[string]string{"note": "duplicate", "decidedBy": "ops"}), "id", "c1")
	w := httptest.NewRecorder()
	NewCashoutHandler(cs, ws).HandleReject(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "rejected", body["request"].(map[string]interface{})["status"])
	cs.AssertExpectations(t)
}

func TestCashoutHandler_List(t *testing.T) {
	t.Run("filter and limit", func(t *testing.T) {
		cs := &MockCashoutService{}
		cs.On("List", mock.Anything, domain.CashoutFilter{PlayerID: "p1", Limit: 5}).
			Return([]*domain.CashoutRequest{pendingCashout("c2", "p1"), pendingCashout("c1", "p1")}, nil)

		w := httptest.NewRecorder()
		NewCashoutHandler(cs, &MockWalletService{}).HandleList(w,
			httptest.NewRequest(http.MethodGet, "/api/v1/cashout/list?playerId=p1&limit=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		items := decodeBody(t, w)["items"].([]interface{})
		assert.Len(t, items, 2)
		assert.Equal(t, "c2", items[0].(map[string]interface{})["id"])
		cs.AssertExpectations(t)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		cs := &MockCashoutService{}
		cs.On("List", mock.Anything, domain.CashoutFilter{}).Return(nil, nil)

		w := httptest.NewRecorder()
		NewCashoutHandler(cs, &MockWalletService{}).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/cashout/list", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})

	t.Run("bad limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewCashoutHandler(&MockCashoutService{}, &MockWalletService{}).HandleList(w,
			httptest.NewRequest(http.MethodGet, "/api/v1/cashout/list?limit=ten", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCashoutHandler_Reset(t *testing.T) {
	cs := &MockCashoutService{}
	cs.On("CheckAdminToken", "secret").Return(nil)
	cs.On("ResetAll", mock.Anything).Return(3, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cashout/reset", nil)
	req.Header.Set(HeaderAdminToken, " secret ")
	w := httptest.NewRecorder()
	NewCashoutHandler(cs, &MockWalletService{}).HandleReset(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cleared":3`)
	cs.AssertExpectations(t)
}
