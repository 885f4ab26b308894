package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/TapStake_Go/internal/arena"
	"github.com/osse101/TapStake_Go/internal/domain"
)

func TestRunHandler_Verify(t *testing.T) {
	matchID := "m1"
	tests := []struct {
		name           string
		body           interface{}
		result         *arena.SubmitResult
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "rejected run reports its reason",
			body:           map[string]interface{}{"playerId": "a", "seed": 1, "hits": 5, "misses": 1, "tapCount": 9},
			err:            &domain.RunRejectedError{Reason: domain.RunReasonBadTapCount},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"reason":"bad_tapCount"`,
		},
		{
			name:           "unknown match",
			body:           map[string]interface{}{"matchId": matchID, "playerId": "a"},
			err:            domain.ErrMatchNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"reason":"match_not_found"`,
		},
		{
			name:           "player not staked",
			body:           map[string]interface{}{"matchId": matchID, "playerId": "c"},
			err:            domain.ErrPlayerNotStaked,
			expectedStatus: http.StatusConflict,
			expectedBody:   `"verified":false`,
		},
		{
			name: "verified",
			body: map[string]interface{}{"matchId": matchID, "playerId": "a", "hits": 5, "misses": 1, "tapCount": 6, "spawnCount": 6, "durationMs": 30000, "seed": 0.5},
			result: &arena.SubmitResult{
				Run:         &domain.StoredRun{ID: "r1", PlayerID: "a", MatchID: &matchID, ServerScore: 45},
				ServerScore: 45,
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"serverScore":45`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := &MockArenaService{}
			as.On("SubmitRun", mock.Anything, mock.AnythingOfType("domain.RunSubmission")).Return(tt.result, tt.err)

			w := httptest.NewRecorder()
			NewRunHandler(as).HandleVerify(w, newJSONRequest(t, http.MethodPost, "/api/v1/run/verify", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			as.AssertExpectations(t)
		})
	}
}

func TestRunHandler_VerifyMalformedBody(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedReason string
	}{
		{"fractional hits", map[string]interface{}{"playerId": "a", "seed": 1, "hits": 1.5}, `"reason":"bad_hits"`},
		{"string seed", map[string]interface{}{"playerId": "a", "seed": "abc"}, `"reason":"bad_seed"`},
		{"numeric player", map[string]interface{}{"playerId": 7}, `"reason":"bad_playerId"`},
		{"duration as text", map[string]interface{}{"playerId": "a", "seed": 1, "durationMs": "long"}, `"reason":"bad_duration"`},
		{"not an object", []int{1, 2}, `"reason":"invalid_request"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := &MockArenaService{}

			w := httptest.NewRecorder()
			NewRunHandler(as).HandleVerify(w, newJSONRequest(t, http.MethodPost, "/api/v1/run/verify", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"verified":false`)
			assert.Contains(t, w.Body.String(), tt.expectedReason)
			assert.NotContains(t, w.Body.String(), `"ok"`)
			as.AssertNotCalled(t, "SubmitRun", mock.Anything, mock.Anything)
		})
	}
}
