package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/osse101/TapStake_Go/internal/arena"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// RunHandler serves run verification
type RunHandler struct {
	arena arena.Service
}

func NewRunHandler(arenaSvc arena.Service) *RunHandler {
	return &RunHandler{arena: arenaSvc}
}

// VerifyResponse reports a verified run, or the reason it was refused
type VerifyResponse struct {
	Verified    bool              `json:"verified"`
	Reason      string            `json:"reason,omitempty"`
	ServerScore int               `json:"serverScore"`
	RunID       string            `json:"runId,omitempty"`
	PlayerID    string            `json:"playerId,omitempty"`
	MatchID     *string           `json:"matchId,omitempty"`
	Run         *domain.StoredRun `json:"run,omitempty"`
	Best        *domain.StoredRun `json:"best,omitempty"`
}

// HandleVerify scores a submitted run on the server and stores it
// @Summary Verify run
// @Tags run
// @Accept json
// @Produce json
// @Param request body domain.RunSubmission true "Client run report"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} VerifyResponse
// @Failure 404 {object} VerifyResponse
// @Failure 409 {object} VerifyResponse
// @Router /api/v1/run/verify [post]
func (h *RunHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var sub domain.RunSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgRunDecodeFailed, "error", err)
		respondJSON(w, http.StatusBadRequest, VerifyResponse{Reason: decodeRejection(err)})
		return
	}

	res, err := h.arena.SubmitRun(r.Context(), sub)
	if err != nil {
		status, body := mapServiceError(err)
		if status >= http.StatusInternalServerError {
			respondServiceError(w, r, "verify run", err)
			return
		}
		respondJSON(w, status, VerifyResponse{Reason: body.Error})
		return
	}

	respondJSON(w, http.StatusOK, VerifyResponse{
		Verified:    true,
		ServerScore: res.ServerScore,
		RunID:       res.Run.ID,
		PlayerID:    res.Run.PlayerID,
		MatchID:     res.Run.MatchID,
		Run:         res.Run,
		Best:        res.Best,
	})
}

// decodeRejection names the field a submission failed to decode on, so a
// malformed field is refused with the same reason as an invalid one.
func decodeRejection(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if reason := domain.RunFieldReason(typeErr.Field); reason != "" {
			return reason
		}
	}
	return ErrMsgInvalidRequest
}
