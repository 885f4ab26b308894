package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/TapStake_Go/internal/arena"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/match"
	"github.com/osse101/TapStake_Go/internal/run"
)

// MatchHandler serves the match routes. Everything that moves money goes
// through the arena.
type MatchHandler struct {
	matches match.Service
	arena   arena.Service
	runs    run.Service
}

func NewMatchHandler(matches match.Service, arenaSvc arena.Service, runs run.Service) *MatchHandler {
	return &MatchHandler{matches: matches, arena: arenaSvc, runs: runs}
}

// CreateMatchRequest is the optional body of match creation
type CreateMatchRequest struct {
	GameID     string `json:"gameId" validate:"max=64"`
	DurationMs int64  `json:"durationMs"`
}

// MatchResponse wraps a match
type MatchResponse struct {
	OK    bool          `json:"ok"`
	Match *domain.Match `json:"match"`
}

// StakeResponse is returned after a stake
type StakeResponse struct {
	OK bool `json:"ok"`
	*arena.StakeResult
}

// StartResponse is returned by start. AlreadyStarted is set when the call
// found the match running.
type StartResponse struct {
	OK             bool          `json:"ok"`
	Match          *domain.Match `json:"match"`
	AlreadyStarted bool          `json:"alreadyStarted"`
}

// EndResponse is returned by end
type EndResponse struct {
	OK bool `json:"ok"`
	*arena.EndResult
}

// HandleCreate creates an empty USD match
// @Summary Create match
// @Tags match
// @Accept json
// @Produce json
// @Param request body CreateMatchRequest false "Game and duration"
// @Success 200 {object} MatchResponse
// @Router /api/v1/match/create [post]
func (h *MatchHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := decodeOptionalBody(r, w, &req, "Create match"); err != nil {
		return
	}
	m, err := h.matches.Create(r.Context(), req.GameID, domain.CurrencyUSD, req.DurationMs)
	if err != nil {
		respondServiceError(w, r, "create match", err)
		return
	}
	respondJSON(w, http.StatusOK, MatchResponse{OK: true, Match: m})
}

// HandleGet returns a match
// @Summary Get match
// @Tags match
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} MatchResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/match/{id} [get]
func (h *MatchHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.arena.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "get match", err)
		return
	}
	respondJSON(w, http.StatusOK, MatchResponse{OK: true, Match: m})
}

// HandleStake moves a player's stake from their wallet into escrow
// @Summary Stake on a match
// @Tags match
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param request body MoneyRequest true "Player, amount and currency"
// @Success 200 {object} StakeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/match/{id}/stake [post]
func (h *MatchHandler) HandleStake(w http.ResponseWriter, r *http.Request) {
	var req MoneyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stake"); err != nil {
		return
	}
	amount, cur, err := req.parse()
	if err != nil {
		respondServiceError(w, r, "stake", err)
		return
	}

	res, err := h.arena.Stake(r.Context(), chi.URLParam(r, "id"), req.PlayerID, amount, cur)
	if err != nil {
		respondServiceError(w, r, "stake", err)
		return
	}
	respondJSON(w, http.StatusOK, StakeResponse{OK: true, StakeResult: res})
}

// HandleStart starts a match whose escrow is ready
// @Summary Start match
// @Tags match
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} StartResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "escrow_not_ready carries the readiness details"
// @Router /api/v1/match/{id}/start [post]
func (h *MatchHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	m, already, err := h.arena.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "start match", err)
		return
	}
	respondJSON(w, http.StatusOK, StartResponse{OK: true, Match: m, AlreadyStarted: already})
}

// HandleEnd ends a match with its best verified run and pays the winner
// @Summary End match
// @Tags match
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} EndResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/match/{id}/end [post]
func (h *MatchHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	res, err := h.arena.EndMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "end match", err)
		return
	}
	respondJSON(w, http.StatusOK, EndResponse{OK: true, EndResult: res})
}

// HandleRuns lists the match's verified runs, newest first
// @Summary List match runs
// @Tags match
// @Produce json
// @Param id path string true "Match ID"
// @Param limit query int false "Page size (default 50)"
// @Success 200 {object} ItemsResponse
// @Router /api/v1/match/{id}/runs [get]
func (h *MatchHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := getLimitParam(r, w)
	if !ok {
		return
	}
	items := h.runs.RunsForMatch(r.Context(), chi.URLParam(r, "id"), limit)
	if items == nil {
		items = []*domain.StoredRun{}
	}
	respondJSON(w, http.StatusOK, ItemsResponse{OK: true, Items: items})
}
