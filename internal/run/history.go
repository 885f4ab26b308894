package run

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// history is a bounded, insertion-ordered run log. Entries are only ever
// added and peeked, so the LRU evicts strictly oldest-first.
type history struct {
	mu   sync.Mutex
	runs *lru.Cache[string, *domain.StoredRun]
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = domain.DefaultRunHistoryCap
	}
	c, err := lru.New[string, *domain.StoredRun](capacity)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &history{runs: c}
}

func (h *history) add(r *domain.StoredRun) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs.Add(r.ID, r)
}

func (h *history) get(id string) (*domain.StoredRun, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs.Peek(id)
}

// forMatch returns the match's runs oldest first
func (h *history) forMatch(matchID string) []*domain.StoredRun {
	h.mu.Lock()
	all := h.runs.Values()
	h.mu.Unlock()

	out := make([]*domain.StoredRun, 0)
	for _, r := range all {
		if r.InMatch(matchID) {
			out = append(out, r)
		}
	}
	return out
}

func (h *history) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs.Len()
}
