package comments

import (
	"sync"
)

// Hub tracks the live pollers of every open post view.
type Hub struct {
	mu      sync.Mutex
	pollers map[string]map[*Poller]struct{}
}

func NewHub() *Hub {
	return &Hub{pollers: make(map[string]map[*Poller]struct{})}
}

func (h *Hub) Register(p *Poller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.pollers[p.postID]
	if !ok {
		set = make(map[*Poller]struct{})
		h.pollers[p.postID] = set
	}
	set[p] = struct{}{}
}

func (h *Hub) Unregister(p *Poller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.pollers[p.postID]
	delete(set, p)
	if len(set) == 0 {
		delete(h.pollers, p.postID)
	}
}

// Refresh triggers an immediate fetch in every view of postID and returns
// how many were notified.
func (h *Hub) Refresh(postID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.pollers[postID] {
		p.Refresh()
	}
	return len(h.pollers[postID])
}

func (h *Hub) Watchers(postID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pollers[postID])
}
