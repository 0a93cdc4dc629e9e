package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"etika-quiz-service/internal/domain"
)

// LeaderboardHub fans leaderboard snapshots out to websocket subscribers.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[chan []domain.LeaderboardEntry]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[chan []domain.LeaderboardEntry]struct{}),
	}
}

// Subscribe returns a channel of snapshots. The caller must invoke the
// returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe() (<-chan []domain.LeaderboardEntry, func()) {
	ch := make(chan []domain.LeaderboardEntry, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast pushes a snapshot to all subscribers, dropping a stale update
// rather than blocking on a slow client.
func (h *LeaderboardHub) Broadcast(entries []domain.LeaderboardEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- entries:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- entries
		}
	}
}

type leaderboardMessage struct {
	Type    string                    `json:"type"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// leaderboardWS streams leaderboard snapshots: an initial one on connect,
// then one after every score-changing request.
func (h *Handler) leaderboardWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	initial, err := h.quiz.Leaderboard(r.Context())
	if err != nil {
		log.Printf("ws initial snapshot: %v", err)
		return
	}

	updates, cancel := h.hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain control/client frames; the feed is one-way.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(leaderboardMessage{Type: "leaderboard", Entries: initial}); err != nil {
		return
	}

	for {
		select {
		case entries, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(leaderboardMessage{Type: "leaderboard", Entries: entries}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
