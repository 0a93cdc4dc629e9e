package http

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLeaderboardFeed(t *testing.T) {
	server, _ := newTestServer(t, 20)
	browser := newBrowser(t)

	postForm(t, browser, server.URL+"/register", url.Values{
		"email":    {"bob@example.com"},
		"username": {"bob"},
		"password": {"rahasia"},
		"confirm":  {"rahasia"},
	})
	postForm(t, browser, server.URL+"/login", url.Values{
		"email_or_username": {"bob"},
		"password":          {"rahasia"},
	})

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/leaderboard/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg leaderboardMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("unexpected message type %q", msg.Type)
	}
	if len(msg.Entries) != 1 || msg.Entries[0].Username != "bob" || msg.Entries[0].TotalScore != 0 {
		t.Fatalf("unexpected initial entries %+v", msg.Entries)
	}

	// A correct answer pushes a fresh snapshot to the feed.
	postForm(t, browser, server.URL+"/quiz", url.Values{
		"question_id": {"1"},
		"option_id":   {"11"},
	})

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if len(msg.Entries) != 1 || msg.Entries[0].TotalScore != 1 {
		t.Fatalf("expected bob with score 1, got %+v", msg.Entries)
	}
}
