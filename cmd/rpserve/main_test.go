package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, h *hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(h.serveWS))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for h.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	return conn
}

func TestBroadcastDeliversSnapshot(t *testing.T) {
	h := newHub(time.Second)
	conn := dialHub(t, h)

	h.broadcast(Snapshot{Step: 3, Bodies: []BodySnapshot{{ID: "box", Awake: true}}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Snapshot
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Step != 3 || len(got.Bodies) != 1 || got.Bodies[0].ID != "box" {
		t.Errorf("got %+v", got)
	}
}

func TestBroadcastDropsStalledClient(t *testing.T) {
	h := newHub(50 * time.Millisecond)
	dialHub(t, h) // never reads

	// Large snapshots fill the socket buffers; the write deadline then fails
	// the write instead of blocking the caller.
	snapshot := Snapshot{Bodies: make([]BodySnapshot, 4096)}

	start := time.Now()
	for i := 0; i < 1000 && h.count() > 0; i++ {
		h.broadcast(snapshot)
	}

	if h.count() != 0 {
		t.Fatalf("stalled client still registered after %v", time.Since(start))
	}
	if elapsed := time.Since(start); elapsed > 30*time.Second {
		t.Errorf("broadcast blocked for %v", elapsed)
	}
}
