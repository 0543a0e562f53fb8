package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"aegis/internal/logging"
)

func TestHubBroadcastsToClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(logging.Discard())
	go hub.Run()
	defer hub.Stop()

	r := gin.New()
	r.GET("/ws", hub.HandleWebSocket())
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.GetClientCount() != 1 {
		t.Fatalf("expected one registered client, got %d", hub.GetClientCount())
	}

	hub.Broadcast([]byte(`{"type":"status"}`))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"type":"status"}` {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHubBroadcastAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(logging.Discard())
	hub.Stop()
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastQueue*2; i++ {
			hub.Broadcast([]byte("x"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Broadcast blocked on a stopped hub")
	}
}
