package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func readEvent(t *testing.T, conn *websocket.Conn) LiveEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev LiveEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return ev
}

func TestAgendaHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewAgendaHub(nil, nil)
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error { return hub.Serve(c, "admin-1", 7) })
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if ev := readEvent(t, conn); ev.Type != EventHello || ev.Version != 7 {
		t.Fatalf("hello = %+v", ev)
	}
	hub.Publish(EventReservationChanged, 8, map[string]string{"id": "b1"})
	ev := readEvent(t, conn)
	if ev.Type != EventReservationChanged || ev.Version != 8 || !strings.Contains(string(ev.Payload), "b1") {
		t.Errorf("event = %+v", ev)
	}

	cancel()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open after hub stopped")
	}
}

func TestAgendaHubNilPublish(t *testing.T) {
	var hub *AgendaHub
	hub.Publish(EventAgendaRefreshed, 1, nil)
}
