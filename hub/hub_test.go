package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func dial(t *testing.T, h *Hub, room string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(h, conn, room)
		if !h.Join(client) {
			_ = conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestYearRoom(t *testing.T) {
	assert.Equal(t, "year_2025", YearRoom(2025))
}

func TestBroadcastReachesOnlyTheRoom(t *testing.T) {
	h := startHub(t)
	subscriber := dial(t, h, YearRoom(2025))
	other := dial(t, h, YearRoom(2024))

	require.Eventually(t, func() bool {
		return h.RoomSize(YearRoom(2025)) == 1 && h.RoomSize(YearRoom(2024)) == 1
	}, time.Second, 10*time.Millisecond)

	h.BroadcastToRoom(YearRoom(2025), Message{Type: MessageResultRecorded, Payload: map[string]string{"game_id": "east-r64-1"}})

	require.NoError(t, subscriber.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := subscriber.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string            `json:"type"`
		Room    string            `json:"room"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageResultRecorded, msg.Type)
	assert.Equal(t, "year_2025", msg.Room)
	assert.Equal(t, "east-r64-1", msg.Payload["game_id"])

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestDisconnectLeavesRoom(t *testing.T) {
	h := startHub(t)
	conn := dial(t, h, YearRoom(2025))

	require.Eventually(t, func() bool { return h.RoomSize(YearRoom(2025)) == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.RoomSize(YearRoom(2025)) == 0 }, time.Second, 10*time.Millisecond)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	h := startHub(t)
	assert.NotPanics(t, func() {
		h.BroadcastToRoom(YearRoom(1999), Message{Type: MessageStandings})
	})
}

func TestJoinAfterShutdown(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	joined := make(chan bool, 1)
	go func() { joined <- h.Join(NewClient(h, nil, YearRoom(2025))) }()
	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Join blocked on a stopped hub")
	}
	assert.Zero(t, h.RoomSize(YearRoom(2025)))
}
