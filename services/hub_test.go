package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	go hub.Run()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, r.URL.Query().Get("quiz"), "user-1")
	}))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, quizID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?quiz=" + quizID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDeliversAttemptsToQuizSubscribers(t *testing.T) {
	hub, srv := startHub(t)

	follower := dial(t, srv, "quiz-1")
	other := dial(t, srv, "quiz-2")
	require.Eventually(t, func() bool {
		return hub.Subscribers("quiz-1") == 1 && hub.Subscribers("quiz-2") == 1
	}, time.Second, 10*time.Millisecond)

	hub.AttemptSubmitted("quiz-1", AttemptEvent{AttemptID: "a1", User: "bob", Score: 3, TotalQuestions: 5})

	_ = follower.SetReadDeadline(time.Now().Add(time.Second))
	var msg struct {
		Type    string       `json:"type"`
		Payload AttemptEvent `json:"payload"`
	}
	require.NoError(t, follower.ReadJSON(&msg))
	assert.Equal(t, "attempt_submitted", msg.Type)
	assert.Equal(t, AttemptEvent{AttemptID: "a1", User: "bob", Score: 3, TotalQuestions: 5}, msg.Payload)

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "subscribers of another quiz receive nothing")
}

func TestHubAnswersPing(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "quiz-1")
	require.Eventually(t, func() bool { return hub.Subscribers("quiz-1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "quiz-1")
	require.Eventually(t, func() bool { return hub.Subscribers("quiz-1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers("quiz-1") == 0 }, time.Second, 10*time.Millisecond)
}
