package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern_chat/internal/models"
	"pattern_chat/internal/services"
)

type fakeRelay struct {
	mu       sync.Mutex
	received []models.Message
	reply    models.Message
	err      error
}

func (f *fakeRelay) HandleChat(ctx context.Context, messages []models.Message) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = messages
	return f.reply, f.err
}

func newRouter(relay models.ChatRelay) *gin.Engine {
	return newRouterWithOptions(relay, WebSocketOptions{})
}

func newRouterWithOptions(relay models.ChatRelay, ws WebSocketOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(relay, ws)
	r.POST("/api/chat", h.HandleChat)
	r.GET("/api/chat/ws", h.HandleWebSocket)
	r.GET("/api/patterns", ListPatterns)
	r.GET("/health", Health)
	return r
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	relay := &fakeRelay{reply: models.Message{Role: "assistant", Content: "A saga is a sequence of local transactions."}}
	r := newRouter(relay)

	w := postChat(r, `{"messages":[{"role":"user","content":"What is the Saga pattern?"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"assistant","content":"A saga is a sequence of local transactions."}`, w.Body.String())
	assert.Equal(t, []models.Message{models.NewUserMessage("What is the Saga pattern?")}, relay.received)
}

func TestHandleChat_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		relayErr   error
		wantStatus int
		wantError  string
	}{
		{"非法JSON", `{"messages":`, nil, http.StatusBadRequest, "invalid request body"},
		{"缺少messages", `{}`, nil, http.StatusBadRequest, "invalid request body"},
		{"请求无效", `{"messages":[]}`, fmt.Errorf("%w: messages不能为空", services.ErrInvalidRequest), http.StatusBadRequest, ""},
		{"上游失败", `{"messages":[{"role":"user","content":"hi"}]}`, fmt.Errorf("%w: timeout", services.ErrUpstream), http.StatusInternalServerError, genericError},
		{"未知错误", `{"messages":[{"role":"user","content":"hi"}]}`, errors.New("boom"), http.StatusInternalServerError, genericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeRelay{err: tt.relayErr})
			w := postChat(r, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			}
		})
	}
}

func TestHandleWebSocket(t *testing.T) {
	relay := &fakeRelay{reply: models.Message{Role: "assistant", Content: "Use a Circuit Breaker."}}
	server := httptest.NewServer(newRouter(relay))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// 正常请求
	require.NoError(t, conn.WriteJSON(models.ChatRequest{Messages: []models.Message{models.NewUserMessage("How do I stop cascading failures?")}}))
	var reply models.Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, relay.reply, reply)

	// 非法帧不会关闭连接
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var errBody models.ErrorResponse
	require.NoError(t, conn.ReadJSON(&errBody))
	assert.Equal(t, "invalid request body", errBody.Error)

	// 上游失败
	relay.mu.Lock()
	relay.err = services.ErrUpstream
	relay.mu.Unlock()
	require.NoError(t, conn.WriteJSON(models.ChatRequest{Messages: []models.Message{models.NewUserMessage("again")}}))
	require.NoError(t, conn.ReadJSON(&errBody))
	assert.Equal(t, genericError, errBody.Error)
}

func dialChat(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandleWebSocket_Keepalive(t *testing.T) {
	relay := &fakeRelay{reply: models.Message{Role: "assistant", Content: "Facade hides subsystems."}}
	server := httptest.NewServer(newRouterWithOptions(relay, WebSocketOptions{
		PingPeriod: 20 * time.Millisecond,
		PongWait:   100 * time.Millisecond,
	}))
	defer server.Close()
	conn := dialChat(t, server)

	pings := make(chan struct{}, 64)
	conn.SetPingHandler(func(data string) error {
		select {
		case pings <- struct{}{}:
		default:
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	replies := make(chan models.Message)
	go func() {
		defer close(replies)
		for {
			var reply models.Message
			if err := conn.ReadJSON(&reply); err != nil {
				return
			}
			replies <- reply
		}
	}()

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("没有收到Ping")
	}

	// 响应Pong的空闲连接在超过PongWait后仍然可用
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, conn.WriteJSON(models.ChatRequest{Messages: []models.Message{models.NewUserMessage("What is a Facade?")}}))

	select {
	case reply, ok := <-replies:
		require.True(t, ok, "连接已关闭")
		assert.Equal(t, relay.reply, reply)
	case <-time.After(2 * time.Second):
		t.Fatal("没有收到回复")
	}
}

func TestHandleWebSocket_ClosesUnresponsivePeer(t *testing.T) {
	server := httptest.NewServer(newRouterWithOptions(&fakeRelay{}, WebSocketOptions{
		PingPeriod: 20 * time.Millisecond,
		PongWait:   100 * time.Millisecond,
	}))
	defer server.Close()
	conn := dialChat(t, server)

	// 不读取就不会回复Pong，服务端超时后关闭连接
	time.Sleep(300 * time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var err error
	for err == nil {
		_, _, err = conn.ReadMessage()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "服务端未关闭连接: %v", err)
	}
}

func TestListPatterns(t *testing.T) {
	r := newRouter(&fakeRelay{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/patterns", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var infos []models.PatternInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	assert.Len(t, infos, 11)
	assert.Equal(t, "Event Aggregator", infos[0].Name)
}

func TestHealth(t *testing.T) {
	r := newRouter(&fakeRelay{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
