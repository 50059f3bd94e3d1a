package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pattern_chat/internal/models"
	"pattern_chat/internal/services"
)

// genericError 对外统一的错误信息，不区分失败原因
const genericError = "Something went wrong"

const (
	// maxFrameSize WebSocket单帧最大字节数
	maxFrameSize = 1 << 20
	// writeWait 写控制帧的超时时间
	writeWait = 10 * time.Second

	defaultPingPeriod = 30 * time.Second
	defaultPongWait   = 60 * time.Second
)

// WebSocketOptions 心跳参数，零值使用默认值
type WebSocketOptions struct {
	PingPeriod time.Duration
	PongWait   time.Duration
}

// ChatHandler 聊天转发处理器
type ChatHandler struct {
	relay    models.ChatRelay
	ws       WebSocketOptions
	upgrader websocket.Upgrader
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(relay models.ChatRelay, ws WebSocketOptions) *ChatHandler {
	if ws.PingPeriod <= 0 {
		ws.PingPeriod = defaultPingPeriod
	}
	if ws.PongWait <= 0 {
		ws.PongWait = defaultPongWait
	}
	return &ChatHandler{
		relay: relay,
		ws:    ws,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleChat 处理 POST /api/chat
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("解析聊天请求失败")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	status, body := h.relayChat(c.Request.Context(), req.Messages)
	c.JSON(status, body)
}

// HandleWebSocket 处理 GET /api/chat/ws，每个文本帧是一次独立的聊天请求
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	// 升级HTTP连接为WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("升级WebSocket连接失败")
		return
	}
	defer conn.Close()

	// 设置连接属性
	conn.SetReadLimit(maxFrameSize)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepalive(conn, done)

	for {
		// 每次读取前续期，上游调用耗时不计入心跳超时
		if err := conn.SetReadDeadline(time.Now().Add(h.ws.PongWait)); err != nil {
			return
		}
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("读取WebSocket消息失败")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var status int
		var body any
		var req models.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			status, body = http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"}
		} else {
			status, body = h.relayChat(c.Request.Context(), req.Messages)
		}

		if err := conn.WriteJSON(body); err != nil {
			logger.Warn().Err(err).Msg("发送WebSocket响应失败")
			return
		}
		logger.Debug().Int("status", status).Msg("WebSocket聊天请求完成")
	}
}

// keepalive 定期发送Ping，对端超过PongWait未响应时读取失败并关闭连接
func (h *ChatHandler) keepalive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// relayChat 转发并映射为状态码和响应体
func (h *ChatHandler) relayChat(ctx context.Context, messages []models.Message) (int, any) {
	reply, err := h.relay.HandleChat(ctx, messages)
	switch {
	case err == nil:
		return http.StatusOK, reply
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, models.ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: genericError}
	}
}
