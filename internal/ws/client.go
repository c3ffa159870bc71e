package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// ChatService — персистентная часть чата; сообщения проходят через неё
// до рассылки. Реализуется api.ChatAPI.
type ChatService interface {
	SendMessage(ctx context.Context, body models.SendMessageRequest, opts ...backend.Option) (*backend.Response, error)
	MarkRead(ctx context.Context, roomID int64, senderType string, opts ...backend.Option) (*backend.Response, error)
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 10
)

// Client — одно websocket-соединение браузера.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	chat ChatService
	// опции проксирования в REST-бэкенд (bearer + куки исходного запроса)
	opts []backend.Option

	senderType string
	senderName string
	senderID   int64

	log *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, chat ChatService, senderID int64, senderType, senderName string, opts []backend.Option, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 64),
		chat:       chat,
		opts:       opts,
		senderType: senderType,
		senderName: senderName,
		senderID:   senderID,
		log:        log,
	}
}

// ReadPump читает события соединения до его закрытия; блокирует вызвавшего.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.detach <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read", "error", err)
			}
			return
		}
		c.dispatch(ctx, raw)
	}
}

// WritePump пишет исходящие события и ping'и; запускается горутиной.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) dispatch(ctx context.Context, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.fail("invalid event")
		return
	}

	switch env.Event {
	case EventJoinRoom:
		var ref RoomRef
		if err := json.Unmarshal(env.Data, &ref); err != nil || ref.RoomID <= 0 {
			c.fail("invalid roomId")
			return
		}
		c.hub.register <- subscription{roomID: ref.RoomID, client: c}
		c.hub.Broadcast(ref.RoomID, c, marshalEvent(EventUserJoined, c.presence(ref.RoomID)))

	case EventLeaveRoom:
		var ref RoomRef
		if err := json.Unmarshal(env.Data, &ref); err != nil || ref.RoomID <= 0 {
			c.fail("invalid roomId")
			return
		}
		c.hub.unregister <- subscription{roomID: ref.RoomID, client: c}
		c.hub.Broadcast(ref.RoomID, c, marshalEvent(EventUserLeft, c.presence(ref.RoomID)))

	case EventSendMessage:
		c.sendMessage(ctx, env.Data)

	case EventTyping:
		c.relayPresence(env.Data, EventUserTyping)

	case EventStopTyping:
		c.relayPresence(env.Data, EventUserStopTyped)

	case EventMarkAsRead:
		c.markAsRead(ctx, env.Data)

	default:
		c.fail("unknown event")
	}
}

// sendMessage персистит сообщение через бэкенд и лишь затем рассылает
// new_message всем в комнате (включая отправителя — это его ack).
func (c *Client) sendMessage(ctx context.Context, data json.RawMessage) {
	var body models.SendMessageRequest
	if err := json.Unmarshal(data, &body); err != nil || body.RoomID <= 0 {
		c.fail("invalid message")
		return
	}
	body.SenderType = c.senderType
	body.SenderID = c.senderID
	body.SenderName = c.senderName
	if body.MessageType == "" {
		body.MessageType = "TEXT"
	}

	resp, err := c.chat.SendMessage(ctx, body, c.opts...)
	if err != nil {
		c.log.Warn("ws send message", "room_id", body.RoomID, "error", err)
		c.fail("message not delivered")
		return
	}

	var env models.Envelope[models.ChatMessage]
	if err := json.Unmarshal(resp.Payload, &env); err != nil {
		c.fail("message not delivered")
		return
	}
	c.hub.Broadcast(body.RoomID, nil, marshalEvent(EventNewMessage, env.Data))
}

func (c *Client) markAsRead(ctx context.Context, data json.RawMessage) {
	var mark MarkAsRead
	if err := json.Unmarshal(data, &mark); err != nil || mark.RoomID <= 0 {
		c.fail("invalid roomId")
		return
	}
	if mark.SenderType == "" {
		mark.SenderType = c.senderType
	}

	if _, err := c.chat.MarkRead(ctx, mark.RoomID, mark.SenderType, c.opts...); err != nil {
		c.log.Warn("ws mark read", "room_id", mark.RoomID, "error", err)
		c.fail("mark as read failed")
		return
	}
	c.hub.Broadcast(mark.RoomID, c, marshalEvent(EventMessagesRead, mark))
}

func (c *Client) relayPresence(data json.RawMessage, event string) {
	var ref RoomRef
	if err := json.Unmarshal(data, &ref); err != nil || ref.RoomID <= 0 {
		c.fail("invalid roomId")
		return
	}
	c.hub.Broadcast(ref.RoomID, c, marshalEvent(event, c.presence(ref.RoomID)))
}

func (c *Client) presence(roomID int64) Presence {
	return Presence{RoomID: roomID, SenderType: c.senderType, SenderName: c.senderName}
}

// closeConn рвёт соединение отставшего клиента (вызывается хабом).
func (c *Client) closeConn() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// fail шлёт событие error только этому клиенту.
func (c *Client) fail(message string) {
	select {
	case c.send <- marshalEvent(EventError, ErrorData{Message: message}):
	default:
	}
}
