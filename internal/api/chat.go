package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

const (
	pathChatRooms    = "api/v1/chat/rooms"
	pathChatMessages = "api/v1/chat/messages"
)

// ChatAPI — комнаты и сообщения поддержки.
// Realtime-доставку делает ws-релей шлюза; здесь только персистентность.
type ChatAPI struct {
	cl *backend.Client
}

func (c *ChatAPI) CreateRoom(ctx context.Context, body models.CreateChatRoomRequest, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Post(ctx, pathChatRooms, body, opts...)
}

// Rooms отдаёт все комнаты, опционально отфильтрованные по статусам.
func (c *ChatAPI) Rooms(ctx context.Context, statuses []string, opts ...backend.Option) (*backend.Response, error) {
	path := pathChatRooms
	if len(statuses) > 0 {
		path += "?status=" + url.QueryEscape(strings.Join(statuses, ","))
	}
	return c.cl.Get(ctx, path, opts...)
}

func (c *ChatAPI) MyRooms(ctx context.Context, accountID int64, statuses []string, opts ...backend.Option) (*backend.Response, error) {
	path := fmt.Sprintf("%s/my-rooms?accountId=%d", pathChatRooms, accountID)
	if len(statuses) > 0 {
		path += "&status=" + url.QueryEscape(strings.Join(statuses, ","))
	}
	return c.cl.Get(ctx, path, opts...)
}

func (c *ChatAPI) RoomByID(ctx context.Context, roomID int64, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Get(ctx, fmt.Sprintf("%s/%d", pathChatRooms, roomID), opts...)
}

func (c *ChatAPI) CloseRoom(ctx context.Context, roomID int64, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Put(ctx, fmt.Sprintf("%s/%d/close", pathChatRooms, roomID), struct{}{}, opts...)
}

func (c *ChatAPI) Messages(ctx context.Context, roomID int64, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Get(ctx, fmt.Sprintf("%s/%d/messages", pathChatRooms, roomID), opts...)
}

func (c *ChatAPI) SendMessage(ctx context.Context, body models.SendMessageRequest, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Post(ctx, pathChatMessages, body, opts...)
}

func (c *ChatAPI) MarkRead(ctx context.Context, roomID int64, senderType string, opts ...backend.Option) (*backend.Response, error) {
	path := fmt.Sprintf("%s/%d/mark-read?senderType=%s", pathChatRooms, roomID, url.QueryEscape(senderType))
	return c.cl.Put(ctx, path, struct{}{}, opts...)
}

func (c *ChatAPI) OpenRoomCount(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	return c.cl.Get(ctx, pathChatRooms+"/count/open", opts...)
}
