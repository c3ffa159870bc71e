package ws

import (
	"context"
	"log/slog"
	"sync"
)

// Hub — реестр подписок "комната -> клиенты" и рассылка по комнатам.
// Вся работа с картами идёт в Run-горутине, снаружи — только каналы.
type Hub struct {
	rooms map[int64]map[*Client]struct{}

	register   chan subscription
	unregister chan subscription
	detach     chan *Client
	broadcast  chan roomMessage

	mu  sync.RWMutex
	log *slog.Logger
}

type subscription struct {
	roomID int64
	client *Client
}

type roomMessage struct {
	roomID  int64
	sender  *Client // nil — доставить всем, включая отправителя
	payload []byte
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		rooms:      make(map[int64]map[*Client]struct{}),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		detach:     make(chan *Client),
		broadcast:  make(chan roomMessage, 256),
		log:        log,
	}
}

// Run крутит цикл хаба до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.rooms[sub.roomID] == nil {
				h.rooms[sub.roomID] = make(map[*Client]struct{})
			}
			h.rooms[sub.roomID][sub.client] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("ws room join", "room_id", sub.roomID)

		case sub := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(sub.roomID, sub.client)
			h.mu.Unlock()

		case client := <-h.detach:
			h.mu.Lock()
			for roomID := range h.rooms {
				h.dropLocked(roomID, client)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			var stale []*Client
			for client := range h.rooms[msg.roomID] {
				if client == msg.sender {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					// переполненный клиент отстаёт — рвём соединение
					stale = append(stale, client)
				}
			}
			// Канал send не закрываем: в него пишет fail() из read-горутины.
			// Рвём соединение — насосы клиента завершатся сами.
			for _, client := range stale {
				client.closeConn()
				h.dropFromAllLocked(client)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) dropLocked(roomID int64, client *Client) {
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) dropFromAllLocked(client *Client) {
	for roomID := range h.rooms {
		h.dropLocked(roomID, client)
	}
}

// Broadcast рассылает payload подписчикам комнаты; sender пропускается.
func (h *Hub) Broadcast(roomID int64, sender *Client, payload []byte) {
	if payload == nil {
		return
	}
	h.broadcast <- roomMessage{roomID: roomID, sender: sender, payload: payload}
}

// RoomSize — число подписчиков комнаты (для /healthz-диагностики и тестов).
func (h *Hub) RoomSize(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
