package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// REST-часть чата поддержки; realtime-обмен идёт через /ws/chat (internal/ws).

// CreateChatRoom — POST /api/chat/rooms.
func (h *Handlers) CreateChatRoom(w http.ResponseWriter, r *http.Request) {
	var body models.CreateChatRoomRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Chat.CreateRoom(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ChatRooms — GET /api/chat/rooms?status=... (фильтр повторяемый).
func (h *Handlers) ChatRooms(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Chat.Rooms(r.Context(), r.URL.Query()["status"], h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// MyChatRooms — GET /api/chat/rooms/my/{id}?status=...
func (h *Handlers) MyChatRooms(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Chat.MyRooms(r.Context(), accountID, r.URL.Query()["status"], h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ChatRoomByID — GET /api/chat/rooms/{id}.
func (h *Handlers) ChatRoomByID(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Chat.RoomByID(r.Context(), roomID, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// CloseChatRoom — PUT /api/chat/rooms/{id}/close.
func (h *Handlers) CloseChatRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Chat.CloseRoom(r.Context(), roomID, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ChatMessages — GET /api/chat/rooms/{id}/messages.
func (h *Handlers) ChatMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Chat.Messages(r.Context(), roomID, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// SendChatMessage — POST /api/chat/messages.
func (h *Handlers) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var body models.SendMessageRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Chat.SendMessage(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// MarkChatRead — PUT /api/chat/rooms/{id}/read?senderType=CUSTOMER|EMPLOYEE.
func (h *Handlers) MarkChatRead(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Chat.MarkRead(r.Context(), roomID, r.URL.Query().Get("senderType"), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// OpenChatRoomCount — GET /api/chat/rooms/count.
func (h *Handlers) OpenChatRoomCount(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Chat.OpenRoomCount(r.Context(), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
