package ws

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin гарантирует фронтовый прокси, сюда приходит уже свой ориджин
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler — апгрейд /ws/chat и запуск насосов клиента.
type Handler struct {
	hub  *Hub
	chat ChatService
	log  *slog.Logger
}

func NewHandler(hub *Hub, chat ChatService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{hub: hub, chat: chat, log: log}
}

// ServeHTTP — GET /ws/chat?accountId=..&senderName=..&senderType=..
// Требует access_token-куку: анонимных соединений ретранслятор не держит.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("access_token")
	if err != nil || cookie.Value == "" {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "not authenticated",
		})
		return
	}

	accountID, err := strconv.ParseInt(r.URL.Query().Get("accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "invalid accountId",
		})
		return
	}

	senderType := r.URL.Query().Get("senderType")
	if senderType == "" {
		senderType = "CUSTOMER"
	}
	senderName := r.URL.Query().Get("senderName")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade", "error", err)
		return
	}

	opts := []backend.Option{
		backend.WithBearer(cookie.Value),
		backend.WithCookie(r.Header.Get("Cookie")),
	}
	client := NewClient(h.hub, conn, h.chat, accountID, senderType, senderName, opts, h.log)

	go client.WritePump()
	// контекст соединения живёт дольше запроса апгрейда
	client.ReadPump(r.Context())
}
