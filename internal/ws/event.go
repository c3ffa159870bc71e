// ws — realtime-ретранслятор чата поддержки.
//
// Браузер держит одно соединение /ws/chat; сообщения сначала
// персистятся через REST-бэкенд и только затем рассылаются подписчикам
// комнаты. Хаб — чистый ретранслятор, состояния чата он не хранит.
package ws

import "encoding/json"

// Входящие события клиента.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
	EventMarkAsRead  = "mark_as_read"
)

// Исходящие события сервера.
const (
	EventNewMessage    = "new_message"
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventUserTyping    = "user_typing"
	EventUserStopTyped = "user_stop_typing"
	EventMessagesRead  = "messages_read"
	EventError         = "error"
)

// Envelope — рамка любого события: имя + полезная нагрузка.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomRef — события, которым нужна только комната (join/leave/typing).
type RoomRef struct {
	RoomID int64 `json:"roomId"`
}

// Presence — уведомление о входе/выходе/наборе текста.
type Presence struct {
	RoomID     int64  `json:"roomId"`
	SenderType string `json:"senderType"`
	SenderName string `json:"senderName"`
}

// MarkAsRead — отметка прочтения комнаты.
type MarkAsRead struct {
	RoomID     int64  `json:"roomId"`
	SenderType string `json:"senderType"`
}

// ErrorData — событие error в сторону клиента.
type ErrorData struct {
	Message string `json:"message"`
}

func marshalEvent(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	b, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return b
}
