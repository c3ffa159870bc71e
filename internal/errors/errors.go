// errors стандартизирует ответы об ошибках HTTP-слоя шлюза.
// На вход он принимает ошибку (обычно *HTTPError от бэкенд-клиента),
// а на выход даёт:
//   - исходный HTTP-статус бэкенда;
//   - тело ошибки бэкенда как есть, либо безопасное message без утечки деталей.
//
// Источник истинности по формату: конверт бэкенда {status, message, data, error}.
// Прокси обязан сохранять статус бэкенда и никогда не отдавать "сырую"
// 500-ю страницу — любая неизвестная ошибка конвертируется в {message}/500.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError — единая ошибка не-2xx ответа после исчерпания retry-политики.
// Status — исходный HTTP-статус; Payload — тело ответа как есть (может быть
// пустым); Message — описание из поля message тела, либо generic fallback.
//
// Тип не различает "бизнес-ошибку" и "транспортную" — вызывающие ветвятся по Status.
type HTTPError struct {
	Status  int
	Payload json.RawMessage
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// New собирает HTTPError из статуса и тела ответа.
// Message берём из поля message тела; если его нет — generic fallback.
func New(status int, payload json.RawMessage) *HTTPError {
	msg := "request failed"

	if len(payload) > 0 {
		var probe struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload, &probe); err == nil && probe.Message != "" {
			msg = probe.Message
		}
	}

	return &HTTPError{Status: status, Payload: payload, Message: msg}
}

// AsHTTP извлекает *HTTPError из цепочки ошибок.
func AsHTTP(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}

	return nil, false
}

// ErrorResponse — тело ответа, когда нечего пробросить от бэкенда.
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError — хелпер для HTTP-хендлеров.
// Поведение:
//   - err — *HTTPError с непустым Payload: пробрасываем тело бэкенда как есть
//     с его исходным статусом;
//   - err — *HTTPError без Payload: {message} с его статусом;
//   - прочее (в т.ч. nil — программная ошибка вызова): 500/{message:"internal error"},
//     детали наружу не утекают.
//
// request_id прокидывается из X-Request-Id, чтобы фронт мог репортить баги с привязкой.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	he, ok := AsHTTP(err)
	if !ok {
		writeMessage(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if len(he.Payload) > 0 {
		w.WriteHeader(he.Status)
		_, _ = w.Write(he.Payload)
		return
	}

	writeMessage(w, r, he.Status, he.Message)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	resp := ErrorResponse{Message: msg}
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.RequestID = rid
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
