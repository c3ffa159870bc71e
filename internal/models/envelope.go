// Модели под REST-конверт бэкенда: {status, message, data, error}.
package models

import "encoding/json"

// Envelope — типизированный конверт ответа бэкенда.
type Envelope[T any] struct {
	Status  int     `json:"status"`
	Message string  `json:"message"`
	Data    T       `json:"data"`
	Error   *string `json:"error,omitempty"`
}

// DecodeEnvelope разбирает сырое тело ответа в типизированный конверт.
// Пустое тело (204 и т.п.) даёт нулевой конверт без ошибки.
func DecodeEnvelope[T any](raw json.RawMessage) (Envelope[T], error) {
	var env Envelope[T]
	if len(raw) == 0 {
		return env, nil
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return env, err
	}

	return env, nil
}
