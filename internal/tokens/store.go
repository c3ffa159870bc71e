// tokens — хранилище текущего access-токена для клиента бэкенда.
//
// Слот моделирует "script-readable" копию токена из исходного сторфронта:
// пишется при login/refresh, читается при сборке Authorization-заголовка,
// очищается при logout или неудачном refresh. Авторитетной копией остаётся
// HttpOnly-кука — значение из стора всегда ревалидируется через 401.
//
// Store — явная инжектируемая зависимость (не ambient-глобал): это даёт
// детерминированные тесты и изоляцию между инстансами клиента.
package tokens

import (
	"context"
	"sync"
)

// Store — контракт хранилища access-токена.
// Пустая строка от Token означает "токена нет".
type Store interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Memory — процесс-локальное хранилище под mutex.
// Последняя запись выигрывает; межпроцессной синхронизации нет.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	return nil
}
