package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/nqoctai/bookstore-gateway/internal/tokens"
)

// Refresher обновляет access-токен по ambient refresh-куке.
//
// Контракт: фиксированный same-origin эндпойнт, куки пробрасываются,
// новый токен ожидается в data.access_token конверта. Любой отказ
// (сеть, не-2xx, токена нет в теле) — "токена нет", не ошибка:
// вызывающий обязан трактовать это как принудительную переаутентификацию.
//
// Конкурентные refresh'ы схлопываются в один in-flight вызов (singleflight):
// N одновременных 401 дают один запрос к refresh-эндпойнту, результат
// раздаётся всем ожидающим.
type Refresher struct {
	url   string // абсолютный URL refresh-эндпойнта
	path  string // нормализованный относительный путь (защита от рекурсии)
	httpc *http.Client
	store tokens.Store
	group singleflight.Group
	log   *slog.Logger
}

func newRefresher(url, path string, httpc *http.Client, store tokens.Store, logger *slog.Logger) *Refresher {
	return &Refresher{
		url:   url,
		path:  normalizePath(path),
		httpc: httpc,
		store: store,
		log:   logger,
	}
}

// Path — нормализованный относительный путь refresh-эндпойнта.
// Клиент сверяет с ним путь 401-ответа, чтобы refresh не зациклился сам на себе.
func (r *Refresher) Path() string { return r.path }

// Do возвращает новый access-токен либо ("", false).
// Ключ singleflight — кука запроса: refresh'ы разных сессий не смешиваются,
// повторные в рамках одной сессии ждут общий результат.
func (r *Refresher) Do(ctx context.Context, cookie string) (string, bool) {
	v, err, _ := r.group.Do(cookie, func() (any, error) {
		return r.fetch(ctx, cookie), nil
	})
	if err != nil {
		return "", false
	}

	token, _ := v.(string)
	return token, token != ""
}

func (r *Refresher) fetch(ctx context.Context, cookie string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return ""
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		r.log.Warn("token_refresh_failed", slog.String("err", err.Error()))
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Warn("token_refresh_rejected", slog.Int("status", resp.StatusCode))
		return ""
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	var env struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || env.Data.AccessToken == "" {
		return ""
	}

	// Сохраняем сразу: параллельные несвязанные вызовы тоже получат свежий токен.
	if err := r.store.Save(ctx, env.Data.AccessToken); err != nil {
		r.log.Warn("token_store_save_failed", slog.String("err", err.Error()))
	}

	return env.Data.AccessToken
}
