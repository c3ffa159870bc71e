package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nqoctai/bookstore-gateway/internal/models"
	logctx "github.com/nqoctai/bookstore-gateway/pkg/log"
)

// SessionGate — пред-навигационная проверка сессии для страничных маршрутов.
//
// Классификация пути по двум спискам префиксов:
//   - private: требуется логин, без аккаунта — редирект на login;
//   - guest-only: требуется отсутствие логина, с аккаунтом — редирект на home;
//   - всё остальное (включая /contact) — публично, lookup не выполняется.
//
// Аккаунт определяется отдельным lookup'ом через резолвер с пробросом
// кук и bearer-заголовка входящего запроса; любой отказ lookup'а
// трактуется как "аккаунта нет".

// AccountResolver определяет текущий аккаунт по креденшалам запроса.
// (nil, nil) — аккаунта нет; ошибка также трактуется как его отсутствие.
type AccountResolver interface {
	Resolve(ctx context.Context, cookie, bearer string) (*models.Account, error)
}

// GateConfig — классификация маршрутов и цели редиректов.
type GateConfig struct {
	PrivatePrefixes   []string
	GuestOnlyPrefixes []string
	LoginPath         string
	HomePath          string
}

// DefaultGateConfig — списки сторфронта: приватны история/заказ/корзина,
// guest-only — login/register. /contact публичен.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		PrivatePrefixes:   []string{"/history", "/order", "/cart"},
		GuestOnlyPrefixes: []string{"/login", "/register"},
		LoginPath:         "/login",
		HomePath:          "/",
	}
}

// SessionGate собирает мидлвар по конфигурации и резолверу.
func SessionGate(cfg GateConfig, resolver AccountResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			private := hasPrefix(r.URL.Path, cfg.PrivatePrefixes)
			guestOnly := hasPrefix(r.URL.Path, cfg.GuestOnlyPrefixes)

			// Неклассифицированный путь — без lookup'а.
			if !private && !guestOnly {
				next.ServeHTTP(w, r)
				return
			}

			account := resolve(r, resolver)

			switch {
			case private && account == nil:
				http.Redirect(w, r, cfg.LoginPath, http.StatusFound)
			case guestOnly && account != nil:
				http.Redirect(w, r, cfg.HomePath, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func resolve(r *http.Request, resolver AccountResolver) *models.Account {
	// Bearer собираем из access_token-куки, как и исходный запрос браузера.
	var bearer string
	if c, err := r.Cookie("access_token"); err == nil {
		bearer = c.Value
	}

	account, err := resolver.Resolve(r.Context(), r.Header.Get("Cookie"), bearer)
	if err != nil {
		logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelWarn, "session_lookup_failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		return nil
	}

	return account
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// HTTPAccountResolver выполняет lookup через собственный account-роут шлюза,
// пробрасывая Cookie и Authorization входящего запроса.
type HTTPAccountResolver struct {
	url   string // абсолютный URL /api/auth/account
	httpc *http.Client
}

func NewHTTPAccountResolver(accountURL string, timeout time.Duration) *HTTPAccountResolver {
	return &HTTPAccountResolver{
		url:   accountURL,
		httpc: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPAccountResolver) Resolve(ctx context.Context, cookie, bearer string) (*models.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, err
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := h.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Не-OK (401 и т.п.) — просто нет аккаунта, не ошибка.
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data models.AccountData `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	return env.Data.Account, nil
}
