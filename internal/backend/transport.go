// transport — обвязка исходящих HTTP-вызовов к бэкенду: метаданные и логирование.
package backend

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nqoctai/bookstore-gateway/pkg/log"
)

type CtxKey string

const (
	CtxRequestID CtxKey = "request_id"
	CtxAuthToken CtxKey = "auth_token"
)

// newTransport собирает цепочку RoundTripper'ов: metadata -> logging -> base.
func newTransport(base http.RoundTripper, userAgent string, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &metadataTransport{
		userAgent: userAgent,
		next: &loggingTransport{
			log:  logger,
			next: base,
		},
	}
}

// metadataTransport добавляет в исходящий вызов заголовки:
//   - X-Request-Id (если есть в контексте и ещё не выставлен);
//   - Authorization: Bearer <token> (если есть в контексте и ещё не выставлен);
//   - User-Agent (если передан при сборке).
//
// Явно выставленные вызывающим заголовки не перекрываются.
type metadataTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *metadataTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if req.Header.Get("X-Request-Id") == "" {
		if v := ctx.Value(CtxRequestID); v != nil {
			if rid, _ := v.(string); rid != "" {
				req.Header.Set("X-Request-Id", rid)
			}
		}
	}
	if req.Header.Get("Authorization") == "" {
		if v := ctx.Value(CtxAuthToken); v != nil {
			if tok, _ := v.(string); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}
	}
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	return t.next.RoundTrip(req)
}

// loggingTransport — логирование исходящих вызовов.
// Поведение:
//   - вытягивает X-Request-Id из запроса (или генерирует новый и добавляет);
//   - добавляет поля method/host, прокладывает обогащённый логгер в контекст (pkg/log);
//   - пишет одну финальную запись уровня Info: msg="http_out", status, dur.
//
// Безопасность: не логирует тело и чувствительные заголовки.
type loggingTransport struct {
	log  *slog.Logger
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.log
	if base == nil {
		base = slog.Default()
	}

	start := time.Now()

	rid := req.Header.Get("X-Request-Id")
	if rid == "" {
		rid = uuid.NewString()
		req.Header.Set("X-Request-Id", rid)
	}

	l := base.With(
		slog.String("request_id", rid),
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
	)
	req = req.WithContext(log.Into(req.Context(), l))

	resp, err := t.next.RoundTrip(req)

	attrs := []slog.Attr{slog.Duration("dur", time.Since(start))}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	} else {
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	}
	l.LogAttrs(req.Context(), slog.LevelInfo, "http_out", attrs...)

	return resp, err
}
