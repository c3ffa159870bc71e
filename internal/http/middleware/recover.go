package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	logctx "github.com/nqoctai/bookstore-gateway/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500/{message} и пишет
// унифицированный ответ. Детали паники не утекают на клиент — прокси-слой
// никогда не отдаёт "сырую" 500-ю страницу.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					// Безопасно логируем факт паники; детали наружу не отдаем.
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					apierrors.WriteError(w, r, fmt.Errorf("internal"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
