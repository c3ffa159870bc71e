// handlers — прокси-роуты шлюза: 1:1 к ресурсам бэкенда.
// Каждый хендлер читает access_token-куку, зовёт соответствующий API-модуль
// с явным bearer и пробросом кук, и отдаёт тело бэкенда с его же статусом.
// Ошибки нормализуются через apierrors.WriteError — наружу не уходит ни одна
// "сырая" 500-я страница.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nqoctai/bookstore-gateway/internal/api"
	"github.com/nqoctai/bookstore-gateway/internal/backend"
	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
)

// MismatchPolicy — поведение account-роута при частичном наличии токенов
// (кука есть, bearer нет — или наоборот).
//
//   - strict: частичное наличие — 401 "token out of sync"; снижает риск
//     переиспользования рассинхронизированного токена, но даёт ложные
//     разлогины при потере одной из копий;
//   - lenient: берём ту копию, что есть; меньше ложных разлогинов,
//     рассинхрон чинится обычным 401-refresh'ем.
type MismatchPolicy string

const (
	MismatchStrict  MismatchPolicy = "strict"
	MismatchLenient MismatchPolicy = "lenient"
)

// SessionConfig — кука сессии и политика рассинхрона.
type SessionConfig struct {
	CookieSecure   bool
	MismatchPolicy MismatchPolicy
}

// Handlers агрегирует зависимости (API-модули, параметры сессии).
type Handlers struct {
	API     *api.API
	Session SessionConfig
}

func New(a *api.API, session SessionConfig) *Handlers {
	if session.MismatchPolicy == "" {
		session.MismatchPolicy = MismatchLenient
	}
	return &Handlers{API: a, Session: session}
}

const accessTokenCookie = "access_token"

// writeRaw — проброс тела бэкенда как есть (статус бэкенда сохраняется).
func writeRaw(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errInvalidBody — локальная ошибка парсинга тела -> 400.
func errInvalidBody() error {
	return &apierrors.HTTPError{Status: http.StatusBadRequest, Message: "invalid request body"}
}

// cookieToken — значение access_token-куки ("" — куки нет).
func (h *Handlers) cookieToken(r *http.Request) string {
	c, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// headerToken — bearer из Authorization ("" — заголовка нет).
func headerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// proxyOpts — стандартный набор опций серверного прокси-вызова.
// Bearer задаётся всегда явно (даже пустым): общий стор клиента — слот
// одной сессии, в мультисессионном прокси он читаться не должен.
func (h *Handlers) proxyOpts(r *http.Request) []backend.Option {
	return []backend.Option{
		backend.WithBearer(h.cookieToken(r)),
		backend.WithCookie(r.Header.Get("Cookie")),
	}
}

// setAccessCookie выставляет HttpOnly-куку access-токена со сроком из exp.
func (h *Handlers) setAccessCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// clearSessionCookies гасит обе куки сессии (Max-Age=0).
func (h *Handlers) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, "refresh_token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   h.Session.CookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// forwardSetCookie пробрасывает Set-Cookie бэкенда (refresh-токен) как есть.
func forwardSetCookie(w http.ResponseWriter, resp *backend.Response) {
	for _, sc := range resp.Header.Values("Set-Cookie") {
		w.Header().Add("Set-Cookie", sc)
	}
}
