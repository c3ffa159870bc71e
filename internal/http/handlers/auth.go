package handlers

import (
	"net/http"

	"github.com/nqoctai/bookstore-gateway/internal/authtoken"
	"github.com/nqoctai/bookstore-gateway/internal/backend"
	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// Login — POST /api/auth/login.
//
// Логин через шлюз: проксируем на бэкенд, при успехе ставим HttpOnly-куку
// access-токена со сроком из exp самого токена и пробрасываем Set-Cookie
// бэкенда (refresh-токен). Администраторов в витрину не пускаем: 403 и
// ни одной куки.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var body models.LoginRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	h.finishLogin(w, r, func() (*backend.Response, error) {
		return h.API.Auth.Login(r.Context(), body, backend.WithCookie(r.Header.Get("Cookie")))
	})
}

// LoginGoogle — POST /api/auth/login-google. Та же механика, что Login,
// но на вход — credential от Google OAuth.
func (h *Handlers) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var body models.LoginGoogleRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	h.finishLogin(w, r, func() (*backend.Response, error) {
		return h.API.Auth.LoginGoogle(r.Context(), body, backend.WithCookie(r.Header.Get("Cookie")))
	})
}

// finishLogin — общий хвост login/login-google: админ-гейт, разбор токена,
// установка куки, проброс ответа.
func (h *Handlers) finishLogin(w http.ResponseWriter, r *http.Request, call func() (*backend.Response, error)) {
	resp, err := call()
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	env, err := models.DecodeEnvelope[models.LoginData](resp.Payload)
	if err != nil || env.Data.AccessToken == "" {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusBadGateway,
			Message: "unexpected backend response",
		})
		return
	}

	// Витрина — только для покупателей; админ логинится в админку напрямую.
	if env.Data.Account != nil && env.Data.Account.Role == authtoken.RoleAdmin {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusForbidden,
			Message: "admin accounts cannot sign in here",
		})
		return
	}

	claims, err := authtoken.Decode(env.Data.AccessToken)
	if err != nil {
		// Токен, который нельзя разобрать, сессией не становится.
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "invalid access token",
		})
		return
	}

	forwardSetCookie(w, resp)
	h.setAccessCookie(w, env.Data.AccessToken, claims.ExpiresAt)
	writeRaw(w, resp.Status, resp.Payload)
}

// Register — POST /api/auth/register. Поле подтверждения пароля — чисто
// клиентское, на бэкенд не уходит.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.RegisterRequest
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Auth.Register(r.Context(), body.RegisterRequest, backend.WithCookie(r.Header.Get("Cookie")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// Logout — POST /api/auth/logout. Требует активной сессии; при успехе гасит
// обе куки сессии.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.cookieToken(r)
	if token == "" {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "not authenticated",
		})
		return
	}
	resp, err := h.API.Auth.Logout(r.Context(), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	h.clearSessionCookies(w)
	writeRaw(w, resp.Status, resp.Payload)
}

// RefreshToken — GET /api/auth/refresh-token: same-origin фасад refresh'а
// бэкенда. Дергается и браузером, и Refresher'ом движка. При успехе
// перевыставляет access-куку под новый exp.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Auth.Refresh(r.Context(), backend.WithCookie(r.Header.Get("Cookie")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	env, derr := models.DecodeEnvelope[models.LoginData](resp.Payload)
	if derr == nil && env.Data.AccessToken != "" {
		if claims, cerr := authtoken.Decode(env.Data.AccessToken); cerr == nil {
			forwardSetCookie(w, resp)
			h.setAccessCookie(w, env.Data.AccessToken, claims.ExpiresAt)
		} else {
			apierrors.WriteError(w, r, &apierrors.HTTPError{
				Status:  http.StatusUnauthorized,
				Message: "invalid access token",
			})
			return
		}
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// Account — GET /api/auth/account: текущий аккаунт по паре кука/bearer.
//
// Политика рассинхрона настраивается: strict требует обе копии токена,
// lenient берёт ту, что есть. Отсутствие обеих — всегда 401.
func (h *Handlers) Account(w http.ResponseWriter, r *http.Request) {
	cookieTok := h.cookieToken(r)
	headerTok := headerToken(r)

	if cookieTok == "" && headerTok == "" {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "not authenticated",
		})
		return
	}
	if h.Session.MismatchPolicy == MismatchStrict && (cookieTok == "" || headerTok == "") {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "token out of sync",
		})
		return
	}

	token := headerTok
	if token == "" {
		token = cookieTok
	}
	resp, err := h.API.Auth.Account(r.Context(),
		backend.WithBearer(token),
		backend.WithCookie(r.Header.Get("Cookie")),
	)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ForgotPassword — POST /api/auth/forgot-password.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body models.ForgotPasswordRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Auth.ForgotPassword(r.Context(), body, backend.WithCookie(r.Header.Get("Cookie")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ResetPassword — POST /api/auth/reset-password.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body models.ResetPasswordRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Auth.ResetPassword(r.Context(), body, backend.WithCookie(r.Header.Get("Cookie")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ResendCode — POST /api/auth/resend-code.
func (h *Handlers) ResendCode(w http.ResponseWriter, r *http.Request) {
	var body models.ResendCodeRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Auth.ResendCode(r.Context(), body, backend.WithCookie(r.Header.Get("Cookie")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
