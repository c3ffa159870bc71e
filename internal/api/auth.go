package api

import (
	"context"
	"encoding/json"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// Канонические пути auth-ресурса бэкенда.
const (
	pathRegister       = "api/v1/auth/register"
	pathLogin          = "api/v1/auth/login"
	pathLoginGoogle    = "api/v1/auth/loginWithGoogle"
	pathLogout         = "api/v1/auth/logout"
	pathRefresh        = "api/v1/auth/refresh"
	pathAccount        = "api/v1/auth/account"
	pathForgotPassword = "api/v1/auth/forgot-password"
	pathResetPassword  = "api/v1/auth/reset-password"
	pathResendCode     = "api/v1/auth/resend-code"
)

// AuthAPI — операции аутентификации.
//
// Side-эффекты токена объявлены здесь, а не в движке: login/login-google
// вешают OnSuccess-хук записи access-токена в стор, logout — хук очистки.
// Движок путей не инспектирует.
type AuthAPI struct {
	cl *backend.Client
}

// saveTokenHook — write-through access-токена из data.access_token в стор.
func (a *AuthAPI) saveTokenHook(ctx context.Context) backend.Option {
	return backend.OnSuccess(func(resp *backend.Response) {
		var env struct {
			Data struct {
				AccessToken string `json:"access_token"`
			} `json:"data"`
		}
		if err := json.Unmarshal(resp.Payload, &env); err != nil || env.Data.AccessToken == "" {
			return
		}
		_ = a.cl.Store().Save(ctx, env.Data.AccessToken)
	})
}

func (a *AuthAPI) clearTokenHook(ctx context.Context) backend.Option {
	return backend.OnSuccess(func(*backend.Response) {
		_ = a.cl.Store().Clear(ctx)
	})
}

func (a *AuthAPI) Register(ctx context.Context, body models.RegisterRequest, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Post(ctx, pathRegister, body, opts...)
}

func (a *AuthAPI) Login(ctx context.Context, body models.LoginRequest, opts ...backend.Option) (*backend.Response, error) {
	opts = append(opts, a.saveTokenHook(ctx))
	return a.cl.Post(ctx, pathLogin, body, opts...)
}

func (a *AuthAPI) LoginGoogle(ctx context.Context, body models.LoginGoogleRequest, opts ...backend.Option) (*backend.Response, error) {
	opts = append(opts, a.saveTokenHook(ctx))
	return a.cl.Post(ctx, pathLoginGoogle, body, opts...)
}

func (a *AuthAPI) Logout(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	opts = append(opts, a.clearTokenHook(ctx))
	return a.cl.Post(ctx, pathLogout, struct{}{}, opts...)
}

// Refresh зовёт refresh-эндпойнт бэкенда по refresh-куке.
// Вызов помечен WithoutRefresh: 401 здесь терминален, иначе движок
// зациклился бы через собственный same-origin refresh-роут.
func (a *AuthAPI) Refresh(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	opts = append(opts, backend.WithoutRefresh(), a.saveTokenHook(ctx))
	return a.cl.Get(ctx, pathRefresh, opts...)
}

func (a *AuthAPI) Account(ctx context.Context, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Get(ctx, pathAccount, opts...)
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, body models.ForgotPasswordRequest, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Post(ctx, pathForgotPassword, body, opts...)
}

func (a *AuthAPI) ResetPassword(ctx context.Context, body models.ResetPasswordRequest, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Post(ctx, pathResetPassword, body, opts...)
}

func (a *AuthAPI) ResendCode(ctx context.Context, body models.ResendCodeRequest, opts ...backend.Option) (*backend.Response, error) {
	return a.cl.Post(ctx, pathResendCode, body, opts...)
}
