package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
	"github.com/nqoctai/bookstore-gateway/internal/tokens"
)

func newAPI(t *testing.T, backendURL, selfURL string, store tokens.Store) *API {
	t.Helper()

	cl := backend.New(backend.Config{
		BaseURL:     backendURL,
		SelfURL:     selfURL,
		RefreshPath: "/api/auth/refresh-token",
		Store:       store,
		Timeout:     5 * time.Second,
	})
	return New(cl)
}

func TestAuthAPI_Login_WritesTokenThrough(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":200,"message":"ok","data":{"access_token":"login-token","account":{"id":1,"email":"a@b.c","role":"USER"}}}`))
	}))
	t.Cleanup(backendSrv.Close)

	store := tokens.NewMemory()
	a := newAPI(t, backendSrv.URL, backendSrv.URL, store)

	resp, err := a.Auth.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)

	env, err := models.DecodeEnvelope[models.LoginData](resp.Payload)
	require.NoError(t, err)
	require.Equal(t, "login-token", env.Data.AccessToken)
	require.Equal(t, "USER", env.Data.Account.Role)

	tok, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "login-token", tok)
}

func TestAuthAPI_Login_FailedLogin_DoesNotTouchStore(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	t.Cleanup(backendSrv.Close)

	store := tokens.NewMemory()
	require.NoError(t, store.Save(context.Background(), "old-token"))
	a := newAPI(t, backendSrv.URL, backendSrv.URL, store)

	_, err := a.Auth.Login(context.Background(), models.LoginRequest{})
	require.Error(t, err)

	tok, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "old-token", tok)
}

func TestAuthAPI_Logout_ClearsStore(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/logout", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":200,"message":"ok","data":null}`))
	}))
	t.Cleanup(backendSrv.Close)

	store := tokens.NewMemory()
	require.NoError(t, store.Save(context.Background(), "live-token"))
	a := newAPI(t, backendSrv.URL, backendSrv.URL, store)

	_, err := a.Auth.Logout(context.Background())
	require.NoError(t, err)

	tok, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestAuthAPI_Refresh_401IsTerminal(t *testing.T) {
	t.Parallel()

	// 401 от бэкенд-refresh не должен запускать self-refresh через шлюз.
	var selfCalls atomic.Int32
	selfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		selfCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(selfSrv.Close)

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/refresh", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"refresh token revoked"}`))
	}))
	t.Cleanup(backendSrv.Close)

	a := newAPI(t, backendSrv.URL, selfSrv.URL, tokens.NewMemory())

	_, err := a.Auth.Refresh(context.Background(), backend.WithCookie("refresh_token=rt"))
	require.Error(t, err)

	he, ok := apierrors.AsHTTP(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Status)
	require.EqualValues(t, 0, selfCalls.Load())
}

func TestAuthAPI_Refresh_SavesFreshToken(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "refresh_token=rt", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"status":200,"message":"ok","data":{"access_token":"fresh"}}`))
	}))
	t.Cleanup(backendSrv.Close)

	store := tokens.NewMemory()
	a := newAPI(t, backendSrv.URL, backendSrv.URL, store)

	resp, err := a.Auth.Refresh(context.Background(), backend.WithCookie("refresh_token=rt"))
	require.NoError(t, err)

	env, err := models.DecodeEnvelope[models.LoginData](resp.Payload)
	require.NoError(t, err)
	require.Equal(t, "fresh", env.Data.AccessToken)

	tok, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", tok)
}
