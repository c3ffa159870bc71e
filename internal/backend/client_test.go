package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/tokens"
)

const testRefreshPath = "/api/auth/refresh-token"

// newTestClient — клиент поверх httptest-серверов бэкенда и собственного ориджина.
func newTestClient(t *testing.T, backendURL, selfURL string, store tokens.Store) *Client {
	t.Helper()

	return New(Config{
		BaseURL:     backendURL,
		SelfURL:     selfURL,
		RefreshPath: testRefreshPath,
		Store:       store,
		Timeout:     5 * time.Second,
		UserAgent:   "bookstore-gateway-test",
	})
}

// refreshServer — same-origin сервер с refresh-эндпойнтом.
// handler == nil — отдаёт токен token; иначе вызывается handler.
func refreshServer(t *testing.T, token string, calls *atomic.Int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != testRefreshPath {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		if handler != nil {
			handler(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 200, "message": "ok",
			"data": map[string]string{"access_token": token},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDo_Success_ParsesEnvelope(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"message":"ok","data":{"result":[]}}`))
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	resp, err := cl.Get(context.Background(), "api/v1/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.JSONEq(t, `{"status":200,"message":"ok","data":{"result":[]}}`, string(resp.Payload))
}

func TestDo_EmptyBody_YieldsEmptyObject(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	resp, err := cl.Get(context.Background(), "/api/v1/cart")
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.Status)
	require.JSONEq(t, `{}`, string(resp.Payload))
}

func TestDo_NonJSONBody_YieldsEmptyObject(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	resp, err := cl.Get(context.Background(), "/api/v1/promotions")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(resp.Payload))
}

func TestDo_JSONBody_SetsContentType(t *testing.T) {
	t.Parallel()

	var gotCT string
	var gotBody []byte
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	_, err := cl.Post(context.Background(), "/api/v1/cart/add", map[string]any{"productId": 7})
	require.NoError(t, err)
	require.Equal(t, "application/json", gotCT)
	require.JSONEq(t, `{"productId":7}`, string(gotBody))
}

func TestDo_MultipartBody_KeepsBoundaryContentType(t *testing.T) {
	t.Parallel()

	var gotCT string
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "avatar", r.FormValue("folder"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(backendSrv.Close)

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("folder", "avatar"))
	fw, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	mp := &Multipart{ContentType: mw.FormDataContentType(), Body: buf.Bytes()}

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	_, err = cl.Post(context.Background(), "/api/v1/files", mp)
	require.NoError(t, err)

	// Boundary обязан прийти от multipart.Writer, а не быть перетёртым движком.
	require.Equal(t, mw.FormDataContentType(), gotCT)
	require.Contains(t, gotCT, "multipart/form-data; boundary=")
}

func TestDo_BearerFromStore_CallerHeaderWins(t *testing.T) {
	t.Parallel()

	var gotAuth []string
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(backendSrv.Close)

	store := tokens.NewMemory()
	require.NoError(t, store.Save(context.Background(), "stored-token"))

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, store)

	_, err := cl.Get(context.Background(), "/api/v1/auth/account")
	require.NoError(t, err)

	_, err = cl.Get(context.Background(), "/api/v1/auth/account",
		WithHeader("Authorization", "Bearer caller-token"))
	require.NoError(t, err)

	require.Equal(t, []string{"Bearer stored-token", "Bearer caller-token"}, gotAuth)
}

func TestDo_BaseURLOverride_EmptyMeansSelfOrigin(t *testing.T) {
	t.Parallel()

	var selfHit atomic.Int32
	selfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		selfHit.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(selfSrv.Close)

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called with same-origin override")
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, selfSrv.URL, tokens.NewMemory())

	_, err := cl.Get(context.Background(), "/api/product", WithBaseURL(""))
	require.NoError(t, err)
	require.EqualValues(t, 1, selfHit.Load())
}

func TestDo_NonOK_ReturnsHTTPError(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate order"}`))
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	_, err := cl.Post(context.Background(), "/api/v1/order", map[string]any{})
	require.Error(t, err)

	he, ok := apierrors.AsHTTP(err)
	require.True(t, ok)
	require.Equal(t, http.StatusConflict, he.Status)
	require.Equal(t, "duplicate order", he.Message)
	require.JSONEq(t, `{"message":"duplicate order"}`, string(he.Payload))
}

func TestDo_Unauthorized_RefreshAndRetryOnce(t *testing.T) {
	t.Parallel()

	var backendCalls atomic.Int32
	var gotAuth []string
	var mu sync.Mutex

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := backendCalls.Add(1)
		mu.Lock()
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":200,"message":"ok","data":{}}`))
	}))
	t.Cleanup(backendSrv.Close)

	var refreshCalls atomic.Int32
	selfSrv := refreshServer(t, "fresh-token", &refreshCalls, nil)

	store := tokens.NewMemory()
	require.NoError(t, store.Save(context.Background(), "stale-token"))

	cl := newTestClient(t, backendSrv.URL, selfSrv.URL, store)

	resp, err := cl.Get(context.Background(), "/api/v1/order/history/1",
		WithCookie("refresh_token=rt-1"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)

	require.EqualValues(t, 2, backendCalls.Load())
	require.EqualValues(t, 1, refreshCalls.Load())
	require.Equal(t, []string{"Bearer stale-token", "Bearer fresh-token"}, gotAuth)

	// Write-through: свежий токен лёг в стор (выиграют и несвязанные вызовы).
	tok, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-token", tok)
}

func TestDo_Unauthorized_AtMostOneRetry(t *testing.T) {
	t.Parallel()

	// Бэкенд отвечает 401 всегда: после единственного retry должен быть отказ,
	// второй refresh не запускается.
	var backendCalls, refreshCalls atomic.Int32

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		backendCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"still unauthorized"}`))
	}))
	t.Cleanup(backendSrv.Close)

	selfSrv := refreshServer(t, "fresh-token", &refreshCalls, nil)

	cl := newTestClient(t, backendSrv.URL, selfSrv.URL, tokens.NewMemory())

	_, err := cl.Get(context.Background(), "/api/v1/auth/account")
	require.Error(t, err)

	he, ok := apierrors.AsHTTP(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Status)
	require.JSONEq(t, `{"message":"still unauthorized"}`, string(he.Payload))

	require.EqualValues(t, 2, backendCalls.Load())
	require.EqualValues(t, 1, refreshCalls.Load())
}

func TestDo_RefreshFailed_ClearsStore(t *testing.T) {
	t.Parallel()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	t.Cleanup(backendSrv.Close)

	var refreshCalls atomic.Int32
	selfSrv := refreshServer(t, "", &refreshCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	store := tokens.NewMemory()
	require.NoError(t, store.Save(context.Background(), "stale-token"))

	cl := newTestClient(t, backendSrv.URL, selfSrv.URL, store)

	_, err := cl.Get(context.Background(), "/api/v1/auth/account")
	require.Error(t, err)

	he, ok := apierrors.AsHTTP(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Status)
	require.JSONEq(t, `{"message":"token expired"}`, string(he.Payload))

	tok, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestDo_RefreshPathItself_NoRecursiveRefresh(t *testing.T) {
	t.Parallel()

	// 401 от самого refresh-эндпойнта не должен запускать рекурсивный refresh.
	var selfCalls atomic.Int32
	selfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, testRefreshPath, r.URL.Path)
		selfCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"refresh token revoked"}`))
	}))
	t.Cleanup(selfSrv.Close)

	cl := newTestClient(t, selfSrv.URL, selfSrv.URL, tokens.NewMemory())

	_, err := cl.Get(context.Background(), testRefreshPath, WithBaseURL(""))
	require.Error(t, err)

	he, ok := apierrors.AsHTTP(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Status)
	require.EqualValues(t, 1, selfCalls.Load())
}

func TestDo_OnSuccessHook_FiresOnlyOn2xx(t *testing.T) {
	t.Parallel()

	var status int
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != 0 {
			w.WriteHeader(status)
		}
		_, _ = w.Write([]byte(`{"message":"x"}`))
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, backendSrv.URL, tokens.NewMemory())

	var fired int
	hook := OnSuccess(func(*Response) { fired++ })

	_, err := cl.Get(context.Background(), "/api/v1/products", hook)
	require.NoError(t, err)
	require.Equal(t, 1, fired)

	status = http.StatusBadRequest
	_, err = cl.Get(context.Background(), "/api/v1/products", hook)
	require.Error(t, err)
	require.Equal(t, 1, fired)
}

func TestRefresher_SingleFlight_CoalescesConcurrentRefreshes(t *testing.T) {
	t.Parallel()

	// N одновременных 401 одной сессии дают ровно один вызов refresh-эндпойнта.
	var refreshCalls atomic.Int32
	selfSrv := refreshServer(t, "fresh-token", &refreshCalls, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"access_token": "fresh-token"},
		})
	})

	var backendCalls atomic.Int32
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		if r.Header.Get("Authorization") == "Bearer fresh-token" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	t.Cleanup(backendSrv.Close)

	cl := newTestClient(t, backendSrv.URL, selfSrv.URL, tokens.NewMemory())

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cl.Get(context.Background(),
				fmt.Sprintf("/api/v1/order/history/%d", i),
				WithCookie("refresh_token=rt-1"))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	require.EqualValues(t, 1, refreshCalls.Load())
}

func TestRefresher_DifferentSessions_NotCoalesced(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	var cookies sync.Map
	selfSrv := refreshServer(t, "", &refreshCalls, func(w http.ResponseWriter, r *http.Request) {
		cookies.Store(r.Header.Get("Cookie"), struct{}{})
		time.Sleep(30 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"access_token": "tok-" + r.Header.Get("Cookie")},
		})
	})

	cl := newTestClient(t, selfSrv.URL, selfSrv.URL, tokens.NewMemory())

	var wg sync.WaitGroup
	for _, c := range []string{"refresh_token=a", "refresh_token=b"} {
		wg.Add(1)
		go func(c string) {
			defer wg.Done()
			tok, ok := cl.refresh.Do(context.Background(), c)
			require.True(t, ok)
			require.True(t, strings.HasSuffix(tok, c))
		}(c)
	}
	wg.Wait()

	require.EqualValues(t, 2, refreshCalls.Load())
}
