// backend — HTTP-клиент бэкенда с прозрачным refresh access-токена.
//
// Единый контракт для всех вызывающих: метод + относительный путь + тело +
// опции. На 401 клиент один раз обновляет токен через Refresher и повторяет
// исходный запрос; второй 401 (или 401 самого refresh-пути) — терминальный.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/tokens"
)

// Response — результат успешного вызова.
// Header возвращается, чтобы серверные вызывающие могли пробросить Set-Cookie.
type Response struct {
	Status  int
	Payload json.RawMessage
	Header  http.Header
}

// Multipart — тело multipart/form-data.
// ContentType берётся у mime/multipart.Writer (несёт boundary);
// клиент никогда не подменяет его своим. Байты храним целиком,
// чтобы retry после refresh мог переотправить тело.
type Multipart struct {
	ContentType string
	Body        []byte
}

// Client — движок запросов к бэкенду.
type Client struct {
	baseURL string // ориджин бэкенда, без завершающего "/"
	selfURL string // собственный ориджин шлюза (baseURL-override "")
	httpc   *http.Client
	store   tokens.Store
	refresh *Refresher
	log     *slog.Logger
}

// Config — параметры сборки клиента.
type Config struct {
	// BaseURL — ориджин бэкенда (например, "http://api.internal:8080").
	BaseURL string
	// SelfURL — ориджин самого шлюза; на него уходят вызовы с override "".
	SelfURL string
	// RefreshPath — same-origin путь refresh-эндпойнта.
	RefreshPath string
	// Store — хранилище access-токена (инжектируется).
	Store tokens.Store
	// Timeout — таймаут одного вызова; 0 — без таймаута.
	Timeout time.Duration
	// UserAgent — для исходящих вызовов.
	UserAgent string
	Logger    *slog.Logger
}

// New собирает клиент с цепочкой транспортов (metadata -> logging).
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := cfg.Store
	if store == nil {
		store = tokens.NewMemory()
	}

	httpc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: newTransport(nil, cfg.UserAgent, logger),
	}

	refreshURL := strings.TrimRight(cfg.SelfURL, "/") + "/" + normalizePath(cfg.RefreshPath)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		selfURL: strings.TrimRight(cfg.SelfURL, "/"),
		httpc:   httpc,
		store:   store,
		refresh: newRefresher(refreshURL, cfg.RefreshPath, httpc, store, logger),
		log:     logger,
	}
}

// Store отдаёт хранилище токена (нужно API-модулям для хуков записи).
func (c *Client) Store() tokens.Store { return c.store }

// callOptions — переопределения одного вызова.
type callOptions struct {
	headers   http.Header
	baseURL   *string // nil — бэкенд; "" — same-origin (selfURL); иначе — явный ориджин
	cookie    string
	bearer    *string // nil — взять из Store; иначе — явный токен ("" = без заголовка)
	noRefresh bool
	onSuccess []func(*Response)
}

type Option func(*callOptions)

// WithHeader добавляет/перекрывает заголовок вызова (вызывающий выигрывает).
func WithHeader(key, value string) Option {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Set(key, value)
	}
}

// WithBaseURL переопределяет базовый URL: "" означает same-origin (шлюз).
func WithBaseURL(base string) Option {
	return func(o *callOptions) { o.baseURL = &base }
}

// WithCookie пробрасывает сырой Cookie-заголовок входящего запроса
// (серверный аналог credentials: include).
func WithCookie(cookie string) Option {
	return func(o *callOptions) { o.cookie = cookie }
}

// WithBearer задаёт явный access-токен вместо значения из Store.
// Пустая строка подавляет Authorization целиком.
func WithBearer(token string) Option {
	return func(o *callOptions) { o.bearer = &token }
}

// WithoutRefresh выключает 401-refresh для этого вызова.
// Обязателен внутри самого refresh-флоу (хендлер refresh-роута зовёт бэкенд
// этим клиентом; без флага 401 бэкенда зациклил бы refresh через HTTP-хопы).
func WithoutRefresh() Option {
	return func(o *callOptions) { o.noRefresh = true }
}

// OnSuccess регистрирует хук успешного (2xx) ответа. Так API-модули
// объявляют свои side-эффекты (сохранить/очистить токен) вместо
// сопоставления путей внутри движка.
func OnSuccess(fn func(*Response)) Option {
	return func(o *callOptions) { o.onSuccess = append(o.onSuccess, fn) }
}

func (c *Client) Get(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do выполняет один логический вызов (включая возможный retry после refresh).
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...Option) (*Response, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	return c.do(ctx, method, path, body, o, false)
}

// do — один физический вызов; retried взводится ровно на одном уровне рекурсии.
func (c *Client) do(ctx context.Context, method, path string, body any, o callOptions, retried bool) (*Response, error) {
	const op = "internal/backend/do"

	rel := normalizePath(path)
	fullURL := c.resolveBase(o) + "/" + rel

	raw, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}

	var rd io.Reader
	if raw != nil {
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, rd)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	bearer, err := c.resolveBearer(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("%s: token store: %w", op, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	if o.cookie != "" {
		req.Header.Set("Cookie", o.cookie)
	}

	// Переопределения вызывающего кладутся последними: вызывающий выигрывает.
	for key, vals := range o.headers {
		req.Header.Del(key)
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload := readPayload(resp.Body)

	// 401 -> refresh -> retry ровно один раз. Сам refresh-путь и уже
	// повторённый вызов в новый refresh не уходят (флаг, не только путь).
	if resp.StatusCode == http.StatusUnauthorized && !retried && !o.noRefresh && rel != c.refresh.Path() {
		newToken, ok := c.refresh.Do(ctx, o.cookie)
		if ok {
			o.bearer = &newToken
			return c.do(ctx, method, path, body, o, true)
		}

		if cerr := c.store.Clear(ctx); cerr != nil {
			c.log.Warn("token_store_clear_failed", slog.String("err", cerr.Error()))
		}

		return nil, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Payload: payload,
			Message: "session expired",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.New(resp.StatusCode, payload)
	}

	out := &Response{
		Status:  resp.StatusCode,
		Payload: payload,
		Header:  resp.Header,
	}

	for _, fn := range o.onSuccess {
		fn(out)
	}

	return out, nil
}

// resolveBase: явный override выигрывает; "" — same-origin; nil — бэкенд.
func (c *Client) resolveBase(o callOptions) string {
	if o.baseURL == nil {
		return c.baseURL
	}
	if *o.baseURL == "" {
		return c.selfURL
	}

	return strings.TrimRight(*o.baseURL, "/")
}

func (c *Client) resolveBearer(ctx context.Context, o callOptions) (string, error) {
	if o.bearer != nil {
		return *o.bearer, nil
	}

	return c.store.Token(ctx)
}

// encodeBody сериализует тело вызова.
// Multipart уходит как есть со своим Content-Type (boundary уже внутри);
// всё остальное — JSON с application/json.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.Body, b.ContentType, nil
	case json.RawMessage:
		return b, "application/json", nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return raw, "application/json", nil
	}
}

// readPayload читает тело ответа; пустое или не-JSON тело (204 и т.п.)
// превращается в пустой объект, а не в ошибку.
func readPayload(r io.Reader) json.RawMessage {
	raw, err := io.ReadAll(r)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 || !json.Valid(raw) {
		return json.RawMessage(`{}`)
	}

	return raw
}

// normalizePath убирает ведущие "/" у относительного пути.
func normalizePath(path string) string {
	return strings.TrimLeft(path, "/")
}
