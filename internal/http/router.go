package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nqoctai/bookstore-gateway/internal/api"
	"github.com/nqoctai/bookstore-gateway/internal/http/handlers"
	"github.com/nqoctai/bookstore-gateway/internal/http/middleware"
	"github.com/nqoctai/bookstore-gateway/internal/ws"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Session handlers.SessionConfig
	// Gate — конфигурация гейта страниц; zero value — DefaultGateConfig.
	Gate middleware.GateConfig
	// Resolver — account-lookup для гейта страниц.
	Resolver middleware.AccountResolver
	// PagesDir — каталог статических страниц витрины.
	PagesDir string
	// Chat — websocket-ретранслятор; nil — роут /ws/chat не регистрируется.
	Chat *ws.Handler
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(a *api.API, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.AuthBearer(),         // вынимаем Bearer токен в контекст для исходящих вызовов
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(a, opts.Session)

	// API-прокси.
	sub := chi.NewRouter()
	registerRoutes(sub, h)
	root.Mount("/api", sub)

	// Realtime-чат.
	if opts.Chat != nil {
		root.Handle("/ws/chat", opts.Chat)
	}

	// Страницы витрины — за сессионным гейтом.
	gate := opts.Gate
	if len(gate.PrivatePrefixes) == 0 && len(gate.GuestOnlyPrefixes) == 0 {
		gate = middleware.DefaultGateConfig()
	}
	pages := middleware.Chain(handlers.Pages(opts.PagesDir), middleware.SessionGate(gate, opts.Resolver))
	root.NotFound(pages.ServeHTTP)

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/login-google", h.LoginGoogle)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/refresh-token", h.RefreshToken)
	r.Get("/auth/account", h.Account)
	r.Post("/auth/forgot-password", h.ForgotPassword)
	r.Post("/auth/reset-password", h.ResetPassword)
	r.Post("/auth/resend-code", h.ResendCode)

	// account / customer
	r.Put("/account", h.UpdateAccount)
	r.Put("/account/password", h.ChangePassword)
	r.Put("/customers", h.UpdateCustomer)

	// catalog
	r.Get("/products", h.Products)
	r.Get("/products/{id}", h.ProductByID)
	r.Get("/categories", h.Categories)
	r.Get("/product-types", h.ProductTypes)
	r.Get("/promotions", h.Promotions)

	// cart
	r.Post("/carts", h.AddToCart)
	r.Put("/carts", h.UpdateCart)
	r.Delete("/carts/{id}", h.DeleteCartItem)

	// orders
	r.Post("/orders", h.CreateOrder)
	r.Put("/orders", h.UpdateOrderStatus)
	r.Get("/orders/history/{id}", h.OrderHistory)

	// files
	r.Post("/files", h.UploadFile)

	// chat (REST-часть)
	r.Post("/chat/rooms", h.CreateChatRoom)
	r.Get("/chat/rooms", h.ChatRooms)
	r.Get("/chat/rooms/count", h.OpenChatRoomCount)
	r.Get("/chat/rooms/my/{id}", h.MyChatRooms)
	r.Get("/chat/rooms/{id}", h.ChatRoomByID)
	r.Put("/chat/rooms/{id}/close", h.CloseChatRoom)
	r.Get("/chat/rooms/{id}/messages", h.ChatMessages)
	r.Put("/chat/rooms/{id}/read", h.MarkChatRead)
	r.Post("/chat/messages", h.SendChatMessage)

	// dashboard
	r.Get("/dashboard/get-top5-products-sold", h.TopProductsSold)

	// AI-рекомендации
	r.Post("/recommend", h.Recommend)
	r.Post("/recommend/feedback", h.RecommendFeedback)
}
