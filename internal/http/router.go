// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/config"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/handlers"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/paystack"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Structured logging
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Optional identity (so idempotency and rate limiting see the user)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, hub *ws.Hub, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging; the redacting variant scrubs PII in production
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit. Generous enough for spreadsheet imports
	// and image uploads, which are the largest legitimate payloads.
	r.Use(limitBody(16 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Pick up caller identity when a token is present. Must run before
	// the idempotency lookup and the rate limiter so both key by user.
	authSvc := services.NewAuthService(db, cfg.JWT)
	r.Use(middleware.OptionalAuth(authSvc))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetOrderSubmission(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	r.Use(corsLayer(cfg.CORS.AllowedOrigins))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Menu images
	r.Static("/uploads", cfg.UploadDir)

	// Dependency injection: services ← repo/db/gateway/hub. authSvc is
	// built earlier for the identity middleware.
	menuSvc := services.NewMenuService(db)
	orderSvc := services.NewOrderService(db, hub, cfg.IdempotencyTTL)
	gateway := paystack.New(cfg.Paystack)
	paymentSvc := services.NewPaymentService(db, gateway, orderSvc, cfg.Paystack.Currency, cfg.Paystack.CallbackURL)
	sessionSvc := services.NewSessionService(db, hub)
	chatSvc := services.NewChatService(db, hub)
	settingsSvc := services.NewSettingsService(db)
	staffSvc := services.NewStaffService(db)
	reportSvc := services.NewReportService(db)

	h := handlers.New(
		authSvc, menuSvc, orderSvc, paymentSvc, sessionSvc,
		chatSvc, settingsSvc, staffSvc, reportSvc,
		handlers.Options{
			Hub:         hub,
			TokenParser: authSvc,
			WSOpts: ws.ClientOptions{
				SendBuffer:  cfg.WSSendBuffer,
				PingPeriod:  cfg.WSPingPeriod,
				WriteWait:   cfg.WSWriteWait,
				MaxMsgBytes: cfg.WSMaxMsgBytes,
			},
			UploadDir: cfg.UploadDir,
		},
	)

	authed := middleware.Auth(authSvc)
	staffOnly := middleware.RequireRoles(domain.RoleAdmin, domain.RolePOS, domain.RoleKitchen)
	kitchenOnly := middleware.RequireRoles(domain.RoleAdmin, domain.RoleKitchen)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	// Real-time stream (token rides in the query string)
	r.GET("/ws", h.ServeWS)

	// Payment gateway callbacks (authenticated by HMAC signature, not JWT)
	r.POST("/webhooks/paystack", h.PaystackWebhook)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Accounts and tokens
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/refresh", h.Refresh)
			auth.GET("/me", authed, h.Me)
		}

		// Public menu (compressed; storefronts poll it)
		menu := api.Group("/menu", gzip.Gzip(gzip.DefaultCompression))
		{
			menu.GET("/categories", h.ListCategories)
			menu.GET("/items", h.ListMenuItems)
			menu.GET("/items/:id", h.GetMenuItem)
		}

		// Day session state (public banner); open/close is a counter duty
		api.GET("/sessions/current", h.CurrentSession)
		sessions := api.Group("/sessions", authed, middleware.RequireRoles(domain.RoleAdmin, domain.RolePOS))
		{
			sessions.POST("/open", h.OpenDay)
			sessions.POST("/close", h.CloseDay)
		}

		// Orders: placing works for walk-ins and signed-in customers alike;
		// identity was already picked up by the global OptionalAuth.
		orders := api.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("/track/:number", h.TrackOrder)
			orders.GET("/:id", h.GetOrder)
			orders.POST("/:id/cancel", h.CancelOrder)
		}
		api.GET("/orders/mine", authed, h.ListMyOrders)

		// Payments
		payments := api.Group("/payments")
		{
			payments.POST("/init", h.InitPayment)
			payments.GET("/verify/:reference", h.VerifyPayment)
		}

		// Staff surfaces
		staff := api.Group("/staff", authed, staffOnly)
		{
			staff.GET("/orders", h.ListOrders)
			staff.GET("/orders/stats", h.OrderDashboardStats)
			staff.PUT("/orders/:id/status", h.UpdateOrderStatus)
			staff.GET("/orders/:id/payments", h.ListOrderPayments)
			staff.POST("/payments/cash", h.RecordCashPayment)
			staff.POST("/uploads", h.UploadImage)
		}

		// Kitchen display
		kitchen := api.Group("/kitchen", authed, kitchenOnly)
		{
			kitchen.GET("/queue", h.KitchenQueue)
		}

		// Room chat (any signed-in account; room access checked per role)
		chat := api.Group("/chat", authed)
		{
			chat.POST("/messages", h.PostChatMessage)
			chat.GET("/messages", h.ChatHistory)
		}

		// Admin console
		admin := api.Group("/admin", authed, adminOnly)
		{
			admin.POST("/menu/categories", h.CreateCategory)
			admin.PUT("/menu/categories/:id", h.UpdateCategory)
			admin.DELETE("/menu/categories/:id", h.DeleteCategory)
			admin.POST("/menu/items", h.CreateMenuItem)
			admin.PATCH("/menu/items/:id", h.UpdateMenuItem)
			admin.PUT("/menu/items/:id/availability", h.SetMenuItemAvailability)
			admin.DELETE("/menu/items/:id", h.DeleteMenuItem)
			admin.POST("/menu/import", h.ImportMenu)
			admin.GET("/menu/export", h.ExportMenu)

			admin.POST("/staff", h.CreateStaff)
			admin.GET("/staff", h.ListStaff)
			admin.PUT("/staff/:id", h.UpdateStaff)
			admin.PUT("/staff/:id/active", h.SetStaffActive)

			admin.GET("/settings", h.ListSettings)
			admin.GET("/settings/:key", h.GetSetting)
			admin.PUT("/settings/:key", h.SetSetting)
			admin.GET("/audit", h.AuditTrail)

			admin.GET("/reports/day", h.DayReport)
			admin.GET("/reports/day/export", h.ExportDayReport)
		}
	}
}

// corsLayer builds the CORS middleware chain. With no allowlist configured
// every origin is accepted, which suits local storefront development.
func corsLayer(allowedOrigins []string) gin.HandlerFunc {
	common := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		common.AllowAllOrigins = true
	} else {
		common.AllowOrigins = allowedOrigins
	}
	return cors.New(common)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
