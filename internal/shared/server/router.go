package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jengahub-backend/internal/account"
	googleauth "jengahub-backend/internal/auth"
	"jengahub-backend/internal/drafts"
	"jengahub-backend/internal/messages"
	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/otp"
	"jengahub-backend/internal/quota"
	"jengahub-backend/internal/rfqs"
	"jengahub-backend/internal/shared/config"
	"jengahub-backend/internal/shared/metrics"
	"jengahub-backend/internal/shared/server/middleware"
	"jengahub-backend/internal/shared/server/respond"
	"jengahub-backend/internal/uploads"
	"jengahub-backend/internal/users"
	"jengahub-backend/internal/vendors"
)

// RouterDeps carries the handlers the router wires up. Nil handlers are
// skipped so partial wiring works in tests.
type RouterDeps struct {
	Config              config.Config
	AccountHandler      *account.Handler
	VendorHandler       *vendors.Handler
	RFQHandler          *rfqs.Handler
	QuotaHandler        *quota.Handler
	OTPHandler          *otp.Handler
	UserHandler         *users.Handler
	DraftHandler        *drafts.Handler
	NotificationHandler *notifications.Handler
	MessageHandler      *messages.Handler
	GoogleAuth          *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.OTPHandler != nil {
		deps.OTPHandler.RegisterRoutes(api)
	}
	if deps.VendorHandler != nil {
		deps.VendorHandler.RegisterRoutes(api)
	}
	if deps.RFQHandler != nil {
		deps.RFQHandler.RegisterRoutes(api)
	}
	if deps.QuotaHandler != nil {
		deps.QuotaHandler.RegisterRoutes(api)
	}
	if deps.DraftHandler != nil {
		deps.DraftHandler.RegisterRoutes(api)
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.RegisterRoutes(api)
	}
	if deps.MessageHandler != nil {
		deps.MessageHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)

	if cfg.Env == "dev" || cfg.Env == "local" {
		dev := api.Group("/dev")
		if deps.QuotaHandler != nil {
			deps.QuotaHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// rateLimitConfig throttles per principal. Status polling gets a higher
// budget than mutations; OTP sends are capped separately on top of the
// per-phone window the OTP service enforces.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			if c.Request.Method == http.MethodGet &&
				(path == "/api/v1/rfq/:id" || path == "/api/v1/notifications") {
				return "POLLING"
			}
			if c.Request.Method == http.MethodPost && path == "/api/v1/auth/send-sms-otp" {
				return "OTP"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"POLLING": {Rate: 20, Burst: 60},
			"OTP":     {Rate: 0.2, Burst: 3},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
