package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/meridiancredit/investor-portal/docs"
	"github.com/meridiancredit/investor-portal/internal/api/handler"
	"github.com/meridiancredit/investor-portal/internal/api/middleware"
	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
	"github.com/meridiancredit/investor-portal/internal/core/service"
	"github.com/meridiancredit/investor-portal/internal/infrastructure/config"
	mongorepo "github.com/meridiancredit/investor-portal/internal/infrastructure/db/mongo"
	redisrepo "github.com/meridiancredit/investor-portal/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, delivery ports.CodeDelivery, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	principals := mongorepo.NewPrincipalRepository(db)
	admins := mongorepo.NewAdminRepository(db)
	otps := mongorepo.NewOTPRepository(db)
	revoked := redisrepo.NewRevocationList(rdb)

	sessions := service.NewSessionService(cfg.JWTSecret, cfg.SessionTTL, revoked, log)
	authService := service.NewAuthService(principals, admins, otps, sessions, delivery, cfg.OTPTTL, log)
	accountService := service.NewAccountService(principals, admins)

	cookies := handler.CookieConfig{TTL: sessions.TTL(), Production: cfg.IsProduction()}
	authHandler := handler.NewAuthHandler(authService, sessions, cookies)
	accountHandler := handler.NewAccountHandler(accountService)

	sessionGate := middleware.Session(sessions)

	// --- Auth routes ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/login", authHandler.Login)
	apiGroup.POST("/verify-otp", authHandler.VerifyOTP)
	apiGroup.POST("/logout", authHandler.Logout)
	apiGroup.GET("/auth/user", authHandler.CurrentUser, sessionGate)

	// --- Provisioning (administrative tiers only) ---
	adminGroup := apiGroup.Group("/admin", sessionGate)
	adminGroup.POST("/accounts", accountHandler.ProvisionInvestor,
		middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin))
	adminGroup.POST("/admins", accountHandler.ProvisionAdmin,
		middleware.RBAC(domain.RoleSuperAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
