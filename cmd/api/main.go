package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/mealsplit/docs"
	"github.com/fkhayef/mealsplit/internal/breakperiod"
	"github.com/fkhayef/mealsplit/internal/config"
	"github.com/fkhayef/mealsplit/internal/database"
	"github.com/fkhayef/mealsplit/internal/metrics"
	"github.com/fkhayef/mealsplit/internal/notification"
	"github.com/fkhayef/mealsplit/internal/purchase"
	"github.com/fkhayef/mealsplit/internal/purchase/split"
	"github.com/fkhayef/mealsplit/internal/room"
	"github.com/fkhayef/mealsplit/internal/settlement"
	"github.com/fkhayef/mealsplit/internal/user"
	"github.com/fkhayef/mealsplit/pkg/logging"
	mw "github.com/fkhayef/mealsplit/pkg/middleware"
	"github.com/fkhayef/mealsplit/pkg/response"
)

// @title        mealsplit API
// @version      1.0
// @description  Shared-household purchase splitting, balances and settlements.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresConnection(ctx, database.Options{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	m := metrics.New()

	// Split Strategy Factory (Factory Pattern)
	splitFactory := split.NewFactory()

	// Notification feature
	notificationService := notification.NewService(notification.NewRepository(db))
	notificationHandler := notification.NewHandler(notificationService)

	// Room feature; its service guards every room-scoped feature below
	roomService := room.NewService(room.NewRepository(db), cfg.MaxActiveMembers)
	roomHandler := room.NewHandler(roomService)

	// Break period feature
	breakService := breakperiod.NewService(breakperiod.NewRepository(db), roomService)
	breakHandler := breakperiod.NewHandler(breakService)

	// Purchase feature (with split factory injected)
	purchaseRepo := purchase.NewRepository(db)
	purchaseService := purchase.NewService(purchaseRepo, roomService, breakService, notificationService, m, splitFactory)
	purchaseHandler := purchase.NewHandler(purchaseService)

	// Settlement and balance feature
	settlementService := settlement.NewService(settlement.NewRepository(db), roomService, purchaseRepo, notificationService, m)
	settlementHandler := settlement.NewHandler(settlementService)

	// User feature
	userService := user.NewService(user.NewRepository(db), user.StatsSources{
		Purchases:   purchaseRepo,
		Settlements: settlementService,
		Rooms:       roomService,
	})
	userHandler := user.NewHandler(userService)

	auth := mw.RequireUser
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		auth = mw.Authenticator(mw.NewJWTValidator(cfg.JWTSecret))
	case config.AuthModeDev:
		slog.Warn("dev auth mode: the acting user is taken from the " + mw.TestUserHeader + " header")
		devAuth := mw.DevUserMiddleware(cfg.DevUserID)
		auth = func(next http.Handler) http.Handler { return devAuth(mw.RequireUser(next)) }
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(mw.CORS(cfg.CORSOrigin))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			slog.Error("health check failed", "error", err)
			response.ServiceUnavailable(w, "database unavailable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	docs.SwaggerInfo.BasePath = "/api/v1"

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes(auth))

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Mount("/me", userHandler.MeRoutes())
			r.Mount("/rooms", roomHandler.Routes())
			r.Mount("/rooms/{roomId}/purchases", purchaseHandler.Routes())
			r.Mount("/rooms/{roomId}/break-periods", breakHandler.Routes())
			r.Mount("/rooms/{roomId}/settlements", settlementHandler.Routes())
			r.Mount("/rooms/{roomId}/balances", settlementHandler.BalanceRoutes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
