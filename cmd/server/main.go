package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"peaktrack/internal/config"
	"peaktrack/internal/crypto"
	"peaktrack/internal/db"
	"peaktrack/internal/handlers"
	mw "peaktrack/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	dbConn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Fatal("ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	cipher, err := crypto.New(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal("init cipher", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.StructuredLogger(logger))
	r.Use(mw.Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(dbConn, cfg, logger)
	checkinHandler := handlers.NewCheckinHandler(dbConn, cipher, logger)
	habitHandler := handlers.NewHabitHandler(dbConn, logger)
	goalHandler := handlers.NewGoalHandler(dbConn, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(dbConn, logger)
	eventHandler := handlers.NewEventHandler(dbConn, logger)
	adminHandler := handlers.NewAdminHandler(dbConn, logger)
	authMW := mw.NewAuthMiddleware(cfg.JWTSecret)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","app":"` + cfg.AppName + `","version":"` + cfg.AppVersion + `"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/refresh", authHandler.Refresh)
		api.Post("/auth/forgot-password", authHandler.ForgotPassword)
		api.Post("/auth/reset-password", authHandler.ResetPassword)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)

			pr.Get("/auth/me", authHandler.GetMe)
			pr.Put("/auth/me", authHandler.UpdateMe)
			pr.Post("/auth/onboarding", authHandler.CompleteOnboarding)
			pr.Post("/auth/change-password", authHandler.ChangePassword)

			pr.Post("/checkins", checkinHandler.Create)
			pr.Get("/checkins/today", checkinHandler.Today)
			pr.Get("/checkins/history", checkinHandler.History)
			pr.Get("/checkins/summary", checkinHandler.Summary)
			pr.Put("/checkins/{date}", checkinHandler.Update)

			pr.Get("/habits", habitHandler.List)
			pr.Post("/habits", habitHandler.Create)
			pr.Put("/habits/{habitID}", habitHandler.Update)
			pr.Delete("/habits/{habitID}", habitHandler.Delete)
			pr.Post("/habits/log", habitHandler.Log)
			pr.Get("/habits/{habitID}/logs", habitHandler.Logs)

			pr.Get("/goals", goalHandler.List)
			pr.Post("/goals", goalHandler.Create)
			pr.Put("/goals/{goalID}", goalHandler.Update)
			pr.Post("/goals/{goalID}/progress", goalHandler.Progress)
			pr.Delete("/goals/{goalID}", goalHandler.Delete)

			pr.Get("/analytics/dashboard", analyticsHandler.Dashboard)
			pr.Get("/analytics/data", analyticsHandler.Data)
			pr.Get("/analytics/burnout", analyticsHandler.Burnout)
			pr.Get("/analytics/insights", analyticsHandler.Insights)
			pr.Put("/analytics/insights/{insightID}", analyticsHandler.UpdateInsight)
			pr.Post("/analytics/insights/mark-all-read", analyticsHandler.MarkAllInsightsRead)

			pr.Post("/events/track", eventHandler.Track)
			pr.Get("/events/stats", eventHandler.Stats)

			pr.Get("/admin/overview", adminHandler.Overview)
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
