package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"diemdanh_backend/internals/configs"
	database "diemdanh_backend/internals/databases"
	authService "diemdanh_backend/internals/features/users/auth/service"
	"diemdanh_backend/internals/features/users/auth/scheduler"
	helper "diemdanh_backend/internals/helpers"
	"diemdanh_backend/internals/helpers/logging"
	"diemdanh_backend/internals/helpers/nationalid"
	middlewares "diemdanh_backend/internals/middlewares"
	"diemdanh_backend/internals/middlewares/logger"
	routes "diemdanh_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	if configs.JWTSecret == "" {
		logging.Fatal().Msg("❌ JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.FromFiberError,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          configs.TrustedProxies,
	})

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.Metrics())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	if configs.AutoMigrate {
		if err := database.Migrate(database.DB); err != nil {
			logging.Fatal().Err(err).Msg("❌ migration failed")
		}
		logging.Info().Msg("✅ schema migrated")
	}
	database.WarmUpQueries()

	bg, stopBg := context.WithCancel(context.Background())
	defer stopBg()
	scheduler.StartBlacklistCleanupScheduler(bg, database.DB, scheduler.DefaultCleanupInterval)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, routes.Deps{
		Tokens:       authService.NewTokenIssuer(configs.JWTSecret, configs.JWTAccessTTL),
		Verifier:     authService.NewGoogleVerifier(configs.GoogleClientID),
		Hasher:       nationalid.NewHasher(configs.NationalIDPepper),
		SecureCookie: configs.CookieSecure,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		logging.Info().Str("port", port).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("🛑 shutting down")
	stopBg()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
