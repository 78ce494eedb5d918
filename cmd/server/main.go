package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blogreact/internal/config"
	"blogreact/internal/db"
	"blogreact/internal/handlers"
	"blogreact/internal/middleware"
	"blogreact/internal/router"
	"blogreact/internal/services"
	"blogreact/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Database setup failed", zap.Error(err))
	}
	defer db.Close(conn)

	// Optional revocation list
	var revocations services.RevocationList
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		revocations = services.NewRedisRevocationList(rdb)
		logger.Info("Redis connected successfully")
	}

	// Optional event broker
	var sink services.EventSink = services.NoopSink{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("blogreact"))
		if err != nil {
			logger.Fatal("NATS connection failed", zap.Error(err))
		}
		defer nc.Drain()
		sink = services.NewNatsEventSink(nc)
		logger.Info("NATS connected successfully")
	}
	dispatcher := services.NewEventDispatcher(sink, cfg.EventQueueSize, logger)

	verifier := services.NewTokenVerifier(cfg.AccessTokenSecret, db.NewUserStore(conn), revocations)
	reactionService := services.NewReactionService(db.NewReactionStore(conn), dispatcher, logger)

	r := router.New(router.Dependencies{
		Log:       logger,
		Auth:      middleware.AuthRequired(verifier, cfg.AccessTokenCookie),
		Reactions: handlers.NewReactionHandler(reactionService),
		Health:    handlers.NewHealthHandler(conn),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("Event dispatcher did not drain", zap.Error(err))
	}
}
