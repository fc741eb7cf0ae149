package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"matchchat/internal/auth"
	"matchchat/internal/config"
	"matchchat/internal/db"
	"matchchat/internal/observability"
	"matchchat/internal/rabbitmq"
	"matchchat/internal/repositories"
	"matchchat/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	shutdownTracer, err := observability.InitTracer(context.Background(), cfg.OTLPEndpoint, "matchchat")
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer shutdownTracer(context.Background())

	database, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()

	accountRepo := repositories.NewAccountRepo(database)
	connectionRepo := repositories.NewConnectionRepo(database)
	chatRepo := repositories.NewChatRepo(database)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	resolver := auth.NewResolver(accountRepo)

	hub := ws.NewHub(logger)
	presence := ws.NewPresence()
	socketHandler := ws.NewSocketHandler(hub, presence, verifier, resolver, connectionRepo, chatRepo, publisher, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("matchchat"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/chat", socketHandler.Handle)

	logger.Info("matchchat listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := router.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newLogger(env, level string) (*zap.Logger, error) {
	var zcfg zap.Config
	if env == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(parsed)

	return zcfg.Build()
}
