package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/handler"
	"github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-gradebook/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-gradebook/pkg/middleware/requestid"
	"github.com/noah-isme/sma-gradebook/pkg/observability"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "info"
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db := repository.NewMemoryDB()
	validate := validation.New()
	metrics := service.NewMetricsService()
	accounts := devapi.NewAccounts(db, devapi.AccountsConfig{
		Secret:   cfg.DevAPI.JWTSecret,
		TokenTTL: cfg.DevAPI.TokenTTL,
	}, validate, logr)
	records := devapi.NewRecords(db, validate, logr)

	r := gin.New()
	r.Use(observability.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.NewHandlers(accounts, records, metrics), accounts)

	addr := fmt.Sprintf(":%d", cfg.DevAPI.Port)
	logr.Sugar().Infow("dev api starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
