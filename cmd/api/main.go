package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/healthguard/cmd/mainconfig"
	"github.com/wolfman30/healthguard/internal/api/router"
	"github.com/wolfman30/healthguard/internal/app/bootstrap"
	"github.com/wolfman30/healthguard/internal/chat"
	"github.com/wolfman30/healthguard/internal/compliance"
	appconfig "github.com/wolfman30/healthguard/internal/config"
	"github.com/wolfman30/healthguard/internal/healthlog"
	httpmiddleware "github.com/wolfman30/healthguard/internal/http/middleware"
	"github.com/wolfman30/healthguard/internal/observability/metrics"
	"github.com/wolfman30/healthguard/internal/sos"
	"github.com/wolfman30/healthguard/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting healthguard API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.IsProduction() && cfg.AuthJWTSecret == "" {
		logger.Error("AUTH_JWT_SECRET is required in production")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.limiter != nil {
		a.limiter.StartJanitor(time.Minute, ctx.Done())
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// app is the fully wired API plus the resources main must release.
type app struct {
	handler http.Handler
	limiter *httpmiddleware.RateLimiter
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires storage, safety, SOS and HTTP. Services without
// configuration fall back to in-memory or stub implementations.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, error) {
	a := &app{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	safetyMetrics := metrics.NewSafetyMetrics(reg)
	riskMetrics := metrics.NewRiskMetrics(reg)
	sosMetrics := metrics.NewSOSMetrics(reg)

	var awsCfg *aws.Config
	if cfg.EmailProvider == "ses" || cfg.BedrockModelID != "" {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		awsCfg = &loaded
	}

	var (
		logRepo  healthlog.Repository = healthlog.NewInMemoryRepository()
		profiles healthlog.ProfileSource
		store    chat.Store = chat.NewInMemoryStore()
		audit    = compliance.NewAuditService(nil)
	)
	if pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger); pool != nil {
		pgRepo := healthlog.NewPostgresRepository(pool)
		logRepo, profiles = pgRepo, pgRepo
		a.closers = append(a.closers, pool.Close)
	} else {
		logger.Warn("health logs use in-memory storage")
	}
	if db := bootstrap.OpenSQLDB(ctx, cfg.DatabaseURL, logger); db != nil {
		store = chat.NewPostgresStore(db)
		audit = compliance.NewAuditService(db)
		a.closers = append(a.closers, func() { _ = db.Close() })
	} else {
		logger.Warn("chat history uses in-memory storage and audit events are not persisted")
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
	}

	contacts, err := sos.ParseStaticContacts(cfg.SOSContactsJSON)
	if err != nil {
		return nil, err
	}
	sosService := sos.NewService(
		contacts,
		bootstrap.BuildEmailSender(cfg, awsCfg, logger),
		bootstrap.BuildCooldown(redisClient, cfg.SOSCooldown),
		sosMetrics,
		logger,
	)

	disclaimer := compliance.NewDisclaimerService(audit, compliance.DisclaimerConfig{
		Level: compliance.ParseDisclaimerLevel(cfg.DisclaimerLevel),
	})

	logService := healthlog.NewService(logRepo, profiles, audit, riskMetrics, logger)
	chatService := chat.NewService(chat.ServiceConfig{
		Store:        store,
		Assistant:    bootstrap.BuildAssistant(cfg, awsCfg, logger),
		SOS:          sosService,
		Audit:        audit,
		Disclaimer:   disclaimer,
		Metrics:      safetyMetrics,
		Logger:       logger,
		HistoryLimit: cfg.ChatHistoryLimit,
	})

	if cfg.ChatRateLimitRPS > 0 {
		a.limiter = httpmiddleware.NewRateLimiter(cfg.ChatRateLimitRPS, cfg.ChatRateLimitBurst)
	}

	a.handler = router.New(&router.Config{
		Logger:             logger,
		HealthLogs:         healthlog.NewHandler(logService, logger),
		Chat:               chat.NewHandler(chatService, logger),
		Audit:              compliance.NewAuditHandler(audit, logger),
		AuthSecret:         cfg.AuthJWTSecret,
		ChatRateLimiter:    a.limiter,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return a, nil
}
