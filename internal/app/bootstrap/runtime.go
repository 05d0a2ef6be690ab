// Package bootstrap builds the runtime dependencies cmd/api wires together.
// Every builder degrades to an in-process fallback when its backing service
// is not configured, so the API runs locally with no infrastructure.
package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/healthguard/internal/chat"
	appconfig "github.com/wolfman30/healthguard/internal/config"
	"github.com/wolfman30/healthguard/internal/sos"
	"github.com/wolfman30/healthguard/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, sos cooldown falls back to memory", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// ConnectPostgresPool opens the pgx pool used by health log storage.
// An empty URL or a failed ping returns nil.
func ConnectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(databaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("postgres not reachable", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// OpenSQLDB opens the database/sql handle used by chat storage and the
// audit log. An empty URL or a failed ping returns nil.
func OpenSQLDB(ctx context.Context, databaseURL string, logger *logging.Logger) *sql.DB {
	if strings.TrimSpace(databaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open sql db", "error", err)
		return nil
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("sql db not reachable", "error", err)
		_ = db.Close()
		return nil
	}
	return db
}

// BuildEmailSender picks the SOS email transport from EMAIL_PROVIDER.
// Misconfigured providers fall back to the logging stub.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) sos.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := sos.NewSendGridSender(sos.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SOSFromEmail,
			FromName:  cfg.SOSFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty, using stub sender")
	case "ses":
		if awsCfg != nil {
			return sos.NewSESSender(sesv2.NewFromConfig(*awsCfg), sos.SESConfig{
				FromEmail:        cfg.SOSFromEmail,
				FromName:         cfg.SOSFromName,
				ConfigurationSet: cfg.SESConfigurationSet,
			}, logger)
		}
		logger.Warn("EMAIL_PROVIDER=ses but AWS config is unavailable, using stub sender")
	}
	return sos.NewStubEmailSender(logger)
}

// BuildCooldown prefers the shared Redis cooldown so replicas agree.
func BuildCooldown(client *redis.Client, ttl time.Duration) sos.Cooldown {
	if client != nil {
		return sos.NewRedisCooldown(client, ttl)
	}
	return sos.NewMemoryCooldown(ttl)
}

// BuildAssistant returns the Bedrock assistant, or the stub when no model is configured.
func BuildAssistant(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) chat.Assistant {
	if awsCfg == nil || strings.TrimSpace(cfg.BedrockModelID) == "" {
		if logger != nil {
			logger.Warn("bedrock not configured, chat uses the stub assistant")
		}
		return chat.StubAssistant{}
	}
	return chat.NewBedrockAssistant(bedrockruntime.NewFromConfig(*awsCfg), cfg.BedrockModelID, cfg.AssistantMaxTokens)
}
