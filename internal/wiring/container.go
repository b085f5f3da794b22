package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/adpulse/gateway/internal/domain"
	infra_auth "github.com/adpulse/gateway/internal/infra/auth"
	infra_config "github.com/adpulse/gateway/internal/infra/config"
	"github.com/adpulse/gateway/internal/infra/export"
	"github.com/adpulse/gateway/internal/infra/persistence"
	"github.com/adpulse/gateway/internal/infra/ratelimit"
)

// Dependencies bundles the constructed infrastructure the application
// layer is wired with.
type Dependencies struct {
	Repo         *persistence.AnalyticsRepository
	AuditRepo    *persistence.AuditRepository
	Verifier     domain.TokenVerifier
	TokenManager *infra_auth.TokenManager
	ClientStore  domain.ClientStore
	LimiterStore ratelimit.Store
	Exporter     *export.S3Exporter
}

// Container owns the long-lived infrastructure handles and closes them in
// reverse construction order.
type Container struct {
	cfg    *infra_config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
}

// NewContainer creates an empty container for the given configuration.
func NewContainer(cfg *infra_config.Config, logger *slog.Logger) *Container {
	return &Container{cfg: cfg, logger: logger}
}

// GetDependencies constructs the full dependency set.
func (c *Container) GetDependencies(ctx context.Context) (*Dependencies, error) {
	pool, err := persistence.NewConnectionPool(ctx, c.cfg.Database, c.cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	c.pool = pool

	deps := &Dependencies{
		Repo:      persistence.NewAnalyticsRepository(pool),
		AuditRepo: persistence.NewAuditRepository(pool),
	}

	deps.TokenManager, err = c.provideTokenManager()
	if err != nil {
		return nil, err
	}

	deps.Verifier, err = c.provideVerifier(deps.TokenManager)
	if err != nil {
		return nil, err
	}

	if c.cfg.Auth.ClientsFile != "" {
		deps.ClientStore, err = infra_auth.NewFileClientStore(c.cfg.Auth.ClientsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client store: %w", err)
		}
	}

	deps.LimiterStore, err = c.provideLimiterStore()
	if err != nil {
		return nil, err
	}

	if c.cfg.AWS.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		deps.Exporter = export.NewS3Exporter(awsCfg, c.cfg.AWS.S3Bucket, c.logger)
	}

	return deps, nil
}

// provideTokenManager builds the local token manager when a signing key is
// configured. Without one, token issuance and local verification are off.
func (c *Container) provideTokenManager() (*infra_auth.TokenManager, error) {
	if c.cfg.Auth.JWT.PrivateKeyFile == "" {
		return nil, nil
	}

	keyPEM, err := os.ReadFile(c.cfg.Auth.JWT.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read JWT private key: %w", err)
	}

	manager, err := infra_auth.NewTokenManager(keyPEM, infra_auth.NewInMemoryTokenStore())
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}
	return manager, nil
}

func (c *Container) provideVerifier(tokenManager *infra_auth.TokenManager) (domain.TokenVerifier, error) {
	switch c.cfg.Auth.Mode {
	case "remote":
		if c.cfg.Auth.Provider.URL == "" {
			return nil, fmt.Errorf("auth.provider.url is required in remote mode")
		}
		return infra_auth.NewRemoteVerifier(
			c.cfg.Auth.Provider.URL,
			c.cfg.Auth.Provider.APIKey,
			c.cfg.Auth.Provider.Timeout,
		), nil
	case "local":
		if tokenManager == nil {
			return nil, fmt.Errorf("auth.jwt.private_key_file is required in local mode")
		}
		return infra_auth.NewJWTVerifier(tokenManager), nil
	default:
		return nil, fmt.Errorf("invalid auth mode: %s", c.cfg.Auth.Mode)
	}
}

func (c *Container) provideLimiterStore() (ratelimit.Store, error) {
	switch c.cfg.RateLimit.Store {
	case "memory":
		return ratelimit.NewMemoryStore(), nil
	case "redis":
		c.redisClient = redis.NewClient(&redis.Options{
			Addr:     c.cfg.RateLimit.Redis.Addr,
			Password: c.cfg.RateLimit.Redis.Password,
			DB:       c.cfg.RateLimit.Redis.DB,
		})
		return ratelimit.NewRedisStore(c.redisClient), nil
	default:
		return nil, fmt.Errorf("invalid rate limit store: %s", c.cfg.RateLimit.Store)
	}
}

// Close releases all infrastructure handles.
func (c *Container) Close() error {
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
