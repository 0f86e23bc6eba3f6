package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Mgahed/SkyloovTask/envelope"
)

// Config controls the per-client request limit.
type Config struct {
	// Max is the number of requests allowed per window. Zero disables limiting.
	Max    int
	Window time.Duration
	// RedisAddr is "host:port". Empty keeps counters in process memory.
	RedisAddr string
	Prefix    string
}

// PluginModule provides the HTTP rate limiter as a mono plugin module.
// Plugins start first and stop last, so the storage outlives the HTTP server.
type PluginModule struct {
	container types.ServiceContainer
	client    *goredis.Client
	storage   fiber.Storage
	cfg       Config
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a new rate limit plugin.
func NewPluginModule(cfg Config, logger types.Logger) *PluginModule {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit:"
	}
	return &PluginModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "ratelimit"
}

// Start connects to Redis when configured.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.cfg.RedisAddr == "" || !m.Enabled() {
		m.logger.Info("Rate limiter started", "storage", "memory", "max", m.cfg.Max, "window", m.cfg.Window.String())
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         m.cfg.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.cfg.RedisAddr, err)
	}
	m.client = client
	m.storage = redis.NewFromConnection(client)

	m.logger.Info("Rate limiter started", "storage", "redis", "redis", m.cfg.RedisAddr,
		"max", m.cfg.Max, "window", m.cfg.Window.String())
	return nil
}

// Stop closes the Redis connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.storage != nil {
		if err := m.storage.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	m.logger.Info("Rate limiter stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Enabled reports whether requests are limited at all.
func (m *PluginModule) Enabled() bool {
	return m.cfg.Max > 0
}

// Handler returns the Fiber middleware enforcing the limit per client IP.
// Rejected requests receive a 429 envelope.
func (m *PluginModule) Handler() fiber.Handler {
	if !m.Enabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	cfg := limiter.Config{
		Max:        m.cfg.Max,
		Expiration: m.cfg.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return m.cfg.Prefix + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			env := envelope.Format("Too many requests", http.StatusTooManyRequests, map[string]any{
				"retry_after": c.GetRespHeader(fiber.HeaderRetryAfter),
			})
			return c.Status(http.StatusTooManyRequests).JSON(env)
		},
	}
	if m.storage != nil {
		cfg.Storage = m.storage
	}
	return limiter.New(cfg)
}

// Health checks the limiter storage.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	details := map[string]any{
		"enabled": m.Enabled(),
		"max":     m.cfg.Max,
		"window":  m.cfg.Window.String(),
		"storage": "memory",
	}
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: details,
		}
	}

	details["storage"] = "redis"
	details["redis_addr"] = m.cfg.RedisAddr
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
			Details: details,
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
