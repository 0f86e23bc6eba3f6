package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Mgahed/SkyloovTask/modules/ratelimit"
	"github.com/Mgahed/SkyloovTask/modules/task"
)

// Route prefixes serving the task endpoints.
var taskPrefixes = []string{"/api/tasks", "/tasks"}

// Module implements the HTTP server module using Fiber framework.
type Module struct {
	app         *fiber.App
	handlers    *Handlers
	addr        string
	corsOrigins string
	taskModule  *task.Module
	limiter     *ratelimit.PluginModule
	logger      types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new HTTP server module.
func NewModule(addr, corsOrigins string, taskModule *task.Module, moduleLogger types.Logger) *Module {
	if corsOrigins == "" {
		corsOrigins = "*"
	}
	return &Module{
		addr:        addr,
		corsOrigins: corsOrigins,
		taskModule:  taskModule,
		logger:      moduleLogger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetPlugin receives the rate limit plugin from the framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "ratelimit" {
		return
	}
	limiter, ok := plugin.(*ratelimit.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for ratelimit",
			"alias", alias,
			"expected", "*ratelimit.PluginModule")
		return
	}
	m.limiter = limiter
	m.logger.Info("Received rate limit plugin", "alias", alias)
}

// Start builds the Fiber app and starts listening.
func (m *Module) Start(_ context.Context) error {
	if m.taskModule == nil || m.taskModule.Service() == nil {
		return fmt.Errorf("task module not started")
	}

	m.app = m.newApp()

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			errCh <- err
		}
	}()

	// Wait briefly to catch immediate startup errors (port in use, permission denied)
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", m.addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health reports whether the server is running.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "server not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":       m.addr,
			"rate_limit": m.limiter != nil && m.limiter.Enabled(),
		},
	}
}

// newApp creates the Fiber app with middleware and routes.
func (m *Module) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Task API",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.corsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Accept,X-Request-ID",
	}))

	m.handlers = NewHandlers(m.taskModule.Service(), m.healthChecks(), m.logger)
	m.registerRoutes(app)
	return app
}

// registerRoutes sets up all HTTP routes.
func (m *Module) registerRoutes(app *fiber.App) {
	app.Get("/health", m.handlers.Health)

	var limit []fiber.Handler
	if m.limiter != nil {
		limit = append(limit, m.limiter.Handler())
	}

	for _, prefix := range taskPrefixes {
		group := app.Group(prefix, limit...)
		group.Get("/", m.handlers.ListTasks)
		group.Post("/", m.handlers.CreateTask)
		group.Put("/", m.handlers.UpdateTask)
		group.Delete("/", m.handlers.DeleteTask)
		group.Get("/:id", m.handlers.GetTask)
		group.Put("/:id", m.handlers.UpdateTask)
		group.Delete("/:id", m.handlers.DeleteTask)
	}
}

// healthChecks lists the modules reported by GET /health.
func (m *Module) healthChecks() map[string]mono.HealthCheckableModule {
	checks := map[string]mono.HealthCheckableModule{
		m.taskModule.Name(): m.taskModule,
	}
	if m.limiter != nil {
		checks[m.limiter.Name()] = m.limiter
	}
	return checks
}
