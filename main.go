package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/Mgahed/SkyloovTask/config"
	"github.com/Mgahed/SkyloovTask/modules/api"
	"github.com/Mgahed/SkyloovTask/modules/ratelimit"
	"github.com/Mgahed/SkyloovTask/modules/task"
)

func main() {
	log.Println("=== Task API - Fiber + GORM ===")

	cfg := config.Load()

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// Plugins start before and stop after regular modules.
	limiter := ratelimit.NewPluginModule(ratelimit.Config{
		Max:       cfg.RateLimitMax,
		Window:    cfg.RateLimitWindow,
		RedisAddr: cfg.RedisAddr,
	}, logger.WithModule("ratelimit"))
	if err := app.RegisterPlugin(limiter, "ratelimit"); err != nil {
		log.Fatalf("Failed to register ratelimit plugin: %v", err)
	}

	// Order: the task module must start before the HTTP server that serves it.
	taskModule := task.NewModule(task.DBConfig{
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
		Debug:  cfg.DBDebug,
	}, logger.WithModule("task"))
	app.Register(taskModule)
	app.Register(api.NewModule(cfg.ListenAddr(), cfg.CORSAllowedOrigins, taskModule, logger.WithModule("api")))

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	limit := "disabled"
	if cfg.RateLimitMax > 0 {
		storage := "memory"
		if cfg.RedisAddr != "" {
			storage = "redis " + cfg.RedisAddr
		}
		limit = cfg.RateLimitWindow.String() + " window, " + storage
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Configuration:")
	log.Printf("  - Database: %s (%s)", cfg.DBDriver, cfg.DBDSN)
	log.Printf("  - Rate limit: %d requests (%s)", cfg.RateLimitMax, limit)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", cfg.HTTPPort)
	log.Println("  GET    /api/tasks            - List tasks (status, due_date, title, page)")
	log.Println("  POST   /api/tasks            - Create a task")
	log.Println("  GET    /api/tasks/:id        - Get a task")
	log.Println("  PUT    /api/tasks?id=N       - Update a task")
	log.Println("  DELETE /api/tasks?id=N       - Delete a task")
	log.Println("  GET    /health               - Health check")
	log.Println("  (all task routes are also served under /tasks)")
	log.Println("")
	log.Println("Request-reply services (NATS):")
	log.Println("  services.task.{list,get,create,update,delete}")
	log.Println("")
	log.Println("Events:")
	log.Println("  events.task.v1.{task-created,task-updated,task-deleted}")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
