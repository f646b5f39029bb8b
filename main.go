package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"

	"github.com/Marksman247/task-manager-app/modules/api"
	"github.com/Marksman247/task-manager-app/modules/exporter"
	"github.com/Marksman247/task-manager-app/modules/notification"
	"github.com/Marksman247/task-manager-app/modules/task"
)

const defaultShutdownTimeout = 10 * time.Second

func main() {
	// Load .env if present; real env vars take precedence.
	_ = godotenv.Load()

	log.Println("=== Task Manager ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout()),
		mono.WithLogLevel(logLevel()),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// The framework automatically handles:
	// - ServiceProviderModule.RegisterServices() for request-reply services
	// - DependentModule.SetDependencyServiceContainer() for cross-module communication
	// - EventBusAwareModule.SetEventBus() for event publishing
	// - EventConsumerModule.RegisterEventConsumers() for event subscriptions
	//
	// Order: independent modules first, then modules with dependencies
	app.Register(notification.NewModule()) // Event consumer (subscribes to task events)
	app.Register(task.NewModule())         // Core domain (owns the store, emits events)
	app.Register(exporter.NewModule())     // CSV import/export (depends on task)
	app.Register(api.NewModule())          // Driving adapter (depends on task, exporter)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout(),
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

// shutdownTimeout reads SHUTDOWN_TIMEOUT (a Go duration string, e.g.
// "15s") and falls back to the default on absence or parse failure.
func shutdownTimeout() time.Duration {
	raw := os.Getenv("SHUTDOWN_TIMEOUT")
	if raw == "" {
		return defaultShutdownTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid SHUTDOWN_TIMEOUT %q, using %s", raw, defaultShutdownTimeout)
		return defaultShutdownTimeout
	}
	return d
}

// logLevel maps the LOG_LEVEL env var to a mono log level.
func logLevel() mono.LogLevel {
	if os.Getenv("LOG_LEVEL") == "error" {
		return mono.LogLevelError
	}
	return mono.LogLevelInfo
}

func printStartupInfo() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}
	store := "in-memory (set DB_PATH to persist)"
	if path := os.Getenv("DB_PATH"); path != "" {
		store = "sqlite at " + path
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Task store: %s", store)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  POST   /api/v1/tasks              - Create a task")
	log.Println("  GET    /api/v1/tasks              - List tasks (filter via query params)")
	log.Println("  GET    /api/v1/tasks/summary      - Aggregate statistics")
	log.Println("  GET    /api/v1/tasks/agenda       - Tasks grouped by due day")
	log.Println("  GET    /api/v1/tasks/export       - Download tasks as CSV")
	log.Println("  POST   /api/v1/tasks/import       - Import tasks from CSV")
	log.Println("  GET    /api/v1/tasks/:id          - Get a task by ID")
	log.Println("  PATCH  /api/v1/tasks/:id          - Update task fields")
	log.Println("  DELETE /api/v1/tasks/:id          - Delete a task")
	log.Println("  POST   /api/v1/tasks/:id/complete - Mark a task done")
	log.Println("  GET    /health                    - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
