package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/Marksman247/task-manager-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module owns the task store and the filter/aggregate engine. The store is
// in-memory by default; setting DB_PATH switches it to a SQLite file so
// tasks survive restarts.
type Module struct {
	repo     Repository
	db       *gorm.DB
	dbPath   string
	eventBus mono.EventBus
}

var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.EventEmitterModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the task module. The storage backend is decided at
// Start so tests can swap the repository beforehand.
func NewModule() *Module {
	return &Module{
		repo:   newMemoryRepository(),
		dbPath: os.Getenv("DB_PATH"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// SetEventBus receives the application event bus.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the lifecycle events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.task.".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "filter", json.Unmarshal, json.Marshal, m.filterTasks,
	); err != nil {
		return fmt.Errorf("failed to register filter service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "summarize", json.Unmarshal, json.Marshal, m.summarizeTasks,
	); err != nil {
		return fmt.Errorf("failed to register summarize service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "agenda", json.Unmarshal, json.Marshal, m.agendaTasks,
	); err != nil {
		return fmt.Errorf("failed to register agenda service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "complete", json.Unmarshal, json.Marshal, m.completeTask,
	); err != nil {
		return fmt.Errorf("failed to register complete service: %w", err)
	}

	log.Printf("[task] Registered services: services.task.{create,get,update,delete,list,filter,summarize,agenda,complete}")
	return nil
}

// Start selects the storage backend. With DB_PATH set it opens the SQLite
// database and runs migrations; otherwise the in-memory store stays.
func (m *Module) Start(_ context.Context) error {
	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}

	if m.dbPath == "" {
		log.Println("[task] Module started with in-memory store")
		return nil
	}

	log.Printf("[task] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := m.db.AutoMigrate(&taskRecord{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.repo = newGormRepository(m.db)

	log.Println("[task] Module started with SQLite store")
	return nil
}

// Stop closes the database connection when one is open.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		log.Println("[task] Module stopped")
		return nil
	}

	log.Println("[task] Closing database connection...")
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[task] Module stopped")
	return nil
}

// Health reports the store backend and task count, pinging the database
// when one is configured.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	backend := "memory"
	details := map[string]any{}

	if m.db != nil {
		backend = "sqlite"
		details["path"] = m.dbPath

		sqlDB, err := m.db.DB()
		if err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("failed to get sql.DB: %v", err),
			}
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("database ping failed: %v", err),
			}
		}
	}

	details["backend"] = backend
	if count, err := m.repo.Count(); err == nil {
		details["tasks"] = count
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
