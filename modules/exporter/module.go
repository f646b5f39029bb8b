package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Marksman247/task-manager-app/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module provides CSV export and import of the task collection. It talks
// to the task module through the TaskPort, so imported rows go through the
// same validation as any other create.
type Module struct {
	taskPort task.TaskPort
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)

// NewModule creates a new exporter module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "exporter"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// RegisterServices registers the export and import request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "export", json.Unmarshal, json.Marshal, m.exportTasks,
	); err != nil {
		return fmt.Errorf("failed to register export service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "import", json.Unmarshal, json.Marshal, m.importTasks,
	); err != nil {
		return fmt.Errorf("failed to register import service: %w", err)
	}

	log.Printf("[exporter] Registered services: services.exporter.{export,import}")
	return nil
}

// Start verifies the task dependency is wired.
func (m *Module) Start(_ context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}
	log.Println("[exporter] Module started (depends on: task)")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[exporter] Module stopped")
	return nil
}
