package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	domain "github.com/Marksman247/task-manager-app/domain/task"
	"github.com/Marksman247/task-manager-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// NotificationLog represents a logged notification.
type NotificationLog struct {
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule turns task lifecycle events into reminder-style log
// lines. It subscribes to domain events using the EventConsumerModule
// interface and keeps the notifications it handled for its health report.
type NotificationModule struct {
	notifications []NotificationLog
	mu            sync.RWMutex
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)
var _ mono.HealthCheckableModule = (*NotificationModule)(nil)

func NewModule() *NotificationModule {
	return &NotificationModule{
		notifications: make([]NotificationLog, 0),
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: TaskCreated, TaskUpdated, TaskCompleted, TaskDeleted")
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	msg := fmt.Sprintf("New %s-priority task '%s'", event.Priority, event.Title)
	if event.DueDate != nil {
		msg += fmt.Sprintf(", due %s", event.DueDate.Format(domain.DateLayout))
	}
	log.Printf("[notification] %s", msg)
	m.logNotification(event.TaskID, "task_created", msg)
	return nil
}

func (m *NotificationModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	msg := fmt.Sprintf("Task '%s' changed: %v", event.Title, event.Fields)
	log.Printf("[notification] %s", msg)
	m.logNotification(event.TaskID, "task_updated", msg)
	return nil
}

func (m *NotificationModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	msg := fmt.Sprintf("Task '%s' completed", event.Title)
	log.Printf("[notification] %s", msg)
	m.logNotification(event.TaskID, "task_completed", msg)
	return nil
}

func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	msg := fmt.Sprintf("Task '%s' deleted", event.Title)
	log.Printf("[notification] %s", msg)
	m.logNotification(event.TaskID, "task_deleted", msg)
	return nil
}

func (m *NotificationModule) logNotification(taskID, notificationType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, NotificationLog{
		TaskID:    taskID,
		Type:      notificationType,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// GetNotifications returns a copy of the notifications handled so far.
func (m *NotificationModule) GetNotifications() []NotificationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]NotificationLog, len(m.notifications))
	copy(result, m.notifications)
	return result
}

// Health reports how many notifications the module has handled.
func (m *NotificationModule) Health(_ context.Context) mono.HealthStatus {
	m.mu.RLock()
	handled := len(m.notifications)
	m.mu.RUnlock()

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"handled": handled,
		},
	}
}

func (m *NotificationModule) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
