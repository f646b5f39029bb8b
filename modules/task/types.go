package task

import (
	"context"
	"time"

	domain "github.com/Marksman247/task-manager-app/domain/task"
)

// CreateTaskRequest is the request for creating a task. Status is optional
// and defaults to pending; DueDate is optional YYYY-MM-DD.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the request for partially updating a task. Nil
// fields are left untouched; an explicit empty DueDate clears the due date.
type UpdateTaskRequest struct {
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// ListTasksRequest is the request for listing all tasks in insertion order.
type ListTasksRequest struct{}

// ListTasksResponse is the response for listing or filtering tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// FilterTasksRequest is the request for filtering tasks. Every field is
// optional; empty strings impose no constraint. DueAfter and DueBefore are
// inclusive YYYY-MM-DD bounds. SortBy is one of due_date, priority,
// created_at, or empty for insertion order.
type FilterTasksRequest struct {
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	DueAfter   string `json:"due_after,omitempty"`
	DueBefore  string `json:"due_before,omitempty"`
	TextSearch string `json:"text_search,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
}

// SummarizeTasksRequest is the request for computing task statistics.
type SummarizeTasksRequest struct{}

// AgendaRequest is the request for the calendar agenda. From and To are
// required YYYY-MM-DD bounds, both inclusive.
type AgendaRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AgendaDayResponse is one calendar day with its due tasks.
type AgendaDayResponse struct {
	Date  string         `json:"date"`
	Tasks []TaskResponse `json:"tasks"`
}

// AgendaResponse is the response for the calendar agenda.
type AgendaResponse struct {
	Days []AgendaDayResponse `json:"days"`
}

// CompleteTaskRequest is the request for marking a task done.
type CompleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// TaskResponse is the response for a single task. DueDate is YYYY-MM-DD
// when set.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskPort defines the interface for task operations (hexagonal port).
// This is the contract that driving adapters (like the HTTP API) and
// sibling modules use to reach the core domain.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
	ListTasks(ctx context.Context) (*ListTasksResponse, error)
	FilterTasks(ctx context.Context, req *FilterTasksRequest) (*ListTasksResponse, error)
	Summarize(ctx context.Context) (*domain.Stats, error)
	Agenda(ctx context.Context, from, to string) (*AgendaResponse, error)
	CompleteTask(ctx context.Context, taskID string) (*TaskResponse, error)
}
