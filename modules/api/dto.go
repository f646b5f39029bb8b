package api

import (
	"time"

	"github.com/Marksman247/task-manager-app/modules/task"
)

// CreateTaskRequest is the HTTP request for creating a task. Status
// defaults to pending when omitted; DueDate is YYYY-MM-DD.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the HTTP request for partially updating a task.
// Omitted fields stay unchanged; an explicit empty due_date clears it.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// TaskResponse is the HTTP response for a single task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListTasksResponse is the HTTP response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// toTaskResponse converts a task service response to the HTTP shape.
func toTaskResponse(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
	}
}

// toListResponse converts a task service list response to the HTTP shape.
func toListResponse(list *task.ListTasksResponse) ListTasksResponse {
	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(list.Tasks)),
		Total: list.Total,
	}
	for i := range list.Tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&list.Tasks[i]))
	}
	return resp
}
