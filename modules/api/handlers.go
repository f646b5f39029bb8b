package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	domain "github.com/Marksman247/task-manager-app/domain/task"
	"github.com/Marksman247/task-manager-app/modules/task"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check endpoint
	m.app.Get("/health", m.healthHandler)

	// API v1 routes
	api := m.app.Group("/api/v1")

	// Task endpoints. Static paths are registered before the :id routes
	// so "summary" and friends are not captured as task IDs.
	tasks := api.Group("/tasks")
	tasks.Get("/summary", m.taskSummary)
	tasks.Get("/agenda", m.taskAgenda)
	tasks.Get("/export", m.exportTasks)
	tasks.Post("/import", m.importTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/", m.listTasks)
	tasks.Get("/:id", m.getTask)
	tasks.Patch("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
	tasks.Post("/:id/complete", m.completeTask)
}

// statusForError maps a service failure to an HTTP status code. Typed
// errors only survive in-process calls; errors that crossed the message
// bus arrive flattened to text, so classification falls back to it.
func statusForError(err error) int {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.StatusNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "validation failed"):
		return fiber.StatusBadRequest
	case strings.Contains(msg, "not found"):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// respondError writes the error response that matches the failure kind.
func respondError(c *fiber.Ctx, err error) error {
	code := statusForError(err)
	label := "internal_error"
	switch code {
	case fiber.StatusBadRequest:
		label = "validation_error"
	case fiber.StatusNotFound:
		label = "not_found"
	}
	return c.Status(code).JSON(ErrorResponse{
		Error:   label,
		Message: err.Error(),
	})
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// createTask handles POST /api/v1/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	// Validate required fields
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Title is required",
		})
	}
	if req.Priority == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Priority is required",
		})
	}

	// Call task service via adapter (driving adapter -> core domain)
	resp, err := m.taskAdapter.CreateTask(c.Context(), &task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// getTask handles GET /api/v1/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Task ID is required",
		})
	}

	resp, err := m.taskAdapter.GetTask(c.Context(), taskID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toTaskResponse(resp))
}

// listTasks handles GET /api/v1/tasks. Filter and sort criteria come in
// as query parameters; without any, the full list is returned in
// insertion order.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	filter := task.FilterTasksRequest{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		DueAfter:   c.Query("due_after"),
		DueBefore:  c.Query("due_before"),
		TextSearch: c.Query("q"),
		SortBy:     c.Query("sort_by"),
	}

	var (
		resp *task.ListTasksResponse
		err  error
	)
	if filter == (task.FilterTasksRequest{}) {
		resp, err = m.taskAdapter.ListTasks(c.Context())
	} else {
		resp, err = m.taskAdapter.FilterTasks(c.Context(), &filter)
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toListResponse(resp))
}

// updateTask handles PATCH /api/v1/tasks/:id. Only fields present in the
// body are changed.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Task ID is required",
		})
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	resp, err := m.taskAdapter.UpdateTask(c.Context(), &task.UpdateTaskRequest{
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toTaskResponse(resp))
}

// deleteTask handles DELETE /api/v1/tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Task ID is required",
		})
	}

	if err := m.taskAdapter.DeleteTask(c.Context(), taskID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// completeTask handles POST /api/v1/tasks/:id/complete.
func (m *APIModule) completeTask(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Task ID is required",
		})
	}

	resp, err := m.taskAdapter.CompleteTask(c.Context(), taskID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toTaskResponse(resp))
}

// taskSummary handles GET /api/v1/tasks/summary.
func (m *APIModule) taskSummary(c *fiber.Ctx) error {
	stats, err := m.taskAdapter.Summarize(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

// taskAgenda handles GET /api/v1/tasks/agenda. Both "from" and "to" are
// required YYYY-MM-DD query parameters.
func (m *APIModule) taskAgenda(c *fiber.Ctx) error {
	resp, err := m.taskAdapter.Agenda(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// exportTasks handles GET /api/v1/tasks/export and serves the full task
// list as a CSV download.
func (m *APIModule) exportTasks(c *fiber.Ctx) error {
	resp, err := m.exporterAdapter.Export(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tasks.csv"`)
	return c.SendString(resp.CSV)
}

// importTasks handles POST /api/v1/tasks/import. The request body is raw
// CSV in the export format.
func (m *APIModule) importTasks(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "CSV body is required",
		})
	}

	resp, err := m.exporterAdapter.Import(c.Context(), string(body))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}
