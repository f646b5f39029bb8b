package task

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/Marksman247/task-manager-app/domain/task"
	"github.com/Marksman247/task-manager-app/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// createTask handles the create service request.
func (m *Module) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return TaskResponse{}, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	priority, err := parsePriority(req.Priority)
	if err != nil {
		return TaskResponse{}, err
	}

	status := domain.StatusPending
	if req.Status != "" {
		if status, err = parseStatus(req.Status); err != nil {
			return TaskResponse{}, err
		}
	}

	var due *time.Time
	if req.DueDate != "" {
		d, err := domain.ParseDate("due_date", req.DueDate)
		if err != nil {
			return TaskResponse{}, err
		}
		due = &d
	}

	newTask := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   time.Now().UTC(),
	}

	if err := m.repo.Create(newTask); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Title:     newTask.Title,
			Priority:  string(newTask.Priority),
			DueDate:   newTask.DueDate,
			CreatedAt: newTask.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", newTask.ID, err)
		}
	}

	return toTaskResponse(newTask), nil
}

// getTask handles the get service request.
func (m *Module) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// updateTask handles the update service request. Only the fields supplied
// in the request change; an empty patch returns the task unchanged and
// emits nothing.
func (m *Module) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	prior, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}

	patch, err := patchFromRequest(&req)
	if err != nil {
		return TaskResponse{}, err
	}
	if patch.isEmpty() {
		return toTaskResponse(prior), nil
	}

	updated, err := m.repo.Update(req.TaskID, patch)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		now := time.Now().UTC()
		event := events.TaskUpdatedEvent{
			TaskID:    updated.ID,
			Title:     updated.Title,
			Fields:    patch.fields(),
			UpdatedAt: now,
		}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", updated.ID, err)
		}
		if prior.Status != domain.StatusDone && updated.Status == domain.StatusDone {
			completed := events.TaskCompletedEvent{
				TaskID:      updated.ID,
				Title:       updated.Title,
				CompletedAt: now,
			}
			if err := events.TaskCompletedV1.Publish(m.eventBus, completed, nil); err != nil {
				log.Printf("[task] Warning: failed to publish TaskCompleted event for task %s: %v", updated.ID, err)
			}
		}
	}

	return toTaskResponse(updated), nil
}

// deleteTask handles the delete service request.
func (m *Module) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	t, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	if err := m.repo.Delete(req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			DeletedAt: time.Now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", t.ID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

// listTasks handles the list service request. Tasks come back in insertion
// order.
func (m *Module) listTasks(_ context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.repo.FindAll()
	if err != nil {
		return ListTasksResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return toListResponse(tasks), nil
}

// filterTasks handles the filter service request. The filter is stable:
// matching tasks keep their insertion order unless a sort key is supplied.
func (m *Module) filterTasks(_ context.Context, req FilterTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	filter, sortBy, err := filterFromRequest(&req)
	if err != nil {
		return ListTasksResponse{}, err
	}

	tasks, err := m.repo.FindAll()
	if err != nil {
		return ListTasksResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	matched := domain.ApplyFilter(tasks, filter)
	matched = domain.SortTasks(matched, sortBy)
	return toListResponse(matched), nil
}

// summarizeTasks handles the summarize service request.
func (m *Module) summarizeTasks(_ context.Context, _ SummarizeTasksRequest, _ *mono.Msg) (domain.Stats, error) {
	tasks, err := m.repo.FindAll()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return domain.Summarize(tasks, time.Now().UTC()), nil
}

// agendaTasks handles the agenda service request: tasks grouped by due day
// within an inclusive date window.
func (m *Module) agendaTasks(_ context.Context, req AgendaRequest, _ *mono.Msg) (AgendaResponse, error) {
	if req.From == "" {
		return AgendaResponse{}, &domain.ValidationError{Field: "from", Reason: "is required"}
	}
	if req.To == "" {
		return AgendaResponse{}, &domain.ValidationError{Field: "to", Reason: "is required"}
	}

	from, err := domain.ParseDate("from", req.From)
	if err != nil {
		return AgendaResponse{}, err
	}
	to, err := domain.ParseDate("to", req.To)
	if err != nil {
		return AgendaResponse{}, err
	}
	if from.After(to) {
		return AgendaResponse{}, &domain.ValidationError{Field: "from", Reason: "must not be after to"}
	}

	tasks, err := m.repo.FindAll()
	if err != nil {
		return AgendaResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	days := domain.GroupByDay(tasks, from, to)
	resp := AgendaResponse{Days: make([]AgendaDayResponse, 0, len(days))}
	for _, day := range days {
		dayResp := AgendaDayResponse{
			Date:  day.Date.Format(domain.DateLayout),
			Tasks: make([]TaskResponse, 0, len(day.Tasks)),
		}
		for _, t := range day.Tasks {
			dayResp.Tasks = append(dayResp.Tasks, toTaskResponse(t))
		}
		resp.Days = append(resp.Days, dayResp)
	}
	return resp, nil
}

// completeTask handles the complete service request, a shortcut for
// updating the status to done.
func (m *Module) completeTask(_ context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	prior, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}

	done := domain.StatusDone
	updated, err := m.repo.Update(req.TaskID, Patch{Status: &done})
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil && prior.Status != domain.StatusDone {
		event := events.TaskCompletedEvent{
			TaskID:      updated.ID,
			Title:       updated.Title,
			CompletedAt: time.Now().UTC(),
		}
		if err := events.TaskCompletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCompleted event for task %s: %v", updated.ID, err)
		}
	}

	return toTaskResponse(updated), nil
}

// parseStatus validates a wire status value.
func parseStatus(s string) (domain.Status, error) {
	status := domain.Status(s)
	if !status.IsValid() {
		return "", &domain.ValidationError{Field: "status", Reason: "must be one of pending, in_progress, done"}
	}
	return status, nil
}

// parsePriority validates a wire priority value.
func parsePriority(s string) (domain.Priority, error) {
	priority := domain.Priority(s)
	if !priority.IsValid() {
		return "", &domain.ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return priority, nil
}

// patchFromRequest validates the supplied fields and builds the repository
// patch. An empty due date string clears the due date.
func patchFromRequest(req *UpdateTaskRequest) (Patch, error) {
	var patch Patch

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return Patch{}, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		patch.Title = &title
	}
	if req.Description != nil {
		patch.Description = req.Description
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return Patch{}, err
		}
		patch.Status = &status
	}
	if req.Priority != nil {
		priority, err := parsePriority(*req.Priority)
		if err != nil {
			return Patch{}, err
		}
		patch.Priority = &priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDue = true
		} else {
			d, err := domain.ParseDate("due_date", *req.DueDate)
			if err != nil {
				return Patch{}, err
			}
			patch.DueDate = &d
		}
	}

	return patch, nil
}

// filterFromRequest validates the wire filter and converts it to the
// domain filter plus sort key.
func filterFromRequest(req *FilterTasksRequest) (domain.Filter, domain.SortBy, error) {
	var filter domain.Filter

	if req.Status != "" {
		status, err := parseStatus(req.Status)
		if err != nil {
			return domain.Filter{}, domain.SortNone, err
		}
		filter.Status = &status
	}
	if req.Priority != "" {
		priority, err := parsePriority(req.Priority)
		if err != nil {
			return domain.Filter{}, domain.SortNone, err
		}
		filter.Priority = &priority
	}
	if req.DueAfter != "" {
		d, err := domain.ParseDate("due_after", req.DueAfter)
		if err != nil {
			return domain.Filter{}, domain.SortNone, err
		}
		filter.DueAfter = &d
	}
	if req.DueBefore != "" {
		d, err := domain.ParseDate("due_before", req.DueBefore)
		if err != nil {
			return domain.Filter{}, domain.SortNone, err
		}
		filter.DueBefore = &d
	}
	filter.TextSearch = req.TextSearch

	sortBy := domain.SortBy(req.SortBy)
	if !sortBy.IsValid() {
		return domain.Filter{}, domain.SortNone, &domain.ValidationError{Field: "sort_by", Reason: "must be one of due_date, priority, created_at"}
	}

	return filter, sortBy, nil
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(domain.DateLayout)
		resp.DueDate = &due
	}
	return resp
}

// toListResponse converts a task slice to the list response.
func toListResponse(tasks []*domain.Task) ListTasksResponse {
	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}
	return resp
}
