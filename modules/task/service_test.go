package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Marksman247/task-manager-app/domain/task"
)

// newTestModule creates a task module backed by the in-memory store and no
// event bus, so handlers can be called directly.
func newTestModule() *Module {
	return &Module{repo: newMemoryRepository()}
}

func strPtr(s string) *string { return &s }

// mustCreate creates a task through the service handler and fails the test
// on error.
func mustCreate(t *testing.T, m *Module, req CreateTaskRequest) TaskResponse {
	t.Helper()
	resp, err := m.createTask(context.Background(), req, nil)
	require.NoError(t, err)
	return resp
}

func TestCreateTask_Success(t *testing.T) {
	m := newTestModule()

	resp, err := m.createTask(context.Background(), CreateTaskRequest{
		Title:       "Write release notes",
		Description: "Cover the storage changes",
		Priority:    "high",
		DueDate:     "2026-09-01",
	}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Write release notes", resp.Title)
	assert.Equal(t, "Cover the storage changes", resp.Description)
	assert.Equal(t, "pending", resp.Status, "status defaults to pending")
	assert.Equal(t, "high", resp.Priority)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2026-09-01", *resp.DueDate)
	assert.False(t, resp.CreatedAt.IsZero())
}

func TestCreateTask_ExplicitStatus(t *testing.T) {
	m := newTestModule()

	resp := mustCreate(t, m, CreateTaskRequest{
		Title:    "Already started",
		Status:   "in_progress",
		Priority: "medium",
	})
	assert.Equal(t, "in_progress", resp.Status)
}

func TestCreateTask_TitleIsTrimmed(t *testing.T) {
	m := newTestModule()

	resp := mustCreate(t, m, CreateTaskRequest{
		Title:    "  padded title  ",
		Priority: "low",
	})
	assert.Equal(t, "padded title", resp.Title)
}

func TestCreateTask_Validation(t *testing.T) {
	m := newTestModule()

	tests := []struct {
		name string
		req  CreateTaskRequest
	}{
		{"empty title", CreateTaskRequest{Priority: "low"}},
		{"whitespace title", CreateTaskRequest{Title: "   ", Priority: "low"}},
		{"missing priority", CreateTaskRequest{Title: "No priority"}},
		{"unknown priority", CreateTaskRequest{Title: "Bad", Priority: "urgent"}},
		{"unknown status", CreateTaskRequest{Title: "Bad", Priority: "low", Status: "archived"}},
		{"malformed due date", CreateTaskRequest{Title: "Bad", Priority: "low", DueDate: "01/09/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.createTask(context.Background(), tt.req, nil)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// Nothing slipped into the store.
	count, err := m.repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateTask_UniqueIDs(t *testing.T) {
	m := newTestModule()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		resp := mustCreate(t, m, CreateTaskRequest{Title: "Task", Priority: "low"})
		assert.False(t, seen[resp.ID], "duplicate id %s", resp.ID)
		seen[resp.ID] = true
	}
}

func TestGetTask(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{Title: "Findable", Priority: "medium"})

	resp, err := m.getTask(context.Background(), GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "Findable", resp.Title)

	_, err = m.getTask(context.Background(), GetTaskRequest{TaskID: "missing"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTask_PartialUpdate(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{
		Title:       "Original title",
		Description: "Original description",
		Priority:    "low",
		DueDate:     "2026-09-10",
	})

	resp, err := m.updateTask(context.Background(), UpdateTaskRequest{
		TaskID: created.ID,
		Title:  strPtr("New title"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "New title", resp.Title)
	// Everything else stays as created.
	assert.Equal(t, "Original description", resp.Description)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "low", resp.Priority)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2026-09-10", *resp.DueDate)
}

func TestUpdateTask_EmptyPatchIsNoOp(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{Title: "Stable", Priority: "medium"})

	resp, err := m.updateTask(context.Background(), UpdateTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Title, resp.Title)
	assert.Equal(t, created.Status, resp.Status)
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{
		Title:    "Dated",
		Priority: "medium",
		DueDate:  "2026-09-10",
	})

	resp, err := m.updateTask(context.Background(), UpdateTaskRequest{
		TaskID:  created.ID,
		DueDate: strPtr(""),
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.DueDate)
}

func TestUpdateTask_StatusTransitionsAreUnconstrained(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{
		Title:    "Reopenable",
		Priority: "high",
		Status:   "done",
	})

	// done -> pending is allowed; the store imposes no transition graph.
	resp, err := m.updateTask(context.Background(), UpdateTaskRequest{
		TaskID: created.ID,
		Status: strPtr("pending"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestUpdateTask_Validation(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{Title: "Guarded", Priority: "low"})

	tests := []struct {
		name string
		req  UpdateTaskRequest
	}{
		{"blank title", UpdateTaskRequest{TaskID: created.ID, Title: strPtr("  ")}},
		{"unknown status", UpdateTaskRequest{TaskID: created.ID, Status: strPtr("paused")}},
		{"unknown priority", UpdateTaskRequest{TaskID: created.ID, Priority: strPtr("urgent")}},
		{"malformed due date", UpdateTaskRequest{TaskID: created.ID, DueDate: strPtr("next week")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.updateTask(context.Background(), tt.req, nil)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// A failed update leaves the task untouched.
	resp, err := m.getTask(context.Background(), GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Guarded", resp.Title)
	assert.Equal(t, "pending", resp.Status)
}

func TestUpdateTask_NotFound(t *testing.T) {
	m := newTestModule()

	_, err := m.updateTask(context.Background(), UpdateTaskRequest{
		TaskID: "missing",
		Title:  strPtr("whatever"),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{Title: "Doomed", Priority: "low"})

	resp, err := m.deleteTask(context.Background(), DeleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	_, err = m.getTask(context.Background(), GetTaskRequest{TaskID: created.ID}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again reports not found.
	_, err = m.deleteTask(context.Background(), DeleteTaskRequest{TaskID: created.ID}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTasks_InsertionOrder(t *testing.T) {
	m := newTestModule()

	titles := []string{"one", "two", "three"}
	for _, title := range titles {
		mustCreate(t, m, CreateTaskRequest{Title: title, Priority: "low"})
	}

	resp, err := m.listTasks(context.Background(), ListTasksRequest{}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)
	for i, want := range titles {
		assert.Equal(t, want, resp.Tasks[i].Title)
	}
}

func TestFilterTasks(t *testing.T) {
	m := newTestModule()

	mustCreate(t, m, CreateTaskRequest{Title: "Pay invoice", Priority: "high", DueDate: "2026-09-01"})
	mustCreate(t, m, CreateTaskRequest{Title: "Send invoice reminder", Priority: "low", DueDate: "2026-09-05"})
	mustCreate(t, m, CreateTaskRequest{Title: "Book flights", Priority: "high", Status: "done"})

	t.Run("by status and priority", func(t *testing.T) {
		resp, err := m.filterTasks(context.Background(), FilterTasksRequest{
			Status:   "pending",
			Priority: "high",
		}, nil)
		require.NoError(t, err)
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "Pay invoice", resp.Tasks[0].Title)
	})

	t.Run("text search is case-insensitive", func(t *testing.T) {
		resp, err := m.filterTasks(context.Background(), FilterTasksRequest{
			TextSearch: "INVOICE",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("due date window is inclusive", func(t *testing.T) {
		resp, err := m.filterTasks(context.Background(), FilterTasksRequest{
			DueAfter:  "2026-09-01",
			DueBefore: "2026-09-05",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("empty filter returns everything in order", func(t *testing.T) {
		resp, err := m.filterTasks(context.Background(), FilterTasksRequest{}, nil)
		require.NoError(t, err)
		require.Equal(t, 3, resp.Total)
		assert.Equal(t, "Pay invoice", resp.Tasks[0].Title)
		assert.Equal(t, "Book flights", resp.Tasks[2].Title)
	})

	t.Run("sort by priority", func(t *testing.T) {
		resp, err := m.filterTasks(context.Background(), FilterTasksRequest{
			SortBy: "priority",
		}, nil)
		require.NoError(t, err)
		require.Equal(t, 3, resp.Total)
		assert.Equal(t, "high", resp.Tasks[0].Priority)
		assert.Equal(t, "high", resp.Tasks[1].Priority)
		assert.Equal(t, "low", resp.Tasks[2].Priority)
	})

	t.Run("invalid sort key", func(t *testing.T) {
		_, err := m.filterTasks(context.Background(), FilterTasksRequest{
			SortBy: "title",
		}, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("invalid date bound", func(t *testing.T) {
		_, err := m.filterTasks(context.Background(), FilterTasksRequest{
			DueAfter: "soon",
		}, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestSummarizeTasks(t *testing.T) {
	m := newTestModule()

	t.Run("empty store", func(t *testing.T) {
		stats, err := m.summarizeTasks(context.Background(), SummarizeTasksRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, float64(0), stats.CompletionPercentage)
	})

	mustCreate(t, m, CreateTaskRequest{Title: "a", Priority: "low", Status: "done"})
	mustCreate(t, m, CreateTaskRequest{Title: "b", Priority: "medium", Status: "done"})
	mustCreate(t, m, CreateTaskRequest{Title: "c", Priority: "high", Status: "pending"})

	t.Run("two of three done", func(t *testing.T) {
		stats, err := m.summarizeTasks(context.Background(), SummarizeTasksRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 2, stats.Done)
		assert.Equal(t, 1, stats.Pending)
		assert.Equal(t, 66.67, stats.CompletionPercentage)
		assert.Equal(t, 1, stats.LowPriority)
		assert.Equal(t, 1, stats.MediumPriority)
		assert.Equal(t, 1, stats.HighPriority)
	})
}

func TestAgendaTasks(t *testing.T) {
	m := newTestModule()

	mustCreate(t, m, CreateTaskRequest{Title: "Monday standup", Priority: "low", DueDate: "2026-09-07"})
	mustCreate(t, m, CreateTaskRequest{Title: "Monday review", Priority: "high", DueDate: "2026-09-07"})
	mustCreate(t, m, CreateTaskRequest{Title: "Friday retro", Priority: "medium", DueDate: "2026-09-11"})
	mustCreate(t, m, CreateTaskRequest{Title: "Undated", Priority: "low"})

	t.Run("groups by day ascending", func(t *testing.T) {
		resp, err := m.agendaTasks(context.Background(), AgendaRequest{
			From: "2026-09-07",
			To:   "2026-09-13",
		}, nil)
		require.NoError(t, err)
		require.Len(t, resp.Days, 2)

		assert.Equal(t, "2026-09-07", resp.Days[0].Date)
		require.Len(t, resp.Days[0].Tasks, 2)
		assert.Equal(t, "Monday standup", resp.Days[0].Tasks[0].Title)
		assert.Equal(t, "Monday review", resp.Days[0].Tasks[1].Title)

		assert.Equal(t, "2026-09-11", resp.Days[1].Date)
	})

	t.Run("missing bounds", func(t *testing.T) {
		_, err := m.agendaTasks(context.Background(), AgendaRequest{To: "2026-09-13"}, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))

		_, err = m.agendaTasks(context.Background(), AgendaRequest{From: "2026-09-07"}, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := m.agendaTasks(context.Background(), AgendaRequest{
			From: "2026-09-13",
			To:   "2026-09-07",
		}, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestCompleteTask(t *testing.T) {
	m := newTestModule()

	created := mustCreate(t, m, CreateTaskRequest{Title: "Finish me", Priority: "medium"})

	resp, err := m.completeTask(context.Background(), CompleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Status)

	// Completing an already-done task is harmless.
	resp, err = m.completeTask(context.Background(), CompleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Status)

	_, err = m.completeTask(context.Background(), CompleteTaskRequest{TaskID: "missing"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
