package task

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/Marksman247/task-manager-app/domain/task"
)

func newTestTask(title string) *domain.Task {
	return &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryRepository_Create(t *testing.T) {
	repo := newMemoryRepository()

	task := newTestTask("Buy groceries")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != task.Title {
		t.Errorf("expected title %q, got %q", task.Title, found.Title)
	}

	t.Run("duplicate id", func(t *testing.T) {
		err := repo.Create(task)
		if err == nil {
			t.Fatal("expected error for duplicate id, got nil")
		}
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected *domain.ValidationError, got %T", err)
		}
	})
}

func TestMemoryRepository_FindByID(t *testing.T) {
	repo := newMemoryRepository()

	task := newTestTask("Water plants")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != task.ID {
			t.Errorf("expected ID %q, got %q", task.ID, found.ID)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindByID("non-existent-id")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returned task is a copy", func(t *testing.T) {
		first, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		first.Title = "Mutated"

		second, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if second.Title != "Water plants" {
			t.Errorf("mutation leaked into the store: title = %q", second.Title)
		}
	})
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := newMemoryRepository()

	task := newTestTask("Draft proposal")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("update existing task", func(t *testing.T) {
		title := "Draft final proposal"
		status := domain.StatusInProgress

		updated, err := repo.Update(task.ID, Patch{Title: &title, Status: &status})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Title != title {
			t.Errorf("expected title %q, got %q", title, updated.Title)
		}
		if updated.Status != status {
			t.Errorf("expected status %q, got %q", status, updated.Status)
		}
		// Untouched fields survive.
		if updated.Priority != domain.PriorityMedium {
			t.Errorf("priority changed unexpectedly: %q", updated.Priority)
		}
	})

	t.Run("set and clear due date", func(t *testing.T) {
		due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		updated, err := repo.Update(task.ID, Patch{DueDate: &due})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.DueDate == nil || !updated.DueDate.Equal(due) {
			t.Fatalf("expected due date %v, got %v", due, updated.DueDate)
		}

		updated, err = repo.Update(task.ID, Patch{ClearDue: true})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.DueDate != nil {
			t.Errorf("expected due date cleared, got %v", updated.DueDate)
		}
	})

	t.Run("update non-existent task", func(t *testing.T) {
		title := "Should not work"
		_, err := repo.Update("non-existent-id", Patch{Title: &title})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := newMemoryRepository()

	task := newTestTask("To be deleted")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("delete existing task", func(t *testing.T) {
		if err := repo.Delete(task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		_, err := repo.FindByID(task.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		err := repo.Delete("non-existent-id")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryRepository_FindAll_InsertionOrder(t *testing.T) {
	repo := newMemoryRepository()

	titles := []string{"first", "second", "third", "fourth"}
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		task := newTestTask(title)
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, task.ID)
	}

	// Deleting from the middle must not disturb the remaining order.
	if err := repo.Delete(ids[1]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	wantTitles := []string{"first", "third", "fourth"}
	if len(all) != len(wantTitles) {
		t.Fatalf("FindAll() returned %d tasks, want %d", len(all), len(wantTitles))
	}
	for i, want := range wantTitles {
		if all[i].Title != want {
			t.Errorf("FindAll()[%d].Title = %q, want %q", i, all[i].Title, want)
		}
	}
}

func TestMemoryRepository_Count(t *testing.T) {
	repo := newMemoryRepository()

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	for i := 0; i < 3; i++ {
		if err := repo.Create(newTestTask("task")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	count, err = repo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestMemoryRepository_CreateStoresCopy(t *testing.T) {
	repo := newMemoryRepository()

	task := newTestTask("Original")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Mutating the caller's task after Create must not affect the store.
	task.Title = "Mutated"

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Original" {
		t.Errorf("store aliased caller memory: title = %q", found.Title)
	}
}
