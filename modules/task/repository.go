package task

import (
	"sync"
	"time"

	domain "github.com/Marksman247/task-manager-app/domain/task"
)

// Patch describes a partial task update. Nil fields are left untouched.
// ClearDue removes the due date; it wins over DueDate when both are set.
type Patch struct {
	Title       *string
	Description *string
	Status      *domain.Status
	Priority    *domain.Priority
	DueDate     *time.Time
	ClearDue    bool
}

// isEmpty reports whether the patch changes nothing.
func (p Patch) isEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDue
}

// fields returns the names of the fields the patch sets.
func (p Patch) fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.Priority != nil {
		fields = append(fields, "priority")
	}
	if p.DueDate != nil || p.ClearDue {
		fields = append(fields, "due_date")
	}
	return fields
}

// apply merges the patch into t. Values must already be validated.
func (p Patch) apply(t *domain.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
}

// Repository is the storage port for tasks. Implementations preserve
// insertion order in FindAll and hand out copies, never aliases into their
// own state. Unknown ids surface as domain.ErrNotFound.
type Repository interface {
	Create(t *domain.Task) error
	FindByID(id string) (*domain.Task, error)
	Update(id string, patch Patch) (*domain.Task, error)
	Delete(id string) error
	FindAll() ([]*domain.Task, error)
	Count() (int, error)
}

// memoryRepository stores tasks in memory. A single RWMutex guards every
// operation; patch merges happen inside the write lock so concurrent
// updates cannot interleave.
type memoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	order []string
}

var _ Repository = (*memoryRepository)(nil)

// newMemoryRepository creates an empty in-memory task store.
func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		tasks: make(map[string]*domain.Task),
	}
}

// Create saves a new task. The id must not already exist.
func (r *memoryRepository) Create(t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[t.ID]; exists {
		return &domain.ValidationError{Field: "id", Reason: "already exists"}
	}
	r.tasks[t.ID] = t.Clone()
	r.order = append(r.order, t.ID)
	return nil
}

// FindByID returns a copy of the task with the given id.
func (r *memoryRepository) FindByID(id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, found := r.tasks[id]
	if !found {
		return nil, domain.ErrNotFound
	}
	return t.Clone(), nil
}

// Update merges the patch into the stored task and returns the new state.
func (r *memoryRepository) Update(id string, patch Patch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, found := r.tasks[id]
	if !found {
		return nil, domain.ErrNotFound
	}
	patch.apply(t)
	return t.Clone(), nil
}

// Delete removes the task with the given id.
func (r *memoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.tasks[id]; !found {
		return domain.ErrNotFound
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindAll returns copies of all tasks in insertion order.
func (r *memoryRepository) FindAll() ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Task, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.tasks[id].Clone())
	}
	return result, nil
}

// Count returns the number of stored tasks.
func (r *memoryRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tasks), nil
}
