package task

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/Marksman247/task-manager-app/domain/task"
	"gorm.io/gorm"
)

// taskRecord is the GORM persistence model for a task. Seq is an
// auto-increment key that preserves insertion order across restarts; the
// public task id lives in its own unique column. Deletes are hard deletes,
// the store keeps no tombstones.
type taskRecord struct {
	Seq         uint       `gorm:"primaryKey;autoIncrement"`
	ID          string     `gorm:"uniqueIndex;size:36;not null"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:1000"`
	Status      string     `gorm:"size:20;not null;index"`
	Priority    string     `gorm:"size:10;not null;index"`
	DueDate     *time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// TableName returns the table name for the task model.
func (taskRecord) TableName() string {
	return "tasks"
}

func (rec *taskRecord) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      domain.Status(rec.Status),
		Priority:    domain.Priority(rec.Priority),
		CreatedAt:   rec.CreatedAt,
	}
	if rec.DueDate != nil {
		d := rec.DueDate.UTC()
		t.DueDate = &d
	}
	return t
}

func toRecord(t *domain.Task) *taskRecord {
	rec := &taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
	}
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		rec.DueDate = &d
	}
	return rec
}

// columns translates the patch into a GORM update map. A map update is
// required so nil due dates become SQL NULL instead of being skipped.
func (p Patch) columns() map[string]any {
	cols := make(map[string]any)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Priority != nil {
		cols["priority"] = string(*p.Priority)
	}
	if p.ClearDue {
		cols["due_date"] = nil
	} else if p.DueDate != nil {
		cols["due_date"] = p.DueDate.UTC()
	}
	return cols
}

// gormRepository stores tasks in SQLite via GORM. The database serializes
// writers, which satisfies the single-lock discipline the store requires.
type gormRepository struct {
	db *gorm.DB
}

var _ Repository = (*gormRepository)(nil)

// newGormRepository creates a task repository backed by db.
func newGormRepository(db *gorm.DB) *gormRepository {
	return &gormRepository{db: db}
}

// Create saves a new task to the database.
func (r *gormRepository) Create(t *domain.Task) error {
	if err := r.db.Create(toRecord(t)).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its public id.
func (r *gormRepository) FindByID(id string) (*domain.Task, error) {
	var rec taskRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return rec.toDomain(), nil
}

// Update applies the patch to the stored task and returns the new state.
func (r *gormRepository) Update(id string, patch Patch) (*domain.Task, error) {
	var rec taskRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	cols := patch.columns()
	if len(cols) == 0 {
		return rec.toDomain(), nil
	}

	result := r.db.Model(&taskRecord{}).Where("id = ?", id).Updates(cols)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var updated taskRecord
	if err := r.db.First(&updated, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return updated.toDomain(), nil
}

// Delete removes a task by id.
func (r *gormRepository) Delete(id string) error {
	result := r.db.Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindAll retrieves all tasks in insertion order.
func (r *gormRepository) FindAll() ([]*domain.Task, error) {
	var records []taskRecord
	if err := r.db.Order("seq ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, records[i].toDomain())
	}
	return tasks, nil
}

// Count returns the number of stored tasks.
func (r *gormRepository) Count() (int, error) {
	var count int64
	if err := r.db.Model(&taskRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(count), nil
}
