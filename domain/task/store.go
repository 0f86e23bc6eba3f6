package task

import "context"

// Store persists tasks. Implementations return ErrNotFound for ids that do
// not name a task.
type Store interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id uint) (*Task, error)
	Update(ctx context.Context, id uint, p Patch) (*Task, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f Filter) (*Page, error)
}

// NewTask builds an unsaved Task from a validated payload.
func NewTask(p *Payload) *Task {
	return &Task{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		DueDate:     Day(p.DueDate),
	}
}
