package task

import (
	"context"
	"time"

	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/Mgahed/SkyloovTask/domain/task"
	"github.com/Mgahed/SkyloovTask/events"
)

// Service implements the task operations shared by the HTTP and
// request-reply transports. Validation always runs before the store is
// touched.
type Service struct {
	store     domain.Store
	validator *domain.Validator
	publisher Publisher
	logger    types.Logger
}

// NewService creates a task service. A nil publisher disables events.
func NewService(store domain.Store, validator *domain.Validator, publisher Publisher, logger types.Logger) *Service {
	return &Service{
		store:     store,
		validator: validator,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns one page of tasks matching q.
func (s *Service) List(ctx context.Context, q domain.Query) (*domain.Page, error) {
	filter, err := domain.ParseQuery(q)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, filter)
}

// Get returns a single task.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Task, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates in and persists a new task.
func (s *Service) Create(ctx context.Context, in domain.Input) (*domain.Task, error) {
	payload, err := s.validator.ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	t := domain.NewTask(payload)
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish("TaskCreated", t.ID, func(p Publisher) error {
		return p.TaskCreated(events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			DueDate:   t.DueDate.Format(domain.DateLayout),
			CreatedAt: t.CreatedAt,
		})
	})
	return t, nil
}

// Update validates the fields present in in and applies them to task id.
func (s *Service) Update(ctx context.Context, id uint, in domain.Input) (*domain.Task, error) {
	patch, err := s.validator.ValidateUpdate(in)
	if err != nil {
		return nil, err
	}

	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if !patch.Empty() {
		s.publish("TaskUpdated", t.ID, func(p Publisher) error {
			return p.TaskUpdated(events.TaskUpdatedEvent{
				TaskID:    t.ID,
				Fields:    patch.Fields(),
				Status:    string(t.Status),
				UpdatedAt: t.UpdatedAt,
			})
		})
	}
	return t, nil
}

// Delete permanently removes task id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish("TaskDeleted", id, func(p Publisher) error {
		return p.TaskDeleted(events.TaskDeletedEvent{
			TaskID:    id,
			DeletedAt: time.Now(),
		})
	})
	return nil
}

// publish is best-effort: failures are logged and never fail the operation.
func (s *Service) publish(event string, id uint, fn func(Publisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.logger.Warn("Failed to publish event", "event", event, "taskID", id, "error", err)
	}
}
