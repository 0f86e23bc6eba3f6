package task

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository provides database operations for tasks.
type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Task{})
}

// Create saves a new task and assigns its id.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	t.DueDate = Day(t.DueDate)
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*Task, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var t Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Update overwrites the supplied fields of an existing task.
func (r *Repository) Update(ctx context.Context, id uint, p Patch) (*Task, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var t Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		if p.Empty() {
			return nil
		}
		p.Apply(&t)
		t.DueDate = Day(t.DueDate)
		return tx.Save(&t).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &t, nil
}

// Delete permanently removes a task.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	result := r.db.WithContext(ctx).Delete(&Task{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of tasks matching f, ordered by due date then id.
// The total count and the page rows are fetched concurrently.
func (r *Repository) List(ctx context.Context, f Filter) (*Page, error) {
	f = f.normalize()

	var total int64
	tasks := make([]*Task, 0, PageSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.filtered(gctx, f).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.filtered(gctx, f).
			Order("due_date ASC").
			Order("id ASC").
			Offset(f.Offset()).
			Limit(PageSize).
			Find(&tasks).Error
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page{
		Tasks:       tasks,
		Total:       total,
		CurrentPage: f.Page,
		PerPage:     PageSize,
	}, nil
}

// Ping checks the underlying database connection.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) filtered(ctx context.Context, f Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&Task{}).Scopes(f.Scopes()...)
}
