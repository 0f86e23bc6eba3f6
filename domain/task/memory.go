package task

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps tasks in process memory. It mirrors Repository
// semantics and backs the "memory" database driver and handler tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[uint]*Task
	nextID uint
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[uint]*Task),
		nextID: 1,
		now:    time.Now,
	}
}

// Create stores a copy of t and assigns its id.
func (s *MemoryStore) Create(_ context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t.ID = s.nextID
	t.DueDate = Day(t.DueDate)
	t.CreatedAt = now
	t.UpdatedAt = now
	s.nextID++

	stored := *t
	s.tasks[t.ID] = &stored
	return nil
}

// FindByID returns a copy of the task with the given id.
func (s *MemoryStore) FindByID(_ context.Context, id uint) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

// Update overwrites the supplied fields of an existing task.
func (s *MemoryStore) Update(_ context.Context, id uint, p Patch) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !p.Empty() {
		p.Apply(t)
		t.DueDate = Day(t.DueDate)
		t.UpdatedAt = s.now()
	}
	out := *t
	return &out, nil
}

// Delete permanently removes a task.
func (s *MemoryStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// List returns one page of tasks matching f, ordered by due date then id.
func (s *MemoryStore) List(_ context.Context, f Filter) (*Page, error) {
	f = f.normalize()

	s.mu.RLock()
	matched := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out := *t
			matched = append(matched, &out)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DueDate.Equal(matched[j].DueDate) {
			return matched[i].DueDate.Before(matched[j].DueDate)
		}
		return matched[i].ID < matched[j].ID
	})

	page := &Page{
		Tasks:       []*Task{},
		Total:       int64(len(matched)),
		CurrentPage: f.Page,
		PerPage:     PageSize,
	}
	start := f.Offset()
	if start >= 0 && start < len(matched) {
		end := min(start+PageSize, len(matched))
		page.Tasks = matched[start:end]
	}
	return page, nil
}
