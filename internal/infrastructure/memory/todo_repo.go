// Package memory keeps the todo collection in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"todoboard/internal/domain/entities"
	"todoboard/internal/ports/output"
)

var _ output.TodoRepository = (*TodoRepository)(nil)

// TodoRepository implements output.TodoRepository in memory.
type TodoRepository struct {
	mu    sync.RWMutex
	items []entities.Todo
	// Err, when set, is returned by every call.
	Err error
}

// NewTodoRepository returns an empty TodoRepository.
func NewTodoRepository() *TodoRepository {
	return &TodoRepository{}
}

func (r *TodoRepository) Create(ctx context.Context, todo *entities.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	now := time.Now().UTC()
	todo.ID = uuid.NewString()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.items = append(r.items, *todo)
	return nil
}

func (r *TodoRepository) List(ctx context.Context) ([]entities.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]entities.Todo, len(r.items))
	copy(out, r.items)
	return out, nil
}
