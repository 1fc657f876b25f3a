package output

import (
	"context"

	"todoboard/internal/domain/entities"
)

// TodoRepository persists the todo collection. List returns items in
// creation order.
type TodoRepository interface {
	Create(ctx context.Context, todo *entities.Todo) error
	List(ctx context.Context) ([]entities.Todo, error)
}
