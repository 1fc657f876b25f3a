package input

import (
	"context"

	"todoboard/internal/domain/entities"
	"todoboard/internal/livequery"
)

type TodoUseCase interface {
	CreateTodo(ctx context.Context, content string) (*entities.Todo, error)
	ListTodos(ctx context.Context) ([]entities.Todo, error)
	ObserveTodos(ctx context.Context) (*livequery.Subscription, error)
}
