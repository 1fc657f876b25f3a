package application

import (
	"context"
	"fmt"

	"todoboard/internal/domain/entities"
	"todoboard/internal/livequery"
	"todoboard/internal/log"
	"todoboard/internal/ports/input"
	"todoboard/internal/ports/output"
)

var _ input.TodoUseCase = (*TodoService)(nil)

type TodoService struct {
	todoRepo output.TodoRepository
	hub      *livequery.Hub
}

// NewTodoService wires the repository to a live-query hub that reloads the
// whole collection on every change.
func NewTodoService(todoRepo output.TodoRepository) *TodoService {
	s := &TodoService{todoRepo: todoRepo}
	s.hub = livequery.NewHub(todoRepo.List)
	return s
}

// CreateTodo stores a new todo with content as given; nothing is validated.
// Live subscribers receive a fresh snapshot once the write succeeds.
func (s *TodoService) CreateTodo(ctx context.Context, content string) (*entities.Todo, error) {
	todo := &entities.Todo{Content: content}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	if err := s.hub.Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("todo_id", todo.ID).Msg("live query refresh after create failed")
	}
	return todo, nil
}

func (s *TodoService) ListTodos(ctx context.Context) ([]entities.Todo, error) {
	return s.todoRepo.List(ctx)
}

// ObserveTodos opens a live query over the collection. The caller owns the
// subscription and must Close it or cancel ctx.
func (s *TodoService) ObserveTodos(ctx context.Context) (*livequery.Subscription, error) {
	sub, err := s.hub.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("observe todos: %w", err)
	}
	return sub, nil
}

// RunChangeFeed refreshes subscribers whenever feed reports a change made
// outside this process. It blocks until ctx is done.
func (s *TodoService) RunChangeFeed(ctx context.Context, feed output.ChangeFeed) error {
	return feed.Listen(ctx, func() {
		if err := s.hub.Refresh(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("live query refresh after change notification failed")
		}
	})
}

// SubscriberCount reports the number of open live queries.
func (s *TodoService) SubscriberCount() int {
	return s.hub.SubscriberCount()
}

// Shutdown releases every open live query.
func (s *TodoService) Shutdown() {
	s.hub.Shutdown()
}
