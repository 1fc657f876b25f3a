package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"todoboard/internal/domain/entities"
	"todoboard/internal/ports/output"
)

var _ output.TodoRepository = (*TodoRepository)(nil)

// TodoRepository implements output.TodoRepository on PostgreSQL.
type TodoRepository struct {
	db *pgxpool.Pool
}

// NewTodoRepository creates a TodoRepository.
func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *entities.Todo) error {
	query := `
		INSERT INTO todos (id, content)
		VALUES ($1, $2)
		RETURNING ` + todoColumns
	var row todoRow
	if err := r.db.QueryRow(ctx, query, uuid.NewString(), todo.Content).Scan(row.dest()...); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	*todo = todoToDomain(row)
	return nil
}

func (r *TodoRepository) List(ctx context.Context) ([]entities.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := []entities.Todo{}
	for rows.Next() {
		var row todoRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, todoToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return out, nil
}
