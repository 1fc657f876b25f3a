package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"todoboard/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// todoRow mirrors the columns selected by todoColumns.
type todoRow struct {
	ID        string
	Content   string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const todoColumns = `id, content, created_at, updated_at`

func (r *todoRow) dest() []any {
	return []any{&r.ID, &r.Content, &r.CreatedAt, &r.UpdatedAt}
}

func todoToDomain(r todoRow) entities.Todo {
	return entities.Todo{
		ID:        r.ID,
		Content:   r.Content,
		CreatedAt: pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt: pgtypeTimestamptzToTime(r.UpdatedAt),
	}
}
