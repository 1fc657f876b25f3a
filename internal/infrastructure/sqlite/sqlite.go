// Package sqlite stores the todo collection in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"todoboard/internal/domain/entities"
	"todoboard/internal/log"
	"todoboard/internal/ports/output"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const timeLayout = time.RFC3339Nano

// Open opens (creating if needed) the database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	log.Info().Str("path", path).Msg("sqlite opened")
	return db, nil
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("sqlite migrations applied")
	return nil
}

var _ output.TodoRepository = (*TodoRepository)(nil)

// TodoRepository implements output.TodoRepository on SQLite.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a TodoRepository.
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *entities.Todo) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, content, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, todo.Content, now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	todo.ID = id
	todo.CreatedAt = now
	todo.UpdatedAt = now
	return nil
}

func (r *TodoRepository) List(ctx context.Context) ([]entities.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, content, created_at, updated_at FROM todos ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := []entities.Todo{}
	for rows.Next() {
		var (
			t                entities.Todo
			created, updated string
		)
		if err := rows.Scan(&t.ID, &t.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		t.CreatedAt, _ = time.Parse(timeLayout, created)
		t.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return out, nil
}
