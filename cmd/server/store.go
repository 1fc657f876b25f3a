package main

import (
	"context"
	"fmt"

	"todoboard/internal/config"
	"todoboard/internal/infrastructure/database"
	"todoboard/internal/infrastructure/memory"
	"todoboard/internal/infrastructure/sqlite"
	"todoboard/internal/log"
	"todoboard/internal/ports/output"
)

type store struct {
	repo  output.TodoRepository
	// feed is nil when no other process can write the collection.
	feed  output.ChangeFeed
	close func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreKind {
	case config.StorePostgres:
		if cfg.Migrations {
			if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:  database.NewTodoRepository(pool),
			feed:  database.NewListener(pool),
			close: pool.Close,
		}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.Migrations {
			if err := sqlite.RunMigrations(db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &store{
			repo:  sqlite.NewTodoRepository(db),
			close: func() {
				if err := db.Close(); err != nil {
					log.Warn().Err(err).Msg("close sqlite")
				}
			},
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("using in-memory store; todos are lost on restart")
		return &store{repo: memory.NewTodoRepository(), close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.StoreKind)
	}
}
